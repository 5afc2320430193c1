package dashboard

import (
	"time"

	"clinic-booking/middleware"
	appointmentModel "clinic-booking/models/appointment"
	patientModel "clinic-booking/models/patient"
	userModel "clinic-booking/models/user"
	"clinic-booking/types"
	"clinic-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DashboardController serves the landing page aggregates.
type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// Stats returns the headline counters.
func (dc *DashboardController) Stats(c *fiber.Ctx) error {
	today := time.Now().Format(utils.DateLayout)

	var totalPacientes int64
	if err := dc.DB.Model(&patientModel.Patient{}).Count(&totalPacientes).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var totalCitas int64
	if err := dc.DB.Model(&appointmentModel.Appointment{}).Count(&totalCitas).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var citasHoy int64
	if err := dc.DB.Model(&appointmentModel.Appointment{}).
		Where("fecha = ?", today).Count(&citasHoy).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var pendientes int64
	if err := dc.DB.Model(&appointmentModel.Appointment{}).
		Joins("JOIN estados_cita ON estados_cita.id = citas.estado_id").
		Where("estados_cita.nombre = ?", appointmentModel.StatusPending).
		Count(&pendientes).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var medicosActivos int64
	if err := dc.DB.Model(&userModel.User{}).
		Where("rol_id = ? AND activo = ?", userModel.RoleDoctor, true).
		Count(&medicosActivos).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Estadísticas del día",
		Status:  fiber.StatusOK,
		Data: fiber.Map{
			"total_pacientes": totalPacientes,
			"total_citas":     totalCitas,
			"citas_hoy":       citasHoy,
			"pendientes":      pendientes,
			"medicos_activos": medicosActivos,
		},
	})
}

// Proximas lists upcoming citas. Doctors see only their own schedule.
func (dc *DashboardController) Proximas(c *fiber.Ctx) error {
	today := time.Now().Format(utils.DateLayout)
	limit := c.QueryInt("limite", 10)
	if limit < 1 || limit > 50 {
		limit = 10
	}

	query := dc.DB.
		Joins("JOIN estados_cita ON estados_cita.id = citas.estado_id").
		Where("citas.fecha >= ?", today).
		Where("estados_cita.nombre IN ?", []string{
			appointmentModel.StatusPending,
			appointmentModel.StatusConfirmed,
		})

	if middleware.CurrentUserRole(c) == userModel.RoleDoctor {
		query = query.Where("citas.doctor_id = ?", middleware.CurrentUserID(c))
	}

	var citas []appointmentModel.Appointment
	if err := query.
		Preload("Paciente.Person").
		Preload("Estado").
		Preload("Area").
		Preload("Doctor.Person").
		Preload("Horario").
		Order("citas.fecha ASC, citas.fecha_registro ASC").
		Limit(limit).
		Find(&citas).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Próximas citas",
		Status:  fiber.StatusOK,
		Data:    citas,
	})
}

// PorEspecialidad counts today's citas grouped by area.
func (dc *DashboardController) PorEspecialidad(c *fiber.Ctx) error {
	today := time.Now().Format(utils.DateLayout)

	type areaCount struct {
		Area  string `json:"area"`
		Total int64  `json:"total"`
	}
	var counts []areaCount
	if err := dc.DB.Table("citas").
		Select("COALESCE(areas.nombre, 'Sin área') AS area, COUNT(*) AS total").
		Joins("LEFT JOIN areas ON areas.id = citas.area_id").
		Where("citas.fecha = ?", today).
		Group("areas.nombre").
		Order("total DESC").
		Scan(&counts).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Citas por especialidad hoy",
		Status:  fiber.StatusOK,
		Data:    counts,
	})
}
