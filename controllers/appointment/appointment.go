package appointment

import (
	"errors"
	"fmt"
	"strings"

	"clinic-booking/logger"
	"clinic-booking/middleware"
	appointmentModel "clinic-booking/models/appointment"
	bookingService "clinic-booking/services/booking"
	"clinic-booking/types"
	appointmentTypes "clinic-booking/types/appointment"
	"clinic-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AppointmentController handles the cita lifecycle over HTTP.
type AppointmentController struct {
	DB      *gorm.DB
	Booking *bookingService.Service
	Logger  *logger.AsyncLogger
}

func NewAppointmentController(db *gorm.DB, booking *bookingService.Service, asyncLogger *logger.AsyncLogger) *AppointmentController {
	return &AppointmentController{DB: db, Booking: booking, Logger: asyncLogger}
}

func currentUserIDPtr(c *fiber.Ctx) *uint {
	if id := middleware.CurrentUserID(c); id != 0 {
		return &id
	}
	return nil
}

// Index lists citas with the report filters, newest date first.
func (ac *AppointmentController) Index(c *fiber.Ctx) error {
	page, perPage := utils.PaginationParams(c)

	query := ac.DB.Model(&appointmentModel.Appointment{}).
		Joins("LEFT JOIN estados_cita ON estados_cita.id = citas.estado_id")

	if fecha := c.Query("fecha"); fecha != "" {
		d, err := utils.ParseDate(fecha)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Message: err.Error(),
				Status:  fiber.StatusBadRequest,
			})
		}
		query = query.Where("citas.fecha = ?", d)
	}
	if fechaRegistro := c.Query("fecha_registro"); fechaRegistro != "" {
		d, err := utils.ParseDate(fechaRegistro)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Message: err.Error(),
				Status:  fiber.StatusBadRequest,
			})
		}
		query = query.Where("DATE(citas.fecha_registro) = ?", d.Format(utils.DateLayout))
	}
	if doctorID := c.QueryInt("doctor_id"); doctorID > 0 {
		query = query.Where("citas.doctor_id = ?", doctorID)
	}
	if areaID := c.QueryInt("area_id"); areaID > 0 {
		query = query.Where("citas.area_id = ?", areaID)
	}
	if area := c.Query("area"); area != "" {
		query = query.Joins("LEFT JOIN areas ON areas.id = citas.area_id").
			Where("areas.nombre ILIKE ?", "%"+area+"%")
	}
	if estado := c.Query("estado"); estado != "" {
		query = query.Where("estados_cita.nombre = ?", estado)
	}
	if dni := c.Query("paciente_dni"); dni != "" {
		query = query.
			Joins("JOIN pacientes ON pacientes.id = citas.paciente_id").
			Joins("JOIN personas ON personas.id = pacientes.persona_id").
			Where("personas.dni = ?", dni)
	}
	if turno := c.Query("turno"); turno != "" {
		query = query.Joins("LEFT JOIN horarios_medicos ON horarios_medicos.id = citas.horario_id").
			Where("horarios_medicos.turno = ?", strings.ToUpper(turno))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var citas []appointmentModel.Appointment
	if err := query.
		Preload("Paciente.Person").
		Preload("Estado").
		Preload("Area").
		Preload("Doctor.Person").
		Preload("Horario").
		Order("citas.fecha DESC, citas.fecha_registro DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&citas).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Lista de citas",
		Status:  fiber.StatusOK,
		Data:    types.NewPage(citas, total, page, perPage),
	})
}

// Store books a cita through the booking engine.
func (ac *AppointmentController) Store(c *fiber.Ctx) error {
	var req appointmentTypes.BookingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}

	result, err := ac.Booking.Book(req)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	logger.Success(fmt.Sprintf("cita %d registrada para paciente %d", result.Cita.ID, req.PacienteID))

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Message: "Cita registrada",
		Status:  fiber.StatusCreated,
		Data: fiber.Map{
			"cita":            result.Cita,
			"cupos_totales":   result.CuposTotales,
			"cupos_ocupados":  result.CuposOcupados,
			"cupos_restantes": result.CuposRestantes,
		},
	})
}

// Show returns one cita fully preloaded.
func (ac *AppointmentController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid appointment id",
			Status:  fiber.StatusBadRequest,
		})
	}

	var cita appointmentModel.Appointment
	if err := ac.DB.
		Preload("Paciente.Person").
		Preload("Estado").
		Preload("Area").
		Preload("Doctor.Person").
		Preload("Horario").
		Preload("Acompanante").
		First(&cita, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "Cita no encontrada",
				Status:  fiber.StatusNotFound,
			})
		}
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Detalle de cita",
		Status:  fiber.StatusOK,
		Data:    cita,
	})
}

// Update changes the mutable fields of a cita. datos_adicionales is merged
// key by key, never replaced wholesale.
func (ac *AppointmentController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid appointment id",
			Status:  fiber.StatusBadRequest,
		})
	}

	var req appointmentTypes.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}

	var cita appointmentModel.Appointment
	if err := ac.DB.First(&cita, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "Cita no encontrada",
				Status:  fiber.StatusNotFound,
			})
		}
		return utils.ErrorResponse(c, err)
	}

	updates := map[string]interface{}{}
	if req.Sintomas != nil {
		updates["sintomas"] = *req.Sintomas
	}
	if req.AreaID != nil {
		updates["area_id"] = *req.AreaID
	}
	if req.DatosAdicionales != nil {
		merged := cita.DatosAdicionales.Merge(appointmentModel.JSONMap(req.DatosAdicionales))
		updates["datos_adicionales"] = merged
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Nada que actualizar",
			Status:  fiber.StatusBadRequest,
		})
	}

	if err := ac.DB.Model(&cita).Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	if err := ac.DB.
		Preload("Paciente.Person").
		Preload("Estado").
		Preload("Area").
		First(&cita, id).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Cita actualizada",
		Status:  fiber.StatusOK,
		Data:    cita,
	})
}

// ChangeStatus moves a cita through the status machine.
func (ac *AppointmentController) ChangeStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid appointment id",
			Status:  fiber.StatusBadRequest,
		})
	}

	var req appointmentTypes.StatusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
		})
	}

	cita, err := ac.Booking.ChangeStatus(uint(id), req.Estado, currentUserIDPtr(c), req.Comentario, c.IP())
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Estado de cita actualizado",
		Status:  fiber.StatusOK,
		Data:    cita,
	})
}

// Historial returns the paginated audit trail of a cita.
func (ac *AppointmentController) Historial(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid appointment id",
			Status:  fiber.StatusBadRequest,
		})
	}
	page, perPage := utils.PaginationParams(c)

	history, total, err := ac.Booking.History(uint(id), page, perPage)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Historial de estados",
		Status:  fiber.StatusOK,
		Data:    types.NewPage(history, total, page, perPage),
	})
}

// Destroy removes a cita and its audit rows. Admin only; the FK cascades
// the historial delete.
func (ac *AppointmentController) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid appointment id",
			Status:  fiber.StatusBadRequest,
		})
	}

	var cita appointmentModel.Appointment
	if err := ac.DB.First(&cita, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "Cita no encontrada",
				Status:  fiber.StatusNotFound,
			})
		}
		return utils.ErrorResponse(c, err)
	}

	if err := ac.DB.Delete(&cita).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	logger.Warning(fmt.Sprintf("cita %d eliminada por usuario %d", cita.ID, middleware.CurrentUserID(c)))

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Cita eliminada",
		Status:  fiber.StatusOK,
	})
}
