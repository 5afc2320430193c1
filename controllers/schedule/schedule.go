package schedule

import (
	"errors"
	"fmt"
	"strings"

	"clinic-booking/logger"
	appointmentModel "clinic-booking/models/appointment"
	catalogModel "clinic-booking/models/catalog"
	scheduleModel "clinic-booking/models/schedule"
	scheduleService "clinic-booking/services/schedule"
	"clinic-booking/types"
	scheduleTypes "clinic-booking/types/schedule"
	"clinic-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ScheduleController manages doctor slots over HTTP.
type ScheduleController struct {
	DB      *gorm.DB
	Service *scheduleService.Service
}

func NewScheduleController(db *gorm.DB, svc *scheduleService.Service) *ScheduleController {
	return &ScheduleController{DB: db, Service: svc}
}

// slotRow is a slot joined with its live occupancy counters and the
// display names the schedule grid shows.
type slotRow struct {
	scheduleModel.Slot
	CuposOcupados    int    `json:"cupos_ocupados"`
	CuposDisponibles int    `json:"cupos_disponibles"`
	MedicoNombre     string `json:"medico_nombre"`
	AreaNombre       string `json:"area_nombre"`
}

// Store generates the slots of one doctor for one month.
func (sc *ScheduleController) Store(c *fiber.Ctx) error {
	var req scheduleTypes.MonthlyCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}

	result, err := sc.Service.GenerateMonth(req)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	logger.Success(fmt.Sprintf("horarios %s medico %d: %d creados, %d actualizados",
		req.Mes, req.MedicoID, result.Creados, result.Actualizados))

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Message: "Horarios generados",
		Status:  fiber.StatusCreated,
		Data:    result,
	})
}

// Index lists slots with computed availability in a single query.
func (sc *ScheduleController) Index(c *fiber.Ctx) error {
	page, perPage := utils.PaginationParams(c)

	query := sc.DB.Model(&scheduleModel.Slot{}).
		Select(`horarios_medicos.*,
			COALESCE(oc.ocupados, 0) AS cupos_ocupados,
			horarios_medicos.cupos - COALESCE(oc.ocupados, 0) AS cupos_disponibles,
			TRIM(CONCAT(personas.nombres, ' ', personas.apellido_paterno)) AS medico_nombre,
			areas.nombre AS area_nombre`).
		Joins(`LEFT JOIN (
			SELECT citas.horario_id, COUNT(*) AS ocupados
			FROM citas
			LEFT JOIN estados_cita ON estados_cita.id = citas.estado_id
			WHERE estados_cita.nombre IS NULL OR estados_cita.nombre <> ?
			GROUP BY citas.horario_id
		) oc ON oc.horario_id = horarios_medicos.id`, appointmentModel.StatusCancelled).
		Joins("JOIN usuarios ON usuarios.id = horarios_medicos.medico_id").
		Joins("JOIN personas ON personas.id = usuarios.persona_id").
		Joins("JOIN areas ON areas.id = horarios_medicos.area_id")

	if medicoID := c.QueryInt("medico_id"); medicoID > 0 {
		query = query.Where("horarios_medicos.medico_id = ?", medicoID)
	}
	if areaID := c.QueryInt("area_id"); areaID > 0 {
		query = query.Where("horarios_medicos.area_id = ?", areaID)
	}
	if fecha := c.Query("fecha"); fecha != "" {
		d, err := utils.ParseDate(fecha)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Message: err.Error(),
				Status:  fiber.StatusBadRequest,
			})
		}
		query = query.Where("horarios_medicos.fecha = ?", d)
	}
	if mes := c.Query("mes"); mes != "" {
		month, err := utils.ParseMonth(mes)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Message: err.Error(),
				Status:  fiber.StatusBadRequest,
			})
		}
		start, end := utils.MonthRange(month)
		query = query.Where("horarios_medicos.fecha BETWEEN ? AND ?", start, end)
	}
	if turno := c.Query("turno"); turno != "" {
		query = query.Where("horarios_medicos.turno = ?", turno)
	}
	if c.QueryBool("disponibles") {
		query = query.Where("horarios_medicos.cupos - COALESCE(oc.ocupados, 0) > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	var rows []slotRow
	if err := query.
		Order("horarios_medicos.fecha ASC, horarios_medicos.turno ASC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&rows).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Lista de horarios",
		Status:  fiber.StatusOK,
		Data:    types.NewPage(rows, total, page, perPage),
	})
}

// Resumen aggregates a month per day: slots, total and occupied cupos.
func (sc *ScheduleController) Resumen(c *fiber.Ctx) error {
	mes := c.Query("mes")
	if mes == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "mes is required",
			Status:  fiber.StatusBadRequest,
		})
	}
	month, err := utils.ParseMonth(mes)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
		})
	}
	start, end := utils.MonthRange(month)

	type dayRow struct {
		Fecha         string `json:"fecha"`
		Horarios      int    `json:"horarios"`
		CuposTotales  int    `json:"cupos_totales"`
		CuposOcupados int    `json:"cupos_ocupados"`
	}

	var days []dayRow
	query := sc.DB.Table("horarios_medicos").
		Select(`TO_CHAR(horarios_medicos.fecha, 'YYYY-MM-DD') AS fecha,
			COUNT(DISTINCT horarios_medicos.id) AS horarios,
			SUM(horarios_medicos.cupos) AS cupos_totales,
			COALESCE(SUM(oc.ocupados), 0) AS cupos_ocupados`).
		Joins(`LEFT JOIN (
			SELECT citas.horario_id, COUNT(*) AS ocupados
			FROM citas
			LEFT JOIN estados_cita ON estados_cita.id = citas.estado_id
			WHERE estados_cita.nombre IS NULL OR estados_cita.nombre <> ?
			GROUP BY citas.horario_id
		) oc ON oc.horario_id = horarios_medicos.id`, appointmentModel.StatusCancelled).
		Where("horarios_medicos.fecha BETWEEN ? AND ?", start, end)
	if medicoID := c.QueryInt("medico_id"); medicoID > 0 {
		query = query.Where("horarios_medicos.medico_id = ?", medicoID)
	}
	if areaID := c.QueryInt("area_id"); areaID > 0 {
		query = query.Where("horarios_medicos.area_id = ?", areaID)
	}
	if err := query.Group("horarios_medicos.fecha").
		Order("horarios_medicos.fecha ASC").
		Scan(&days).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Resumen mensual de horarios",
		Status:  fiber.StatusOK,
		Data: fiber.Map{
			"mes":  mes,
			"dias": days,
		},
	})
}

// Update changes cupos or area of one slot. Cupos can never drop below
// the current occupancy.
func (sc *ScheduleController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid slot id",
			Status:  fiber.StatusBadRequest,
		})
	}

	var req scheduleTypes.SlotUpdateRequest
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

	var slot scheduleModel.Slot
	if err := sc.DB.First(&slot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "Horario no encontrado",
				Status:  fiber.StatusNotFound,
			})
		}
		return utils.ErrorResponse(c, err)
	}

	updates := map[string]interface{}{}
	if req.Cupos != nil {
		var occupied int64
		if err := sc.DB.Model(&appointmentModel.Appointment{}).
			Joins("LEFT JOIN estados_cita ON estados_cita.id = citas.estado_id").
			Where("citas.horario_id = ?", slot.ID).
			Where("estados_cita.nombre IS NULL OR estados_cita.nombre <> ?", appointmentModel.StatusCancelled).
			Count(&occupied).Error; err != nil {
			return utils.ErrorResponse(c, err)
		}
		if int64(*req.Cupos) < occupied {
			return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
				Message: fmt.Sprintf("no se puede reducir cupos por debajo de %d citas activas", occupied),
				Status:  fiber.StatusConflict,
			})
		}
		updates["cupos"] = *req.Cupos
	}
	if req.AreaID != nil {
		var area catalogModel.Area
		if err := sc.DB.First(&area, *req.AreaID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
					Message: "Área no encontrada",
					Status:  fiber.StatusNotFound,
				})
			}
			return utils.ErrorResponse(c, err)
		}
		updates["area_id"] = *req.AreaID
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Nada que actualizar",
			Status:  fiber.StatusBadRequest,
		})
	}

	if err := sc.DB.Model(&slot).Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Horario actualizado",
		Status:  fiber.StatusOK,
		Data:    slot,
	})
}

// Destroy deletes one slot without active citas.
func (sc *ScheduleController) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid slot id",
			Status:  fiber.StatusBadRequest,
		})
	}

	var slot scheduleModel.Slot
	if err := sc.DB.First(&slot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "Horario no encontrado",
				Status:  fiber.StatusNotFound,
			})
		}
		return utils.ErrorResponse(c, err)
	}

	var active int64
	if err := sc.DB.Model(&appointmentModel.Appointment{}).
		Joins("LEFT JOIN estados_cita ON estados_cita.id = citas.estado_id").
		Where("citas.horario_id = ?", slot.ID).
		Where("estados_cita.nombre IS NULL OR estados_cita.nombre <> ?", appointmentModel.StatusCancelled).
		Count(&active).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	if active > 0 {
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Message: fmt.Sprintf("el horario tiene %d citas activas", active),
			Status:  fiber.StatusConflict,
		})
	}

	if err := sc.DB.Delete(&slot).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Horario eliminado",
		Status:  fiber.StatusOK,
	})
}

// DestroyMonth deletes the slots of a doctor for a month.
func (sc *ScheduleController) DestroyMonth(c *fiber.Ctx) error {
	medicoID := c.QueryInt("medico_id")
	mes := c.Query("mes")
	if medicoID <= 0 || mes == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "medico_id and mes are required",
			Status:  fiber.StatusBadRequest,
		})
	}

	removed, err := sc.Service.DeleteMonth(uint(medicoID), mes, strings.ToUpper(c.Query("turno")))
	if err != nil {
		return utils.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: fmt.Sprintf("%d horarios eliminados", removed),
		Status:  fiber.StatusOK,
		Data:    fiber.Map{"eliminados": removed},
	})
}
