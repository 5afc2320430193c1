package indicator

import (
	"database/sql"
	"time"

	appointmentModel "clinic-booking/models/appointment"
	"clinic-booking/types"
	"clinic-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// IndicatorController computes the management indicators over a date range.
type IndicatorController struct {
	DB *gorm.DB
}

func NewIndicatorController(db *gorm.DB) *IndicatorController {
	return &IndicatorController{DB: db}
}

func (ic *IndicatorController) dateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	end := time.Now()
	start := end.AddDate(0, -1, 0)

	if raw := c.Query("desde"); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = d
	}
	if raw := c.Query("hasta"); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = d
	}
	return start, end, nil
}

// Index returns utilization, no-show rate and mean lead time, plus the
// per-estado breakdown, for the range and optional area.
func (ic *IndicatorController) Index(c *fiber.Ctx) error {
	start, end, err := ic.dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
		})
	}
	areaID := c.QueryInt("area_id")

	// Capacity utilization: active citas over offered cupos.
	var totalCupos int64
	cuposQuery := ic.DB.Table("horarios_medicos").
		Where("fecha BETWEEN ? AND ?", start.Format(utils.DateLayout), end.Format(utils.DateLayout))
	if areaID > 0 {
		cuposQuery = cuposQuery.Where("area_id = ?", areaID)
	}
	if err := cuposQuery.Select("COALESCE(SUM(cupos), 0)").Scan(&totalCupos).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	citasBase := func() *gorm.DB {
		q := ic.DB.Table("citas").
			Joins("LEFT JOIN estados_cita ON estados_cita.id = citas.estado_id").
			Where("citas.fecha BETWEEN ? AND ?", start.Format(utils.DateLayout), end.Format(utils.DateLayout))
		if areaID > 0 {
			q = q.Where("citas.area_id = ?", areaID)
		}
		return q
	}

	var activeCitas int64
	if err := citasBase().
		Where("estados_cita.nombre IS NULL OR estados_cita.nombre <> ?", appointmentModel.StatusCancelled).
		Count(&activeCitas).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}

	utilization := 0.0
	if totalCupos > 0 {
		utilization = float64(activeCitas) / float64(totalCupos)
	}

	// Per-estado breakdown.
	type estadoCount struct {
		Estado string `json:"estado"`
		Total  int64  `json:"total"`
	}
	var breakdown []estadoCount
	if err := citasBase().
		Select("COALESCE(estados_cita.nombre, 'sin_estado') AS estado, COUNT(*) AS total").
		Group("estados_cita.nombre").
		Scan(&breakdown).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	byEstado := make(map[string]int64, len(breakdown))
	for _, row := range breakdown {
		byEstado[row.Estado] = row.Total
	}

	// No-show rate over resolved confirmadas.
	resolved := byEstado[appointmentModel.StatusAttended] +
		byEstado[appointmentModel.StatusNoShow] +
		byEstado[appointmentModel.StatusConfirmed]
	noShowRate := 0.0
	if resolved > 0 {
		noShowRate = float64(byEstado[appointmentModel.StatusNoShow]) / float64(resolved)
	}

	// Mean lead time between registration and the appointment date, days.
	var leadTime sql.NullFloat64
	if err := citasBase().
		Where("citas.fecha IS NOT NULL").
		Select("AVG(EXTRACT(EPOCH FROM (citas.fecha::timestamp - citas.fecha_registro)) / 86400.0)").
		Scan(&leadTime).Error; err != nil {
		return utils.ErrorResponse(c, err)
	}
	meanLeadDays := 0.0
	if leadTime.Valid {
		meanLeadDays = leadTime.Float64
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Indicadores de gestión",
		Status:  fiber.StatusOK,
		Data: fiber.Map{
			"desde":              start.Format(utils.DateLayout),
			"hasta":              end.Format(utils.DateLayout),
			"cupos_ofertados":    totalCupos,
			"citas_activas":      activeCitas,
			"utilizacion":        utilization,
			"tasa_inasistencia":  noShowRate,
			"tiempo_espera_dias": meanLeadDays,
			"citas_por_estado":   breakdown,
		},
	})
}
