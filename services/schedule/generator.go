package schedule

import (
	"errors"
	"fmt"
	"time"

	"clinic-booking/apperrors"
	appointmentModel "clinic-booking/models/appointment"
	catalogModel "clinic-booking/models/catalog"
	scheduleModel "clinic-booking/models/schedule"
	userModel "clinic-booking/models/user"
	scheduleType "clinic-booking/types/schedule"
	"clinic-booking/utils"

	"gorm.io/gorm"
)

// Service generates and maintains monthly slot plans.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// GenerateResult summarizes one monthly generation run.
type GenerateResult struct {
	Creados      int      `json:"creados"`
	Actualizados int      `json:"actualizados"`
	SinCambios   int      `json:"sin_cambios"`
	Avisos       []string `json:"avisos,omitempty"`
}

type slotKey struct {
	fecha string
	turno string
}

// targetDates resolves the dates to generate. Explicit fechas win over the
// weekday selection; dates outside the month produce a warning, not an error.
func targetDates(req scheduleType.MonthlyCreateRequest, monthStart, monthEnd time.Time) ([]time.Time, []string, error) {
	var warnings []string

	if len(req.Fechas) > 0 {
		var dates []time.Time
		for _, raw := range req.Fechas {
			d, err := utils.ParseDate(raw)
			if err != nil {
				return nil, nil, apperrors.Validation("%s", err.Error())
			}
			if d.Before(monthStart) || d.After(monthEnd) {
				warnings = append(warnings, fmt.Sprintf("fecha %s fuera del mes %s, omitida", raw, monthStart.Format("2006-01")))
				continue
			}
			dates = append(dates, d)
		}
		return dates, warnings, nil
	}

	if len(req.Dias) == 0 {
		return nil, nil, apperrors.Validation("debe indicar dias o fechas")
	}

	selected := make(map[int]bool, len(req.Dias))
	for _, d := range req.Dias {
		selected[d] = true
	}

	var dates []time.Time
	for d := monthStart; !d.After(monthEnd); d = d.AddDate(0, 0, 1) {
		if selected[scheduleModel.Weekday(d)] {
			dates = append(dates, d)
		}
	}
	return dates, warnings, nil
}

// GenerateMonth creates or updates the slots of one doctor for one month in
// a single transaction, one slot per date and active shift. Existing slots
// get cupos and area refreshed in place when they differ.
func (s *Service) GenerateMonth(req scheduleType.MonthlyCreateRequest) (*GenerateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation("%s", err.Error())
	}

	month, err := utils.ParseMonth(req.Mes)
	if err != nil {
		return nil, apperrors.Validation("%s", err.Error())
	}
	monthStart, monthEnd := utils.MonthRange(month)

	var medico userModel.User
	if err := s.DB.First(&medico, req.MedicoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("médico %d no encontrado", req.MedicoID)
		}
		return nil, err
	}
	if !medico.IsDoctor() || !medico.Activo {
		return nil, apperrors.Validation("el usuario %d no es un profesional activo", req.MedicoID)
	}

	var area catalogModel.Area
	if err := s.DB.First(&area, req.AreaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("área %d no encontrada", req.AreaID)
		}
		return nil, err
	}

	dates, warnings, err := targetDates(req, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, apperrors.Validation("no hay fechas válidas para generar en %s", req.Mes)
	}

	result := &GenerateResult{Avisos: warnings}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// One read for the whole month, keyed by (fecha, turno).
		var existing []scheduleModel.Slot
		if err := tx.Where("medico_id = ? AND fecha BETWEEN ? AND ?", req.MedicoID, monthStart, monthEnd).
			Find(&existing).Error; err != nil {
			return err
		}
		byKey := make(map[slotKey]*scheduleModel.Slot, len(existing))
		for i := range existing {
			key := slotKey{existing[i].Fecha.Format(utils.DateLayout), existing[i].Turno}
			byKey[key] = &existing[i]
		}

		shifts := []struct {
			turno string
			cfg   scheduleType.ShiftConfig
		}{
			{scheduleModel.ShiftMorning, req.Turnos.Manana},
			{scheduleModel.ShiftAfternoon, req.Turnos.Tarde},
		}

		var toCreate []scheduleModel.Slot
		for _, d := range dates {
			for _, shift := range shifts {
				if !shift.cfg.Activo {
					continue
				}
				key := slotKey{d.Format(utils.DateLayout), shift.turno}
				if slot, ok := byKey[key]; ok {
					if slot.Cupos == shift.cfg.Cupos && slot.AreaID == req.AreaID {
						result.SinCambios++
						continue
					}
					updates := map[string]interface{}{
						"cupos":   shift.cfg.Cupos,
						"area_id": req.AreaID,
					}
					if err := tx.Model(slot).Updates(updates).Error; err != nil {
						return err
					}
					result.Actualizados++
					continue
				}
				toCreate = append(toCreate, scheduleModel.Slot{
					MedicoID:  req.MedicoID,
					AreaID:    req.AreaID,
					Fecha:     d,
					DiaSemana: scheduleModel.Weekday(d),
					Turno:     shift.turno,
					Cupos:     shift.cfg.Cupos,
				})
			}
		}

		if len(toCreate) > 0 {
			if err := tx.Create(&toCreate).Error; err != nil {
				return err
			}
			result.Creados = len(toCreate)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteMonth removes a doctor's slots for a month, optionally limited to
// one turno, refusing to touch slots that already have non-cancelled citas.
func (s *Service) DeleteMonth(medicoID uint, mes string, turno string) (int64, error) {
	month, err := utils.ParseMonth(mes)
	if err != nil {
		return 0, apperrors.Validation("%s", err.Error())
	}
	if turno != "" && turno != scheduleModel.ShiftMorning && turno != scheduleModel.ShiftAfternoon {
		return 0, apperrors.Validation("turno must be M or T")
	}
	monthStart, monthEnd := utils.MonthRange(month)

	blockedQuery := s.DB.Table("horarios_medicos").
		Joins("JOIN citas ON citas.horario_id = horarios_medicos.id").
		Joins("LEFT JOIN estados_cita ON estados_cita.id = citas.estado_id").
		Where("horarios_medicos.medico_id = ? AND horarios_medicos.fecha BETWEEN ? AND ?", medicoID, monthStart, monthEnd).
		Where("estados_cita.nombre IS NULL OR estados_cita.nombre <> ?", appointmentModel.StatusCancelled)
	if turno != "" {
		blockedQuery = blockedQuery.Where("horarios_medicos.turno = ?", turno)
	}

	var blocked int64
	if err := blockedQuery.Count(&blocked).Error; err != nil {
		return 0, err
	}
	if blocked > 0 {
		return 0, apperrors.Conflict("existen citas activas en horarios de %s", mes)
	}

	deleteQuery := s.DB.Where("medico_id = ? AND fecha BETWEEN ? AND ?", medicoID, monthStart, monthEnd)
	if turno != "" {
		deleteQuery = deleteQuery.Where("turno = ?", turno)
	}
	res := deleteQuery.Delete(&scheduleModel.Slot{})
	return res.RowsAffected, res.Error
}
