package booking

import (
	"errors"

	"clinic-booking/apperrors"
	appointmentModel "clinic-booking/models/appointment"
	patientModel "clinic-booking/models/patient"
	personModel "clinic-booking/models/person"
	scheduleModel "clinic-booking/models/schedule"
	appointmentType "clinic-booking/types/appointment"
	"clinic-booking/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service owns the booking transaction: slot locking and capacity
// accounting. Audit rows are written only by status transitions.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// BookingResult is what a successful booking returns to the controller.
type BookingResult struct {
	Cita           *appointmentModel.Appointment
	CuposTotales   int
	CuposOcupados  int
	CuposRestantes int
}

// countOccupied counts the non-cancelled citas holding a cupo on the slot.
func countOccupied(tx *gorm.DB, horarioID uint) (int64, error) {
	var occupied int64
	err := tx.Model(&appointmentModel.Appointment{}).
		Joins("LEFT JOIN estados_cita ON estados_cita.id = citas.estado_id").
		Where("citas.horario_id = ?", horarioID).
		Where("estados_cita.nombre IS NULL OR estados_cita.nombre <> ?", appointmentModel.StatusCancelled).
		Count(&occupied).Error
	return occupied, err
}

// Book creates a cita on a slot. The slot row is locked for the duration of
// the transaction so the capacity check and the insert are atomic. Existence
// of the paciente and the horario is checked before the fecha is parsed.
func (s *Service) Book(req appointmentType.BookingCreateRequest) (*BookingResult, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation("%s", err.Error())
	}

	var patient patientModel.Patient
	if err := s.DB.Preload("Person").First(&patient, req.PacienteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("paciente %d no encontrado", req.PacienteID)
		}
		return nil, err
	}

	var result *BookingResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var slot scheduleModel.Slot
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&slot, req.HorarioID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("horario %d no encontrado", req.HorarioID)
			}
			return err
		}

		fecha, err := utils.ParseDate(req.Fecha)
		if err != nil {
			return apperrors.Validation("%s", err.Error())
		}
		if slot.Fecha.Format(utils.DateLayout) != fecha.Format(utils.DateLayout) {
			return apperrors.Validation("la fecha %s no corresponde al horario seleccionado", req.Fecha)
		}

		var duplicate int64
		if err := tx.Model(&appointmentModel.Appointment{}).
			Joins("LEFT JOIN estados_cita ON estados_cita.id = citas.estado_id").
			Where("citas.paciente_id = ? AND citas.horario_id = ?", req.PacienteID, req.HorarioID).
			Where("estados_cita.nombre IS NULL OR estados_cita.nombre <> ?", appointmentModel.StatusCancelled).
			Count(&duplicate).Error; err != nil {
			return err
		}
		if duplicate > 0 {
			return apperrors.Conflict("el paciente ya tiene una cita activa en este horario")
		}

		occupied, err := countOccupied(tx, slot.ID)
		if err != nil {
			return err
		}
		if int(occupied) >= slot.Cupos {
			return apperrors.Capacity(slot.Cupos, int(occupied))
		}

		var pending appointmentModel.Status
		if err := tx.Where("nombre = ?", appointmentModel.StatusPending).First(&pending).Error; err != nil {
			return err
		}

		areaID := slot.AreaID
		if req.AreaID != nil {
			areaID = *req.AreaID
		}

		cita := appointmentModel.Appointment{
			PacienteID: req.PacienteID,
			HorarioID:  &slot.ID,
			DoctorID:   &slot.MedicoID,
			AreaID:     &areaID,
			Fecha:      &fecha,
			Sintomas:   req.Sintomas,
			EstadoID:   &pending.ID,
		}
		if req.DatosAdicionales != nil {
			cita.DatosAdicionales = appointmentModel.JSONMap(req.DatosAdicionales)
		}

		if req.Acompanante != nil {
			companionID, err := upsertCompanion(tx, req.Acompanante)
			if err != nil {
				return err
			}
			cita.AcompanantePersonaID = &companionID
		}

		if err := tx.Create(&cita).Error; err != nil {
			return err
		}

		result = &BookingResult{
			Cita:           &cita,
			CuposTotales:   slot.Cupos,
			CuposOcupados:  int(occupied) + 1,
			CuposRestantes: slot.Cupos - (int(occupied) + 1),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.
		Preload("Paciente.Person").
		Preload("Horario").
		Preload("Doctor.Person").
		Preload("Area").
		Preload("Estado").
		Preload("Acompanante").
		First(result.Cita, result.Cita.ID).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// upsertCompanion finds or creates the acompañante person by DNI, refreshing
// the name and phone fields when new values are given.
func upsertCompanion(tx *gorm.DB, payload *appointmentType.CompanionPayload) (uint, error) {
	var person personModel.Person
	err := tx.Where("dni = ?", payload.DNI).First(&person).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		person = personModel.Person{
			DNI:             payload.DNI,
			Nombres:         payload.Nombres,
			ApellidoPaterno: payload.ApellidoPaterno,
			ApellidoMaterno: payload.ApellidoMaterno,
			Telefono:        payload.Telefono,
		}
		if err := tx.Create(&person).Error; err != nil {
			return 0, err
		}
		return person.ID, nil
	}
	if err != nil {
		return 0, err
	}

	updates := map[string]interface{}{}
	if payload.Nombres != "" {
		updates["nombres"] = payload.Nombres
	}
	if payload.ApellidoPaterno != "" {
		updates["apellido_paterno"] = payload.ApellidoPaterno
	}
	if payload.ApellidoMaterno != "" {
		updates["apellido_materno"] = payload.ApellidoMaterno
	}
	if payload.Telefono != nil && *payload.Telefono != "" {
		updates["telefono"] = *payload.Telefono
	}
	if len(updates) > 0 {
		if err := tx.Model(&person).Updates(updates).Error; err != nil {
			return 0, err
		}
	}
	return person.ID, nil
}

// Availability returns the capacity counters of a slot.
func (s *Service) Availability(horarioID uint) (totales int, ocupados int, err error) {
	var slot scheduleModel.Slot
	if err := s.DB.First(&slot, horarioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, apperrors.NotFound("horario %d no encontrado", horarioID)
		}
		return 0, 0, err
	}
	occupied, err := countOccupied(s.DB, slot.ID)
	if err != nil {
		return 0, 0, err
	}
	return slot.Cupos, int(occupied), nil
}
