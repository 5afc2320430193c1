package booking

import (
	"errors"
	"time"

	"clinic-booking/apperrors"
	appointmentModel "clinic-booking/models/appointment"

	"gorm.io/gorm"
)

// ChangeStatus moves a cita through the status graph and appends the audit
// row in the same transaction. Unknown status names are rejected; repeating
// the current status is a no-op that writes no history.
func (s *Service) ChangeStatus(citaID uint, newStatus string, usuarioID *uint, comentario *string, ip string) (*appointmentModel.Appointment, error) {
	if !appointmentModel.KnownStatus(newStatus) {
		return nil, apperrors.Validation("estado desconocido: %s", newStatus)
	}

	var cita appointmentModel.Appointment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Estado").First(&cita, citaID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("cita %d no encontrada", citaID)
			}
			return err
		}

		current := cita.StatusName()
		if current == newStatus {
			return nil
		}

		if !appointmentModel.CanTransition(current, newStatus) {
			if appointmentModel.IsTerminal(current) {
				return apperrors.Conflict("la cita está en estado final %s", current)
			}
			return apperrors.Conflict("transición no permitida de %s a %s", current, newStatus)
		}

		var target appointmentModel.Status
		if err := tx.Where("nombre = ? AND activo = ?", newStatus, true).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Validation("estado %s no disponible", newStatus)
			}
			return err
		}

		previousID := cita.EstadoID
		if err := tx.Model(&cita).Update("estado_id", target.ID).Error; err != nil {
			return err
		}

		history := appointmentModel.StatusChange{
			CitaID:           cita.ID,
			EstadoAnteriorID: previousID,
			EstadoNuevoID:    target.ID,
			UsuarioID:        usuarioID,
			FechaCambio:      time.Now(),
			Comentario:       comentario,
		}
		if ip != "" {
			history.IPAddress = &ip
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.
		Preload("Paciente.Person").
		Preload("Estado").
		Preload("Area").
		Preload("Doctor.Person").
		First(&cita, citaID).Error; err != nil {
		return nil, err
	}
	return &cita, nil
}

// History returns one page of the audit trail of a cita, newest first.
func (s *Service) History(citaID uint, page, perPage int) ([]appointmentModel.StatusChange, int64, error) {
	var exists int64
	if err := s.DB.Model(&appointmentModel.Appointment{}).Where("id = ?", citaID).Count(&exists).Error; err != nil {
		return nil, 0, err
	}
	if exists == 0 {
		return nil, 0, apperrors.NotFound("cita %d no encontrada", citaID)
	}

	var total int64
	query := s.DB.Model(&appointmentModel.StatusChange{}).Where("cita_id = ?", citaID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var history []appointmentModel.StatusChange
	err := s.DB.Where("cita_id = ?", citaID).
		Preload("EstadoAnterior").
		Preload("EstadoNuevo").
		Preload("Usuario.Person").
		Order("fecha_cambio DESC, id DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&history).Error
	return history, total, err
}
