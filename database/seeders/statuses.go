package seeders

import (
	"clinic-booking/logger"
	appointmentModel "clinic-booking/models/appointment"

	"gorm.io/gorm"
)

// SeedStatuses inserts the appointment status catalog. Matching is by name
// so reruns never duplicate rows.
func SeedStatuses(db *gorm.DB) {
	logger.Info("Checking appointment statuses data integrity...")

	statuses := []appointmentModel.Status{
		{Nombre: appointmentModel.StatusPending, Descripcion: strPtr("Cita registrada, pendiente de confirmación"), Color: strPtr("blue"), Activo: true},
		{Nombre: appointmentModel.StatusConfirmed, Descripcion: strPtr("Cita confirmada por el paciente"), Color: strPtr("green"), Activo: true},
		{Nombre: appointmentModel.StatusAttended, Descripcion: strPtr("Paciente atendido"), Color: strPtr("teal"), Activo: true},
		{Nombre: appointmentModel.StatusCancelled, Descripcion: strPtr("Cita cancelada"), Color: strPtr("red"), Activo: true},
		{Nombre: appointmentModel.StatusNoShow, Descripcion: strPtr("Paciente no asistió"), Color: strPtr("gray"), Activo: true},
		{Nombre: appointmentModel.StatusReferred, Descripcion: strPtr("Paciente referido a otro servicio"), Color: strPtr("purple"), Activo: true},
	}

	for _, status := range statuses {
		var existing appointmentModel.Status
		err := db.Where("nombre = ?", status.Nombre).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&status).Error; err != nil {
				logger.Error("Failed to seed status "+status.Nombre, err)
			} else {
				logger.Success("Seeded status: " + status.Nombre)
			}
		}
	}
}
