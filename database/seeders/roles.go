package seeders

import (
	"clinic-booking/logger"
	userModel "clinic-booking/models/user"

	"gorm.io/gorm"
)

func strPtr(s string) *string {
	return &s
}

// SeedRoles inserts the three fixed roles. IDs matter: middleware checks
// roles by ID, so existing rows are never renumbered.
func SeedRoles(db *gorm.DB) {
	logger.Info("Checking roles data integrity...")

	roles := []userModel.Role{
		{ID: userModel.RoleAdmin, Nombre: "Administrador", Descripcion: strPtr("Acceso total al sistema"), Activo: true},
		{ID: userModel.RoleDoctor, Nombre: "Profesional", Descripcion: strPtr("Personal médico con horarios y citas"), Activo: true},
		{ID: userModel.RoleAssistant, Nombre: "Asistente", Descripcion: strPtr("Registro de pacientes y citas"), Activo: true},
	}

	for _, role := range roles {
		var existing userModel.Role
		err := db.Where("id = ?", role.ID).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&role).Error; err != nil {
				logger.Error("Failed to seed role "+role.Nombre, err)
			} else {
				logger.Success("Seeded role: " + role.Nombre)
			}
		}
	}
}
