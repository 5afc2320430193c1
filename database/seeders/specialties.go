package seeders

import (
	"clinic-booking/logger"
	catalogModel "clinic-booking/models/catalog"

	"gorm.io/gorm"
)

// SeedSpecialties inserts the base specialty and area catalogs.
func SeedSpecialties(db *gorm.DB) {
	logger.Info("Checking specialties data integrity...")

	specialties := []string{
		"Medicina General",
		"Pediatría",
		"Ginecología",
		"Obstetricia",
		"Odontología",
		"Psicología",
		"Nutrición",
		"Enfermería",
	}

	for _, name := range specialties {
		var existing catalogModel.Specialty
		err := db.Where("nombre = ?", name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			spec := catalogModel.Specialty{Nombre: name, Activo: true}
			if err := db.Create(&spec).Error; err != nil {
				logger.Error("Failed to seed specialty "+name, err)
			} else {
				logger.Success("Seeded specialty: " + name)
			}
		}
	}

	areas := []string{
		"Medicina",
		"Pediatría",
		"Ginecología",
		"Obstetricia",
		"Odontología",
		"Psicología",
		"Nutrición",
		"Tópico",
	}

	for _, name := range areas {
		var existing catalogModel.Area
		err := db.Where("nombre = ?", name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			area := catalogModel.Area{Nombre: name, Activo: true}
			if err := db.Create(&area).Error; err != nil {
				logger.Error("Failed to seed area "+name, err)
			} else {
				logger.Success("Seeded area: " + name)
			}
		}
	}
}
