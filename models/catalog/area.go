package catalog

import (
	"time"
)

// Area is a clinic service area (consultorio/servicio). Slots and
// appointments reference areas by ID; the name is catalog data only.
type Area struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre      string    `gorm:"type:varchar(100);not null;unique" json:"nombre"`
	Descripcion *string   `gorm:"type:text" json:"descripcion,omitempty"`
	Activo      bool      `gorm:"default:true" json:"activo"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName keeps the table name the clinic schema uses.
func (Area) TableName() string {
	return "areas"
}
