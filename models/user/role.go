package user

import (
	"time"
)

// Role IDs are stable across deployments; middleware gates on them.
const (
	RoleAdmin     uint = 1 // Administrador
	RoleDoctor    uint = 2 // Profesional
	RoleAssistant uint = 3 // Asistente
)

// Role is the lookup table for user roles.
type Role struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre      string    `gorm:"type:varchar(50);not null;unique" json:"nombre"`
	Descripcion *string   `gorm:"type:text" json:"descripcion,omitempty"`
	Activo      bool      `gorm:"default:true" json:"activo"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName keeps the table name the clinic schema uses.
func (Role) TableName() string {
	return "roles"
}
