package catalog

import (
	"time"

	userModel "clinic-booking/models/user"
)

// Specialty is a medical specialty. Doctors are linked through the
// medico_especialidad join table.
type Specialty struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre      string    `gorm:"type:varchar(100);not null;unique" json:"nombre"`
	Descripcion *string   `gorm:"type:text" json:"descripcion,omitempty"`
	Activo      bool      `gorm:"default:true" json:"activo"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Medicos []userModel.User `gorm:"many2many:medico_especialidad;joinForeignKey:EspecialidadID;joinReferences:MedicoID" json:"medicos,omitempty"`
}

// TableName keeps the table name the clinic schema uses.
func (Specialty) TableName() string {
	return "especialidades"
}
