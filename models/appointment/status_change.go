package appointment

import (
	"time"

	userModel "clinic-booking/models/user"
)

// StatusChange is one append-only audit row recording a status transition of
// an appointment. Rows are never updated or deleted.
type StatusChange struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CitaID uint `gorm:"not null;index" json:"cita_id"`

	EstadoAnteriorID *uint   `json:"estado_anterior_id,omitempty"`
	EstadoAnterior   *Status `gorm:"foreignKey:EstadoAnteriorID" json:"estado_anterior,omitempty"`

	EstadoNuevoID uint   `gorm:"not null" json:"estado_nuevo_id"`
	EstadoNuevo   Status `gorm:"foreignKey:EstadoNuevoID" json:"estado_nuevo"`

	UsuarioID *uint           `gorm:"index" json:"usuario_id,omitempty"`
	Usuario   *userModel.User `gorm:"foreignKey:UsuarioID" json:"usuario,omitempty"`

	FechaCambio time.Time `gorm:"autoCreateTime;index" json:"fecha_cambio"`
	Comentario  *string   `gorm:"type:text" json:"comentario,omitempty"`
	IPAddress   *string   `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
}

// TableName keeps the table name the clinic schema uses.
func (StatusChange) TableName() string {
	return "historial_estado_citas"
}
