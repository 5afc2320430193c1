package schedule

import (
	"time"

	catalogModel "clinic-booking/models/catalog"
	userModel "clinic-booking/models/user"
)

// Shift codes partition a working day.
const (
	ShiftMorning   = "M"
	ShiftAfternoon = "T"
)

// Slot is one bookable doctor/date/shift unit with a fixed capacity
// (cupos). At most one slot exists per (medico, fecha, turno).
type Slot struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	MedicoID uint           `gorm:"not null;index:idx_horarios_medico_fecha_turno,unique" json:"medico_id"`
	Medico   userModel.User `gorm:"foreignKey:MedicoID" json:"medico,omitempty"`

	AreaID uint              `gorm:"not null;index" json:"area_id"`
	Area   catalogModel.Area `gorm:"foreignKey:AreaID" json:"area,omitempty"`

	Fecha     time.Time `gorm:"type:date;not null;index:idx_horarios_medico_fecha_turno,unique" json:"fecha"`
	DiaSemana int       `gorm:"not null" json:"dia_semana"` // 0=Monday .. 6=Sunday
	Turno     string    `gorm:"type:varchar(1);not null;index:idx_horarios_medico_fecha_turno,unique" json:"turno"`
	Cupos     int       `gorm:"not null" json:"cupos"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table name the clinic schema uses.
func (Slot) TableName() string {
	return "horarios_medicos"
}

// TurnoNombre returns the display name of the shift code.
func (s *Slot) TurnoNombre() string {
	if s.Turno == ShiftAfternoon {
		return "Tarde"
	}
	return "Mañana"
}

// Working hours are fixed per shift across the clinic.
func (s *Slot) HoraInicio() string {
	if s.Turno == ShiftAfternoon {
		return "14:00:00"
	}
	return "07:30:00"
}

func (s *Slot) HoraFin() string {
	if s.Turno == ShiftAfternoon {
		return "19:30:00"
	}
	return "13:00:00"
}

// Weekday maps time.Weekday (Sunday=0) onto the schema's Monday=0 scale.
func Weekday(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}
