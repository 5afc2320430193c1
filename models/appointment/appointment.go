package appointment

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	catalogModel "clinic-booking/models/catalog"
	patientModel "clinic-booking/models/patient"
	personModel "clinic-booking/models/person"
	scheduleModel "clinic-booking/models/schedule"
	userModel "clinic-booking/models/user"
)

// JSONMap stores free-form per-appointment data as a jsonb column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported type for JSONMap")
	}
	if len(raw) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(raw, m)
}

// Merge overlays other onto a copy of m. Keys in other win; a nil other
// returns m unchanged.
func (m JSONMap) Merge(other JSONMap) JSONMap {
	if other == nil {
		return m
	}
	if m == nil {
		return other
	}
	out := make(JSONMap, len(m)+len(other))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Appointment is one cita. Slot, doctor, area and date are nullable because
// legacy rows predate the slot system; new bookings always carry all four.
type Appointment struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	PacienteID uint                 `gorm:"not null;index" json:"paciente_id"`
	Paciente   patientModel.Patient `gorm:"foreignKey:PacienteID" json:"paciente,omitempty"`

	HorarioID *uint               `gorm:"index" json:"horario_id,omitempty"`
	Horario   *scheduleModel.Slot `gorm:"foreignKey:HorarioID" json:"horario,omitempty"`

	DoctorID *uint           `gorm:"index" json:"doctor_id,omitempty"`
	Doctor   *userModel.User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`

	AreaID *uint              `gorm:"index" json:"area_id,omitempty"`
	Area   *catalogModel.Area `gorm:"foreignKey:AreaID" json:"area,omitempty"`

	Fecha *time.Time `gorm:"type:date;index" json:"fecha,omitempty"`

	Sintomas         *string `gorm:"type:text" json:"sintomas,omitempty"`
	DatosAdicionales JSONMap `gorm:"type:jsonb" json:"datos_adicionales,omitempty"`

	EstadoID *uint   `gorm:"index" json:"estado_id,omitempty"`
	Estado   *Status `gorm:"foreignKey:EstadoID" json:"estado,omitempty"`

	AcompanantePersonaID *uint               `json:"acompanante_persona_id,omitempty"`
	Acompanante          *personModel.Person `gorm:"foreignKey:AcompanantePersonaID" json:"acompanante,omitempty"`

	FechaRegistro time.Time `gorm:"autoCreateTime" json:"fecha_registro"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table name the clinic schema uses.
func (Appointment) TableName() string {
	return "citas"
}

// StatusName returns the loaded status name, or "" when not preloaded.
func (a *Appointment) StatusName() string {
	if a.Estado == nil {
		return ""
	}
	return a.Estado.Nombre
}
