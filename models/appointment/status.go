package appointment

import (
	"time"
)

// Canonical status names. Appointments reference statuses by foreign key;
// these names exist so code never compares against loose literals.
const (
	StatusPending   = "pendiente"
	StatusConfirmed = "confirmada"
	StatusAttended  = "atendida"
	StatusCancelled = "cancelada"
	StatusNoShow    = "no_asistio"
	StatusReferred  = "referido"
)

// Status is the estados_cita lookup entity.
type Status struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre      string    `gorm:"type:varchar(50);not null;unique" json:"nombre"`
	Descripcion *string   `gorm:"type:text" json:"descripcion,omitempty"`
	Color       *string   `gorm:"type:varchar(20)" json:"color,omitempty"`
	Activo      bool      `gorm:"default:true" json:"activo"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName keeps the table name the clinic schema uses.
func (Status) TableName() string {
	return "estados_cita"
}

// transitions is the allowed status graph. Missing keys are terminal.
var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusAttended, StatusNoShow, StatusReferred, StatusCancelled},
}

// KnownStatus reports whether name is one of the canonical status names.
func KnownStatus(name string) bool {
	switch name {
	case StatusPending, StatusConfirmed, StatusAttended, StatusCancelled, StatusNoShow, StatusReferred:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions leave the given status.
func IsTerminal(name string) bool {
	return KnownStatus(name) && len(transitions[name]) == 0
}

// CanTransition reports whether an appointment may move from one status to
// another. Equal statuses are not a transition; callers treat them as no-ops.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
