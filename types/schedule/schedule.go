package schedule

import (
	"fmt"
)

// ShiftConfig enables one shift of the plan with its own capacity.
type ShiftConfig struct {
	Activo bool `json:"activo"`
	Cupos  int  `json:"cupos"`
}

// ShiftPlan carries both shifts of a generation request. At least one must
// be active.
type ShiftPlan struct {
	Manana ShiftConfig `json:"manana"`
	Tarde  ShiftConfig `json:"tarde"`
}

// MonthlyCreateRequest generates slots for the selected days of a month,
// one per active shift. Dias uses the Monday=0 scale; Fechas limits
// generation to those dates when present.
type MonthlyCreateRequest struct {
	MedicoID uint   `json:"medico_id"`
	AreaID   uint   `json:"area_id"`
	Mes      string `json:"mes"` // YYYY-MM

	Dias   []int     `json:"dias"`
	Turnos ShiftPlan `json:"turnos"`

	Fechas []string `json:"fechas,omitempty"`
}

func (r MonthlyCreateRequest) Validate() error {
	if r.MedicoID == 0 {
		return fmt.Errorf("medico_id is required")
	}
	if r.AreaID == 0 {
		return fmt.Errorf("area_id is required")
	}
	if r.Mes == "" {
		return fmt.Errorf("mes is required")
	}
	if !r.Turnos.Manana.Activo && !r.Turnos.Tarde.Activo {
		return fmt.Errorf("debe activar al menos un turno")
	}
	if r.Turnos.Manana.Activo && r.Turnos.Manana.Cupos <= 0 {
		return fmt.Errorf("turnos.manana.cupos must be positive")
	}
	if r.Turnos.Tarde.Activo && r.Turnos.Tarde.Cupos <= 0 {
		return fmt.Errorf("turnos.tarde.cupos must be positive")
	}
	for _, d := range r.Dias {
		if d < 0 || d > 6 {
			return fmt.Errorf("dias must be between 0 and 6")
		}
	}
	return nil
}

type SlotUpdateRequest struct {
	Cupos  *int  `json:"cupos,omitempty"`
	AreaID *uint `json:"area_id,omitempty"`
}

func (r SlotUpdateRequest) Validate() error {
	if r.Cupos != nil && *r.Cupos <= 0 {
		return fmt.Errorf("cupos must be positive")
	}
	if r.AreaID != nil && *r.AreaID == 0 {
		return fmt.Errorf("area_id must be positive")
	}
	return nil
}
