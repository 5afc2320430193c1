package appointment

import (
	"fmt"
)

// CompanionPayload is the optional acompañante block of a booking request.
// The person is upserted by DNI.
type CompanionPayload struct {
	DNI             string  `json:"dni"`
	Nombres         string  `json:"nombres"`
	ApellidoPaterno string  `json:"apellido_paterno"`
	ApellidoMaterno string  `json:"apellido_materno"`
	Telefono        *string `json:"telefono,omitempty"`
}

func (c CompanionPayload) Validate() error {
	if c.DNI == "" {
		return fmt.Errorf("acompanante.dni is required")
	}
	if len(c.DNI) != 8 {
		return fmt.Errorf("acompanante.dni must have 8 digits")
	}
	if c.Nombres == "" {
		return fmt.Errorf("acompanante.nombres is required")
	}
	return nil
}

type BookingCreateRequest struct {
	PacienteID uint    `json:"paciente_id"`
	HorarioID  uint    `json:"horario_id"`
	Fecha      string  `json:"fecha"`
	Sintomas   *string `json:"sintomas"`

	AreaID *uint `json:"area_id,omitempty"`

	DatosAdicionales map[string]interface{} `json:"datos_adicionales,omitempty"`
	Acompanante      *CompanionPayload      `json:"acompanante,omitempty"`
}

func (r BookingCreateRequest) Validate() error {
	if r.PacienteID == 0 {
		return fmt.Errorf("paciente_id is required")
	}
	if r.HorarioID == 0 {
		return fmt.Errorf("horario_id is required")
	}
	if r.Fecha == "" {
		return fmt.Errorf("fecha is required")
	}
	if r.Sintomas == nil || *r.Sintomas == "" {
		return fmt.Errorf("sintomas is required")
	}
	if r.Acompanante != nil {
		if err := r.Acompanante.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type StatusChangeRequest struct {
	Estado     string  `json:"estado"`
	Comentario *string `json:"comentario,omitempty"`
}

func (r StatusChangeRequest) Validate() error {
	if r.Estado == "" {
		return fmt.Errorf("estado is required")
	}
	return nil
}

// UpdateRequest carries the mutable fields of a cita. Pointer fields left
// nil are not touched; datos_adicionales is merged, not replaced.
type UpdateRequest struct {
	Sintomas         *string                `json:"sintomas,omitempty"`
	AreaID           *uint                  `json:"area_id,omitempty"`
	DatosAdicionales map[string]interface{} `json:"datos_adicionales,omitempty"`
}
