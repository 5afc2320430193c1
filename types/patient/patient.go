package patient

import (
	"fmt"
)

// PatientUpsertRequest creates or updates a patient keyed by DNI. Person
// fields and clinical-history fields travel together; the controller splits
// them across personas and pacientes.
type PatientUpsertRequest struct {
	DNI             string  `json:"dni"`
	Nombres         string  `json:"nombres"`
	ApellidoPaterno string  `json:"apellido_paterno"`
	ApellidoMaterno string  `json:"apellido_materno"`
	FechaNacimiento *string `json:"fecha_nacimiento,omitempty"`
	Sexo            *string `json:"sexo,omitempty"`
	Telefono        *string `json:"telefono,omitempty"`
	Email           *string `json:"email,omitempty"`
	Direccion       *string `json:"direccion,omitempty"`

	EstadoCivil      string  `json:"estado_civil"`
	GradoInstruccion *string `json:"grado_instruccion,omitempty"`
	Religion         *string `json:"religion,omitempty"`
	Procedencia      *string `json:"procedencia,omitempty"`
	Ocupacion        *string `json:"ocupacion,omitempty"`
	Seguro           *string `json:"seguro,omitempty"`
	NumeroSeguro     *string `json:"numero_seguro,omitempty"`
}

func (r PatientUpsertRequest) Validate() error {
	if r.DNI == "" {
		return fmt.Errorf("dni is required")
	}
	if len(r.DNI) != 8 {
		return fmt.Errorf("dni must have 8 digits")
	}
	if r.Nombres == "" {
		return fmt.Errorf("nombres is required")
	}
	if r.ApellidoPaterno == "" {
		return fmt.Errorf("apellido_paterno is required")
	}
	if r.EstadoCivil == "" {
		return fmt.Errorf("estado_civil is required")
	}
	if r.Sexo != nil && *r.Sexo != "M" && *r.Sexo != "F" {
		return fmt.Errorf("sexo must be M or F")
	}
	return nil
}
