package user

import (
	"fmt"
)

type UserCreateRequest struct {
	DNI             string  `json:"dni"`
	Nombres         string  `json:"nombres"`
	ApellidoPaterno string  `json:"apellido_paterno"`
	ApellidoMaterno string  `json:"apellido_materno"`
	Telefono        *string `json:"telefono,omitempty"`
	Email           *string `json:"email,omitempty"`

	Password string `json:"password"`
	RolID    uint   `json:"rol_id"`

	Especialidades []uint `json:"especialidades,omitempty"`
}

func (r UserCreateRequest) Validate() error {
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
	if len(r.Password) < 6 {
		return fmt.Errorf("password must have at least 6 characters")
	}
	if r.RolID == 0 {
		return fmt.Errorf("rol_id is required")
	}
	return nil
}

type UserUpdateRequest struct {
	Telefono *string `json:"telefono,omitempty"`
	Email    *string `json:"email,omitempty"`
	RolID    *uint   `json:"rol_id,omitempty"`
	Activo   *bool   `json:"activo,omitempty"`
	Password *string `json:"password,omitempty"`

	Especialidades []uint `json:"especialidades,omitempty"`
}

func (r UserUpdateRequest) Validate() error {
	if r.Password != nil && len(*r.Password) < 6 {
		return fmt.Errorf("password must have at least 6 characters")
	}
	return nil
}
