package auth

import (
	"fmt"
)

type LoginRequest struct {
	DNI      string `json:"dni"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if r.DNI == "" {
		return fmt.Errorf("dni is required")
	}
	if len(r.DNI) != 8 {
		return fmt.Errorf("dni must have 8 digits")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"password_actual"`
	NewPassword     string `json:"password_nuevo"`
}

func (r ChangePasswordRequest) Validate() error {
	if r.CurrentPassword == "" {
		return fmt.Errorf("password_actual is required")
	}
	if len(r.NewPassword) < 6 {
		return fmt.Errorf("password_nuevo must have at least 6 characters")
	}
	return nil
}
