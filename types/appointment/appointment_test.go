package appointment

import (
	"testing"
)

func TestBookingCreateRequestValidate(t *testing.T) {
	sintomas := "dolor de cabeza"
	valid := BookingCreateRequest{
		PacienteID: 1,
		HorarioID:  2,
		Fecha:      "2025-09-15",
		Sintomas:   &sintomas,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*BookingCreateRequest)
	}{
		{"missing paciente", func(r *BookingCreateRequest) { r.PacienteID = 0 }},
		{"missing horario", func(r *BookingCreateRequest) { r.HorarioID = 0 }},
		{"missing fecha", func(r *BookingCreateRequest) { r.Fecha = "" }},
		{"missing sintomas", func(r *BookingCreateRequest) { r.Sintomas = nil }},
		{"empty sintomas", func(r *BookingCreateRequest) {
			empty := ""
			r.Sintomas = &empty
		}},
		{"companion without dni", func(r *BookingCreateRequest) {
			r.Acompanante = &CompanionPayload{Nombres: "Ana"}
		}},
		{"companion short dni", func(r *BookingCreateRequest) {
			r.Acompanante = &CompanionPayload{DNI: "123", Nombres: "Ana"}
		}},
		{"companion without nombres", func(r *BookingCreateRequest) {
			r.Acompanante = &CompanionPayload{DNI: "12345678"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			if err := req.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	withCompanion := valid
	withCompanion.Acompanante = &CompanionPayload{
		DNI:             "87654321",
		Nombres:         "Ana",
		ApellidoPaterno: "Quispe",
	}
	if err := withCompanion.Validate(); err != nil {
		t.Errorf("valid companion rejected: %v", err)
	}
}

func TestStatusChangeRequestValidate(t *testing.T) {
	if err := (StatusChangeRequest{}).Validate(); err == nil {
		t.Error("empty estado must be rejected")
	}
	if err := (StatusChangeRequest{Estado: "confirmada"}).Validate(); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}
}
