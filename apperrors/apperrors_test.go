package apperrors

import (
	"errors"
	"net/http"
	"testing"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("state clash"), http.StatusConflict},
		{Unauthorized("who"), http.StatusUnauthorized},
		{Forbidden("no"), http.StatusForbidden},
		{Capacity(10, 10), http.StatusConflict},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := StatusOf(tt.err); got != tt.want {
			t.Errorf("StatusOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestCapacityPayload(t *testing.T) {
	err := Capacity(12, 12)
	data := DataOf(err)
	if data == nil {
		t.Fatal("Capacity must carry counters")
	}
	if data["cupos_totales"] != 12 || data["cupos_ocupados"] != 12 {
		t.Errorf("payload = %v", data)
	}

	if DataOf(errors.New("plain")) != nil {
		t.Error("plain errors carry no payload")
	}
}

func TestMessageFormatting(t *testing.T) {
	err := NotFound("paciente %d no encontrado", 7)
	if err.Error() != "paciente 7 no encontrado" {
		t.Errorf("got %q", err.Error())
	}
}
