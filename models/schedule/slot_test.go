package schedule

import (
	"testing"
	"time"
)

func TestWeekday(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2025-09-01", 0}, // Monday
		{"2025-09-02", 1},
		{"2025-09-05", 4},
		{"2025-09-06", 5},
		{"2025-09-07", 6}, // Sunday
	}

	for _, tt := range tests {
		d, err := time.Parse("2006-01-02", tt.date)
		if err != nil {
			t.Fatalf("parse %s: %v", tt.date, err)
		}
		if got := Weekday(d); got != tt.want {
			t.Errorf("Weekday(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestShiftHelpers(t *testing.T) {
	morning := Slot{Turno: ShiftMorning}
	if morning.TurnoNombre() != "Mañana" {
		t.Errorf("TurnoNombre(M) = %s", morning.TurnoNombre())
	}
	if morning.HoraInicio() != "07:30:00" || morning.HoraFin() != "13:00:00" {
		t.Errorf("morning hours = %s-%s", morning.HoraInicio(), morning.HoraFin())
	}

	afternoon := Slot{Turno: ShiftAfternoon}
	if afternoon.TurnoNombre() != "Tarde" {
		t.Errorf("TurnoNombre(T) = %s", afternoon.TurnoNombre())
	}
	if afternoon.HoraInicio() != "14:00:00" || afternoon.HoraFin() != "19:30:00" {
		t.Errorf("afternoon hours = %s-%s", afternoon.HoraInicio(), afternoon.HoraFin())
	}
}
