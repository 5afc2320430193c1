package appointment

import (
	"testing"
)

func TestKnownStatus(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusAttended, true},
		{StatusCancelled, true},
		{StatusNoShow, true},
		{StatusReferred, true},
		{"PENDIENTE", false},
		{"archivada", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := KnownStatus(tt.name); got != tt.want {
			t.Errorf("KnownStatus(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusAttended, false},
		{StatusPending, StatusNoShow, false},
		{StatusConfirmed, StatusAttended, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusReferred, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusAttended, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusNoShow, StatusConfirmed, false},
		{StatusReferred, StatusAttended, false},
		{StatusPending, StatusPending, false},
		{"desconocido", StatusConfirmed, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []string{StatusAttended, StatusCancelled, StatusNoShow, StatusReferred}
	for _, name := range terminal {
		if !IsTerminal(name) {
			t.Errorf("IsTerminal(%q) = false, want true", name)
		}
	}

	open := []string{StatusPending, StatusConfirmed}
	for _, name := range open {
		if IsTerminal(name) {
			t.Errorf("IsTerminal(%q) = true, want false", name)
		}
	}

	if IsTerminal("desconocido") {
		t.Error("IsTerminal on an unknown status must be false")
	}
}
