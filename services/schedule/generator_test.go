package schedule

import (
	"testing"
	"time"

	scheduleType "clinic-booking/types/schedule"
	"clinic-booking/utils"
)

func monthBounds(t *testing.T, mes string) (time.Time, time.Time) {
	t.Helper()
	month, err := utils.ParseMonth(mes)
	if err != nil {
		t.Fatalf("ParseMonth(%s): %v", mes, err)
	}
	return utils.MonthRange(month)
}

func TestTargetDatesByWeekday(t *testing.T) {
	start, end := monthBounds(t, "2025-09")

	// Mondays and Thursdays of September 2025.
	req := scheduleType.MonthlyCreateRequest{
		MedicoID: 1, AreaID: 1, Mes: "2025-09",
		Dias:   []int{0, 3},
		Turnos: scheduleType.ShiftPlan{Manana: scheduleType.ShiftConfig{Activo: true, Cupos: 10}},
	}
	dates, warnings, err := targetDates(req, start, end)
	if err != nil {
		t.Fatalf("targetDates: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	want := []string{
		"2025-09-01", "2025-09-04",
		"2025-09-08", "2025-09-11",
		"2025-09-15", "2025-09-18",
		"2025-09-22", "2025-09-25",
		"2025-09-29",
	}
	if len(dates) != len(want) {
		t.Fatalf("got %d dates, want %d", len(dates), len(want))
	}
	for i, d := range dates {
		if d.Format("2006-01-02") != want[i] {
			t.Errorf("dates[%d] = %s, want %s", i, d.Format("2006-01-02"), want[i])
		}
	}
}

func TestTargetDatesExplicitFechas(t *testing.T) {
	start, end := monthBounds(t, "2025-09")

	req := scheduleType.MonthlyCreateRequest{
		MedicoID: 1, AreaID: 1, Mes: "2025-09",
		Turnos: scheduleType.ShiftPlan{Tarde: scheduleType.ShiftConfig{Activo: true, Cupos: 5}},
		Fechas: []string{"2025-09-10", "2025-10-01", "2025-09-20", "2025-08-31"},
	}
	dates, warnings, err := targetDates(req, start, end)
	if err != nil {
		t.Fatalf("targetDates: %v", err)
	}

	if len(dates) != 2 {
		t.Fatalf("got %d dates, want 2: %v", len(dates), dates)
	}
	if dates[0].Format("2006-01-02") != "2025-09-10" || dates[1].Format("2006-01-02") != "2025-09-20" {
		t.Errorf("unexpected dates: %v", dates)
	}
	if len(warnings) != 2 {
		t.Errorf("out-of-month dates must warn, got %v", warnings)
	}
}

func TestTargetDatesErrors(t *testing.T) {
	start, end := monthBounds(t, "2025-09")

	// Neither dias nor fechas.
	req := scheduleType.MonthlyCreateRequest{
		MedicoID: 1, AreaID: 1, Mes: "2025-09",
		Turnos: scheduleType.ShiftPlan{Manana: scheduleType.ShiftConfig{Activo: true, Cupos: 5}},
	}
	if _, _, err := targetDates(req, start, end); err == nil {
		t.Error("expected error when dias and fechas are both empty")
	}

	// Malformed fecha.
	req.Fechas = []string{"10-09-2025"}
	if _, _, err := targetDates(req, start, end); err == nil {
		t.Error("expected error for malformed fecha")
	}
}

func TestMonthlyCreateRequestValidate(t *testing.T) {
	valid := scheduleType.MonthlyCreateRequest{
		MedicoID: 1, AreaID: 2, Mes: "2025-09",
		Dias: []int{0, 2, 4},
		Turnos: scheduleType.ShiftPlan{
			Manana: scheduleType.ShiftConfig{Activo: true, Cupos: 12},
			Tarde:  scheduleType.ShiftConfig{Activo: true, Cupos: 8},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*scheduleType.MonthlyCreateRequest)
	}{
		{"missing medico", func(r *scheduleType.MonthlyCreateRequest) { r.MedicoID = 0 }},
		{"missing area", func(r *scheduleType.MonthlyCreateRequest) { r.AreaID = 0 }},
		{"missing mes", func(r *scheduleType.MonthlyCreateRequest) { r.Mes = "" }},
		{"no active turno", func(r *scheduleType.MonthlyCreateRequest) {
			r.Turnos = scheduleType.ShiftPlan{}
		}},
		{"zero cupos on active turno", func(r *scheduleType.MonthlyCreateRequest) {
			r.Turnos.Manana.Cupos = 0
		}},
		{"negative cupos on active turno", func(r *scheduleType.MonthlyCreateRequest) {
			r.Turnos.Tarde.Cupos = -3
		}},
		{"dia out of range", func(r *scheduleType.MonthlyCreateRequest) { r.Dias = []int{7} }},
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
}
