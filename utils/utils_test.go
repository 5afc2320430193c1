package utils

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-09-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.September || d.Day() != 15 {
		t.Errorf("got %v", d)
	}

	for _, bad := range []string{"15-09-2025", "2025/09/15", "2025-13-01", ""} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}

func TestParseMonthAndRange(t *testing.T) {
	m, err := ParseMonth("2025-02")
	if err != nil {
		t.Fatalf("ParseMonth: %v", err)
	}

	start, end := MonthRange(m)
	if start.Format(DateLayout) != "2025-02-01" {
		t.Errorf("start = %s", start.Format(DateLayout))
	}
	if end.Format(DateLayout) != "2025-02-28" {
		t.Errorf("end = %s", end.Format(DateLayout))
	}

	if _, err := ParseMonth("09-2025"); err == nil {
		t.Error("ParseMonth with wrong layout should fail")
	}
}

func TestCalculateAge(t *testing.T) {
	// A date far enough back that the year count is stable.
	dob := time.Now().AddDate(-30, 0, 0)
	years, months, days := CalculateAge(dob)
	if years != 30 {
		t.Errorf("years = %d, want 30", years)
	}
	if months != 0 || days != 0 {
		t.Errorf("months/days = %d/%d, want 0/0", months, days)
	}
}
