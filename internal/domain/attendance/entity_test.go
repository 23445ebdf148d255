package attendance

import (
	"testing"
	"time"
)

func TestShiftDay(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-05-01", "wednesday"},
		{"2024-05-04", "saturday"},
		{"2024-05-05", "sunday"},
		{"2024-12-31", "tuesday"},
	}

	for _, tt := range tests {
		date, err := time.Parse("2006-01-02", tt.date)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.date, err)
		}
		if got := ShiftDay(date); got != tt.want {
			t.Errorf("ShiftDay(%s) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestMonthSequence(t *testing.T) {
	tests := []struct {
		month string
		want  int
	}{
		{"january", 0},
		{"may", 4},
		{"december", 11},
		{"May", 4},
		{"may-2024", 4},
		{"notamonth", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := MonthSequence(tt.month); got != tt.want {
			t.Errorf("MonthSequence(%q) = %d, want %d", tt.month, got, tt.want)
		}
	}
}

func TestMonthName(t *testing.T) {
	date := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	if got := MonthName(date); got != "may" {
		t.Errorf("MonthName(2024-05-01) = %q, want %q", got, "may")
	}
}
