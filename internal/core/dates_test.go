package core

import (
	"testing"
	"time"
)

func TestParseDayFirst(t *testing.T) {
	cases := []struct {
		in               string
		year, month, day int
	}{
		{"03/04/2025", 2025, 4, 3},
		{"3/4/2025", 2025, 4, 3},
		{"15/03/2025 10:30:00", 2025, 3, 15},
		{"15/03/2025 10:30", 2025, 3, 15},
		{"15-03-2025", 2025, 3, 15},
		{"2025-03-15", 2025, 3, 15},
		{"2025-03-15 08:00:00", 2025, 3, 15},
	}
	for _, tc := range cases {
		got := ParseDayFirst(tc.in)
		if got == nil {
			t.Fatalf("ParseDayFirst(%q) = nil", tc.in)
		}
		if got.Year() != tc.year || int(got.Month()) != tc.month || got.Day() != tc.day {
			t.Fatalf("ParseDayFirst(%q) = %v", tc.in, got)
		}
	}
}

func TestParseDayFirstInvalid(t *testing.T) {
	for _, in := range []any{"", "   ", "no es fecha", "32/01/2025", nil, 42, time.Time{}} {
		if got := ParseDayFirst(in); got != nil {
			t.Fatalf("ParseDayFirst(%v) = %v, want nil", in, got)
		}
	}
}
