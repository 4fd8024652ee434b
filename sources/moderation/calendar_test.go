package moderation

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysFromYears(t *testing.T) {
	tests := []struct {
		name     string
		years    int
		now      time.Time
		expected int
	}{
		{
			name:     "Four years from a leap year",
			years:    4,
			now:      date(2024, time.January, 1),
			expected: 366 + 365 + 365 + 365,
		},
		{
			name:     "Single common year",
			years:    1,
			now:      date(2023, time.March, 10),
			expected: 365,
		},
		{
			name:     "Zero years",
			years:    0,
			now:      date(2024, time.January, 1),
			expected: 0,
		},
		{
			name:     "Century is not leap",
			years:    1,
			now:      date(1900, time.January, 1),
			expected: 365,
		},
		{
			name:     "Quadricentennial is leap",
			years:    1,
			now:      date(2000, time.January, 1),
			expected: 366,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysFromYears(tt.years, tt.now); got != tt.expected {
				t.Errorf("DaysFromYears(%d, %v) = %d, want %d", tt.years, tt.now, got, tt.expected)
			}
		})
	}
}

func TestDaysFromMonths(t *testing.T) {
	tests := []struct {
		name     string
		months   int
		now      time.Time
		expected int
	}{
		{
			name:     "Thirteen months is a year plus january",
			months:   13,
			now:      date(2023, time.January, 15),
			expected: 365 + 31,
		},
		{
			name:     "Single month",
			months:   1,
			now:      date(2023, time.January, 15),
			expected: 31,
		},
		{
			name:     "Two months spanning february",
			months:   2,
			now:      date(2023, time.January, 15),
			expected: 31 + 28,
		},
		{
			name:     "February in a leap year",
			months:   1,
			now:      date(2024, time.February, 1),
			expected: 29,
		},
		{
			name:     "Rollover across a year boundary",
			months:   2,
			now:      date(2023, time.December, 15),
			expected: 31 + 31,
		},
		{
			name:     "Exactly twelve months",
			months:   12,
			now:      date(2024, time.January, 1),
			expected: 366,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysFromMonths(tt.months, tt.now); got != tt.expected {
				t.Errorf("DaysFromMonths(%d, %v) = %d, want %d", tt.months, tt.now, got, tt.expected)
			}
		})
	}
}

func TestDurationFrom(t *testing.T) {
	now := date(2023, time.January, 15)

	tests := []struct {
		name     string
		count    int
		unit     byte
		expected time.Duration
	}{
		{name: "Seconds", count: 45, unit: 's', expected: 45 * time.Second},
		{name: "Minutes", count: 30, unit: 'm', expected: 30 * time.Minute},
		{name: "Hours", count: 2, unit: 'h', expected: 2 * time.Hour},
		{name: "Days", count: 7, unit: 'd', expected: 7 * 24 * time.Hour},
		{name: "Months expand through the calendar", count: 1, unit: 'M', expected: 31 * 24 * time.Hour},
		{name: "Years expand through the calendar", count: 1, unit: 'y', expected: 365 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DurationFrom(tt.count, tt.unit, now); got != tt.expected {
				t.Errorf("DurationFrom(%d, %q, now) = %v, want %v", tt.count, tt.unit, got, tt.expected)
			}
		})
	}
}

func TestDurationFromUnknownUnitPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown unit")
		}
	}()
	DurationFrom(1, 'x', date(2023, time.January, 15))
}
