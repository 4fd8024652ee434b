package moderation

import (
	"fmt"
	"time"
)

// IsLeapYear implements the Gregorian rule: divisible by 4, not by 100
// unless by 400.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysFromYears sums the calendar lengths of n consecutive years starting
// at now's year.
func DaysFromYears(n int, now time.Time) int {
	days := 0
	for y := now.Year(); y < now.Year()+n; y++ {
		yearDays := 365
		if IsLeapYear(y) {
			yearDays++
		}
		days += yearDays
	}
	return days
}

// DaysFromMonths decomposes n months into whole years plus a tail of
// calendar months consumed from now's month, rolling over year boundaries.
func DaysFromMonths(n int, now time.Time) int {
	years := n / 12
	n = n % 12

	days := 0
	year, month := now.Year(), now.Month()
	for i := 0; i < n; i++ {
		days += DaysInMonth(year, month)
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	return days + DaysFromYears(years, now)
}

// DurationFrom expands count units into a concrete delta relative to now.
// The unit set is fixed by the command grammar; an unknown unit is a caller
// bug, not user input.
func DurationFrom(count int, unit byte, now time.Time) time.Duration {
	switch unit {
	case 's':
		return time.Duration(count) * time.Second
	case 'm':
		return time.Duration(count) * time.Minute
	case 'h':
		return time.Duration(count) * time.Hour
	case 'd':
		return time.Duration(count) * 24 * time.Hour
	case 'M':
		return time.Duration(DaysFromMonths(count, now)) * 24 * time.Hour
	case 'y':
		return time.Duration(DaysFromYears(count, now)) * 24 * time.Hour
	default:
		panic(fmt.Sprintf("moderation: unknown duration unit %q", string(unit)))
	}
}
