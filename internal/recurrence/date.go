package recurrence

import "time"

const (
	minYear = 1
	maxYear = 9999

	secondsPerDay = 24 * 60 * 60
)

// Date truncates t to its calendar date, expressed as midnight UTC.
// The wall clock of t is used as-is, so callers convert to the business
// location first (see DateIn).
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateIn returns the calendar date of t as observed in loc.
func DateIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}

	return Date(t.In(loc))
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// addMonths moves anchor forward n calendar months. The day of month is
// clamped to the target month's length, always starting from anchor.
func addMonths(anchor time.Time, n int) time.Time {
	total := anchor.Year()*12 + int(anchor.Month()-1) + n
	year, month := total/12, time.Month(total%12+1)

	day := min(anchor.Day(), daysIn(year, month))

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int((Date(to).Unix() - Date(from).Unix()) / secondsPerDay)
}
