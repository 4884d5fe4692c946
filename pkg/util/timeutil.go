package util

import "time"

// DateLayout is the calendar-day layout used for forecast grouping.
const DateLayout = "2006-01-02"

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// DayKey formats the calendar date of t in its own location.
func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
