// internal/service/report/bucket.go
package report

import (
	"fmt"
	"time"
)

// Bucket keys are derived from a timestamp in UTC. Weeks start on Sunday and
// are numbered from the day of year, matching the historical report data.

// DayString returns the ISO date bucket key, e.g. "2025-11-03".
func DayString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// MonthString returns the month bucket key, e.g. "2025-11".
func MonthString(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// WeekString returns the Sunday-start week bucket key, e.g. "2025-W45".
// Week n covers the nth seven-day window counted from the Sunday on or before
// January 1st.
func WeekString(t time.Time) string {
	u := t.UTC()
	jan1 := time.Date(u.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	week := (u.YearDay() + int(jan1.Weekday()) + 6) / 7
	return fmt.Sprintf("%d-W%d", u.Year(), week)
}

// WeekRange returns the half-open [start, end) window of the Sunday-start
// week containing t, at UTC midnight boundaries.
func WeekRange(t time.Time) (start, end time.Time) {
	u := t.UTC()
	midnight := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	start = midnight.AddDate(0, 0, -int(midnight.Weekday()))
	end = start.AddDate(0, 0, 7)
	return start, end
}

// MonthRange returns the half-open [start, end) window of the calendar month
// containing t.
func MonthRange(t time.Time) (start, end time.Time) {
	u := t.UTC()
	start = time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end
}
