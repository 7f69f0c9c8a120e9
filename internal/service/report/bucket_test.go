package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayString(t *testing.T) {
	d := time.Date(2025, time.November, 3, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "2025-11-03", DayString(d))
}

func TestDayString_ConvertsToUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	d := time.Date(2025, time.November, 3, 1, 30, 0, 0, ist)
	// 01:30 IST is still the previous day in UTC.
	assert.Equal(t, "2025-11-02", DayString(d))
}

func TestMonthString(t *testing.T) {
	d := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-11", MonthString(d))
}

func TestWeekString(t *testing.T) {
	cases := []struct {
		date time.Time
		want string
	}{
		// Jan 1st 2025 is a Wednesday; the first partial week is week 1.
		{time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), "2025-W1"},
		{time.Date(2025, time.November, 3, 12, 0, 0, 0, time.UTC), "2025-W45"},
		// Leap year ending on a Tuesday lands in week 53.
		{time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), "2024-W53"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, WeekString(tc.date), "for %s", tc.date)
	}
}

func TestWeekRange_SundayStart(t *testing.T) {
	// Monday November 3rd 2025.
	start, end := WeekRange(time.Date(2025, time.November, 3, 18, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.November, 9, 0, 0, 0, 0, time.UTC), end)
}

func TestWeekRange_SundayIsItsOwnStart(t *testing.T) {
	start, end := WeekRange(time.Date(2025, time.November, 2, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.November, 9, 0, 0, 0, 0, time.UTC), end)
}

func TestWeekRange_SameWeekSameBucket(t *testing.T) {
	a, _ := WeekRange(time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC))
	b, _ := WeekRange(time.Date(2025, time.November, 8, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, a, b)
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(time.Date(2025, time.November, 15, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestMonthRange_December(t *testing.T) {
	start, end := MonthRange(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}
