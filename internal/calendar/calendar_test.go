package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitStopperAPI/internal/habitlog"
)

func TestDaysInMonth_LeapYears(t *testing.T) {
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 28, DaysInMonth(2023, time.February))
	assert.Equal(t, 29, DaysInMonth(2000, time.February))
	assert.Equal(t, 28, DaysInMonth(1900, time.February))
	assert.Equal(t, 31, DaysInMonth(2024, time.January))
	assert.Equal(t, 30, DaysInMonth(2024, time.April))
}

func TestMaterialize_GridLength(t *testing.T) {
	for year := 1999; year <= 2026; year++ {
		for month := time.January; month <= time.December; month++ {
			cells := Materialize(year, month, nil, time.Time{})

			blanks := LeadingBlanks(year, month)
			assert.GreaterOrEqual(t, blanks, 0)
			assert.LessOrEqual(t, blanks, 6)
			assert.Len(t, cells, blanks+DaysInMonth(year, month))
		}
	}
}

func TestMaterialize_ClassifiesDays(t *testing.T) {
	logs := []*habitlog.DailyLog{
		{Date: "2024-03-01", Status: habitlog.StatusSuccess},
		{Date: "2024-03-15", Status: habitlog.StatusFailed},
	}

	cells := Materialize(2024, time.March, logs, time.Time{})

	// March 2024 starts on a Friday.
	require.Len(t, cells, 5+31)
	for i := 0; i < 5; i++ {
		assert.Equal(t, 0, cells[i].Day)
		assert.Equal(t, StatusNone, cells[i].Status)
		assert.Equal(t, i, cells[i].Weekday)
	}

	for _, c := range cells[5:] {
		switch c.Day {
		case 1:
			assert.Equal(t, string(habitlog.StatusSuccess), c.Status)
		case 15:
			assert.Equal(t, string(habitlog.StatusFailed), c.Status)
		default:
			assert.Equal(t, StatusNone, c.Status, "day %d should have no status", c.Day)
		}
	}

	// Day 1 lands in the Friday column, day 2 in Saturday, day 3 wraps to Sunday.
	assert.Equal(t, 5, cells[5].Weekday)
	assert.Equal(t, 6, cells[6].Weekday)
	assert.Equal(t, 0, cells[7].Weekday)
}

func TestMaterialize_TodayFlag(t *testing.T) {
	today := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)

	cells := Materialize(2024, time.March, nil, today)
	for _, c := range cells {
		assert.Equal(t, c.Day == 5, c.IsToday, "day %d", c.Day)
	}

	// A different displayed month never flags today.
	for _, c := range Materialize(2024, time.April, nil, today) {
		assert.False(t, c.IsToday)
	}
}

func TestDateKey_ZeroPadded(t *testing.T) {
	assert.Equal(t, "2024-03-05", DateKey(2024, time.March, 5))
	assert.Equal(t, "1900-12-25", DateKey(1900, time.December, 25))
}
