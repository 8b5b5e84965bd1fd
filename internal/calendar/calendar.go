// Package calendar turns a set of daily logs into a renderable month grid.
// Everything here is a pure projection: no I/O, no persistence, recomputed
// on every render. Months are 1-based time.Month values throughout the
// whole system.
package calendar

import (
	"fmt"
	"time"

	"habitStopperAPI/internal/habitlog"
)

// StatusNone marks a day with no recorded log.
const StatusNone = "none"

// Cell is one slot of the month grid. Leading placeholder cells that pad the
// first week carry Day == 0.
type Cell struct {
	Day     int    `json:"day"`
	Weekday int    `json:"weekday"` // 0 = Sunday .. 6 = Saturday
	Status  string `json:"status"`  // "none", "success" or "failed"
	IsToday bool   `json:"is_today"`
}

// MonthGrid is the materialized view of one displayed month.
type MonthGrid struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Cells []Cell `json:"cells"`
}

// DateKey formats the canonical "YYYY-MM-DD" key for a day. It is the only
// place in the system that produces date keys.
func DateKey(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// DaysInMonth returns the Gregorian length of a month, leap years included.
// Day 0 of the following month normalizes to the last day of this one.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LeadingBlanks returns the weekday column of the 1st of the month, which is
// also the number of placeholder cells padding the first grid row.
func LeadingBlanks(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// Materialize builds the grid for (year, month) from the given log set.
// Log lookup is exact string equality on the canonical date key. A day is
// flagged IsToday iff its key equals today's key. The result always has
// exactly LeadingBlanks + DaysInMonth cells.
func Materialize(year int, month time.Month, logs []*habitlog.DailyLog, today time.Time) []Cell {
	byDate := make(map[string]habitlog.Status, len(logs))
	for _, l := range logs {
		byDate[l.Date] = l.Status
	}

	blanks := LeadingBlanks(year, month)
	days := DaysInMonth(year, month)
	todayKey := today.Format(habitlog.DateLayout)

	cells := make([]Cell, 0, blanks+days)
	for i := 0; i < blanks; i++ {
		cells = append(cells, Cell{Weekday: i, Status: StatusNone})
	}
	for d := 1; d <= days; d++ {
		key := DateKey(year, month, d)
		status := StatusNone
		if s, ok := byDate[key]; ok {
			status = string(s)
		}
		cells = append(cells, Cell{
			Day:     d,
			Weekday: (blanks + d - 1) % 7,
			Status:  status,
			IsToday: key == todayKey,
		})
	}
	return cells
}
