// Package aggregate derives presentation-ready figures from one owner's records.
// Every function takes the current instant explicitly; calendar boundaries are
// computed in now's location.
package aggregate

import (
	"math"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/models"
)

const msPerDay = 86_400_000

// PeriodWindow returns the [start, end) window of the calendar period that contains now.
// Weeks start on Sunday. An unrecognised period falls back to [anchor, now].
func PeriodWindow(period models.BudgetPeriod, anchor, now time.Time) (start, end time.Time) {
	y, m, d := now.Date()
	loc := now.Location()
	switch period {
	case models.PeriodWeekly:
		sunday := d - int(now.Weekday())
		return time.Date(y, m, sunday, 0, 0, 0, 0, loc), time.Date(y, m, sunday+7, 0, 0, 0, 0, loc)
	case models.PeriodMonthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), time.Date(y, m+1, 1, 0, 0, 0, 0, loc)
	case models.PeriodYearly:
		return time.Date(y, 1, 1, 0, 0, 0, 0, loc), time.Date(y+1, 1, 1, 0, 0, 0, 0, loc)
	default:
		return anchor, now
	}
}

// DaysRemaining rounds the time left until end up to whole days.
func DaysRemaining(end, now time.Time) int {
	ms := end.Sub(now).Milliseconds()
	if ms <= 0 {
		return 0
	}
	return int(math.Ceil(float64(ms) / msPerDay))
}

func StartOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

func StartOfPreviousMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
}

func StartOfYear(now time.Time) time.Time {
	return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
