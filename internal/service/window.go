package service

import (
	"math"
	"time"

	"github.com/noah-isme/studytracker-api/internal/models"
)

// GoalWindowStart returns the instant from which minutes count towards a goal.
// DAILY goals start at midnight of the current calendar day in loc.
func GoalWindowStart(goalType models.GoalType, now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	switch goalType {
	case models.GoalTypeDaily:
		local := now.In(loc)
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	case models.GoalTypeMonthly:
		return minusMonth(now)
	default:
		return now.AddDate(0, 0, -7)
	}
}

// PeriodWindowStart returns the rolling window start for an analytics period.
func PeriodWindowStart(period models.AnalyticsPeriod, now time.Time) time.Time {
	switch period {
	case models.PeriodDaily:
		return now.AddDate(0, 0, -1)
	case models.PeriodMonthly:
		return minusMonth(now)
	default:
		return now.AddDate(0, 0, -7)
	}
}

// ProgressPercentage is current/target as a percentage clamped to [0,100].
// A non-positive target yields 0.
func ProgressPercentage(current, target int) float64 {
	if target <= 0 {
		return 0
	}
	pct := float64(current) * 100 / float64(target)
	return math.Max(0, math.Min(100, pct))
}

// minusMonth steps back one calendar month, clamping to the last day of a
// shorter month (Mar 31 -> Feb 29) instead of overflowing like AddDate.
func minusMonth(t time.Time) time.Time {
	year, month, day := t.Date()
	firstOfPrev := time.Date(year, month-1, 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfPrev.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	hour, minute, sec := t.Clock()
	return time.Date(firstOfPrev.Year(), firstOfPrev.Month(), day, hour, minute, sec, t.Nanosecond(), t.Location())
}
