package models

import (
	"strings"
	"time"
)

// StudySession is one logged interval of studying a subject.
type StudySession struct {
	ID              string    `db:"id" json:"id"`
	Subject         string    `db:"subject" json:"subject"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	StartTime       time.Time `db:"start_time" json:"start_time"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// AnalyticsPeriod names an analytics window.
type AnalyticsPeriod string

const (
	PeriodDaily   AnalyticsPeriod = "daily"
	PeriodWeekly  AnalyticsPeriod = "weekly"
	PeriodMonthly AnalyticsPeriod = "monthly"
)

// ParsePeriod matches raw case-insensitively; anything unknown is weekly.
func ParsePeriod(raw string) AnalyticsPeriod {
	switch p := AnalyticsPeriod(strings.ToLower(strings.TrimSpace(raw))); p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return p
	}
	return PeriodWeekly
}

// SubjectMinutes is one row of the per-subject breakdown.
type SubjectMinutes struct {
	Subject string `db:"subject" json:"subject"`
	Minutes int    `db:"minutes" json:"minutes"`
}

// SessionAnalytics summarises study time over a period.
type SessionAnalytics struct {
	Period           AnalyticsPeriod  `json:"period"`
	RequestedPeriod  string           `json:"requested_period"`
	WindowStart      time.Time        `json:"window_start"`
	TotalMinutes     int              `json:"total_minutes"`
	SubjectBreakdown []SubjectMinutes `json:"subject_breakdown"`
}

// SessionRange bounds a start_time range query (inclusive).
type SessionRange struct {
	From time.Time
	To   time.Time
}
