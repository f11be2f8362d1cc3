package models

import (
	"fmt"
	"strings"
	"time"
)

// GoalType selects the recurring window a goal is measured over.
type GoalType string

const (
	GoalTypeDaily   GoalType = "DAILY"
	GoalTypeWeekly  GoalType = "WEEKLY"
	GoalTypeMonthly GoalType = "MONTHLY"
)

// GoalTypes lists every supported goal type.
var GoalTypes = []GoalType{GoalTypeDaily, GoalTypeWeekly, GoalTypeMonthly}

// Valid reports whether t is one of the supported goal types.
func (t GoalType) Valid() bool {
	switch t {
	case GoalTypeDaily, GoalTypeWeekly, GoalTypeMonthly:
		return true
	}
	return false
}

// ParseGoalType resolves a goal type case-insensitively.
func ParseGoalType(raw string) (GoalType, error) {
	t := GoalType(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown goal type %q", raw)
	}
	return t, nil
}

// Goal is a study-minutes quota over a recurring period.
type Goal struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	TargetMinutes int       `db:"target_minutes" json:"target_minutes"`
	Type          GoalType  `db:"type" json:"type"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	Active        bool      `db:"active" json:"active"`
}

// GoalProgress reports how far the sessions in a goal's window reach its target.
type GoalProgress struct {
	Goal           Goal      `json:"goal"`
	CurrentMinutes int       `json:"current_minutes"`
	TargetMinutes  int       `json:"target_minutes"`
	Percentage     float64   `json:"percentage"`
	WindowStart    time.Time `json:"window_start"`
}

// GoalFilter narrows goal listings.
type GoalFilter struct {
	ActiveOnly bool
}
