// Package timeparse turns user supplied timestamps into times. It accepts
// RFC 3339, a few period anchors ("today", "this week", "last month") and any
// natural-language expression go-dateparser understands ("2 days ago").
package timeparse

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

var periodRegex = regexp.MustCompile(`(?i)^(this|current|last|previous)\s+(day|week|month|year)$`)

// Parse resolves input relative to now. Period anchors resolve to the start of
// the period in now's location.
func Parse(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	switch strings.ToLower(input) {
	case "", "now":
		return now, nil
	case "today":
		return startOfDay(now), nil
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), nil
	}

	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", input, now.Location()); err == nil {
		return t, nil
	}

	if match := periodRegex.FindStringSubmatch(input); match != nil {
		return periodStart(strings.ToLower(match[1]), strings.ToLower(match[2]), now), nil
	}

	cfg := &dateparser.Configuration{CurrentTime: now}
	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised time %q: %w", input, err)
	}
	return result.Time, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func periodStart(modifier, period string, now time.Time) time.Time {
	previous := modifier == "last" || modifier == "previous"
	day := startOfDay(now)

	switch period {
	case "day":
		if previous {
			return day.AddDate(0, 0, -1)
		}
		return day
	case "week":
		// weeks start on Monday
		offset := (int(now.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		if previous {
			start = start.AddDate(0, 0, -7)
		}
		return start
	case "month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		if previous {
			start = start.AddDate(0, -1, 0)
		}
		return start
	default:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		if previous {
			start = start.AddDate(-1, 0, 0)
		}
		return start
	}
}
