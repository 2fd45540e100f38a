// Package dateparse maps user-supplied date tokens to absolute
// timestamps. A token that does not match the grammar, or that names an
// impossible calendar date, yields ok=false; that is a user-input
// outcome, never an error.
package dateparse

import (
	"strconv"
	"strings"
	"time"
)

const (
	layoutDateTime = "2006-01-02 15:04"
	layoutDate     = "2006-01-02"

	// Relative tokens (today, tomorrow, +N) resolve to this hour.
	canonicalHour = 12
)

// Parse recognizes, in this order:
//
//	YYYY-MM-DD HH:MM
//	YYYY-MM-DD            (time defaults to 00:00)
//	today                 (today at 12:00)
//	tomorrow              (tomorrow at 12:00)
//	+N                    (N days from now, at 12:00)
//
// Matching is case-insensitive and ignores surrounding whitespace.
func Parse(token string, now time.Time) (time.Time, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return time.Time{}, false
	}

	// time.Parse rejects out-of-range components (month 13, day 32)
	// rather than rolling them over, which is exactly what we want.
	if strings.Contains(token, " ") {
		t, err := time.ParseInLocation(layoutDateTime, token, now.Location())
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	if t, err := time.ParseInLocation(layoutDate, token, now.Location()); err == nil {
		return t, true
	}

	switch {
	case token == "today":
		return atCanonicalHour(now), true
	case token == "tomorrow":
		return atCanonicalHour(now.AddDate(0, 0, 1)), true
	case strings.HasPrefix(token, "+"):
		days, err := strconv.Atoi(token[1:])
		if err != nil || days < 0 {
			return time.Time{}, false
		}
		return atCanonicalHour(now.AddDate(0, 0, days)), true
	}
	return time.Time{}, false
}

func atCanonicalHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), canonicalHour, 0, 0, 0, t.Location())
}
