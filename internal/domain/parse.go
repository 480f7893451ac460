package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidClock = errors.New("invalid clock time")
	ErrInvalidDate  = errors.New("invalid date")
	ErrFutureDate   = errors.New("date is in the future")
)

// ParseClock parses a wall-clock "HH:MM" string into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: expected HH:MM, got %q", ErrInvalidClock, s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: bad hour in %q", ErrInvalidClock, s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: bad minute in %q", ErrInvalidClock, s)
	}
	return hour, minute, nil
}

// ParseDate parses a strict YYYY-MM-DD calendar date. Dates after now
// (compared by calendar day in UTC) are rejected; history has no future.
func ParseDate(s string, now time.Time) (time.Time, error) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	today := now.UTC().Truncate(24 * time.Hour)
	if d.After(today) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrFutureDate, s)
	}
	return d, nil
}

// NextDaily returns the next instant at hour:minute in loc strictly after now:
// today if that time is still ahead, otherwise tomorrow.
func NextDaily(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
