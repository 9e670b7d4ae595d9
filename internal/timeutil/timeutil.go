package timeutil

import (
	"fmt"
	"os"
	"time"
)

// Loc is the business timezone all attendance math happens in.
// Set APP_TIMEZONE to override; falls back to the host's local zone.
var Loc *time.Location

func init() {
	name := os.Getenv("APP_TIMEZONE")
	if name == "" {
		Loc = time.Local
		return
	}
	var err error
	Loc, err = time.LoadLocation(name)
	if err != nil {
		Loc = time.Local
	}
}

// Now returns the current time in the business timezone
func Now() time.Time {
	return time.Now().In(Loc)
}

// StartOfDay returns the start of day (00:00:00) for the given time
func StartOfDay(t time.Time) time.Time {
	lt := t.In(Loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, Loc)
}

// DateKey returns the calendar-day key (YYYY-MM-DD) for the given time
func DateKey(t time.Time) string {
	return t.In(Loc).Format(DateLayout)
}

// ParseClock parses an HH:MM wall-clock string
func ParseClock(value string) (hour, minute int, err error) {
	if _, err = fmt.Sscanf(value, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid clock time %q: %w", value, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid clock time %q", value)
	}
	return hour, minute, nil
}

// ClockAt places an HH:MM wall-clock string on the calendar day of ref
func ClockAt(ref time.Time, clock string) (time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	lt := ref.In(Loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), hour, minute, 0, 0, Loc), nil
}

// HoursBetween returns the signed duration from a to b in hours, minute precision
func HoursBetween(a, b time.Time) float64 {
	minutes := b.Sub(a).Round(time.Minute).Minutes()
	return minutes / 60.0
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	ClockLayout    = "15:04"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)
