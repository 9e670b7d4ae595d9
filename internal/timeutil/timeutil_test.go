package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	hour, minute, err := ParseClock("09:00")
	require.NoError(t, err)
	assert.Equal(t, 9, hour)
	assert.Equal(t, 0, minute)

	hour, minute, err = ParseClock("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23, hour)
	assert.Equal(t, 59, minute)

	for _, bad := range []string{"24:00", "12:60", "-1:30", "nine", ""} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestClockAt(t *testing.T) {
	ref := time.Date(2026, 8, 31, 15, 42, 10, 0, Loc)
	got, err := ClockAt(ref, "09:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 31, 9, 30, 0, 0, Loc), got)

	_, err = ClockAt(ref, "25:00")
	require.Error(t, err)
}

func TestHoursBetween(t *testing.T) {
	a := time.Date(2026, 8, 31, 9, 0, 0, 0, Loc)

	assert.Equal(t, 4.5, HoursBetween(a, a.Add(4*time.Hour+30*time.Minute)))
	assert.Equal(t, -8.0, HoursBetween(a, a.Add(-8*time.Hour)))

	// Sub-minute noise rounds away
	assert.Equal(t, 1.0, HoursBetween(a, a.Add(time.Hour+20*time.Second)))
	assert.Zero(t, HoursBetween(a, a))
}

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2026-08-31", DateKey(time.Date(2026, 8, 31, 23, 59, 0, 0, Loc)))
	assert.Equal(t, "2026-01-05", DateKey(time.Date(2026, 1, 5, 0, 0, 0, 0, Loc)))
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(time.Date(2026, 8, 31, 18, 45, 12, 999, Loc))
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, Loc), got)
}
