package services

import (
	"context"
	"testing"

	"staffboard-backend/internal/models"
	"staffboard-backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAutoTrackerFixture(t *testing.T, probability float64) (*AutoTrackerService, *AttendanceService, []*models.Staff) {
	t.Helper()
	ctx := context.Background()

	staffRepo := repositories.NewStaffRepository()
	var roster []*models.Staff
	for _, name := range []string{"Asha", "Ravi", "Meera"} {
		member := &models.Staff{Name: name, Role: "stylist", Active: true}
		require.NoError(t, staffRepo.Create(ctx, member))
		roster = append(roster, member)
	}

	attendance := NewAttendanceService(repositories.NewAttendanceRepository(), staffRepo, AttendanceConfig{
		DefaultCheckInTime:   "09:00",
		LateThresholdMinutes: 15,
		DefaultHalfDayHours:  4,
	})

	tracker := NewAutoTrackerService(attendance, staffRepo, AutoTrackerConfig{
		Enabled:           true,
		StartHour:         8,
		EndHour:           11,
		SampleProbability: probability,
	})
	return tracker, attendance, roster
}

func TestTickMarksUnmarkedStaffInsideWindow(t *testing.T) {
	tracker, attendance, roster := newAutoTrackerFixture(t, 1.0)
	ctx := context.Background()

	clock := fixedClock(at(9, 5))
	tracker.SetNowFunc(clock)
	attendance.SetNowFunc(clock)

	tracker.Tick(ctx)

	assert.Equal(t, len(roster), attendance.Repo.Count(ctx))
	for _, member := range roster {
		rec, err := attendance.Repo.GetByDay(ctx, member.ID, "2026-08-31")
		require.NoError(t, err)
		assert.Equal(t, models.MethodAuto, rec.Method)
		assert.Equal(t, models.StatusPresent, rec.Status)
		assert.Equal(t, "auto-tracked", rec.Notes)
	}
}

func TestTickMarksLateAfterGrace(t *testing.T) {
	tracker, attendance, roster := newAutoTrackerFixture(t, 1.0)
	ctx := context.Background()

	// 09:00 default + 15 min grace; 09:30 is late
	clock := fixedClock(at(9, 30))
	tracker.SetNowFunc(clock)
	attendance.SetNowFunc(clock)

	tracker.Tick(ctx)

	rec, err := attendance.Repo.GetByDay(ctx, roster[0].ID, "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, models.StatusLate, rec.Status)
}

func TestTickOutsideWindowDoesNothing(t *testing.T) {
	tracker, attendance, _ := newAutoTrackerFixture(t, 1.0)
	ctx := context.Background()

	for _, hour := range []int{7, 11, 14} {
		clock := fixedClock(at(hour, 0))
		tracker.SetNowFunc(clock)
		attendance.SetNowFunc(clock)
		tracker.Tick(ctx)
	}

	assert.Zero(t, attendance.Repo.Count(ctx))
}

func TestTickSkipsAlreadyMarkedStaff(t *testing.T) {
	tracker, attendance, roster := newAutoTrackerFixture(t, 1.0)
	ctx := context.Background()

	clock := fixedClock(at(9, 5))
	tracker.SetNowFunc(clock)
	attendance.SetNowFunc(clock)

	// One member already marked manually as absent before the tick
	_, err := attendance.MarkAttendance(ctx, &models.MarkAttendanceRequest{
		StaffID: roster[0].ID,
		Date:    "2026-08-31",
		Status:  string(models.StatusAbsent),
	})
	require.NoError(t, err)

	tracker.Tick(ctx)

	rec, err := attendance.Repo.GetByDay(ctx, roster[0].ID, "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAbsent, rec.Status)
	assert.Equal(t, len(roster), attendance.Repo.Count(ctx))

	// Repeat ticks never duplicate
	tracker.Tick(ctx)
	assert.Equal(t, len(roster), attendance.Repo.Count(ctx))
}

func TestTickIgnoresInactiveStaff(t *testing.T) {
	tracker, attendance, roster := newAutoTrackerFixture(t, 1.0)
	ctx := context.Background()

	clock := fixedClock(at(9, 5))
	tracker.SetNowFunc(clock)
	attendance.SetNowFunc(clock)

	staffRepo := tracker.StaffRepo.(*repositories.StaffRepository)
	require.NoError(t, staffRepo.SetActive(ctx, roster[1].ID, false))

	tracker.Tick(ctx)

	assert.Equal(t, len(roster)-1, attendance.Repo.Count(ctx))
	_, err := attendance.Repo.GetByDay(ctx, roster[1].ID, "2026-08-31")
	require.ErrorIs(t, err, repositories.ErrRecordNotFound)
}

func TestStartNoOpWhenDisabled(t *testing.T) {
	tracker, _, _ := newAutoTrackerFixture(t, 1.0)
	tracker.cfg.Enabled = false

	require.NoError(t, tracker.Start())
	tracker.Stop()
}
