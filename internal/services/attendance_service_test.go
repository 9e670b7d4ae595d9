package services

import (
	"context"
	"testing"
	"time"

	"staffboard-backend/internal/models"
	"staffboard-backend/internal/repositories"
	"staffboard-backend/internal/timeutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAttendanceService(t *testing.T) (*AttendanceService, *models.Staff) {
	t.Helper()

	staffRepo := repositories.NewStaffRepository()
	staff := &models.Staff{Name: "Asha", Role: "stylist", Active: true}
	require.NoError(t, staffRepo.Create(context.Background(), staff))

	svc := NewAttendanceService(repositories.NewAttendanceRepository(), staffRepo, AttendanceConfig{
		DefaultCheckInTime:   "09:00",
		DefaultCheckOutTime:  "18:00",
		LateThresholdMinutes: 15,
		DefaultHalfDayHours:  4,
	})
	return svc, staff
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func at(hour, min int) time.Time {
	return time.Date(2026, 8, 31, hour, min, 0, 0, timeutil.Loc)
}

func TestMarkAttendanceCreatesRecord(t *testing.T) {
	svc, staff := newTestAttendanceService(t)

	rec, err := svc.MarkAttendance(context.Background(), &models.MarkAttendanceRequest{
		StaffID: staff.ID,
		Date:    "2026-08-31",
		Status:  "present",
	})
	require.NoError(t, err)
	assert.Equal(t, staff.Name, rec.StaffName)
	assert.Equal(t, models.StatusPresent, rec.Status)
	assert.Equal(t, models.MethodManual, rec.Method)

	// Presence without an explicit check-in defaults to the configured time
	require.NotNil(t, rec.CheckInTime)
	assert.Equal(t, 9, rec.CheckInTime.Hour())
	assert.Equal(t, 0, rec.CheckInTime.Minute())
}

func TestMarkAttendanceRejectsSecondMarkSameDay(t *testing.T) {
	svc, staff := newTestAttendanceService(t)
	ctx := context.Background()

	req := &models.MarkAttendanceRequest{StaffID: staff.ID, Date: "2026-08-31", Status: "present"}
	_, err := svc.MarkAttendance(ctx, req)
	require.NoError(t, err)

	_, err = svc.MarkAttendance(ctx, req)
	require.ErrorIs(t, err, repositories.ErrAlreadyMarked)

	// A different day is a different key
	_, err = svc.MarkAttendance(ctx, &models.MarkAttendanceRequest{
		StaffID: staff.ID, Date: "2026-09-01", Status: "present",
	})
	require.NoError(t, err)
}

func TestWorkHoursExactComputation(t *testing.T) {
	svc, staff := newTestAttendanceService(t)

	checkIn := at(9, 0)
	checkOut := at(13, 30)
	rec, err := svc.MarkAttendance(context.Background(), &models.MarkAttendanceRequest{
		StaffID:  staff.ID,
		Date:     "2026-08-31",
		Status:   "present",
		CheckIn:  &checkIn,
		CheckOut: &checkOut,
	})
	require.NoError(t, err)
	assert.Equal(t, 4.5, rec.WorkHours)
}

func TestNegativeWorkHoursSurfacedNotClamped(t *testing.T) {
	svc, staff := newTestAttendanceService(t)

	checkIn := at(17, 0)
	checkOut := at(9, 0)
	rec, err := svc.MarkAttendance(context.Background(), &models.MarkAttendanceRequest{
		StaffID:  staff.ID,
		Date:     "2026-08-31",
		Status:   "present",
		CheckIn:  &checkIn,
		CheckOut: &checkOut,
	})
	require.NoError(t, err)
	assert.Equal(t, -8.0, rec.WorkHours)
}

func TestMarkAttendanceUnknownStaff(t *testing.T) {
	svc, _ := newTestAttendanceService(t)
	_, err := svc.MarkAttendance(context.Background(), &models.MarkAttendanceRequest{
		StaffID: "nope", Status: "present",
	})
	require.EqualError(t, err, "staff not found")
}

func TestCustomStatusSurvivesAndImpliesPresence(t *testing.T) {
	svc, staff := newTestAttendanceService(t)

	rec, err := svc.MarkAttendance(context.Background(), &models.MarkAttendanceRequest{
		StaffID: staff.ID,
		Date:    "2026-08-31",
		Status:  "training-offsite",
	})
	require.NoError(t, err)
	assert.True(t, rec.Status.IsCustom())
	assert.NotNil(t, rec.CheckInTime)
}

func TestQuickMarkHalfDayPinsWorkHours(t *testing.T) {
	svc, staff := newTestAttendanceService(t)
	svc.SetNowFunc(fixedClock(at(10, 0)))

	rec, err := svc.QuickMark(context.Background(), staff.ID, models.StatusHalfDay)
	require.NoError(t, err)
	assert.Equal(t, 4.0, rec.WorkHours)
	require.NotNil(t, rec.CheckOutTime)
	assert.Equal(t, 14, rec.CheckOutTime.Hour())
}

func TestQuickMarkAbsentHasNoTimes(t *testing.T) {
	svc, staff := newTestAttendanceService(t)
	svc.SetNowFunc(fixedClock(at(10, 0)))

	rec, err := svc.QuickMark(context.Background(), staff.ID, models.StatusAbsent)
	require.NoError(t, err)
	assert.Nil(t, rec.CheckInTime)
	assert.Nil(t, rec.CheckOutTime)
	assert.Zero(t, rec.WorkHours)
}

func TestQuickMarkRejectsUnsupportedStatus(t *testing.T) {
	svc, staff := newTestAttendanceService(t)
	_, err := svc.QuickMark(context.Background(), staff.ID, models.StatusLate)
	require.Error(t, err)
}

func TestQuickMarkRejectsAlreadyMarked(t *testing.T) {
	svc, staff := newTestAttendanceService(t)
	svc.SetNowFunc(fixedClock(at(10, 0)))
	ctx := context.Background()

	_, err := svc.QuickMark(ctx, staff.ID, models.StatusPresent)
	require.NoError(t, err)

	_, err = svc.QuickMark(ctx, staff.ID, models.StatusAbsent)
	require.ErrorIs(t, err, repositories.ErrAlreadyMarked)
}

func TestEditRecordRederivesWorkHours(t *testing.T) {
	svc, staff := newTestAttendanceService(t)
	ctx := context.Background()

	checkIn := at(9, 0)
	rec, err := svc.MarkAttendance(ctx, &models.MarkAttendanceRequest{
		StaffID: staff.ID, Date: "2026-08-31", Status: "present", CheckIn: &checkIn,
	})
	require.NoError(t, err)
	assert.Zero(t, rec.WorkHours)

	checkOut := at(17, 15)
	notes := "left early meeting"
	edited, err := svc.EditRecord(ctx, rec.ID, &models.EditAttendanceRequest{
		CheckOut: &checkOut,
		Notes:    &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, 8.25, edited.WorkHours)
	assert.Equal(t, notes, edited.Notes)

	_, err = svc.EditRecord(ctx, "missing", &models.EditAttendanceRequest{})
	require.ErrorIs(t, err, repositories.ErrRecordNotFound)
}

func TestBiometricCheckInOnTime(t *testing.T) {
	svc, staff := newTestAttendanceService(t)
	svc.SetNowFunc(fixedClock(at(9, 10)))
	device := &models.BiometricDevice{ID: "d1", Name: "Main Entrance Scanner"}

	rec, err := svc.BiometricCheckIn(context.Background(), staff.ID, device)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPresent, rec.Status)
	assert.Equal(t, models.MethodBiometric, rec.Method)
	assert.Equal(t, device.Name, rec.Location)
}

func TestBiometricCheckInLateAfterGrace(t *testing.T) {
	svc, staff := newTestAttendanceService(t)
	// 09:00 default + 15 min grace; 09:16 is late
	svc.SetNowFunc(fixedClock(at(9, 16)))

	rec, err := svc.BiometricCheckIn(context.Background(), staff.ID, &models.BiometricDevice{Name: "Scanner"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusLate, rec.Status)
}

func TestBiometricCheckInRejectedWhenAlreadyCheckedIn(t *testing.T) {
	svc, staff := newTestAttendanceService(t)
	svc.SetNowFunc(fixedClock(at(9, 0)))
	ctx := context.Background()
	device := &models.BiometricDevice{Name: "Scanner"}

	_, err := svc.BiometricCheckIn(ctx, staff.ID, device)
	require.NoError(t, err)

	_, err = svc.BiometricCheckIn(ctx, staff.ID, device)
	require.EqualError(t, err, "already checked in today")
}

func TestBiometricCheckOutLifecycle(t *testing.T) {
	svc, staff := newTestAttendanceService(t)
	ctx := context.Background()
	device := &models.BiometricDevice{Name: "Main Entrance Scanner"}

	// No check-in yet
	_, err := svc.BiometricCheckOut(ctx, staff.ID, device)
	require.EqualError(t, err, "no check-in found for today")

	svc.SetNowFunc(fixedClock(at(9, 0)))
	_, err = svc.BiometricCheckIn(ctx, staff.ID, device)
	require.NoError(t, err)

	svc.SetNowFunc(fixedClock(at(17, 30)))
	rec, err := svc.BiometricCheckOut(ctx, staff.ID, device)
	require.NoError(t, err)
	assert.Equal(t, 8.5, rec.WorkHours)
	assert.Contains(t, rec.Notes, device.Name)

	// Second check-out rejected
	_, err = svc.BiometricCheckOut(ctx, staff.ID, device)
	require.EqualError(t, err, "already checked out today")
}
