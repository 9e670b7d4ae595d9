package services

import (
	"context"
	"testing"
	"time"

	"staffboard-backend/internal/models"
	"staffboard-backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type biometricFixture struct {
	svc        *BiometricService
	attendance *AttendanceService
	staff      *models.Staff
	device     *models.BiometricDevice
	logs       *repositories.BiometricLogRepository
}

// newBiometricFixture wires a simulator with a pinned outcome probability and
// a fast progress tick
func newBiometricFixture(t *testing.T, successProbability float64, tick time.Duration) *biometricFixture {
	t.Helper()
	ctx := context.Background()

	staffRepo := repositories.NewStaffRepository()
	staff := &models.Staff{Name: "Ravi", Role: "cashier", Active: true}
	require.NoError(t, staffRepo.Create(ctx, staff))

	attendance := NewAttendanceService(repositories.NewAttendanceRepository(), staffRepo, AttendanceConfig{
		DefaultCheckInTime:   "09:00",
		LateThresholdMinutes: 15,
		DefaultHalfDayHours:  4,
	})
	attendance.SetNowFunc(fixedClock(at(9, 5)))

	deviceRepo := repositories.NewDeviceRepository()
	device := &models.BiometricDevice{Name: "Main Entrance Scanner", Type: models.DeviceFingerprint}
	require.NoError(t, deviceRepo.Register(ctx, device))

	logs := repositories.NewBiometricLogRepository()
	svc := NewBiometricService(deviceRepo, attendance, staffRepo, logs, nil, successProbability, tick)
	svc.SetNowFunc(fixedClock(at(9, 5)))

	return &biometricFixture{svc: svc, attendance: attendance, staff: staff, device: device, logs: logs}
}

func (f *biometricFixture) waitForTerminalState(t *testing.T) *models.ScanStatus {
	t.Helper()
	var status *models.ScanStatus
	require.Eventually(t, func() bool {
		s, err := f.svc.GetScan(context.Background(), f.device.ID)
		if err != nil || s.State == models.ScanStateScanning {
			return false
		}
		status = s
		return true
	}, 3*time.Second, time.Millisecond)
	return status
}

func TestStartScanPreconditions(t *testing.T) {
	f := newBiometricFixture(t, 1.0, time.Hour)
	ctx := context.Background()

	_, err := f.svc.StartScan(ctx, &models.StartScanRequest{DeviceID: f.device.ID, Action: models.ScanActionCheckIn})
	require.EqualError(t, err, "staff id is required")

	_, err = f.svc.StartScan(ctx, &models.StartScanRequest{StaffID: f.staff.ID, DeviceID: f.device.ID, Action: "sync"})
	require.EqualError(t, err, "action must be check-in or check-out")

	_, err = f.svc.StartScan(ctx, &models.StartScanRequest{StaffID: "ghost", DeviceID: f.device.ID, Action: models.ScanActionCheckIn})
	require.EqualError(t, err, "staff not found")

	_, err = f.svc.StartScan(ctx, &models.StartScanRequest{StaffID: f.staff.ID, DeviceID: "missing", Action: models.ScanActionCheckIn})
	require.ErrorIs(t, err, repositories.ErrDeviceNotFound)

	// Check-out without a check-in never starts a scan
	_, err = f.svc.StartScan(ctx, &models.StartScanRequest{StaffID: f.staff.ID, DeviceID: f.device.ID, Action: models.ScanActionCheckOut})
	require.EqualError(t, err, "no check-in found for today")

	// Preconditions reject without touching device state
	dev, err := f.svc.Devices.Get(ctx, f.device.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceConnected, dev.ConnectionState)
}

func TestStartScanRequiresConnectedDevice(t *testing.T) {
	f := newBiometricFixture(t, 1.0, time.Hour)
	ctx := context.Background()

	require.NoError(t, f.svc.Devices.SetConnected(ctx, f.device.ID, false))

	_, err := f.svc.StartScan(ctx, &models.StartScanRequest{StaffID: f.staff.ID, DeviceID: f.device.ID, Action: models.ScanActionCheckIn})
	require.ErrorIs(t, err, repositories.ErrDeviceNotConnected)
}

func TestScanSuccessCommitsAttendanceAndAuditLog(t *testing.T) {
	f := newBiometricFixture(t, 1.0, time.Millisecond)
	ctx := context.Background()

	status, err := f.svc.StartScan(ctx, &models.StartScanRequest{StaffID: f.staff.ID, DeviceID: f.device.ID, Action: models.ScanActionCheckIn})
	require.NoError(t, err)
	assert.Equal(t, models.ScanStateScanning, status.State)

	final := f.waitForTerminalState(t)
	assert.Equal(t, models.ScanStateSuccess, final.State)
	assert.Equal(t, 100, final.Progress)

	// Device resolved back to connected with a sync stamp
	dev, err := f.svc.Devices.Get(ctx, f.device.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceConnected, dev.ConnectionState)
	require.NotNil(t, dev.LastSync)

	// Attendance record created through the verified scan
	rec, err := f.attendance.Repo.GetByDay(ctx, f.staff.ID, "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, models.MethodBiometric, rec.Method)
	assert.Equal(t, models.StatusPresent, rec.Status)

	// One audit entry for the physical scan
	entries, err := f.logs.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ScanActionCheckIn, entries[0].Action)
	assert.Equal(t, f.staff.Name, entries[0].StaffName)
	assert.True(t, entries[0].Verified)
}

func TestScanFailureLeavesEverythingUntouched(t *testing.T) {
	f := newBiometricFixture(t, 0, time.Millisecond)
	ctx := context.Background()

	_, err := f.svc.StartScan(ctx, &models.StartScanRequest{StaffID: f.staff.ID, DeviceID: f.device.ID, Action: models.ScanActionCheckIn})
	require.NoError(t, err)

	final := f.waitForTerminalState(t)
	assert.Equal(t, models.ScanStateFailed, final.State)
	assert.Equal(t, "scan not recognized, please retry", final.Reason)

	dev, err := f.svc.Devices.Get(ctx, f.device.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceConnected, dev.ConnectionState)
	assert.Nil(t, dev.LastSync)

	_, err = f.attendance.Repo.GetByDay(ctx, f.staff.ID, "2026-08-31")
	require.ErrorIs(t, err, repositories.ErrRecordNotFound)
	assert.Zero(t, f.logs.Count(ctx))

	// A failed scan is retryable
	_, err = f.svc.StartScan(ctx, &models.StartScanRequest{StaffID: f.staff.ID, DeviceID: f.device.ID, Action: models.ScanActionCheckIn})
	require.NoError(t, err)
}

func TestScanCheckOutFullDay(t *testing.T) {
	f := newBiometricFixture(t, 1.0, time.Millisecond)
	ctx := context.Background()

	_, err := f.svc.StartScan(ctx, &models.StartScanRequest{StaffID: f.staff.ID, DeviceID: f.device.ID, Action: models.ScanActionCheckIn})
	require.NoError(t, err)
	f.waitForTerminalState(t)

	// Same-day second check-in is rejected before any device state change
	_, err = f.svc.StartScan(ctx, &models.StartScanRequest{StaffID: f.staff.ID, DeviceID: f.device.ID, Action: models.ScanActionCheckIn})
	require.EqualError(t, err, "already checked in today")

	f.svc.SetNowFunc(fixedClock(at(18, 5)))
	f.attendance.SetNowFunc(fixedClock(at(18, 5)))

	_, err = f.svc.StartScan(ctx, &models.StartScanRequest{StaffID: f.staff.ID, DeviceID: f.device.ID, Action: models.ScanActionCheckOut})
	require.NoError(t, err)
	f.waitForTerminalState(t)

	rec, err := f.attendance.Repo.GetByDay(ctx, f.staff.ID, "2026-08-31")
	require.NoError(t, err)
	require.NotNil(t, rec.CheckOutTime)
	assert.Equal(t, 9.0, rec.WorkHours)
	assert.Equal(t, 2, f.logs.Count(ctx))
}

func TestCancelScanRollsBackCleanly(t *testing.T) {
	f := newBiometricFixture(t, 1.0, time.Hour)
	ctx := context.Background()

	_, err := f.svc.StartScan(ctx, &models.StartScanRequest{StaffID: f.staff.ID, DeviceID: f.device.ID, Action: models.ScanActionCheckIn})
	require.NoError(t, err)

	// Only one in-flight scan per device
	_, err = f.svc.StartScan(ctx, &models.StartScanRequest{StaffID: f.staff.ID, DeviceID: f.device.ID, Action: models.ScanActionCheckIn})
	require.ErrorIs(t, err, repositories.ErrDeviceNotConnected)

	require.NoError(t, f.svc.CancelScan(ctx, f.device.ID))

	status, err := f.svc.GetScan(ctx, f.device.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ScanStateCancelled, status.State)

	dev, err := f.svc.Devices.Get(ctx, f.device.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceConnected, dev.ConnectionState)

	// Nothing committed
	_, err = f.attendance.Repo.GetByDay(ctx, f.staff.ID, "2026-08-31")
	require.ErrorIs(t, err, repositories.ErrRecordNotFound)
	assert.Zero(t, f.logs.Count(ctx))

	// Cancelling twice is rejected
	err = f.svc.CancelScan(ctx, f.device.ID)
	require.EqualError(t, err, "no scan in progress for this device")
}

func TestCancelAfterCompletionIsRejected(t *testing.T) {
	f := newBiometricFixture(t, 1.0, time.Millisecond)
	ctx := context.Background()

	_, err := f.svc.StartScan(ctx, &models.StartScanRequest{StaffID: f.staff.ID, DeviceID: f.device.ID, Action: models.ScanActionCheckIn})
	require.NoError(t, err)
	f.waitForTerminalState(t)

	// The completed tick claimed the outcome; cancel can no longer roll back
	err = f.svc.CancelScan(ctx, f.device.ID)
	require.EqualError(t, err, "no scan in progress for this device")

	rec, err := f.attendance.Repo.GetByDay(ctx, f.staff.ID, "2026-08-31")
	require.NoError(t, err)
	assert.NotNil(t, rec.CheckInTime)
}

func TestSeedDefaultDevices(t *testing.T) {
	f := newBiometricFixture(t, 1.0, time.Hour)
	ctx := context.Background()

	f.svc.SeedDefaultDevices(ctx)
	devices, err := f.svc.Devices.List(ctx)
	require.NoError(t, err)
	assert.Len(t, devices, 5) // fixture device + four seeded
}
