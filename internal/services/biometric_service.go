package services

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"staffboard-backend/internal/metrics"
	"staffboard-backend/internal/models"
	"staffboard-backend/internal/repositories"
	"staffboard-backend/internal/timeutil"

	"github.com/google/uuid"
)

func newScanID() string {
	return uuid.NewString()
}

// ScanPublisher receives scan progress and outcome events for live display.
// A nil publisher is allowed.
type ScanPublisher interface {
	PublishScan(status models.ScanStatus)
}

// scanSession tracks one in-flight simulated scan. The done flag is the
// single decision point between completion and cancellation: whichever
// transition flips it first wins, the loser becomes a no-op.
type scanSession struct {
	id       string
	deviceID string
	staffID  string
	action   string
	progress int
	state    string
	reason   string
	done     bool
	quit     chan struct{}
}

func (sess *scanSession) snapshot() models.ScanStatus {
	return models.ScanStatus{
		ScanID:   sess.id,
		DeviceID: sess.deviceID,
		StaffID:  sess.staffID,
		Action:   sess.action,
		Progress: sess.progress,
		State:    sess.state,
		Reason:   sess.reason,
	}
}

// BiometricService simulates multi-tick biometric scans against the device
// registry and feeds verified outcomes into the attendance state machine
type BiometricService struct {
	Devices    *repositories.DeviceRepository
	Attendance *AttendanceService
	StaffRepo  *repositories.StaffRepository
	LogRepo    *repositories.BiometricLogRepository

	publisher          ScanPublisher
	successProbability float64
	tick               time.Duration

	mu    sync.Mutex
	scans map[string]*scanSession // latest session per device
	rnd   *rand.Rand
	now   func() time.Time
}

// NewBiometricService creates a new scan simulator
func NewBiometricService(
	devices *repositories.DeviceRepository,
	attendance *AttendanceService,
	staffRepo *repositories.StaffRepository,
	logRepo *repositories.BiometricLogRepository,
	publisher ScanPublisher,
	successProbability float64,
	tick time.Duration,
) *BiometricService {
	// 0 and 1 are valid: a simulator may be pinned to always-fail or
	// always-succeed
	if successProbability < 0 || successProbability > 1 {
		successProbability = 0.95
	}
	if tick <= 0 {
		tick = 300 * time.Millisecond
	}
	return &BiometricService{
		Devices:            devices,
		Attendance:         attendance,
		StaffRepo:          staffRepo,
		LogRepo:            logRepo,
		publisher:          publisher,
		successProbability: successProbability,
		tick:               tick,
		scans:              make(map[string]*scanSession),
		rnd:                rand.New(rand.NewSource(time.Now().UnixNano())),
		now:                timeutil.Now,
	}
}

// SetRand overrides the random source, for tests
func (s *BiometricService) SetRand(rnd *rand.Rand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rnd = rnd
}

// SetNowFunc overrides the clock, for tests
func (s *BiometricService) SetNowFunc(now func() time.Time) {
	s.now = now
}

// StartScan validates preconditions, puts the device into the scanning state
// and launches the progress ticker. Every precondition failure is reported
// without mutating any state.
func (s *BiometricService) StartScan(ctx context.Context, req *models.StartScanRequest) (*models.ScanStatus, error) {
	if req.StaffID == "" {
		return nil, errors.New("staff id is required")
	}
	if req.Action != models.ScanActionCheckIn && req.Action != models.ScanActionCheckOut {
		return nil, errors.New("action must be check-in or check-out")
	}
	if _, err := s.StaffRepo.Get(ctx, req.StaffID); err != nil {
		return nil, errors.New("staff not found")
	}

	// Business preconditions checked up front so a doomed scan never starts
	date := timeutil.DateKey(s.now())
	rec, recErr := s.Attendance.Repo.GetByDay(ctx, req.StaffID, date)
	switch req.Action {
	case models.ScanActionCheckIn:
		if recErr == nil && rec.CheckInTime != nil {
			return nil, errors.New("already checked in today")
		}
	case models.ScanActionCheckOut:
		if recErr != nil || rec.CheckInTime == nil {
			return nil, errors.New("no check-in found for today")
		}
		if rec.CheckOutTime != nil {
			return nil, errors.New("already checked out today")
		}
	}

	// BeginScan atomically requires the connected state
	if err := s.Devices.BeginScan(ctx, req.DeviceID); err != nil {
		return nil, err
	}

	sess := &scanSession{
		id:       newScanID(),
		deviceID: req.DeviceID,
		staffID:  req.StaffID,
		action:   req.Action,
		state:    models.ScanStateScanning,
		quit:     make(chan struct{}),
	}

	s.mu.Lock()
	s.scans[req.DeviceID] = sess
	s.mu.Unlock()

	go s.runScan(sess)

	s.publish(sess.snapshot())
	status := sess.snapshot()
	return &status, nil
}

// runScan drives one scan to completion unless cancelled first
func (s *BiometricService) runScan(sess *scanSession) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-sess.quit:
			return
		case <-ticker.C:
			if s.advance(sess) {
				return
			}
		}
	}
}

// advance applies one progress tick. Returns true once the session reached a
// terminal state.
func (s *BiometricService) advance(sess *scanSession) bool {
	s.mu.Lock()

	if sess.done {
		s.mu.Unlock()
		return true
	}

	sess.progress += 5 + s.rnd.Intn(16)
	if sess.progress < 100 {
		status := sess.snapshot()
		s.mu.Unlock()
		s.publish(status)
		return false
	}

	sess.progress = 100
	sess.done = true
	verified := s.rnd.Float64() < s.successProbability
	s.mu.Unlock()

	s.complete(sess, verified)
	return true
}

// complete commits the outcome of a finished scan. Cancellation can no longer
// interfere at this point: the done flag was claimed by the final tick.
func (s *BiometricService) complete(sess *scanSession, verified bool) {
	ctx := context.Background()
	now := s.now()

	if err := s.Devices.ResolveScan(ctx, sess.deviceID, verified, now); err != nil {
		log.Printf("[Biometric] Device %s resolve failed: %v", sess.deviceID, err)
	}

	if !verified {
		s.mu.Lock()
		sess.state = models.ScanStateFailed
		sess.reason = "scan not recognized, please retry"
		status := sess.snapshot()
		s.mu.Unlock()

		metrics.ScansTotal.WithLabelValues(sess.action, "failed").Inc()
		s.publish(status)
		return
	}

	device, _ := s.Devices.Get(ctx, sess.deviceID)
	staff, err := s.StaffRepo.Get(ctx, sess.staffID)
	staffName := sess.staffID
	if err == nil {
		staffName = staff.Name
	}

	// The audit log records the physical scan event; it is written for every
	// verified scan even when the attendance mutation below is rejected
	entry := &models.BiometricLogEntry{
		StaffID:    sess.staffID,
		StaffName:  staffName,
		Timestamp:  now,
		Action:     sess.action,
		DeviceID:   sess.deviceID,
		DeviceName: device.Name,
		Verified:   true,
	}
	if err := s.LogRepo.Append(ctx, entry); err != nil {
		log.Printf("[Biometric] Audit log append failed: %v", err)
	}

	var attErr error
	if sess.action == models.ScanActionCheckIn {
		_, attErr = s.Attendance.BiometricCheckIn(ctx, sess.staffID, device)
	} else {
		_, attErr = s.Attendance.BiometricCheckOut(ctx, sess.staffID, device)
	}

	s.mu.Lock()
	sess.state = models.ScanStateSuccess
	if attErr != nil {
		sess.reason = attErr.Error()
	}
	status := sess.snapshot()
	s.mu.Unlock()

	metrics.ScansTotal.WithLabelValues(sess.action, "success").Inc()
	s.publish(status)
}

// CancelScan aborts an in-flight scan. The device returns to connected and no
// attendance or audit mutation happens. A cancel racing the completing tick
// loses cleanly: once the final tick claimed the done flag the cancel is
// rejected, so the outcome can never be both rolled back and committed.
func (s *BiometricService) CancelScan(ctx context.Context, deviceID string) error {
	s.mu.Lock()
	sess, ok := s.scans[deviceID]
	if !ok || sess.done {
		s.mu.Unlock()
		return errors.New("no scan in progress for this device")
	}
	sess.done = true
	sess.state = models.ScanStateCancelled
	close(sess.quit)
	status := sess.snapshot()
	s.mu.Unlock()

	if err := s.Devices.ResolveScan(ctx, deviceID, false, s.now()); err != nil {
		log.Printf("[Biometric] Device %s resolve failed: %v", deviceID, err)
	}

	metrics.ScansTotal.WithLabelValues(sess.action, "cancelled").Inc()
	s.publish(status)
	return nil
}

// GetScan returns the latest scan snapshot for a device
func (s *BiometricService) GetScan(ctx context.Context, deviceID string) (*models.ScanStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.scans[deviceID]
	if !ok {
		return nil, errors.New("no scan found for this device")
	}
	status := sess.snapshot()
	return &status, nil
}

func (s *BiometricService) publish(status models.ScanStatus) {
	if s.publisher != nil {
		s.publisher.PublishScan(status)
	}
}

// SeedDefaultDevices registers the simulated device fleet on startup
func (s *BiometricService) SeedDefaultDevices(ctx context.Context) {
	defaults := []*models.BiometricDevice{
		{Name: "Main Entrance Scanner", Type: models.DeviceFingerprint},
		{Name: "Back Office Camera", Type: models.DeviceFaceRecognition},
		{Name: "Staff Room Reader", Type: models.DeviceCardReader},
		{Name: "Vault Iris Scanner", Type: models.DeviceIrisScanner, ConnectionState: models.DeviceDisconnected},
	}
	for _, dev := range defaults {
		if err := s.Devices.Register(ctx, dev); err != nil {
			log.Printf("[Biometric] Seed device %q failed: %v", dev.Name, err)
		}
	}
}
