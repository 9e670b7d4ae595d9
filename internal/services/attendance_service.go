package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staffboard-backend/internal/metrics"
	"staffboard-backend/internal/models"
	"staffboard-backend/internal/repositories"
	"staffboard-backend/internal/timeutil"
)

// AttendanceConfig holds the attendance policy knobs
type AttendanceConfig struct {
	DefaultCheckInTime   string // HH:MM
	DefaultCheckOutTime  string // HH:MM
	LateThresholdMinutes int
	DefaultHalfDayHours  int
}

// AttendanceService drives the per-(staff, day) attendance lifecycle:
// unmarked -> checked in -> checked out, plus the directly-terminal absent
// and leave states reachable through quick-marking.
type AttendanceService struct {
	Repo      *repositories.AttendanceRepository
	StaffRepo *repositories.StaffRepository
	cfg       AttendanceConfig

	// now is injectable so tests can pin the clock
	now func() time.Time
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(repo *repositories.AttendanceRepository, staffRepo *repositories.StaffRepository, cfg AttendanceConfig) *AttendanceService {
	if cfg.DefaultCheckInTime == "" {
		cfg.DefaultCheckInTime = "09:00"
	}
	if cfg.DefaultCheckOutTime == "" {
		cfg.DefaultCheckOutTime = "18:00"
	}
	if cfg.DefaultHalfDayHours <= 0 {
		cfg.DefaultHalfDayHours = 4
	}
	return &AttendanceService{
		Repo:      repo,
		StaffRepo: staffRepo,
		cfg:       cfg,
		now:       timeutil.Now,
	}
}

// SetNowFunc overrides the clock, for tests
func (s *AttendanceService) SetNowFunc(now func() time.Time) {
	s.now = now
}

// deriveWorkHours recomputes worked hours from the check-in/out pair. The
// value is surfaced exactly as computed, including negative spans from
// inconsistent times, so callers can flag bad data instead of losing it.
func deriveWorkHours(checkIn, checkOut *time.Time) float64 {
	if checkIn == nil || checkOut == nil {
		return 0
	}
	return timeutil.HoursBetween(*checkIn, *checkOut)
}

// MarkAttendance creates the day's record for a staff member. A second mark
// for the same (staff, day) is rejected; edits must go through EditRecord.
func (s *AttendanceService) MarkAttendance(ctx context.Context, req *models.MarkAttendanceRequest) (*models.AttendanceRecord, error) {
	if req.StaffID == "" {
		return nil, errors.New("staff id is required")
	}
	staff, err := s.StaffRepo.Get(ctx, req.StaffID)
	if err != nil {
		return nil, errors.New("staff not found")
	}

	date := req.Date
	if date == "" {
		date = timeutil.DateKey(s.now())
	}
	if _, err := time.Parse(timeutil.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}

	if _, err := s.Repo.GetByDay(ctx, req.StaffID, date); err == nil {
		metrics.AttendanceRejectionsTotal.WithLabelValues("already_marked").Inc()
		return nil, repositories.ErrAlreadyMarked
	}

	status := models.ParseStatus(req.Status)
	if status == "" {
		return nil, errors.New("status is required")
	}

	method := models.AttendanceMethod(req.Method)
	if method == "" {
		method = models.MethodManual
	}

	checkIn := req.CheckIn
	if checkIn == nil && status.ImpliesPresence() {
		day, err := time.ParseInLocation(timeutil.DateLayout, date, timeutil.Loc)
		if err == nil {
			t, cerr := timeutil.ClockAt(day, s.cfg.DefaultCheckInTime)
			if cerr == nil {
				checkIn = &t
			}
		}
	}

	rec := &models.AttendanceRecord{
		StaffID:      req.StaffID,
		StaffName:    staff.Name,
		Date:         date,
		CheckInTime:  checkIn,
		CheckOutTime: req.CheckOut,
		Status:       status,
		Method:       method,
		WorkHours:    deriveWorkHours(checkIn, req.CheckOut),
		Notes:        req.Notes,
		Location:     req.Location,
	}

	if err := s.Repo.Create(ctx, rec); err != nil {
		if errors.Is(err, repositories.ErrAlreadyMarked) {
			metrics.AttendanceRejectionsTotal.WithLabelValues("already_marked").Inc()
		}
		return nil, err
	}

	metrics.AttendanceMarksTotal.WithLabelValues(string(method), string(status)).Inc()
	return rec, nil
}

// QuickMark is the one-click marking path, restricted to the fixed status set
func (s *AttendanceService) QuickMark(ctx context.Context, staffID string, status models.AttendanceStatus) (*models.AttendanceRecord, error) {
	switch status {
	case models.StatusPresent, models.StatusAbsent, models.StatusLeave, models.StatusHalfDay:
	default:
		return nil, fmt.Errorf("quick mark does not support status %q", status)
	}

	now := s.now()
	req := &models.MarkAttendanceRequest{
		StaffID: staffID,
		Date:    timeutil.DateKey(now),
		Status:  string(status),
		Method:  string(models.MethodManual),
	}

	if status.ImpliesPresence() {
		checkIn := now
		req.CheckIn = &checkIn
		if status == models.StatusHalfDay {
			checkOut := now.Add(time.Duration(s.cfg.DefaultHalfDayHours) * time.Hour)
			req.CheckOut = &checkOut
		}
	}

	rec, err := s.MarkAttendance(ctx, req)
	if err != nil {
		return nil, err
	}

	// Half-day hours are fixed by policy, not derived from the implied times
	if status == models.StatusHalfDay {
		rec.WorkHours = float64(s.cfg.DefaultHalfDayHours)
		if err := s.Repo.Update(ctx, rec); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// EditRecord overwrites fields of an existing record and re-derives the
// worked hours from the resulting check-in/out pair
func (s *AttendanceService) EditRecord(ctx context.Context, recordID string, patch *models.EditAttendanceRequest) (*models.AttendanceRecord, error) {
	rec, err := s.Repo.Get(ctx, recordID)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		rec.Status = models.ParseStatus(*patch.Status)
	}
	if patch.CheckIn != nil {
		t := *patch.CheckIn
		rec.CheckInTime = &t
	}
	if patch.CheckOut != nil {
		t := *patch.CheckOut
		rec.CheckOutTime = &t
	}
	if patch.Method != nil {
		rec.Method = models.AttendanceMethod(*patch.Method)
	}
	if patch.Notes != nil {
		rec.Notes = *patch.Notes
	}
	if patch.Location != nil {
		rec.Location = *patch.Location
	}

	rec.WorkHours = deriveWorkHours(rec.CheckInTime, rec.CheckOutTime)

	if err := s.Repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// BiometricCheckIn records a verified-scan check-in. Lateness is judged
// against the default check-in time plus the configured grace period.
func (s *AttendanceService) BiometricCheckIn(ctx context.Context, staffID string, device *models.BiometricDevice) (*models.AttendanceRecord, error) {
	now := s.now()
	date := timeutil.DateKey(now)

	if existing, err := s.Repo.GetByDay(ctx, staffID, date); err == nil && existing.CheckInTime != nil {
		metrics.AttendanceRejectionsTotal.WithLabelValues("already_checked_in").Inc()
		return nil, errors.New("already checked in today")
	}

	status := models.StatusPresent
	if cutoff, err := timeutil.ClockAt(now, s.cfg.DefaultCheckInTime); err == nil {
		cutoff = cutoff.Add(time.Duration(s.cfg.LateThresholdMinutes) * time.Minute)
		if now.After(cutoff) {
			status = models.StatusLate
		}
	}

	checkIn := now
	req := &models.MarkAttendanceRequest{
		StaffID:  staffID,
		Date:     date,
		Status:   string(status),
		CheckIn:  &checkIn,
		Method:   string(models.MethodBiometric),
		Location: device.Name,
	}
	return s.MarkAttendance(ctx, req)
}

// BiometricCheckOut completes the day's record after a verified scan
func (s *AttendanceService) BiometricCheckOut(ctx context.Context, staffID string, device *models.BiometricDevice) (*models.AttendanceRecord, error) {
	now := s.now()
	date := timeutil.DateKey(now)

	rec, err := s.Repo.GetByDay(ctx, staffID, date)
	if err != nil {
		metrics.AttendanceRejectionsTotal.WithLabelValues("no_check_in").Inc()
		return nil, errors.New("no check-in found for today")
	}
	if rec.CheckInTime == nil {
		metrics.AttendanceRejectionsTotal.WithLabelValues("no_check_in").Inc()
		return nil, errors.New("no check-in found for today")
	}
	if rec.CheckOutTime != nil {
		metrics.AttendanceRejectionsTotal.WithLabelValues("already_checked_out").Inc()
		return nil, errors.New("already checked out today")
	}

	checkOut := now
	rec.CheckOutTime = &checkOut
	rec.WorkHours = deriveWorkHours(rec.CheckInTime, rec.CheckOutTime)
	if rec.Notes != "" {
		rec.Notes += "; "
	}
	rec.Notes += fmt.Sprintf("checked out via %s", device.Name)

	if err := s.Repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListByDate returns the day's records
func (s *AttendanceService) ListByDate(ctx context.Context, date string) ([]*models.AttendanceRecord, error) {
	return s.Repo.ListByDate(ctx, date)
}

// ListByStaff returns one staff member's history
func (s *AttendanceService) ListByStaff(ctx context.Context, staffID string) ([]*models.AttendanceRecord, error) {
	return s.Repo.ListByStaff(ctx, staffID)
}
