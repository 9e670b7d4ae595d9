package services

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"staffboard-backend/internal/models"
	"staffboard-backend/internal/timeutil"

	"github.com/robfig/cron/v3"
)

// AutoTrackerConfig controls the background attendance sampler
type AutoTrackerConfig struct {
	Enabled   bool
	StartHour int // auto check-in window start, inclusive
	EndHour   int // auto check-in window end, exclusive
	// Chance that one tick marks one unmarked staff member
	SampleProbability float64
}

// AutoTrackerService opportunistically marks unmarked active staff as present
// during the configured morning window. It is a best-effort sampler: a staff
// member may pass several ticks unmarked before a draw lands.
type AutoTrackerService struct {
	Attendance *AttendanceService
	StaffRepo  interface {
		ListActive(ctx context.Context) ([]*models.Staff, error)
	}
	cfg AutoTrackerConfig

	cron    *cron.Cron
	entryID cron.EntryID

	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewAutoTrackerService creates a new auto-tracking sampler
func NewAutoTrackerService(attendance *AttendanceService, staffRepo interface {
	ListActive(ctx context.Context) ([]*models.Staff, error)
}, cfg AutoTrackerConfig) *AutoTrackerService {
	if cfg.SampleProbability <= 0 || cfg.SampleProbability > 1 {
		cfg.SampleProbability = 0.3
	}
	return &AutoTrackerService{
		Attendance: attendance,
		StaffRepo:  staffRepo,
		cfg:        cfg,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        timeutil.Now,
	}
}

// SetRand overrides the random source, for tests
func (s *AutoTrackerService) SetRand(rnd *rand.Rand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rnd = rnd
}

// SetNowFunc overrides the clock, for tests
func (s *AutoTrackerService) SetNowFunc(now func() time.Time) {
	s.now = now
}

// Start schedules the tracker tick. No-op when auto tracking is disabled.
func (s *AutoTrackerService) Start() error {
	if !s.cfg.Enabled {
		log.Println("[AutoTracker] Disabled by configuration")
		return nil
	}

	s.cron = cron.New()
	id, err := s.cron.AddFunc("@every 1m", func() { s.Tick(context.Background()) })
	if err != nil {
		return err
	}
	s.entryID = id
	s.cron.Start()
	log.Printf("[AutoTracker] Started, window %02d:00-%02d:00", s.cfg.StartHour, s.cfg.EndHour)
	return nil
}

// Stop cancels the scheduled tick and waits for an in-flight one to finish
func (s *AutoTrackerService) Stop() {
	if s.cron == nil {
		return
	}
	s.cron.Remove(s.entryID)
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[AutoTracker] Stopped")
}

// Tick runs one sampling pass. Exported so tests can drive it directly with a
// seeded random source instead of waiting on the schedule.
func (s *AutoTrackerService) Tick(ctx context.Context) {
	now := s.now()
	hour := now.Hour()
	if hour < s.cfg.StartHour || hour >= s.cfg.EndHour {
		return
	}

	staff, err := s.StaffRepo.ListActive(ctx)
	if err != nil {
		log.Printf("[AutoTracker] Roster unavailable: %v", err)
		return
	}

	for _, member := range staff {
		date := timeutil.DateKey(now)
		if _, err := s.Attendance.Repo.GetByDay(ctx, member.ID, date); err == nil {
			continue
		}

		s.mu.Lock()
		draw := s.rnd.Float64()
		s.mu.Unlock()
		if draw >= s.cfg.SampleProbability {
			continue
		}

		checkIn := now
		req := &models.MarkAttendanceRequest{
			StaffID: member.ID,
			Date:    date,
			Status:  string(models.StatusPresent),
			CheckIn: &checkIn,
			Method:  string(models.MethodAuto),
			Notes:   "auto-tracked",
		}
		if cutoff, cerr := timeutil.ClockAt(now, s.Attendance.cfg.DefaultCheckInTime); cerr == nil {
			cutoff = cutoff.Add(time.Duration(s.Attendance.cfg.LateThresholdMinutes) * time.Minute)
			if now.After(cutoff) {
				req.Status = string(models.StatusLate)
			}
		}

		if _, err := s.Attendance.MarkAttendance(ctx, req); err != nil {
			log.Printf("[AutoTracker] Skipped %s: %v", member.Name, err)
		}
	}
}
