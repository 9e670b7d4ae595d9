package repositories

import (
	"context"
	"errors"
	"sync"

	"staffboard-backend/internal/models"
	"staffboard-backend/internal/timeutil"

	"github.com/google/uuid"
)

// ErrAlreadyMarked is returned when a second record is created for the same
// staff member and calendar day
var ErrAlreadyMarked = errors.New("attendance already marked for this day")

// ErrRecordNotFound is returned when a record ID does not exist
var ErrRecordNotFound = errors.New("attendance record not found")

// AttendanceRepository enforces the one-record-per-(staff, day) invariant.
// Creation and update are serialized under one mutex so concurrent transitions
// against the same key cannot both commit.
type AttendanceRepository struct {
	mu    sync.RWMutex
	byID  map[string]*models.AttendanceRecord
	byDay map[string]string // staffID|date -> record ID
	order []string          // creation order for listings
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{
		byID:  make(map[string]*models.AttendanceRecord),
		byDay: make(map[string]string),
	}
}

func dayKey(staffID, date string) string {
	return staffID + "|" + date
}

// Create appends a new record. Fails with ErrAlreadyMarked if a record exists
// for the same (staffID, date).
func (r *AttendanceRepository) Create(ctx context.Context, rec *models.AttendanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey(rec.StaffID, rec.Date)
	if _, exists := r.byDay[key]; exists {
		return ErrAlreadyMarked
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := timeutil.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	cp := *rec
	r.byID[rec.ID] = &cp
	r.byDay[key] = rec.ID
	r.order = append(r.order, rec.ID)
	return nil
}

// Get retrieves a record by ID
func (r *AttendanceRepository) Get(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

// GetByDay retrieves the record for one (staffID, date), if any
func (r *AttendanceRepository) GetByDay(ctx context.Context, staffID, date string) (*models.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byDay[dayKey(staffID, date)]
	if !ok {
		return nil, ErrRecordNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

// Update overwrites an existing record in place
func (r *AttendanceRepository) Update(ctx context.Context, rec *models.AttendanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[rec.ID]
	if !ok {
		return ErrRecordNotFound
	}
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = timeutil.Now()
	cp := *rec
	r.byID[rec.ID] = &cp
	return nil
}

// ListByDate returns all records for one calendar day in creation order
func (r *AttendanceRepository) ListByDate(ctx context.Context, date string) ([]*models.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.AttendanceRecord
	for _, id := range r.order {
		if rec := r.byID[id]; rec.Date == date {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ListByStaff returns all records for one staff member in creation order
func (r *AttendanceRepository) ListByStaff(ctx context.Context, staffID string) ([]*models.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.AttendanceRecord
	for _, id := range r.order {
		if rec := r.byID[id]; rec.StaffID == staffID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Count returns the number of stored records
func (r *AttendanceRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
