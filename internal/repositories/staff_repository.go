package repositories

import (
	"context"
	"errors"
	"sort"
	"sync"

	"staffboard-backend/internal/models"
	"staffboard-backend/internal/timeutil"

	"github.com/google/uuid"
)

// StaffRepository holds the roster. The roster and all other stores are
// in-memory collections supplied and consumed by external collaborators;
// the repository layer keeps the same seam a database-backed store would.
type StaffRepository struct {
	mu    sync.RWMutex
	byID  map[string]*models.Staff
	order []string // insertion order for stable listings
}

func NewStaffRepository() *StaffRepository {
	return &StaffRepository{byID: make(map[string]*models.Staff)}
}

// Create registers a new staff member
func (r *StaffRepository) Create(ctx context.Context, staff *models.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	if _, exists := r.byID[staff.ID]; exists {
		return errors.New("staff already exists")
	}
	staff.CreatedAt = timeutil.Now()
	cp := *staff
	r.byID[staff.ID] = &cp
	r.order = append(r.order, staff.ID)
	return nil
}

// Get retrieves a staff member by ID
func (r *StaffRepository) Get(ctx context.Context, id string) (*models.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	staff, ok := r.byID[id]
	if !ok {
		return nil, errors.New("staff not found")
	}
	cp := *staff
	return &cp, nil
}

// List returns all staff in registration order
func (r *StaffRepository) List(ctx context.Context) ([]*models.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Staff, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.byID[id]
		out = append(out, &cp)
	}
	return out, nil
}

// ListActive returns active staff sorted by name
func (r *StaffRepository) ListActive(ctx context.Context) ([]*models.Staff, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]*models.Staff, 0, len(all))
	for _, s := range all {
		if s.Active {
			active = append(active, s)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Name < active[j].Name })
	return active, nil
}

// SetActive toggles employment status
func (r *StaffRepository) SetActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	staff, ok := r.byID[id]
	if !ok {
		return errors.New("staff not found")
	}
	staff.Active = active
	return nil
}
