package repositories

import (
	"context"
	"sync"

	"staffboard-backend/internal/models"

	"github.com/google/uuid"
)

// BiometricLogRepository is the append-only audit trail of verified scans
type BiometricLogRepository struct {
	mu      sync.RWMutex
	entries []*models.BiometricLogEntry
}

func NewBiometricLogRepository() *BiometricLogRepository {
	return &BiometricLogRepository{}
}

// Append adds one audit entry
func (r *BiometricLogRepository) Append(ctx context.Context, entry *models.BiometricLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

// List returns all entries, oldest first
func (r *BiometricLogRepository) List(ctx context.Context) ([]*models.BiometricLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.BiometricLogEntry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

// ListByStaff returns all entries for one staff member, oldest first
func (r *BiometricLogRepository) ListByStaff(ctx context.Context, staffID string) ([]*models.BiometricLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.BiometricLogEntry
	for _, e := range r.entries {
		if e.StaffID == staffID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Count returns the number of audit entries
func (r *BiometricLogRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
