package repositories

import (
	"context"
	"sync"
	"time"

	"staffboard-backend/internal/models"
	"staffboard-backend/internal/timeutil"

	"github.com/google/uuid"
)

// TransactionRepository holds the completed-sale stream in arrival order.
// Records are immutable once ingested.
type TransactionRepository struct {
	mu      sync.RWMutex
	records []*models.TransactionRecord
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

// Create appends a completed transaction
func (r *TransactionRepository) Create(ctx context.Context, txn *models.TransactionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.Timestamp.IsZero() {
		txn.Timestamp = timeutil.Now()
	}
	cp := *txn
	cp.LineItems = append([]models.LineItem(nil), txn.LineItems...)
	r.records = append(r.records, &cp)
	return nil
}

// List returns all transactions in arrival order
func (r *TransactionRepository) List(ctx context.Context) ([]*models.TransactionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.TransactionRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

// ListBetween returns transactions with timestamps inside [from, to)
func (r *TransactionRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*models.TransactionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.TransactionRecord
	for _, txn := range r.records {
		if !txn.Timestamp.Before(from) && txn.Timestamp.Before(to) {
			out = append(out, txn)
		}
	}
	return out, nil
}

// Count returns the number of stored transactions
func (r *TransactionRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
