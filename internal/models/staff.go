package models

import "time"

// Staff is one roster member
type Staff struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`   // 'stylist', 'cashier', 'manager', ...
	Active    bool      `json:"active"` // false once terminated
	CreatedAt time.Time `json:"created_at"`
}

// CreateStaffRequest is the request body for registering a staff member
type CreateStaffRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Performance tier labels, derived solely from accumulated revenue
const (
	TierExcellent        = "excellent"
	TierGood             = "good"
	TierAverage          = "average"
	TierNeedsImprovement = "needs-improvement"
)

// StaffKPI is the per-staff scorecard produced by one aggregation pass.
// It is recomputed from the transaction list on demand and never persisted.
// Staff are keyed by display name: the transaction source attributes both
// cashier and line-item roles by name, not by roster ID.
type StaffKPI struct {
	StaffName               string  `json:"staff_name"`
	TotalSales              int64   `json:"total_sales"`        // sum of totals where staff was cashier
	TotalTransactions       int     `json:"total_transactions"` // count of such transactions
	TotalServices           int     `json:"total_services"`     // sum of assigned line-item quantities
	TotalRevenue            int64   `json:"total_revenue"`      // sum of assigned quantity*unit_price
	AverageTransactionValue float64 `json:"average_transaction_value"`
	Commission              int64   `json:"commission"`
	PerformanceTier         string  `json:"performance_tier"`
}
