package models

import "time"

// LineItem is one sold service/product within a transaction, optionally
// attributed to the staff member who performed it
type LineItem struct {
	Name              string `json:"name"`
	Quantity          int    `json:"quantity"`
	UnitPrice         int64  `json:"unit_price"`          // minor currency units
	AssignedStaffName string `json:"assigned_staff_name"` // empty when unattributed
}

// TransactionRecord is a completed sale supplied by the transaction source.
// Records are immutable once ingested.
type TransactionRecord struct {
	ID               string     `json:"id"`
	Timestamp        time.Time  `json:"timestamp"`
	TotalAmount      int64      `json:"total_amount"` // minor currency units
	CashierStaffName string     `json:"cashier_staff_name,omitempty"`
	LineItems        []LineItem `json:"line_items"`
}

// CreateTransactionRequest is the ingest body for a completed sale
type CreateTransactionRequest struct {
	Timestamp        *time.Time `json:"timestamp,omitempty"`
	TotalAmount      int64      `json:"total_amount"`
	CashierStaffName string     `json:"cashier_staff_name"`
	LineItems        []LineItem `json:"line_items"`
}
