package health

import (
	"context"
	"time"

	"staffboard-backend/internal/cache"
	"staffboard-backend/internal/repositories"
)

type HealthChecker struct {
	attendance   *repositories.AttendanceRepository
	transactions *repositories.TransactionRepository
	logs         *repositories.BiometricLogRepository
	startedAt    time.Time
}

type HealthStatus struct {
	Status            string `json:"status"`
	UptimeSeconds     int64  `json:"uptime_seconds"`
	CacheEnabled      bool   `json:"cache_enabled"`
	AttendanceRecords int    `json:"attendance_records"`
	Transactions      int    `json:"transactions"`
	AuditLogEntries   int    `json:"audit_log_entries"`
}

func NewHealthChecker(
	attendance *repositories.AttendanceRepository,
	transactions *repositories.TransactionRepository,
	logs *repositories.BiometricLogRepository,
) *HealthChecker {
	return &HealthChecker{
		attendance:   attendance,
		transactions: transactions,
		logs:         logs,
		startedAt:    time.Now(),
	}
}

func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:            "healthy",
		UptimeSeconds:     int64(time.Since(h.startedAt).Seconds()),
		CacheEnabled:      cache.Enabled(),
		AttendanceRecords: h.attendance.Count(ctx),
		Transactions:      h.transactions.Count(ctx),
		AuditLogEntries:   h.logs.Count(ctx),
	}
}
