package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"staffboard-backend/internal/cache"
	"staffboard-backend/internal/metrics"
	"staffboard-backend/internal/models"
	"staffboard-backend/internal/repositories"
)

// KPIService folds the transaction stream into ranked per-staff scorecards
type KPIService struct {
	TxnRepo        *repositories.TransactionRepository
	commissionRate float64
	// Revenue cutoffs for excellent/good/average, highest first
	tierThresholds []int64
}

// NewKPIService creates a new KPI aggregation service
func NewKPIService(txnRepo *repositories.TransactionRepository, commissionRate float64, tierThresholds []int64) *KPIService {
	if commissionRate <= 0 {
		commissionRate = 0.05
	}
	if len(tierThresholds) != 3 {
		tierThresholds = []int64{50000, 30000, 10000}
	}
	return &KPIService{
		TxnRepo:        txnRepo,
		commissionRate: commissionRate,
		tierThresholds: tierThresholds,
	}
}

// Aggregate computes one scorecard per staff name from the given transaction
// list and returns them sorted by revenue, best first. The list is expected to
// be pre-filtered to the desired date window by the caller.
//
// A staff member accumulates through both roles in the same pass: line-item
// assignments feed services/revenue, cashier attribution feeds
// transactions/sales, and the accumulator is shared by display name.
func (s *KPIService) Aggregate(transactions []*models.TransactionRecord) ([]*models.StaffKPI, error) {
	if transactions == nil {
		return nil, errors.New("transaction list is required")
	}

	start := time.Now()
	acc := make(map[string]*models.StaffKPI)
	var order []string

	lookup := func(name string) *models.StaffKPI {
		kpi, ok := acc[name]
		if !ok {
			kpi = &models.StaffKPI{StaffName: name}
			acc[name] = kpi
			order = append(order, name)
		}
		return kpi
	}

	// Line-item assignments: services performed and revenue earned
	for _, txn := range transactions {
		if txn == nil {
			continue
		}
		for _, item := range txn.LineItems {
			if item.AssignedStaffName == "" {
				continue
			}
			kpi := lookup(item.AssignedStaffName)
			kpi.TotalServices += item.Quantity
			kpi.TotalRevenue += int64(item.Quantity) * item.UnitPrice
		}
	}

	// Cashier attribution: transactions handled and sales rung up
	for _, txn := range transactions {
		if txn == nil || txn.CashierStaffName == "" {
			continue
		}
		kpi := lookup(txn.CashierStaffName)
		kpi.TotalTransactions++
		kpi.TotalSales += txn.TotalAmount
	}

	// Finalize derived fields
	result := make([]*models.StaffKPI, 0, len(order))
	for _, name := range order {
		kpi := acc[name]
		if kpi.TotalTransactions > 0 {
			kpi.AverageTransactionValue = float64(kpi.TotalSales) / float64(kpi.TotalTransactions)
		}
		kpi.Commission = int64(math.Round(float64(kpi.TotalRevenue) * s.commissionRate))
		kpi.PerformanceTier = s.classifyTier(kpi.TotalRevenue)
		result = append(result, kpi)
	}

	// Ranking is driven by revenue alone; equal-revenue staff keep their
	// insertion order, so the sort must be stable
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalRevenue > result[j].TotalRevenue
	})

	metrics.AggregationDuration.Observe(time.Since(start).Seconds())
	metrics.AggregationStaffCount.Set(float64(len(result)))

	return result, nil
}

// classifyTier maps accumulated revenue onto a performance tier. Boundaries
// are closed above: revenue exactly at a cutoff earns the higher tier.
func (s *KPIService) classifyTier(revenue int64) string {
	switch {
	case revenue >= s.tierThresholds[0]:
		return models.TierExcellent
	case revenue >= s.tierThresholds[1]:
		return models.TierGood
	case revenue >= s.tierThresholds[2]:
		return models.TierAverage
	}
	return models.TierNeedsImprovement
}

// TopPerformer returns the leader of a sorted scorecard list, or nil when the
// list is empty
func (s *KPIService) TopPerformer(kpis []*models.StaffKPI) *models.StaffKPI {
	if len(kpis) == 0 {
		return nil
	}
	return kpis[0]
}

// Leaderboard aggregates the full stored transaction stream, going through
// the cache when one is configured
func (s *KPIService) Leaderboard(ctx context.Context) ([]*models.StaffKPI, error) {
	if cached, ok := cache.GetLeaderboard(ctx); ok {
		return cached, nil
	}

	transactions, err := s.TxnRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []*models.TransactionRecord{}
	}

	kpis, err := s.Aggregate(transactions)
	if err != nil {
		return nil, err
	}

	cache.SetLeaderboard(ctx, kpis)
	return kpis, nil
}

// LeaderboardBetween aggregates only transactions inside [from, to)
func (s *KPIService) LeaderboardBetween(ctx context.Context, from, to time.Time) ([]*models.StaffKPI, error) {
	transactions, err := s.TxnRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []*models.TransactionRecord{}
	}
	return s.Aggregate(transactions)
}
