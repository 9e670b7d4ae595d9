package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staffboard_http_requests_total",
		Help: "Total HTTP requests by method, path and status code",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "staffboard_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	AttendanceMarksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staffboard_attendance_marks_total",
		Help: "Attendance records created by method and status",
	}, []string{"method", "status"})

	AttendanceRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staffboard_attendance_rejections_total",
		Help: "Attendance transitions rejected by reason",
	}, []string{"reason"})

	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staffboard_biometric_scans_total",
		Help: "Completed biometric scans by action and outcome",
	}, []string{"action", "outcome"})

	AggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "staffboard_kpi_aggregation_duration_seconds",
		Help:    "Duration of one KPI aggregation pass",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	AggregationStaffCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "staffboard_kpi_last_staff_count",
		Help: "Number of staff in the most recent leaderboard",
	})
)
