package http

import (
	"staffboard-backend/internal/handlers"
	"staffboard-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	staffHandler *handlers.StaffHandler,
	transactionHandler *handlers.TransactionHandler,
	kpiHandler *handlers.KPIHandler,
	attendanceHandler *handlers.AttendanceHandler,
	biometricHandler *handlers.BiometricHandler,
	healthHandler *handlers.HealthHandler,
) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.PanicRecovery)
	r.Use(middleware.APILogging)
	r.Use(middleware.MetricsMiddleware)

	// Operational endpoints
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Staff roster
	staffAPI := r.PathPrefix("/api/staff").Subrouter()
	staffAPI.HandleFunc("", staffHandler.ListStaff).Methods("GET")
	staffAPI.HandleFunc("", staffHandler.CreateStaff).Methods("POST")
	staffAPI.HandleFunc("/{id}", staffHandler.GetStaff).Methods("GET")
	staffAPI.HandleFunc("/{id}/toggle-active", staffHandler.ToggleActiveStatus).Methods("PATCH")

	// Transaction intake
	txnAPI := r.PathPrefix("/api/transactions").Subrouter()
	txnAPI.HandleFunc("", transactionHandler.ListTransactions).Methods("GET")
	txnAPI.HandleFunc("", transactionHandler.CreateTransaction).Methods("POST")

	// Staff performance
	kpiAPI := r.PathPrefix("/api/kpi").Subrouter()
	kpiAPI.HandleFunc("/leaderboard", kpiHandler.GetLeaderboard).Methods("GET")
	kpiAPI.HandleFunc("/top-performer", kpiHandler.GetTopPerformer).Methods("GET")

	// Attendance
	attendanceAPI := r.PathPrefix("/api/attendance").Subrouter()
	attendanceAPI.HandleFunc("", attendanceHandler.ListByDate).Methods("GET")
	attendanceAPI.HandleFunc("", attendanceHandler.MarkAttendance).Methods("POST")
	attendanceAPI.HandleFunc("/quick", attendanceHandler.QuickMark).Methods("POST")
	attendanceAPI.HandleFunc("/staff/{staff_id}", attendanceHandler.ListByStaff).Methods("GET")
	attendanceAPI.HandleFunc("/{id}", attendanceHandler.EditRecord).Methods("PUT")

	// Biometric devices and scans
	biometricAPI := r.PathPrefix("/api/biometric").Subrouter()
	biometricAPI.HandleFunc("/devices", biometricHandler.ListDevices).Methods("GET")
	biometricAPI.HandleFunc("/devices", biometricHandler.RegisterDevice).Methods("POST")
	biometricAPI.HandleFunc("/devices/{id}/connection", biometricHandler.SetDeviceConnection).Methods("PATCH")
	biometricAPI.HandleFunc("/scan", biometricHandler.StartScan).Methods("POST")
	biometricAPI.HandleFunc("/scan/{device_id}", biometricHandler.GetScan).Methods("GET")
	biometricAPI.HandleFunc("/scan/{device_id}", biometricHandler.CancelScan).Methods("DELETE")
	biometricAPI.HandleFunc("/log", biometricHandler.ListAuditLog).Methods("GET")

	return r
}
