package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staffboard-backend/internal/cache"
	"staffboard-backend/internal/config"
	"staffboard-backend/internal/handlers"
	"staffboard-backend/internal/health"
	h "staffboard-backend/internal/http"
	"staffboard-backend/internal/middleware"
	"staffboard-backend/internal/monitoring"
	"staffboard-backend/internal/repositories"
	"staffboard-backend/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional leaderboard cache; the API works without it
	if err := cache.Init(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password); err != nil {
		log.Printf("[Cache] Redis unavailable, running without cache: %v", err)
	} else if cache.Enabled() {
		log.Println("[Cache] Redis connected")
	}

	// Stores
	staffRepo := repositories.NewStaffRepository()
	txnRepo := repositories.NewTransactionRepository()
	attendanceRepo := repositories.NewAttendanceRepository()
	deviceRepo := repositories.NewDeviceRepository()
	logRepo := repositories.NewBiometricLogRepository()

	// Monitoring server runs on its own port with the live device feed
	monitor := monitoring.NewServer(deviceRepo, logRepo, cfg.Server.MonitoringPort)
	go monitor.Start()

	// Services
	kpiService := services.NewKPIService(txnRepo, cfg.KPI.CommissionRate, cfg.KPI.TierThresholds)
	attendanceService := services.NewAttendanceService(attendanceRepo, staffRepo, services.AttendanceConfig{
		DefaultCheckInTime:   cfg.Attendance.DefaultCheckInTime,
		DefaultCheckOutTime:  cfg.Attendance.DefaultCheckOutTime,
		LateThresholdMinutes: cfg.Attendance.LateThresholdMinutes,
		DefaultHalfDayHours:  cfg.Attendance.DefaultHalfDayHours,
	})
	biometricService := services.NewBiometricService(
		deviceRepo,
		attendanceService,
		staffRepo,
		logRepo,
		monitor,
		cfg.Biometric.SuccessProbability,
		time.Duration(cfg.Biometric.TickMillis)*time.Millisecond,
	)
	biometricService.SeedDefaultDevices(context.Background())

	autoTracker := services.NewAutoTrackerService(attendanceService, staffRepo, services.AutoTrackerConfig{
		Enabled:   cfg.Attendance.AutoTrackingEnabled,
		StartHour: cfg.Attendance.AutoCheckInStartHour,
		EndHour:   cfg.Attendance.AutoCheckInEndHour,
	})
	if err := autoTracker.Start(); err != nil {
		log.Fatalf("Auto tracker failed to start: %v", err)
	}

	// Handlers
	staffHandler := handlers.NewStaffHandler(staffRepo)
	transactionHandler := handlers.NewTransactionHandler(txnRepo)
	kpiHandler := handlers.NewKPIHandler(kpiService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	biometricHandler := handlers.NewBiometricHandler(biometricService, logRepo)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(attendanceRepo, txnRepo, logRepo))

	router := h.NewRouter(
		staffHandler,
		transactionHandler,
		kpiHandler,
		attendanceHandler,
		biometricHandler,
		healthHandler,
	)

	corsHandler := middleware.NewCORS(cfg)(router)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	autoTracker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	monitor.Stop(ctx)
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
