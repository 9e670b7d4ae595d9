package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		MonitoringPort     int      `mapstructure:"monitoring_port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Attendance struct {
		DefaultCheckInTime   string `mapstructure:"default_check_in_time"`  // HH:MM
		DefaultCheckOutTime  string `mapstructure:"default_check_out_time"` // HH:MM
		LateThresholdMinutes int    `mapstructure:"late_threshold_minutes"`
		DefaultHalfDayHours  int    `mapstructure:"default_half_day_hours"`
		AutoTrackingEnabled  bool   `mapstructure:"auto_tracking_enabled"`
		AutoCheckInStartHour int    `mapstructure:"auto_check_in_start_hour"`
		AutoCheckInEndHour   int    `mapstructure:"auto_check_in_end_hour"`
	} `mapstructure:"attendance"`

	KPI struct {
		CommissionRate float64 `mapstructure:"commission_rate"`
		// Revenue cutoffs for excellent/good/average, highest first
		TierThresholds []int64 `mapstructure:"tier_thresholds"`
	} `mapstructure:"kpi"`

	Biometric struct {
		SuccessProbability float64 `mapstructure:"success_probability"`
		TickMillis         int     `mapstructure:"tick_millis"`
	} `mapstructure:"biometric"`

	Redis struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	// Auto bind environment variables
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.monitoring_port", 9091)
	v.SetDefault("attendance.default_check_in_time", "09:00")
	v.SetDefault("attendance.default_check_out_time", "18:00")
	v.SetDefault("attendance.late_threshold_minutes", 15)
	v.SetDefault("attendance.default_half_day_hours", 4)
	v.SetDefault("attendance.auto_tracking_enabled", false)
	v.SetDefault("attendance.auto_check_in_start_hour", 8)
	v.SetDefault("attendance.auto_check_in_end_hour", 11)
	v.SetDefault("kpi.commission_rate", 0.05)
	v.SetDefault("kpi.tier_thresholds", []int64{50000, 30000, 10000})
	v.SetDefault("biometric.success_probability", 0.95)
	v.SetDefault("biometric.tick_millis", 300)
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// Override server settings from environment variables
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Redis.Host = host
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		cfg.Redis.Password = pw
	}

	if len(cfg.Server.CorsAllowedOrigins) == 0 {
		cfg.Server.CorsAllowedOrigins = []string{"*"}
	}
	if len(cfg.Server.CorsAllowedMethods) == 0 {
		cfg.Server.CorsAllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(cfg.Server.CorsAllowedHeaders) == 0 {
		cfg.Server.CorsAllowedHeaders = []string{"Content-Type", "Authorization"}
	}

	return &cfg
}
