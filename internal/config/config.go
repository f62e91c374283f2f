// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// Tracing
	OTLPEndpoint string // OTLP gRPC collector endpoint (optional, tracing off if not set)

	// Scoring settings
	ScoreWorkers       int      // evaluation fan-out width; 0 = GOMAXPROCS
	ZThreshold         float64  // outlier z-score threshold
	RoundDollarModulus int64    // round-amount modulus in whole currency units
	PeriodCloseDays    int      // month-end window length in days
	HighRiskAt         int      // run-summary high-risk threshold
	Keywords           []string // extra description keywords, comma-separated
	ApprovedStatuses   []string // non-flagging approval statuses, comma-separated

	// Security
	RateLimitRPS int
}

const (
	DefaultPort               = "8080"
	DefaultEnv                = "development"
	DefaultLogLevel           = "info"
	DefaultRateLimit          = 100
	DefaultZThreshold         = 2.0
	DefaultRoundDollarModulus = 100
	DefaultPeriodCloseDays    = 3
	DefaultHighRiskAt         = 60
)

// Load reads configuration from environment variables
// It loads .env file if present (for local development)
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", DefaultPort),
		Env:                getEnv("ENV", DefaultEnv),
		LogLevel:           getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:        os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		OTLPEndpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ScoreWorkers:       int(getEnvInt64("SCORE_WORKERS", 0)),
		ZThreshold:         getEnvFloat("Z_THRESHOLD", DefaultZThreshold),
		RoundDollarModulus: getEnvInt64("ROUND_DOLLAR_MODULUS", DefaultRoundDollarModulus),
		PeriodCloseDays:    int(getEnvInt64("PERIOD_CLOSE_DAYS", DefaultPeriodCloseDays)),
		HighRiskAt:         int(getEnvInt64("HIGH_RISK_AT", DefaultHighRiskAt)),
		Keywords:           getEnvList("SCORING_KEYWORDS"),
		ApprovedStatuses:   getEnvList("APPROVED_STATUSES"),
		RateLimitRPS:       int(getEnvInt64("RATE_LIMIT_RPS", int64(DefaultRateLimit))),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all configuration values are usable
func (c *Config) Validate() error {
	if c.ZThreshold <= 0 {
		return fmt.Errorf("Z_THRESHOLD must be positive, got %v", c.ZThreshold)
	}
	if c.RoundDollarModulus <= 0 {
		return fmt.Errorf("ROUND_DOLLAR_MODULUS must be positive, got %d", c.RoundDollarModulus)
	}
	if c.PeriodCloseDays < 0 || c.PeriodCloseDays > 28 {
		return fmt.Errorf("PERIOD_CLOSE_DAYS must be in [0,28], got %d", c.PeriodCloseDays)
	}
	if c.HighRiskAt < 0 || c.HighRiskAt > 100 {
		return fmt.Errorf("HIGH_RISK_AT must be in [0,100], got %d", c.HighRiskAt)
	}
	if c.ScoreWorkers < 0 {
		return fmt.Errorf("SCORE_WORKERS must be non-negative, got %d", c.ScoreWorkers)
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
