package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     int
	DevMode  bool
	LogLevel string
	DataDir  string

	// Analytics defaults, overridable per request
	RiskFreeRate   float64 // annual, decimal
	PeriodsPerYear int     // 252 for daily returns
	FrontierPoints int
	NumSimulations int
	HistoryRange   string // Yahoo chart range, e.g. "6mo", "1y"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnvAsInt("PORT", 8080),
		DevMode:        getEnvAsBool("DEV_MODE", false),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DataDir:        getEnv("DATA_DIR", "./data"),
		RiskFreeRate:   getEnvAsFloat("RISK_FREE_RATE", 0.0),
		PeriodsPerYear: getEnvAsInt("PERIODS_PER_YEAR", 252),
		FrontierPoints: getEnvAsInt("FRONTIER_POINTS", 30),
		NumSimulations: getEnvAsInt("NUM_SIMULATIONS", 10000),
		HistoryRange:   getEnv("HISTORY_RANGE", "6mo"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present and sane
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.PeriodsPerYear <= 0 {
		return fmt.Errorf("PERIODS_PER_YEAR must be positive, got %d", c.PeriodsPerYear)
	}
	if c.FrontierPoints <= 0 {
		return fmt.Errorf("FRONTIER_POINTS must be positive, got %d", c.FrontierPoints)
	}
	if c.NumSimulations <= 0 {
		return fmt.Errorf("NUM_SIMULATIONS must be positive, got %d", c.NumSimulations)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
