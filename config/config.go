package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Database configuration
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// Ingestion configuration
	Ingest IngestConfig

	// Risk labeling configuration
	Risk RiskConfig

	// Scheduler configuration
	Schedule ScheduleConfig
}

// IngestConfig holds the collection window and provenance label
type IngestConfig struct {
	StartDate  string // inclusive, YYYY-MM-DD
	EndDate    string // inclusive, YYYY-MM-DD; empty means today
	DataSource string
}

// RiskConfig holds risk-event labeling parameters.
// ThresholdPct is required configuration, not a hidden constant: a day is a
// risk event when the absolute percent move of the close exceeds it.
type RiskConfig struct {
	ThresholdPct float64
}

// ScheduleConfig holds the cron schedule for the daily pipeline
type ScheduleConfig struct {
	DailyCron  string // six-field cron spec (with seconds)
	RunOnStart bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		// Database configuration
		DatabaseHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DatabasePort:     getEnvOrDefault("DB_PORT", "5432"),
		DatabaseName:     getEnvOrDefault("DB_NAME", "metal_risk_prediction"),
		DatabaseUser:     getEnvOrDefault("DB_USER", "postgres"),
		DatabasePassword: getEnvOrDefault("DB_PASSWORD", ""),

		Ingest: IngestConfig{
			StartDate:  getEnvOrDefault("INGEST_START_DATE", "2020-01-01"),
			EndDate:    getEnvOrDefault("INGEST_END_DATE", ""),
			DataSource: getEnvOrDefault("INGEST_DATA_SOURCE", "yfinance"),
		},

		Risk: RiskConfig{
			ThresholdPct: getEnvFloat("RISK_THRESHOLD_PCT", 3.0),
		},

		Schedule: ScheduleConfig{
			// Weekdays at 22:30 UTC, after the US close.
			DailyCron:  getEnvOrDefault("PIPELINE_DAILY_CRON", "0 30 22 * * 1-5"),
			RunOnStart: getEnvOrDefault("PIPELINE_RUN_ON_START", "false") == "true",
		},
	}
}

// getEnvFloat gets environment variable as float64 or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var floatValue float64
	if _, err := fmt.Sscanf(value, "%f", &floatValue); err != nil {
		return defaultValue
	}
	return floatValue
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
