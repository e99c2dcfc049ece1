package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Migration MigrationConfig
	Sheets    SheetsConfig
	Notifier  NotifierConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// MigrationConfig holds scheduler-related settings for the daily age-group run.
type MigrationConfig struct {
	CronSchedule string
	Timezone     string
}

// SheetsConfig contains configuration required to export migration runs to
// Google Sheets. The export is disabled when no spreadsheet is configured.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// NotifierConfig holds the optional migration-result callback endpoint.
type NotifierConfig struct {
	WebhookURL string
	AuthToken  string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "rebanho"),
		},
		Migration: MigrationConfig{
			CronSchedule: getenvWithDefault("MIGRATION_CRON_SCHEDULE", "0 3 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "America/Campo_Grande"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Notifier: NotifierConfig{
			WebhookURL: os.Getenv("MIGRATION_WEBHOOK_URL"),
			AuthToken:  os.Getenv("MIGRATION_WEBHOOK_TOKEN"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Migration.CronSchedule == "" {
		return errors.New("MIGRATION_CRON_SCHEDULE must be provided")
	}

	if c.Migration.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	// Sheets export is optional, but half a configuration is a mistake.
	if (c.Sheets.SpreadsheetID == "") != (c.Sheets.CredentialsPath == "") {
		return errors.New("GOOGLE_SHEET_DATABASE_ID and GOOGLE_SHEETS_CREDENTIALS_PATH must be provided together")
	}

	return nil
}

// SheetsEnabled reports whether the spreadsheet export is configured.
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.SpreadsheetID != ""
}

// NotifierEnabled reports whether the result webhook is configured.
func (c *Config) NotifierEnabled() bool {
	return c.Notifier.WebhookURL != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
