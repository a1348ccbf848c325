package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	LogLevel    string
	LogFormat   string
	Environment string

	Port int // health/metrics HTTP port

	DBUser     string `validate:"required"`
	DBPassword string `validate:"required"`
	DBHost     string `validate:"required"`
	DBPort     string `validate:"required"`
	DBName     string `validate:"required"`

	DiscordToken string `validate:"required"`
	DiscordAppID string `validate:"required"`

	// Reconciliation schedule
	ReconcileHour   int    // local hour of the daily run
	ReconcileMinute int
	Timezone        string // IANA name, e.g. "America/Chicago"
	RunOnStart      bool   // also run once at process-ready

	StatusRotation time.Duration
}

// Load loads the configuration from environment variables. Secrets (bot
// token, database password) may come from mounted files via the *_FILE
// variants, which take precedence over the plain variables.
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", "birthmas"),
		Timezone:    getEnv("TIMEZONE", "Local"),
		RunOnStart:  getEnv("RECONCILE_ON_START", "false") == "true",

		DiscordAppID: os.Getenv("DISCORD_APP_ID"),
	}

	var err error
	if cfg.DBPassword, err = getSecret("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.DiscordToken, err = getSecret("DISCORD_TOKEN"); err != nil {
		return nil, err
	}

	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.ReconcileHour, err = getEnvInt("RECONCILE_HOUR", DefaultReconcileHour); err != nil {
		return nil, err
	}
	if cfg.ReconcileMinute, err = getEnvInt("RECONCILE_MINUTE", 0); err != nil {
		return nil, err
	}

	rotation, err := getEnvInt("STATUS_ROTATION_MINUTES", DefaultStatusRotationMinutes)
	if err != nil {
		return nil, err
	}
	cfg.StatusRotation = time.Duration(rotation) * time.Minute

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

// getSecret reads KEY_FILE (a mounted secret file) when present, otherwise
// falls back to the KEY environment variable.
func getSecret(key string) (string, error) {
	if path := os.Getenv(key + "_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s_FILE: %w", key, err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return os.Getenv(key), nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE value %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DBConnString returns the PostgreSQL connection string
func (c *Config) DBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
