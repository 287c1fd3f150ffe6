package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server ServerConfig
	Ledger LedgerConfig
	Probe  ProbeConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LedgerConfig points the dashboard at the remote ledger REST gateway.
type LedgerConfig struct {
	// BaseURL includes the /api path prefix, e.g. http://localhost:8000/api.
	BaseURL string
	// Timeout bounds every outbound request so a hung backend cannot leave
	// the dashboard loading forever.
	Timeout time.Duration
}

// ProbeConfig holds the backend liveness probe schedule.
type ProbeConfig struct {
	CronSchedule string
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string
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

	timeout, err := time.ParseDuration(getenvWithDefault("LEDGER_REQUEST_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_REQUEST_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "3000"),
		},
		Ledger: LedgerConfig{
			BaseURL: getenvWithDefault("LEDGER_API_BASE_URL", "http://localhost:8000/api"),
			Timeout: timeout,
		},
		Probe: ProbeConfig{
			CronSchedule: getenvWithDefault("HEALTH_PROBE_SCHEDULE", "* * * * *"),
		},
		Log: LogConfig{
			Level: os.Getenv("LOG_LEVEL"),
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

	if c.Ledger.BaseURL == "" {
		return errors.New("LEDGER_API_BASE_URL must be provided")
	}
	parsed, err := url.Parse(c.Ledger.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("LEDGER_API_BASE_URL must be an absolute URL, got %q", c.Ledger.BaseURL)
	}

	if c.Ledger.Timeout <= 0 {
		return errors.New("LEDGER_REQUEST_TIMEOUT must be positive")
	}

	if c.Probe.CronSchedule == "" {
		return errors.New("HEALTH_PROBE_SCHEDULE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
