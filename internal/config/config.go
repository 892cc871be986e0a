package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend string

	// Database
	SQLiteDBPath string

	// Timezone for calendar-month bucketing of entries
	TimeLocation string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Archive worker
	ArchivePath      string
	ArchiveBatchSize int
	ArchiveInterval  time.Duration

	// Advice generator
	AdviceAPIKey  string
	AdviceBaseURL string
	AdviceModel   string
	AdviceTimeout time.Duration

	// Demo account seeded at startup
	DemoUsername string
	DemoPassword string

	// Logging
	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DataBackend: getEnv("DATA_BACKEND", "memory"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/fintrack.db"),
		TimeLocation: getEnv("TIME_LOCATION", "Local"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fintrack"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "entry_events"),

		ArchivePath:      getEnv("ARCHIVE_PATH", "./data/entries.jsonl"),
		ArchiveBatchSize: getEnvInt("ARCHIVE_BATCH_SIZE", 10),
		ArchiveInterval:  getEnvDuration("ARCHIVE_INTERVAL", 30*time.Second),

		AdviceAPIKey:  getEnv("ADVICE_API_KEY", ""),
		AdviceBaseURL: getEnv("ADVICE_BASE_URL", ""),
		AdviceModel:   getEnv("ADVICE_MODEL", "gpt-4o-mini"),
		AdviceTimeout: getEnvDuration("ADVICE_TIMEOUT", 15*time.Second),

		DemoUsername: getEnv("DEMO_USERNAME", "demo"),
		DemoPassword: getEnv("DEMO_PASSWORD", "password"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if _, err := loadLocation(c.TimeLocation); err != nil {
		errors = append(errors, fmt.Sprintf("invalid time location '%s': %v", c.TimeLocation, err))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.ArchiveBatchSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid archive batch size %d: must be at least 1", c.ArchiveBatchSize))
	} else if c.ArchiveBatchSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid archive batch size %d: must be at most 1000", c.ArchiveBatchSize))
	}

	if c.ArchiveInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid archive interval %v: must be at least 1 second", c.ArchiveInterval))
	} else if c.ArchiveInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid archive interval %v: must be at most 24 hours", c.ArchiveInterval))
	}

	if c.AdviceTimeout < time.Second || c.AdviceTimeout > 2*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid advice timeout %v: must be between 1 second and 2 minutes", c.AdviceTimeout))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Location resolves TimeLocation to a *time.Location. Call Validate
// first; this panics only on values Validate would have rejected.
func (c *Config) Location() *time.Location {
	loc, err := loadLocation(c.TimeLocation)
	if err != nil {
		return time.Local
	}
	return loc
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "Local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
