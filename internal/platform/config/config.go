package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverSQLite   = "sqlite"
	DatabaseDriverMemory   = "memory"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	LogLevel    string

	DatabaseDriver string
	PostgresDSN    string
	SQLitePath     string

	KafkaBrokers     []string
	InteractionTopic string

	OpenAIAPIKey           string
	OpenAIBaseURL          string
	OpenAIModel            string
	EnableAugmentation     bool
	AugmentationTimeout    time.Duration
	AugmentationMaxRetries int

	SeedCSVPath      string
	SeedOnStartup    bool
	SeedConcurrency  int
	SeedAugmentDelay time.Duration

	AnalyticsTimezone string
	ReportWindowDays  int
	ReportSchedule    string

	EnableTracing      bool
	OTLPEndpoint       string
	EnableMetrics      bool
	CORSAllowedOrigins []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first; variables already set in the process win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	openAIKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	cfg := Config{
		ServiceName: envString("SERVICE_NAME", "lead-qualifier"),
		HTTPPort:    envString("HTTP_PORT", "8000"),
		LogLevel:    envString("LOG_LEVEL", "info"),

		DatabaseDriver: strings.ToLower(envString("DATABASE_DRIVER", DatabaseDriverSQLite)),
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
		SQLitePath:     envString("SQLITE_PATH", "leads.db"),

		KafkaBrokers:     envList("KAFKA_BROKERS"),
		InteractionTopic: envString("INTERACTION_TOPIC", "lead.interactions"),

		OpenAIAPIKey:       openAIKey,
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:        envString("OPENAI_MODEL", "gpt-3.5-turbo"),
		EnableAugmentation: envBool("ENABLE_AUGMENTATION", openAIKey != ""),

		SeedCSVPath:   os.Getenv("SEED_CSV_PATH"),
		SeedOnStartup: envBool("SEED_ON_STARTUP", true),

		AnalyticsTimezone: envString("ANALYTICS_TIMEZONE", "Local"),
		ReportSchedule:    envString("REPORT_SCHEDULE", "@hourly"),

		EnableTracing:      envBool("ENABLE_TRACING", false),
		OTLPEndpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		EnableMetrics:      envBool("ENABLE_METRICS", true),
		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS"),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	var err error
	if cfg.AugmentationTimeout, err = envDuration("AUGMENTATION_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.AugmentationMaxRetries, err = envInt("AUGMENTATION_MAX_RETRIES", 2); err != nil {
		return Config{}, err
	}
	if cfg.SeedConcurrency, err = envInt("SEED_CONCURRENCY", 4); err != nil {
		return Config{}, err
	}
	if cfg.SeedAugmentDelay, err = envDuration("SEED_AUGMENT_DELAY", 500*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.ReportWindowDays, err = envInt("REPORT_WINDOW_DAYS", 7); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case DatabaseDriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return errors.New("POSTGRES_DSN is required when DATABASE_DRIVER=postgres")
		}
	case DatabaseDriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("SQLITE_PATH is required when DATABASE_DRIVER=sqlite")
		}
	case DatabaseDriverMemory:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.SeedConcurrency < 1 {
		return errors.New("SEED_CONCURRENCY must be at least 1")
	}
	if c.ReportWindowDays < 1 {
		return errors.New("REPORT_WINDOW_DAYS must be at least 1")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves AnalyticsTimezone. "Local" and empty mean the process zone.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.AnalyticsTimezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid ANALYTICS_TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

func envString(name string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envList(name string) []string {
	var values []string
	for _, value := range strings.Split(os.Getenv(name), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}

func envInt(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return value, nil
}

func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return value, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
