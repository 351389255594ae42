package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Summary store.
	DBPath string

	// Open-Meteo fetches.
	FetchTimeout time.Duration
	FetchRate    float64 // requests per second against the upstream APIs

	// Place label lookup (optional).
	GeocodeEnabled bool
	GeocodeTimeout time.Duration
	LabelCacheSize int
	LabelCacheTTL  time.Duration

	// Summary publication (optional, enabled when brokers are set).
	KafkaBrokers      []string
	KafkaSummaryTopic string

	// Cron expression for the daily snapshot pass.
	SnapshotSchedule string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parseDurationEnv("FETCH_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	geocodeTimeout, err := parseDurationEnv("GEOCODE_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	labelCacheTTL, err := parseDurationEnv("LABEL_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	fetchRate, err := parseFloatEnv("FETCH_RATE", 2)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DBPath: envOrDefault("DB_PATH", "data/summaries.db"),

		FetchTimeout: fetchTimeout,
		FetchRate:    fetchRate,

		GeocodeEnabled: envOrDefault("GEOCODE_ENABLED", "false") == "true",
		GeocodeTimeout: geocodeTimeout,
		LabelCacheSize: parseIntOrDefault("LABEL_CACHE_SIZE", 500),
		LabelCacheTTL:  labelCacheTTL,

		KafkaBrokers:      parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaSummaryTopic: envOrDefault("KAFKA_SUMMARY_TOPIC", "daily-summaries"),

		SnapshotSchedule: envOrDefault("SNAPSHOT_SCHEDULE", "0 6 * * *"),
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("HTTP_ADDR is required")
	}
	if cfg.DBPath == "" {
		return nil, errors.New("DB_PATH is required")
	}
	if cfg.FetchRate <= 0 {
		return nil, errors.New("FETCH_RATE must be positive")
	}

	return cfg, nil
}

// PublishEnabled reports whether summaries should be published to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func parseFloatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}

func parseIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
