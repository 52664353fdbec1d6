package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceHTTP   = "http"
	SourceMemory = "memory"

	CacheMemory = "memory"
	CacheRedis  = "redis"

	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env      string
	LogLevel string
	HTTPAddr string

	CalendarSource   string
	CalendarFixtures string
	BackendURL       string
	BackendToken     string
	BackendTimeout   time.Duration
	TimeZone         string
	Location         *time.Location

	CalendarCache     string
	CalendarCacheTTL  time.Duration
	CalendarCacheSize int
	RedisURL          string

	SessionStore string
	SessionTTL   time.Duration
	MongoURI     string
	MongoDB      string

	KafkaBrokers        []string
	KafkaTopicPrefix    string
	KafkaGroupID        string
	CalendarEventsTopic string
	OutboxPollInterval  time.Duration
	RetryBackoff        []time.Duration

	CacheSweepSpec   string
	SessionSweepSpec string
}

// Load reads an optional .env file (ENV_FILE overrides the path) and then
// parses the environment. Variables already set win over the file.
func Load() (Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Config{
		Env:                 getEnv("APP_ENV", "dev"),
		LogLevel:            strings.ToLower(getEnv("LOG_LEVEL", "info")),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		CalendarSource:      strings.ToLower(getEnv("CALENDAR_SOURCE", SourceHTTP)),
		CalendarFixtures:    os.Getenv("CALENDAR_FIXTURES"),
		BackendURL:          strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8000/api"), "/"),
		BackendToken:        os.Getenv("BACKEND_TOKEN"),
		TimeZone:            getEnv("CALENDAR_TIMEZONE", "Local"),
		CalendarCache:       strings.ToLower(getEnv("CALENDAR_CACHE", CacheMemory)),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SessionStore:        strings.ToLower(getEnv("SESSION_STORE", StoreMemory)),
		MongoURI:            os.Getenv("MONGO_URI"),
		MongoDB:             getEnv("MONGO_DB", "stayrent"),
		KafkaTopicPrefix:    getEnv("KAFKA_TOPIC_PREFIX", ""),
		KafkaGroupID:        getEnv("KAFKA_GROUP_ID", "stayrent"),
		CalendarEventsTopic: getEnv("CALENDAR_EVENTS_TOPIC", "calendar.events.v1"),
		CacheSweepSpec:      getEnv("CACHE_SWEEP_SPEC", "@every 1m"),
		SessionSweepSpec:    getEnv("SESSION_SWEEP_SPEC", "@every 10m"),
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return Config{}, fmt.Errorf("invalid CALENDAR_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	durations := []struct {
		key  string
		def  time.Duration
		dest *time.Duration
	}{
		{"BACKEND_TIMEOUT", 5 * time.Second, &cfg.BackendTimeout},
		{"CALENDAR_CACHE_TTL", 5 * time.Minute, &cfg.CalendarCacheTTL},
		{"SESSION_TTL", 24 * time.Hour, &cfg.SessionTTL},
		{"OUTBOX_POLL_INTERVAL", 500 * time.Millisecond, &cfg.OutboxPollInterval},
	}
	for _, d := range durations {
		v, err := parseDurationEnv(d.key, d.def)
		if err != nil {
			return Config{}, err
		}
		*d.dest = v
	}

	size, err := parseIntEnv("CALENDAR_CACHE_SIZE", 512)
	if err != nil {
		return Config{}, err
	}
	cfg.CalendarCacheSize = size

	retryStr := getEnv("RETRY_BACKOFF", "1s,5s,30s")
	for _, raw := range strings.Split(retryStr, ",") {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if err := oneOf("CALENDAR_SOURCE", c.CalendarSource, SourceHTTP, SourceMemory); err != nil {
		return err
	}
	if err := oneOf("CALENDAR_CACHE", c.CalendarCache, CacheMemory, CacheRedis); err != nil {
		return err
	}
	if err := oneOf("SESSION_STORE", c.SessionStore, StoreMemory, StoreMongo); err != nil {
		return err
	}
	if c.CalendarSource == SourceHTTP && c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL is required when CALENDAR_SOURCE=%s", SourceHTTP)
	}
	if c.SessionStore == StoreMongo && c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required when SESSION_STORE=%s", StoreMongo)
	}
	if c.CalendarCacheSize <= 0 {
		return fmt.Errorf("CALENDAR_CACHE_SIZE must be positive")
	}
	if c.CalendarCacheTTL <= 0 {
		return fmt.Errorf("CALENDAR_CACHE_TTL must be positive")
	}
	return nil
}

// KafkaEnabled reports whether session events should be published.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q: want one of %s", key, value, strings.Join(allowed, ", "))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}
