package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, key := range []string{
		"APP_ENV", "HTTP_ADDR", "CALENDAR_SOURCE", "BACKEND_URL", "BACKEND_TIMEOUT", "CALENDAR_TIMEZONE",
		"CALENDAR_CACHE", "CALENDAR_CACHE_TTL", "CALENDAR_CACHE_SIZE", "SESSION_STORE", "MONGO_URI",
		"KAFKA_BROKERS", "RETRY_BACKOFF", "SESSION_TTL", "OUTBOX_POLL_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.CalendarSource != SourceHTTP || cfg.CalendarCache != CacheMemory {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.BackendTimeout != 5*time.Second || cfg.CalendarCacheTTL != 5*time.Minute || cfg.CalendarCacheSize != 512 {
		t.Fatalf("durations = %v %v %d", cfg.BackendTimeout, cfg.CalendarCacheTTL, cfg.CalendarCacheSize)
	}
	if len(cfg.RetryBackoff) != 3 || cfg.KafkaEnabled() {
		t.Fatalf("backoff = %v kafka = %v", cfg.RetryBackoff, cfg.KafkaBrokers)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"BACKEND_TIMEOUT", "soon", "BACKEND_TIMEOUT"},
		{"CALENDAR_SOURCE", "ftp", "CALENDAR_SOURCE"},
		{"CALENDAR_CACHE_SIZE", "-1", "CALENDAR_CACHE_SIZE"},
		{"CALENDAR_TIMEZONE", "Mars/Olympus", "CALENDAR_TIMEZONE"},
		{"SESSION_STORE", "mongo", "MONGO_URI"},
		{"RETRY_BACKOFF", "1s,later", "RETRY_BACKOFF"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("KAFKA_BROKERS=a:9092, b:9092\nCALENDAR_SOURCE=memory\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", path)
	os.Unsetenv("KAFKA_BROKERS")
	os.Unsetenv("CALENDAR_SOURCE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CalendarSource != SourceMemory || len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "b:9092" {
		t.Fatalf("cfg = %+v", cfg)
	}
}
