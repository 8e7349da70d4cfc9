package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv(EnvConfigFile, "")
	t.Setenv(EnvPort, "")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port() != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port(), DefaultPort)
	}
	if cfg.StoreDriver() != StoreSQLite {
		t.Errorf("StoreDriver = %q, want %q", cfg.StoreDriver(), StoreSQLite)
	}
	if cfg.TickInterval() != 800*time.Millisecond {
		t.Errorf("TickInterval = %v, want 800ms", cfg.TickInterval())
	}
	if cfg.SettleDelay() != 500*time.Millisecond || cfg.DisplayDelay() != 2*time.Second {
		t.Errorf("delays = %v/%v, want 500ms/2s", cfg.SettleDelay(), cfg.DisplayDelay())
	}
	if cfg.IncrementMin() != 5 || cfg.IncrementMax() != 20 {
		t.Errorf("increments = %d..%d, want 5..20", cfg.IncrementMin(), cfg.IncrementMax())
	}
	if cfg.MaxUploadBytes() != 100*1024*1024 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes())
	}
	if cfg.DefaultDuration() != "00:30" {
		t.Errorf("DefaultDuration = %q, want 00:30", cfg.DefaultDuration())
	}
	if !strings.HasSuffix(cfg.DBPath(), filepath.Join(DefaultDataDir, DBFilename)) {
		t.Errorf("DBPath = %q", cfg.DBPath())
	}
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPort, "9000")
	t.Setenv(EnvDataDir, "/tmp/fc")
	t.Setenv(EnvHeadless, "true")
	t.Setenv(EnvStoreDriver, "MEMORY")
	t.Setenv(EnvTickInterval, "50ms")
	t.Setenv(EnvIncrementMax, "30")
	t.Setenv(EnvNATSURL, "nats://localhost:4222")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port() != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port())
	}
	if cfg.DBPath() != filepath.Join("/tmp/fc", DBFilename) {
		t.Errorf("DBPath = %q", cfg.DBPath())
	}
	if !cfg.Headless() {
		t.Error("Headless = false, want true")
	}
	if cfg.StoreDriver() != StoreMemory {
		t.Errorf("StoreDriver = %q, want memory", cfg.StoreDriver())
	}
	if cfg.TickInterval() != 50*time.Millisecond {
		t.Errorf("TickInterval = %v, want 50ms", cfg.TickInterval())
	}
	if cfg.IncrementMax() != 30 {
		t.Errorf("IncrementMax = %d, want 30", cfg.IncrementMax())
	}
	if cfg.NATSURL() != "nats://localhost:4222" {
		t.Errorf("NATSURL = %q", cfg.NATSURL())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"port not a number", map[string]string{EnvPort: "abc"}},
		{"port out of range", map[string]string{EnvPort: "70000"}},
		{"unknown driver", map[string]string{EnvStoreDriver: "redis"}},
		{"postgres without dsn", map[string]string{EnvStoreDriver: "postgres"}},
		{"bad duration", map[string]string{EnvSettleDelay: "soon"}},
		{"inverted increments", map[string]string{EnvIncrementMin: "30", EnvIncrementMax: "10"}},
		{"malformed default duration", map[string]string{EnvDefaultDuration: "ab:cd"}},
		{"zero default duration", map[string]string{EnvDefaultDuration: "00:00"}},
		{"headless not bool", map[string]string{EnvHeadless: "sometimes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := New(); err == nil {
				t.Error("New() error = nil, want error")
			}
		})
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fastchannel.yaml")
	content := `
server:
  port: 9100
  log_level: debug
store:
  driver: postgres
  postgres_dsn: postgres://fc:fc@localhost:5432/fc
simulator:
  tick_interval: 100ms
  increment_min: 10
media:
  default_duration: "00:45"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(EnvPort, "9200")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port() != 9200 {
		t.Errorf("Port = %d, want env value 9200", cfg.Port())
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel())
	}
	if cfg.StoreDriver() != StorePostgres || cfg.PostgresDSN() == "" {
		t.Errorf("store = %q %q", cfg.StoreDriver(), cfg.PostgresDSN())
	}
	if cfg.TickInterval() != 100*time.Millisecond {
		t.Errorf("TickInterval = %v, want 100ms", cfg.TickInterval())
	}
	if cfg.IncrementMin() != 10 || cfg.IncrementMax() != DefaultIncrementMax {
		t.Errorf("increments = %d..%d", cfg.IncrementMin(), cfg.IncrementMax())
	}
	if cfg.DefaultDuration() != "00:45" {
		t.Errorf("DefaultDuration = %q, want 00:45", cfg.DefaultDuration())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() of missing file returned nil error")
	}
}

func TestSaveFile_RoundTrip(t *testing.T) {
	t.Setenv(EnvPort, "9300")
	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := SaveFile(cfg.File(), path); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	t.Setenv(EnvPort, "")
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reloaded.Port() != 9300 {
		t.Errorf("Port = %d, want 9300", reloaded.Port())
	}
	if reloaded.TickInterval() != cfg.TickInterval() {
		t.Errorf("TickInterval = %v, want %v", reloaded.TickInterval(), cfg.TickInterval())
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("FASTCHANNEL_NATS_URL=nats://dotenv:4222\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv(EnvNATSURL, "")
	os.Unsetenv(EnvNATSURL)

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv(EnvNATSURL); got != "nats://dotenv:4222" {
		t.Errorf("%s = %q, want value from .env", EnvNATSURL, got)
	}
}

func TestLoadDotEnv_SkippedInProduction(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	os.WriteFile(path, []byte("FASTCHANNEL_LOG_LEVEL=debug\n"), 0644)

	t.Setenv(EnvEnv, "production")
	t.Setenv(EnvLogLevel, "")
	os.Unsetenv(EnvLogLevel)

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv(EnvLogLevel); got != "" {
		t.Errorf("%s = %q, want unset in production", EnvLogLevel, got)
	}
}
