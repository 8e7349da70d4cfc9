// Package config provides configuration management for the Fast Channel
// console. Values come from defaults, an optional YAML file and environment
// variables, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fastchannel/fastchannel-console/internal/timecode"
)

const (
	// Default values
	DefaultPort            = 8787
	DefaultLogLevel        = "info"
	DefaultDataDir         = ".fastchannel"
	DefaultStoreDriver     = StoreSQLite
	DefaultTickInterval    = 800 * time.Millisecond
	DefaultSettleDelay     = 500 * time.Millisecond
	DefaultDisplayDelay    = 2 * time.Second
	DefaultIncrementMin    = 5
	DefaultIncrementMax    = 20
	DefaultMaxUploadBytes  = 100 * 1024 * 1024
	DefaultClipDuration    = "00:30"
	DefaultPostgresRetries = 10

	// Store drivers
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	// Environment variable names
	EnvEnv             = "FASTCHANNEL_ENV"
	EnvConfigFile      = "FASTCHANNEL_CONFIG"
	EnvPort            = "FASTCHANNEL_PORT"
	EnvLogLevel        = "FASTCHANNEL_LOG_LEVEL"
	EnvDataDir         = "FASTCHANNEL_DATA_DIR"
	EnvHeadless        = "FASTCHANNEL_HEADLESS"
	EnvStoreDriver     = "FASTCHANNEL_STORE"
	EnvPostgresDSN     = "FASTCHANNEL_POSTGRES_DSN"
	EnvNATSURL         = "FASTCHANNEL_NATS_URL"
	EnvTickInterval    = "FASTCHANNEL_TICK_INTERVAL"
	EnvSettleDelay     = "FASTCHANNEL_SETTLE_DELAY"
	EnvDisplayDelay    = "FASTCHANNEL_DISPLAY_DELAY"
	EnvIncrementMin    = "FASTCHANNEL_INCREMENT_MIN"
	EnvIncrementMax    = "FASTCHANNEL_INCREMENT_MAX"
	EnvMaxUploadBytes  = "FASTCHANNEL_MAX_UPLOAD_BYTES"
	EnvDefaultDuration = "FASTCHANNEL_DEFAULT_DURATION"

	// Database filename
	DBFilename = "fastchannel.db"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	Headless() bool
	StoreDriver() string
	PostgresDSN() string
	NATSURL() string
	TickInterval() time.Duration
	SettleDelay() time.Duration
	DisplayDelay() time.Duration
	IncrementMin() int
	IncrementMax() int
	MaxUploadBytes() int64
	DefaultDuration() string
}

// EnvConfig holds the resolved configuration
type EnvConfig struct {
	port        int
	logLevel    string
	dataDir     string
	headless    bool
	storeDriver string
	postgresDSN string
	natsURL     string

	tickInterval time.Duration
	settleDelay  time.Duration
	displayDelay time.Duration
	incrementMin int
	incrementMax int

	maxUploadBytes  int64
	defaultDuration string
}

// New loads the file named by FASTCHANNEL_CONFIG, if any, then applies
// environment overrides.
func New() (*EnvConfig, error) {
	return Load(os.Getenv(EnvConfigFile))
}

// Load is New with an explicit config file path. An empty path skips the
// file.
func Load(path string) (*EnvConfig, error) {
	cfg := defaults()

	if path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := cfg.applyFile(fc); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *EnvConfig {
	return &EnvConfig{
		port:            DefaultPort,
		logLevel:        DefaultLogLevel,
		dataDir:         defaultDataDir(),
		storeDriver:     DefaultStoreDriver,
		tickInterval:    DefaultTickInterval,
		settleDelay:     DefaultSettleDelay,
		displayDelay:    DefaultDisplayDelay,
		incrementMin:    DefaultIncrementMin,
		incrementMax:    DefaultIncrementMax,
		maxUploadBytes:  DefaultMaxUploadBytes,
		defaultDuration: DefaultClipDuration,
	}
}

func (c *EnvConfig) applyEnv() error {
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		c.port = port
	}
	if ll := os.Getenv(EnvLogLevel); ll != "" {
		c.logLevel = ll
	}
	if dd := os.Getenv(EnvDataDir); dd != "" {
		c.dataDir = dd
	}
	if h := os.Getenv(EnvHeadless); h != "" {
		headless, err := strconv.ParseBool(h)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHeadless, err)
		}
		c.headless = headless
	}
	if d := os.Getenv(EnvStoreDriver); d != "" {
		c.storeDriver = strings.ToLower(d)
	}
	if dsn := os.Getenv(EnvPostgresDSN); dsn != "" {
		c.postgresDSN = dsn
	}
	if u := os.Getenv(EnvNATSURL); u != "" {
		c.natsURL = u
	}

	durations := []struct {
		env string
		dst *time.Duration
	}{
		{EnvTickInterval, &c.tickInterval},
		{EnvSettleDelay, &c.settleDelay},
		{EnvDisplayDelay, &c.displayDelay},
	}
	for _, d := range durations {
		if v := os.Getenv(d.env); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", d.env, err)
			}
			*d.dst = parsed
		}
	}

	ints := []struct {
		env string
		dst *int
	}{
		{EnvIncrementMin, &c.incrementMin},
		{EnvIncrementMax, &c.incrementMax},
	}
	for _, i := range ints {
		if v := os.Getenv(i.env); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", i.env, err)
			}
			*i.dst = n
		}
	}

	if v := os.Getenv(EnvMaxUploadBytes); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMaxUploadBytes, err)
		}
		c.maxUploadBytes = n
	}
	if v := os.Getenv(EnvDefaultDuration); v != "" {
		c.defaultDuration = v
	}
	return nil
}

func (c *EnvConfig) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.port)
	}
	switch c.storeDriver {
	case StoreSQLite, StoreMemory:
	case StorePostgres:
		if c.postgresDSN == "" {
			return fmt.Errorf("store driver %q requires %s", StorePostgres, EnvPostgresDSN)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.storeDriver)
	}
	if c.tickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}
	if c.settleDelay < 0 || c.displayDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	if c.incrementMin < 1 || c.incrementMax < c.incrementMin {
		return fmt.Errorf("invalid increment range %d..%d", c.incrementMin, c.incrementMax)
	}
	if c.maxUploadBytes < 1 {
		return fmt.Errorf("max upload bytes must be positive")
	}
	if err := timecode.Validate(c.defaultDuration); err != nil {
		return fmt.Errorf("invalid default duration: %w", err)
	}
	if timecode.ParseSeconds(c.defaultDuration) == 0 {
		return fmt.Errorf("default duration must be longer than zero")
	}
	return nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// Headless disables the system tray
func (c *EnvConfig) Headless() bool {
	return c.headless
}

func (c *EnvConfig) StoreDriver() string {
	return c.storeDriver
}

func (c *EnvConfig) PostgresDSN() string {
	return c.postgresDSN
}

// NATSURL is empty when toasts are not published to NATS
func (c *EnvConfig) NATSURL() string {
	return c.natsURL
}

func (c *EnvConfig) TickInterval() time.Duration {
	return c.tickInterval
}

func (c *EnvConfig) SettleDelay() time.Duration {
	return c.settleDelay
}

func (c *EnvConfig) DisplayDelay() time.Duration {
	return c.displayDelay
}

func (c *EnvConfig) IncrementMin() int {
	return c.incrementMin
}

func (c *EnvConfig) IncrementMax() int {
	return c.incrementMax
}

func (c *EnvConfig) MaxUploadBytes() int64 {
	return c.maxUploadBytes
}

// DefaultDuration is the placeholder duration for clips without one
func (c *EnvConfig) DefaultDuration() string {
	return c.defaultDuration
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
