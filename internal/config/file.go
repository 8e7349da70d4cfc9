package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML layout of the optional config file
type FileConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Simulator SimulatorConfig `yaml:"simulator"`
	Media     MediaConfig     `yaml:"media"`
	NATS      NATSConfig      `yaml:"nats"`
}

type ServerConfig struct {
	Port     int    `yaml:"port,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
	Headless bool   `yaml:"headless,omitempty"`
}

type StoreConfig struct {
	Driver      string `yaml:"driver,omitempty"`
	DataDir     string `yaml:"data_dir,omitempty"`
	PostgresDSN string `yaml:"postgres_dsn,omitempty"`
}

// SimulatorConfig durations use Go duration syntax ("800ms", "2s")
type SimulatorConfig struct {
	TickInterval string `yaml:"tick_interval,omitempty"`
	SettleDelay  string `yaml:"settle_delay,omitempty"`
	DisplayDelay string `yaml:"display_delay,omitempty"`
	IncrementMin int    `yaml:"increment_min,omitempty"`
	IncrementMax int    `yaml:"increment_max,omitempty"`
}

type MediaConfig struct {
	MaxUploadBytes  int64  `yaml:"max_upload_bytes,omitempty"`
	DefaultDuration string `yaml:"default_duration,omitempty"`
}

type NATSConfig struct {
	URL string `yaml:"url,omitempty"`
}

// LoadFile reads and parses the configuration from the specified YAML file
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &fc, nil
}

// SaveFile writes the configuration to the specified YAML file
func SaveFile(fc *FileConfig, path string) error {
	data, err := yaml.Marshal(fc)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// File returns the resolved configuration in file form
func (c *EnvConfig) File() *FileConfig {
	return &FileConfig{
		Server: ServerConfig{
			Port:     c.port,
			LogLevel: c.logLevel,
			Headless: c.headless,
		},
		Store: StoreConfig{
			Driver:      c.storeDriver,
			DataDir:     c.dataDir,
			PostgresDSN: c.postgresDSN,
		},
		Simulator: SimulatorConfig{
			TickInterval: c.tickInterval.String(),
			SettleDelay:  c.settleDelay.String(),
			DisplayDelay: c.displayDelay.String(),
			IncrementMin: c.incrementMin,
			IncrementMax: c.incrementMax,
		},
		Media: MediaConfig{
			MaxUploadBytes:  c.maxUploadBytes,
			DefaultDuration: c.defaultDuration,
		},
		NATS: NATSConfig{URL: c.natsURL},
	}
}

func (c *EnvConfig) applyFile(fc *FileConfig) error {
	if fc.Server.Port != 0 {
		c.port = fc.Server.Port
	}
	if fc.Server.LogLevel != "" {
		c.logLevel = fc.Server.LogLevel
	}
	if fc.Server.Headless {
		c.headless = true
	}
	if fc.Store.Driver != "" {
		c.storeDriver = fc.Store.Driver
	}
	if fc.Store.DataDir != "" {
		c.dataDir = fc.Store.DataDir
	}
	if fc.Store.PostgresDSN != "" {
		c.postgresDSN = fc.Store.PostgresDSN
	}
	if fc.NATS.URL != "" {
		c.natsURL = fc.NATS.URL
	}

	durations := []struct {
		name string
		val  string
		dst  *time.Duration
	}{
		{"simulator.tick_interval", fc.Simulator.TickInterval, &c.tickInterval},
		{"simulator.settle_delay", fc.Simulator.SettleDelay, &c.settleDelay},
		{"simulator.display_delay", fc.Simulator.DisplayDelay, &c.displayDelay},
	}
	for _, d := range durations {
		if d.val == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.val)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	if fc.Simulator.IncrementMin != 0 {
		c.incrementMin = fc.Simulator.IncrementMin
	}
	if fc.Simulator.IncrementMax != 0 {
		c.incrementMax = fc.Simulator.IncrementMax
	}
	if fc.Media.MaxUploadBytes != 0 {
		c.maxUploadBytes = fc.Media.MaxUploadBytes
	}
	if fc.Media.DefaultDuration != "" {
		c.defaultDuration = fc.Media.DefaultDuration
	}
	return nil
}

// LoadDotEnv loads .env files into the environment unless FASTCHANNEL_ENV
// is "production". Missing files are ignored; variables already set win.
func LoadDotEnv(paths ...string) error {
	if os.Getenv(EnvEnv) == "production" {
		return nil
	}
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}
