// Package config holds the settings of the amm command: initial pool,
// logging, metrics endpoint and multi-user simulation delays.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

var (
	ErrInvalidPool  = errors.New("config: invalid initial pool")
	ErrInvalidDelay = errors.New("config: invalid simulation delay")
	ErrInvalidLevel = errors.New("config: invalid log level")
	ErrInvalidUsers = errors.New("config: invalid simulation user limit")
)

type Config struct {
	// Initial reserves; k is their product.
	ReserveBase  uint64 `yaml:"reserve_base"`
	ReserveQuote uint64 `yaml:"reserve_quote"`

	Log        Log        `yaml:"log"`
	Metrics    Metrics    `yaml:"metrics"`
	Simulation Simulation `yaml:"simulation"`
}

type Log struct {
	Level string `yaml:"level"`
	// File enables a rotating JSON log next to the console output.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type Metrics struct {
	// Address serves /metrics when not empty, e.g. "127.0.0.1:9090".
	Address string `yaml:"address"`
}

// Simulation configures the delays of the multi-user harness. Each
// participant waits a random time in [MinNetworkDelay, MaxNetworkDelay)
// before committing and in [MinRevealDelay, MaxRevealDelay) before revealing.
// MaxUsers bounds the number of participants a single run may start.
type Simulation struct {
	MaxUsers        int           `yaml:"max_users"`
	MinNetworkDelay time.Duration `yaml:"min_network_delay"`
	MaxNetworkDelay time.Duration `yaml:"max_network_delay"`
	MinRevealDelay  time.Duration `yaml:"min_reveal_delay"`
	MaxRevealDelay  time.Duration `yaml:"max_reveal_delay"`
}

// Default returns the reference pool of 1000/1000 and the prototype delays.
func Default() Config {
	return Config{
		ReserveBase:  1000,
		ReserveQuote: 1000,
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Simulation: Simulation{
			MaxUsers:        1000,
			MinNetworkDelay: 100 * time.Millisecond,
			MaxNetworkDelay: time.Second,
			MinRevealDelay:  500 * time.Millisecond,
			MaxRevealDelay:  2 * time.Second,
		},
	}
}

// Load reads a YAML file on top of Default. Fields missing from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail later at runtime.
func (c Config) Validate() error {
	if c.ReserveBase == 0 || c.ReserveQuote == 0 {
		return fmt.Errorf("%w: reserves must be positive, got %d/%d", ErrInvalidPool, c.ReserveBase, c.ReserveQuote)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	s := c.Simulation
	if s.MaxUsers <= 0 {
		return fmt.Errorf("%w: max users must be positive, got %d", ErrInvalidUsers, s.MaxUsers)
	}
	if s.MinNetworkDelay < 0 || s.MinRevealDelay < 0 {
		return fmt.Errorf("%w: negative delay", ErrInvalidDelay)
	}
	if s.MaxNetworkDelay < s.MinNetworkDelay {
		return fmt.Errorf("%w: network delay max %s below min %s", ErrInvalidDelay, s.MaxNetworkDelay, s.MinNetworkDelay)
	}
	if s.MaxRevealDelay < s.MinRevealDelay {
		return fmt.Errorf("%w: reveal delay max %s below min %s", ErrInvalidDelay, s.MaxRevealDelay, s.MinRevealDelay)
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (l Log) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, l.Level)
	}
}
