package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "amm.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.ReserveBase != 1000 || cfg.ReserveQuote != 1000 {
		t.Fatalf("unexpected default pool %d/%d", cfg.ReserveBase, cfg.ReserveQuote)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
reserve_base: 5000
reserve_quote: 2000
log:
  level: debug
  file: /tmp/amm.log
simulation:
  max_users: 50
  max_reveal_delay: 3s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ReserveBase != 5000 || cfg.ReserveQuote != 2000 {
		t.Fatalf("reserves not loaded: %d/%d", cfg.ReserveBase, cfg.ReserveQuote)
	}
	if cfg.Log.File != "/tmp/amm.log" {
		t.Fatalf("log file not loaded: %q", cfg.Log.File)
	}
	if cfg.Simulation.MaxRevealDelay != 3*time.Second {
		t.Fatalf("expected 3s reveal delay, got %s", cfg.Simulation.MaxRevealDelay)
	}
	if cfg.Simulation.MaxUsers != 50 {
		t.Fatalf("expected 50 max users, got %d", cfg.Simulation.MaxUsers)
	}
	if cfg.Simulation.MinNetworkDelay != Default().Simulation.MinNetworkDelay {
		t.Fatalf("missing fields should keep defaults")
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v (%v)", level, err)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "reserve_bse: 10\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"empty base", func(c *Config) { c.ReserveBase = 0 }, ErrInvalidPool},
		{"empty quote", func(c *Config) { c.ReserveQuote = 0 }, ErrInvalidPool},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, ErrInvalidLevel},
		{"network delay order", func(c *Config) { c.Simulation.MaxNetworkDelay = time.Millisecond }, ErrInvalidDelay},
		{"reveal delay order", func(c *Config) { c.Simulation.MaxRevealDelay = 0 }, ErrInvalidDelay},
		{"negative delay", func(c *Config) { c.Simulation.MinRevealDelay = -time.Second }, ErrInvalidDelay},
		{"no users", func(c *Config) { c.Simulation.MaxUsers = 0 }, ErrInvalidUsers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
