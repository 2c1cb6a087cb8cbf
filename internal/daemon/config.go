// Package daemon holds the long-running service configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// ─── Configuration ──────────────────────────────────────────────────────────

// Config is the full vikuld configuration, loaded from
// ~/.vikula2/config.toml with environment-variable overrides.
type Config struct {
	API    APIConfig    `toml:"api"`
	Ledger LedgerConfig `toml:"ledger"`
	Oracle OracleConfig `toml:"oracle"`
	Notify NotifyConfig `toml:"notify"`
	Auth   AuthConfig   `toml:"auth"`
}

// APIConfig configures the HTTP surface.
type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

// LedgerConfig selects and tunes the activity store.
type LedgerConfig struct {
	// Backend is "sqlite", "rest" or "memory". Memory is for demos and
	// tests; nothing survives a restart.
	Backend string `toml:"backend"`
	// Path is the sqlite database file. Empty means
	// ~/.vikula2/ledger.db.
	Path string `toml:"path"`
	// URL is the hosted ledger service, required for the rest backend.
	URL string `toml:"url"`
	// MirrorPath is the local offline mirror. Empty disables it.
	MirrorPath string `toml:"mirror_path"`
	// RefreshInterval is how often the store re-reads the backend,
	// e.g. "30s". Change notifications wake it earlier.
	RefreshInterval string `toml:"refresh_interval"`
}

// OracleConfig points at the adjudication service.
type OracleConfig struct {
	URL string `toml:"url"`
	// Timeout bounds a single adjudication round-trip, e.g. "30s".
	Timeout string `toml:"timeout"`
}

// NotifyConfig configures the redis change feed. An empty Addr
// disables it and the store falls back to interval polling.
type NotifyConfig struct {
	Addr    string `toml:"addr"`
	DB      int    `toml:"db"`
	Channel string `toml:"channel"`
}

// AuthConfig holds the local PIN gate. Empty PIN leaves the gate open.
type AuthConfig struct {
	PIN string `toml:"pin"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:    "127.0.0.1",
			Port:    8090,
			Metrics: true,
		},
		Ledger: LedgerConfig{
			Backend:         "sqlite",
			RefreshInterval: "30s",
		},
		Oracle: OracleConfig{
			Timeout: "30s",
		},
		Notify: NotifyConfig{
			Channel: "database-changes",
		},
	}
}

// ConfigDir returns the per-user data directory (~/.vikula2).
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vikula2"
	}
	return filepath.Join(home, ".vikula2")
}

// Load reads path over the defaults. A missing file is not an error.
// Environment variables override both, so a deployment can be tuned
// without touching the file:
//
//	VIKULA_API_PORT, VIKULA_LEDGER_BACKEND, VIKULA_LEDGER_PATH,
//	VIKULA_LEDGER_URL, VIKULA_ORACLE_URL, VIKULA_REDIS_ADDR, VIKULA_PIN
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = filepath.Join(ConfigDir(), "config.toml")
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("VIKULA_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("VIKULA_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}
	if v := os.Getenv("VIKULA_LEDGER_BACKEND"); v != "" {
		cfg.Ledger.Backend = v
	}
	if v := os.Getenv("VIKULA_LEDGER_PATH"); v != "" {
		cfg.Ledger.Path = v
	}
	if v := os.Getenv("VIKULA_LEDGER_URL"); v != "" {
		cfg.Ledger.URL = v
	}
	if v := os.Getenv("VIKULA_ORACLE_URL"); v != "" {
		cfg.Oracle.URL = v
	}
	if v := os.Getenv("VIKULA_REDIS_ADDR"); v != "" {
		cfg.Notify.Addr = v
	}
	if v := os.Getenv("VIKULA_PIN"); v != "" {
		cfg.Auth.PIN = v
	}
}

// ListenAddr returns the host:port the API server binds to.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// LedgerPath returns the sqlite file, defaulting into ConfigDir.
func (c Config) LedgerPath() string {
	if c.Ledger.Path != "" {
		return c.Ledger.Path
	}
	return filepath.Join(ConfigDir(), "ledger.db")
}

// ParseInterval parses a duration string with a fallback default.
func ParseInterval(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
