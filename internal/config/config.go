// Package config loads tsdump's runtime configuration.
//
// Precedence, lowest to highest: built-in defaults, an optional TOML file
// (/etc/privrun/tsdump.toml, overridable via TSDUMP_CONFIG), then TSDUMP_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultPath is the config file consulted when TSDUMP_CONFIG is not set.
// A missing file is not an error; the defaults below apply.
const DefaultPath = "/etc/privrun/tsdump.toml"

// StartTimeBase selects which clock the producer used when capturing a
// record's start_time field.  It varies by deployment target, so it is an
// explicit runtime setting rather than a build-time branch.
type StartTimeBase string

const (
	// StartTimeBoot: start_time is relative to machine boot (Linux
	// process start times).  Rebased with the wall-boot offset.
	StartTimeBoot StartTimeBase = "boottime"

	// StartTimeMonotonic: start_time shares the timestamp field's
	// monotonic base.  Rebased with the same wall-mono offset.
	StartTimeMonotonic StartTimeBase = "monotonic"

	// StartTimeWall: start_time was already captured in wall-clock terms
	// and must not be re-adjusted.
	StartTimeWall StartTimeBase = "wallclock"
)

type Config struct {
	// TimestampDir holds one timestamp file per user, named after the user.
	TimestampDir string `toml:"timestamp_dir"`

	// StartTimeBase is the clock base of persisted start_time fields.
	StartTimeBase StartTimeBase `toml:"start_time_base"`

	// Env is "dev" or "prod".  Only the export database defaults differ
	// today; kept for parity with the other privrun tools.
	Env string `toml:"env"`

	// DBPath is the default target for timeline exports.
	DBPath string `toml:"db_path"`
}

// Default returns the built-in configuration for the current platform.
func Default() Config {
	base := StartTimeWall
	if runtime.GOOS == "linux" {
		// Linux process start times come from the boot clock.
		base = StartTimeBoot
	}
	return Config{
		TimestampDir:  "/var/run/privrun/ts",
		StartTimeBase: base,
		Env:           "dev",
		DBPath:        "./data/timeline.db",
	}
}

// Load builds the effective configuration.  path selects the TOML file; an
// empty path means TSDUMP_CONFIG or DefaultPath.  A missing file is fine,
// an unreadable or malformed one is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = getenvDefault("TSDUMP_CONFIG", DefaultPath)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	cfg.normalize()
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.TimestampDir = getenvDefault("TSDUMP_TIMEDIR", cfg.TimestampDir)
	cfg.Env = getenvDefault("TSDUMP_ENV", cfg.Env)
	cfg.DBPath = getenvDefault("TSDUMP_DB_PATH", cfg.DBPath)
	if v := strings.TrimSpace(os.Getenv("TSDUMP_START_TIME_BASE")); v != "" {
		cfg.StartTimeBase = StartTimeBase(strings.ToLower(v))
	}
}

// normalize repairs out-of-range values instead of failing: a diagnostic
// tool should still run with a half-broken config file.
func (c *Config) normalize() {
	switch c.StartTimeBase {
	case StartTimeBoot, StartTimeMonotonic, StartTimeWall:
	default:
		c.StartTimeBase = Default().StartTimeBase
	}

	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env != "dev" && c.Env != "prod" {
		// fail-soft: treat unknown as dev
		c.Env = "dev"
	}

	if strings.TrimSpace(c.TimestampDir) == "" {
		c.TimestampDir = Default().TimestampDir
	}
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = Default().DBPath
	}
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
