// Package config reads the settings of the rxstore programs from the
// environment and an optional .env file.
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
	defaultEnvFile     = ".env"
	defaultReadDelay   = 200 * time.Millisecond
	defaultCreateDelay = 2 * time.Second

	envReadDelay       = "RXSTORE_READ_DELAY"
	envCreateDelay     = "RXSTORE_CREATE_DELAY"
	envDevtoolsPort    = "RXSTORE_DEVTOOLS_PORT"
	envDevtoolsEnabled = "RXSTORE_DEVTOOLS_ENABLED"
	envRecordDB        = "RXSTORE_RECORD_DB"
	envLogState        = "RXSTORE_LOG_STATE"
	envOpenBrowser     = "RXSTORE_OPEN_BROWSER"
)

// Config captures the runtime settings of the store programs.
type Config struct {
	// ReadDelay and CreateDelay are the latencies of the fake backend.
	ReadDelay   time.Duration
	CreateDelay time.Duration

	// DevtoolsPort is the port of the devtools server. 0 picks a random
	// port.
	DevtoolsPort    int
	DevtoolsEnabled bool
	OpenBrowser     bool

	// RecordDB names the SQLite database transitions are recorded in,
	// without the .sqlite3 suffix. Empty disables recording.
	RecordDB string

	LogState bool
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		ReadDelay:   defaultReadDelay,
		CreateDelay: defaultCreateDelay,
		LogState:    true,
	}
}

// Load reads envFile into the environment, without overriding variables that
// are already set, and builds a Config from the environment. An empty envFile
// means ".env", which may be missing.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		err := godotenv.Load(defaultEnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", defaultEnvFile, err)
		}
	} else if err := godotenv.Load(envFile); err != nil {
		return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
	}

	return FromEnv()
}

// FromEnv builds a Config from the environment variables, with defaults for
// the ones not set.
func FromEnv() (Config, error) {
	cfg := Default()

	var err error

	if cfg.ReadDelay, err = durationVar(envReadDelay, cfg.ReadDelay); err != nil {
		return Config{}, err
	}

	if cfg.CreateDelay, err = durationVar(envCreateDelay, cfg.CreateDelay); err != nil {
		return Config{}, err
	}

	if cfg.DevtoolsPort, err = intVar(envDevtoolsPort, cfg.DevtoolsPort); err != nil {
		return Config{}, err
	}

	if cfg.DevtoolsEnabled, err = boolVar(envDevtoolsEnabled, cfg.DevtoolsEnabled); err != nil {
		return Config{}, err
	}

	if cfg.LogState, err = boolVar(envLogState, cfg.LogState); err != nil {
		return Config{}, err
	}

	if cfg.OpenBrowser, err = boolVar(envOpenBrowser, cfg.OpenBrowser); err != nil {
		return Config{}, err
	}

	cfg.RecordDB = strings.TrimSpace(os.Getenv(envRecordDB))

	return cfg, nil
}

func lookup(name string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	return v, v != ""
}

func durationVar(name string, def time.Duration) (time.Duration, error) {
	v, ok := lookup(name)
	if !ok {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}

	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", name, v)
	}

	return d, nil
}

func intVar(name string, def int) (int, error) {
	v, ok := lookup(name)
	if !ok {
		return def, nil
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}

	return i, nil
}

func boolVar(name string, def bool) (bool, error) {
	v, ok := lookup(name)
	if !ok {
		return def, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}

	return b, nil
}
