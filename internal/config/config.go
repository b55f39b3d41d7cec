/*
Package config loads runtime settings for the desktop shell.

Values come from the process environment, optionally seeded from a .env file at
the project root, and from the query string of the launch URL.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"chatterbox/internal/utils"
)

const (
	StoreBackendSQLite  = "sqlite"
	StoreBackendKeyring = "keyring"
)

// Config holds everything the shell needs before bootstrapping settings.
type Config struct {
	Environment string `env:"CHATTERBOX_ENV" envDefault:"development"`

	// Storage
	DBPath           string `env:"CHATTERBOX_DB_PATH"`
	StoreBackend     string `env:"CHATTERBOX_STORE_BACKEND" envDefault:"sqlite"`
	StoreName        string `env:"CHATTERBOX_STORE_NAME" envDefault:"chatterbox"`
	StoreDescription string `env:"CHATTERBOX_STORE_DESCRIPTION" envDefault:"data store for chatterbox"`
	SettingsKey      string `env:"CHATTERBOX_SETTINGS_KEY" envDefault:"userSettings"`

	// Host handshake
	HostConfigTimeout    time.Duration `env:"CHATTERBOX_HOST_CONFIG_TIMEOUT" envDefault:"3s"`
	EnforceHostOrigin    bool          `env:"CHATTERBOX_ENFORCE_HOST_ORIGIN" envDefault:"false"`
	HostBusURL           string        `env:"CHATTERBOX_HOST_BUS_URL"`
	ResetCorruptSettings bool          `env:"CHATTERBOX_RESET_CORRUPT_SETTINGS" envDefault:"false"`

	// LaunchURL carries the embedding query parameters.
	LaunchURL string `env:"CHATTERBOX_LAUNCH_URL"`
}

// IsDevelopment reports whether the shell runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads .env (if any) and parses the environment into a Config.
func Load() (*Config, error) {
	if err := utils.LoadEnv(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return parse(env.Options{})
}

// LoadFrom parses the given variables only. Used by tests.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.StoreBackend != StoreBackendSQLite && c.StoreBackend != StoreBackendKeyring {
		return fmt.Errorf("store backend must be %q or %q, got %q", StoreBackendSQLite, StoreBackendKeyring, c.StoreBackend)
	}
	if c.StoreName == "" {
		return errors.New("store name is required")
	}
	if c.SettingsKey == "" {
		return errors.New("settings key is required")
	}
	if c.HostConfigTimeout <= 0 {
		return fmt.Errorf("host config timeout must be positive, got %s", c.HostConfigTimeout)
	}
	return nil
}
