package model

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultLocale          = "en"
	defaultPollIntervalSec = 300
	defaultFetchTimeoutSec = 30
)

// DatabaseConfig holds local storage settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// DisplayConfig holds rendering preferences.
type DisplayConfig struct {
	// Locale is a BCP 47 tag used to pick translated labels (e.g. "de", "fr-CA").
	Locale string `mapstructure:"locale" yaml:"locale"`
}

// SyncConfig holds mail synchronization settings.
type SyncConfig struct {
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
	FetchTimeoutSec int `mapstructure:"fetch_timeout_sec" yaml:"fetch_timeout_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
	Sync     SyncConfig     `mapstructure:"sync" yaml:"sync"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/unreadwidget/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "unreadwidget", "config.yaml")
}

// DefaultDatabasePath returns ~/.local/share/unreadwidget/unreadwidget.db.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "unreadwidget.db"
	}
	return filepath.Join(home, ".local", "share", "unreadwidget", "unreadwidget.db")
}

func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{Path: DefaultDatabasePath()},
		Display:  DisplayConfig{Locale: defaultLocale},
		Sync: SyncConfig{
			PollIntervalSec: defaultPollIntervalSec,
			FetchTimeoutSec: defaultFetchTimeoutSec,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, defaults are used. Environment variables
// prefixed with UNREADWIDGET_ (e.g. UNREADWIDGET_DISPLAY_LOCALE) override
// file values.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("UNREADWIDGET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("display.locale", defaultLocale)
	v.SetDefault("sync.poll_interval_sec", defaultPollIntervalSec)
	v.SetDefault("sync.fetch_timeout_sec", defaultFetchTimeoutSec)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Sync.PollIntervalSec <= 0 {
		cfg.Sync.PollIntervalSec = defaultPollIntervalSec
	}
	if cfg.Sync.FetchTimeoutSec <= 0 {
		cfg.Sync.FetchTimeoutSec = defaultFetchTimeoutSec
	}
	if strings.TrimSpace(cfg.Display.Locale) == "" {
		cfg.Display.Locale = defaultLocale
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database", cfg.Database)
	v.Set("display", cfg.Display)
	v.Set("sync", cfg.Sync)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
