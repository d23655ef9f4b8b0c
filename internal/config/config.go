package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Display settings for the TUI and reports
	Display DisplayConfig `yaml:"display"`

	// Sync link settings
	Sync SyncConfig `yaml:"sync"`

	// Scheduled snapshot backups
	Backup BackupConfig `yaml:"backup"`

	// Logging
	Log LogConfig `yaml:"log"`
}

type DatabaseConfig struct {
	Path      string `yaml:"path"`      // Path to SQLite database
	Encrypted bool   `yaml:"encrypted"` // Encrypt with a keyring-held password
}

type DisplayConfig struct {
	Theme           string        `yaml:"theme"`            // catppuccin flavour: latte, frappe, macchiato, mocha
	RefreshInterval time.Duration `yaml:"refresh_interval"` // Live elapsed refresh period
	DefaultPreset   int           `yaml:"default_preset"`   // 7, 14 or 30
	Timezone        string        `yaml:"timezone"`         // IANA name or "Local"
}

type SyncConfig struct {
	BaseURL      string `yaml:"base_url"`       // Prefix of generated sync links
	MaxURLLength int    `yaml:"max_url_length"` // Links above this are too large for a QR code
}

type BackupConfig struct {
	Dir      string `yaml:"dir"`      // Output directory
	Schedule string `yaml:"schedule"` // Cron expression
	Keep     int    `yaml:"keep"`     // Number of snapshots retained
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file used while the TUI owns the terminal
}

// DefaultConfigPath returns ~/.config/focusflow/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(baseDir(), "config.yaml")
}

func baseDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		homeDir = "."
	}
	return filepath.Join(homeDir, ".config", "focusflow")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := baseDir()

	return &Config{
		Database: DatabaseConfig{
			Path:      filepath.Join(dir, "focusflow.db"),
			Encrypted: true,
		},
		Display: DisplayConfig{
			Theme:           "mocha",
			RefreshInterval: 100 * time.Millisecond,
			DefaultPreset:   7,
			Timezone:        "Local",
		},
		Sync: SyncConfig{
			BaseURL:      "https://focusflow.local/",
			MaxURLLength: 8000,
		},
		Backup: BackupConfig{
			Dir:      filepath.Join(dir, "backups"),
			Schedule: "0 * * * *",
			Keep:     24,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "focusflow.log"),
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	// If file doesn't exist, return defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Validate checks values that would otherwise fail later at runtime
func (c *Config) Validate() error {
	switch c.Display.DefaultPreset {
	case 7, 14, 30:
	default:
		return fmt.Errorf("display.default_preset must be 7, 14 or 30, got %d", c.Display.DefaultPreset)
	}
	if c.Display.RefreshInterval <= 0 {
		return fmt.Errorf("display.refresh_interval must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Backup.Keep < 0 {
		return fmt.Errorf("backup.keep cannot be negative")
	}
	return nil
}

// Location resolves the configured timezone used for report buckets
func (c *Config) Location() (*time.Location, error) {
	if c.Display.Timezone == "" || strings.EqualFold(c.Display.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid display.timezone %q: %w", c.Display.Timezone, err)
	}
	return loc, nil
}

// LogLevel maps log.level to a slog level, defaulting to info
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the database and backup directories
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(filepath.Dir(c.Database.Path), 0700); err != nil {
		return err
	}

	if err := os.MkdirAll(c.Backup.Dir, 0755); err != nil {
		return err
	}

	return nil
}
