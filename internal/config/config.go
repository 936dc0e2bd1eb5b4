// Package config provides configuration loading for the auction checker.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvBaseURL        = "AUCTIONS_BASE_URL"
	EnvTimeout        = "AUCTIONS_TIMEOUT"
	EnvMaxConcurrency = "AUCTIONS_MAX_CONCURRENCY"
	EnvLogLevel       = "AUCTIONS_LOG_LEVEL"
)

// Config represents the auction checker configuration.
type Config struct {
	// API settings
	API APIConfig `yaml:"api"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`

	// Console display settings
	Display DisplayConfig `yaml:"display"`

	// Export settings
	Export ExportConfig `yaml:"export"`
}

// APIConfig contains marketplace API settings.
type APIConfig struct {
	// Base URL of the API
	BaseURL string `yaml:"base_url"`

	// Timeout for a single page request
	Timeout time.Duration `yaml:"timeout"`

	// Maximum in-flight page requests during a refresh (0 = one per page)
	MaxConcurrency int `yaml:"max_concurrency"`

	// User-Agent header sent with every request
	UserAgent string `yaml:"user_agent"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `yaml:"level"`

	// Log format: text or json
	Format string `yaml:"format"`

	// Optional log file, rotated by size
	File string `yaml:"file"`

	// Rotation settings for File
	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days"`
	Compress   bool `yaml:"compress"`
}

// DisplayConfig contains console output settings.
type DisplayConfig struct {
	// Column width used to centre help text
	Width int `yaml:"width"`

	// Render lore formatting codes as terminal colours
	Color bool `yaml:"color"`
}

// ExportConfig contains settings for exporting query results.
type ExportConfig struct {
	// Directory that relative export paths are resolved against. Empty
	// disables exporting.
	OutputDir string `yaml:"output_dir"`

	// Gzip compress exported files
	Gzip bool `yaml:"gzip"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://api.hypixel.net",
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Display: DisplayConfig{
			Width: 80,
			Color: true,
		},
		Export: ExportConfig{
			OutputDir: "exports",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// LoadOrDefault loads path like Load, but returns DefaultConfig when the file
// does not exist. found reports whether the file was read.
func LoadOrDefault(path string) (config *Config, found bool, err error) {
	config, err = Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), false, nil
		}
		return nil, false, err
	}
	return config, true, nil
}

// LoadEnvFile loads variables from a .env file into the process environment
// without overwriting variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvTimeout, err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv(EnvMaxConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvMaxConcurrency, err)
		}
		c.API.MaxConcurrency = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.API.MaxConcurrency < 0 {
		return fmt.Errorf("api.max_concurrency must not be negative")
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}
	if c.Display.Width <= 0 {
		return fmt.Errorf("display.width must be positive")
	}
	return nil
}
