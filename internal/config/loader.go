package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name looked up in the working directory.
const DefaultConfigFile = ".scribdt.yaml"

// Environment variables that override config file values.
const (
	EnvBaseURL   = "SCRIBDT_BASE_URL"
	EnvUserAgent = "SCRIBDT_USER_AGENT"
	EnvProxy     = "SCRIBDT_PROXY"
)

// File represents the structure of the YAML configuration file.
// Zero values mean "not set" and leave the current value alone.
type File struct {
	BaseURL     string        `yaml:"base_url,omitempty"`
	UserAgent   string        `yaml:"user_agent,omitempty"`
	Proxy       string        `yaml:"proxy,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	Workers     int           `yaml:"workers,omitempty"`
	QueueSize   int           `yaml:"queue_size,omitempty"`
	Rate        float64       `yaml:"rate,omitempty"`
	MaxBodySize int64         `yaml:"max_body_size,omitempty"`
	DB          string        `yaml:"db,omitempty"`
	Cookies     string        `yaml:"cookies,omitempty"`
	Filters     string        `yaml:"filters,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .scribdt.yaml in the current directory
// 3. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}

// ApplyFile copies every value set in f onto c.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if f.BaseURL != "" {
		c.BaseURL = f.BaseURL
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.Proxy != "" {
		c.ProxyAddress = f.Proxy
	}
	if f.Timeout > 0 {
		c.Timeout = f.Timeout
	}
	if f.Workers > 0 {
		c.Workers = f.Workers
	}
	if f.QueueSize > 0 {
		c.QueueSize = f.QueueSize
	}
	if f.Rate > 0 {
		c.Rate = f.Rate
	}
	if f.MaxBodySize > 0 {
		c.MaxBodySize = f.MaxBodySize
	}
	if f.DB != "" {
		c.DBPath = f.DB
	}
	if f.Cookies != "" {
		c.CookiesFile = f.Cookies
	}
	if f.Filters != "" {
		c.FiltersFile = f.Filters
	}
}

// LoadDotEnv loads a .env file from the working directory into the process
// environment. A missing file is not an error. Variables already set win.
func LoadDotEnv() {
	_ = godotenv.Load(".env")
}

// ApplyEnv overrides c with the SCRIBDT_* variables returned by getenv.
// getenv is usually os.Getenv; tests pass a map lookup.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := getenv(EnvUserAgent); v != "" {
		c.UserAgent = v
	}
	if v := getenv(EnvProxy); v != "" {
		c.ProxyAddress = v
	}
}

// RequireFile returns ErrFileNotFound (wrapped with the path) when path does
// not name an existing regular file.
func RequireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}
	return nil
}
