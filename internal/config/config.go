package config

import (
	"net/url"
	"path/filepath"
	"runtime"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultBaseURL is the root of the document-sharing site.
	DefaultBaseURL = "https://www.scribd.com"

	// DefaultTimeout bounds a single HTTP request, including reading the body.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "ScribdT Tool"

	// DefaultQueueSize is the capacity of the persistence queue.
	// Producers block once it is full.
	DefaultQueueSize = 1024

	// DefaultMaxBodySize limits how much of a response body is read.
	// Document text downloads can be large, so this is generous.
	DefaultMaxBodySize = 32 * 1024 * 1024 // 32MB

	// DefaultUserEnd is the last user id enumerated when --user_end is not given.
	DefaultUserEnd = 200

	// DefaultPages is the number of search pages fetched when --pages is not given.
	DefaultPages = 1

	// DefaultDBFile is the database the lookup command reads when neither
	// --db nor the config file names one.
	DefaultDBFile = "scribdt.db"

	// AppName is the application name used for XDG directory paths.
	AppName = "scribdt"
)

// DefaultWorkers returns the default fan-out width: five workers per CPU.
func DefaultWorkers() int {
	return runtime.NumCPU() * 5
}

// Config holds the runtime options shared by all workflows.
// It is populated from defaults, then the config file, then the environment,
// then CLI flags, and passed down explicitly rather than held globally.
type Config struct {
	// BaseURL is the site root. Search, profile and receipt URLs are built
	// relative to it. Tests point it at an httptest server.
	BaseURL string

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	// Empty means direct connections.
	ProxyAddress string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// Workers is the maximum number of concurrent fetches.
	Workers int

	// QueueSize is the capacity of the persistence queue.
	QueueSize int

	// Rate caps outgoing requests per second. 0 disables the cap.
	Rate float64

	// MaxBodySize is the maximum response body size in bytes.
	// 0 means DefaultMaxBodySize.
	MaxBodySize int64

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path of the YAML config file, if any.
	ConfigFilePath string

	// DBPath is the SQLite database file. Empty means harvest results are
	// printed rather than stored.
	DBPath string

	// CookiesFile is the cookie file used by the documents workflow.
	CookiesFile string

	// FiltersFile is the optional entity allow-list file.
	FiltersFile string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		UserAgent:   DefaultUserAgent,
		Timeout:     DefaultTimeout,
		Workers:     DefaultWorkers(),
		QueueSize:   DefaultQueueSize,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// XDGConfigDir returns the XDG config directory for scribdt.
// On Linux: ~/.config/scribdt
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGDataDir returns the XDG data directory for scribdt.
// On Linux: ~/.local/share/scribdt
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	if c.QueueSize <= 0 {
		return ErrInvalidQueueSize
	}

	if c.Rate < 0 {
		return ErrInvalidRate
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}

// EffectiveMaxBodySize returns MaxBodySize, or the default when it is unset.
func (c *Config) EffectiveMaxBodySize() int64 {
	if c.MaxBodySize == 0 {
		return DefaultMaxBodySize
	}
	return c.MaxBodySize
}
