package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default BaseURL is the public site", func(t *testing.T) {
		t.Parallel()
		if cfg.BaseURL != "https://www.scribd.com" {
			t.Errorf("expected BaseURL to be https://www.scribd.com, got %q", cfg.BaseURL)
		}
	})

	t.Run("default UserAgent is ScribdT Tool", func(t *testing.T) {
		t.Parallel()
		if cfg.UserAgent != "ScribdT Tool" {
			t.Errorf("expected UserAgent to be 'ScribdT Tool', got %q", cfg.UserAgent)
		}
	})

	t.Run("default Workers is five per CPU", func(t *testing.T) {
		t.Parallel()
		if cfg.Workers != DefaultWorkers() || cfg.Workers <= 0 {
			t.Errorf("expected Workers to be %d, got %d", DefaultWorkers(), cfg.Workers)
		}
	})

	t.Run("default QueueSize is 1024", func(t *testing.T) {
		t.Parallel()
		if cfg.QueueSize != 1024 {
			t.Errorf("expected QueueSize to be 1024, got %d", cfg.QueueSize)
		}
	})

	t.Run("rate cap is off by default", func(t *testing.T) {
		t.Parallel()
		if cfg.Rate != 0 {
			t.Errorf("expected Rate to be 0, got %v", cfg.Rate)
		}
	})

	t.Run("defaults validate", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected defaults to be valid, got %v", err)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid config returns nil", func(*Config) {}, nil},
		{"relative base url", func(c *Config) { c.BaseURL = "/search" }, ErrInvalidBaseURL},
		{"ftp base url", func(c *Config) { c.BaseURL = "ftp://example.com" }, ErrInvalidBaseURL},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, ErrInvalidTimeout},
		{"zero workers", func(c *Config) { c.Workers = 0 }, ErrInvalidWorkers},
		{"zero queue size", func(c *Config) { c.QueueSize = 0 }, ErrInvalidQueueSize},
		{"negative rate", func(c *Config) { c.Rate = -1 }, ErrInvalidRate},
		{"negative max body size", func(c *Config) { c.MaxBodySize = -1 }, ErrInvalidMaxBodySize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEffectiveMaxBodySize(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.MaxBodySize = 0
	if got := cfg.EffectiveMaxBodySize(); got != DefaultMaxBodySize {
		t.Errorf("expected default %d, got %d", DefaultMaxBodySize, got)
	}
	cfg.MaxBodySize = 10
	if got := cfg.EffectiveMaxBodySize(); got != 10 {
		t.Errorf("expected 10, got %d", got)
	}
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.scribdt.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config and applies it", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".scribdt.yaml")
		content := `base_url: "http://127.0.0.1:8080"
user_agent: "custom agent"
proxy: "127.0.0.1:9050"
timeout: 45s
workers: 3
rate: 2.5
db: "harvest.db"
cookies: "cookies.txt"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		f, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		cfg.ApplyFile(f)

		if cfg.BaseURL != "http://127.0.0.1:8080" {
			t.Errorf("unexpected BaseURL %q", cfg.BaseURL)
		}
		if cfg.UserAgent != "custom agent" {
			t.Errorf("unexpected UserAgent %q", cfg.UserAgent)
		}
		if cfg.ProxyAddress != "127.0.0.1:9050" {
			t.Errorf("unexpected ProxyAddress %q", cfg.ProxyAddress)
		}
		if cfg.Timeout != 45*time.Second {
			t.Errorf("expected 45s timeout, got %v", cfg.Timeout)
		}
		if cfg.Workers != 3 {
			t.Errorf("expected 3 workers, got %d", cfg.Workers)
		}
		if cfg.Rate != 2.5 {
			t.Errorf("expected rate 2.5, got %v", cfg.Rate)
		}
		if cfg.DBPath != "harvest.db" {
			t.Errorf("unexpected DBPath %q", cfg.DBPath)
		}
		if cfg.CookiesFile != "cookies.txt" {
			t.Errorf("unexpected CookiesFile %q", cfg.CookiesFile)
		}
		if cfg.QueueSize != DefaultQueueSize {
			t.Errorf("unset queue_size should keep default, got %d", cfg.QueueSize)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".scribdt.yaml")
		if err := os.WriteFile(configPath, []byte("workers: [unclosed"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfigFile(configPath); err == nil {
			t.Fatal("expected error for invalid YAML")
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("workers: 1\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile("/nonexistent/custom.yaml"); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvBaseURL: "http://localhost:1234",
		EnvProxy:   "10.0.0.1:1080",
	}
	cfg := NewConfig()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.BaseURL != "http://localhost:1234" {
		t.Errorf("unexpected BaseURL %q", cfg.BaseURL)
	}
	if cfg.ProxyAddress != "10.0.0.1:1080" {
		t.Errorf("unexpected ProxyAddress %q", cfg.ProxyAddress)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("unset env var should keep UserAgent, got %q", cfg.UserAgent)
	}
}

func TestParseCookies(t *testing.T) {
	t.Parallel()

	t.Run("malformed pair is skipped with one warning", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		cookies := ParseCookies("foo;bar=baz", logger)
		if len(cookies) != 1 {
			t.Fatalf("expected 1 cookie, got %d", len(cookies))
		}
		if cookies[0].Name != "bar" || cookies[0].Value != "baz" {
			t.Errorf("expected bar=baz, got %s=%s", cookies[0].Name, cookies[0].Value)
		}
		if n := strings.Count(buf.String(), "ignoring malformed cookie"); n != 1 {
			t.Errorf("expected exactly one warning, got %d: %s", n, buf.String())
		}
		if strings.Contains(buf.String(), "foo") {
			t.Errorf("warning should not echo the pair: %s", buf.String())
		}
	})

	t.Run("trims whitespace and keeps extra equals in value", func(t *testing.T) {
		t.Parallel()

		cookies := ParseCookies(" a=1 ;  token=x=y== ;\n", slog.New(slog.DiscardHandler))
		if len(cookies) != 2 {
			t.Fatalf("expected 2 cookies, got %d", len(cookies))
		}
		if cookies[0].Name != "a" || cookies[0].Value != "1" {
			t.Errorf("unexpected first cookie %s=%s", cookies[0].Name, cookies[0].Value)
		}
		if cookies[1].Name != "token" || cookies[1].Value != "x=y==" {
			t.Errorf("unexpected second cookie %s=%s", cookies[1].Name, cookies[1].Value)
		}
	})

	t.Run("empty string yields no cookies", func(t *testing.T) {
		t.Parallel()

		if cookies := ParseCookies("", slog.New(slog.DiscardHandler)); len(cookies) != 0 {
			t.Errorf("expected no cookies, got %d", len(cookies))
		}
	})
}

func TestLoadCookies(t *testing.T) {
	t.Parallel()

	t.Run("empty path is ErrCookiesRequired", func(t *testing.T) {
		t.Parallel()
		if _, err := LoadCookies("", nil); !errors.Is(err, ErrCookiesRequired) {
			t.Errorf("expected ErrCookiesRequired, got %v", err)
		}
	})

	t.Run("missing file is ErrFileNotFound", func(t *testing.T) {
		t.Parallel()
		_, err := LoadCookies(filepath.Join(t.TempDir(), "missing.txt"), nil)
		if !errors.Is(err, ErrFileNotFound) {
			t.Errorf("expected ErrFileNotFound, got %v", err)
		}
	})

	t.Run("reads cookie file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "cookies.txt")
		if err := os.WriteFile(path, []byte("session=abc; csrf=def\n"), 0600); err != nil {
			t.Fatalf("failed to write cookies: %v", err)
		}
		cookies, err := LoadCookies(path, slog.New(slog.DiscardHandler))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cookies) != 2 {
			t.Errorf("expected 2 cookies, got %d", len(cookies))
		}
	})
}

func TestLoadFilters(t *testing.T) {
	t.Parallel()

	t.Run("empty path means no filter", func(t *testing.T) {
		t.Parallel()
		got, err := LoadFilters("")
		if err != nil || got != nil {
			t.Errorf("expected nil, nil; got %v, %v", got, err)
		}
	})

	t.Run("missing file is ErrFileNotFound", func(t *testing.T) {
		t.Parallel()
		_, err := LoadFilters(filepath.Join(t.TempDir(), "filters.json"))
		if !errors.Is(err, ErrFileNotFound) {
			t.Errorf("expected ErrFileNotFound, got %v", err)
		}
	})

	t.Run("normalizes entity names", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "filters.json")
		if err := os.WriteFile(path, []byte(`{"entities": [" email_address", "PHONE_NUMBER", ""]}`), 0600); err != nil {
			t.Fatalf("failed to write filters: %v", err)
		}
		got, err := LoadFilters(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 || got[0] != "EMAIL_ADDRESS" || got[1] != "PHONE_NUMBER" {
			t.Errorf("unexpected filters %v", got)
		}
	})

	t.Run("invalid JSON is ErrInvalidFilters", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "filters.json")
		if err := os.WriteFile(path, []byte(`{"entities": [`), 0600); err != nil {
			t.Fatalf("failed to write filters: %v", err)
		}
		if _, err := LoadFilters(path); !errors.Is(err, ErrInvalidFilters) {
			t.Errorf("expected ErrInvalidFilters, got %v", err)
		}
	})
}

func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if XDGConfigDir() == "" {
		t.Error("expected non-empty XDG config dir")
	}
	if XDGDataDir() == "" {
		t.Error("expected non-empty XDG data dir")
	}
}
