package config

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
)

// ParseCookies parses a cookie string of "name=value" pairs separated by ';'.
// Whitespace around each pair is trimmed and the value keeps any further '='.
// A non-empty pair without '=' is skipped with one warning; empty pairs
// (for example a trailing ';') are skipped silently.
func ParseCookies(raw string, logger *slog.Logger) []*http.Cookie {
	if logger == nil {
		logger = slog.Default()
	}

	var cookies []*http.Cookie
	for i, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			// The pair itself may be a secret; log its position only.
			logger.Warn("ignoring malformed cookie", "position", i+1)
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:  name,
			Value: strings.TrimSpace(value),
		})
	}
	return cookies
}

// LoadCookies reads and parses a cookie file.
// An empty path returns ErrCookiesRequired; a missing file ErrFileNotFound.
func LoadCookies(path string, logger *slog.Logger) ([]*http.Cookie, error) {
	if path == "" {
		return nil, ErrCookiesRequired
	}
	if err := RequireFile(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // User-provided cookie path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies file: %w", err)
	}
	return ParseCookies(string(data), logger), nil
}
