// Package log provides secure logging built on top of the standard slog
// package.
//
// The SecureHandler masks values that should never reach a terminal or a
// shared log file:
//   - HTTP credentials (Cookie, Set-Cookie, Authorization)
//   - document access keys and download passwords
//   - signed download URLs, whose secret_password query parameter is
//     rewritten in place so the rest of the URL stays readable
//
// Sanitization applies in verbose mode too.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger = log.WithRun(logger) // adds a run=<uuid> attribute
//	logger.Warn("download failed", "url", signedURL) // secret_password=***REDACTED***
package log
