package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/C0oki3s/scribdt/internal/config"
	applog "github.com/C0oki3s/scribdt/internal/log"
	"github.com/C0oki3s/scribdt/internal/scribd"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig layers defaults, the config file, the environment and the
// global flags into a validated Config. Command-specific flags are applied
// by each command afterwards.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configPath

	// An explicitly named config file must exist; the default locations
	// are optional.
	if found := config.FindConfigFile(configPath); found != "" {
		file, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		cfg.ApplyFile(file)
	} else if configPath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	}

	config.LoadDotEnv()
	cfg.ApplyEnv(os.Getenv)

	flags := cmd.Flags()
	if flags.Changed("workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("rate") {
		if cfg.Rate, err = flags.GetFloat64("rate"); err != nil {
			return nil, err
		}
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// stringFlag overrides *dst with the named flag when it was given.
func stringFlag(cmd *cobra.Command, name string, dst *string) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// setupLogger creates the redacting run logger writing to w.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	return applog.WithRun(applog.NewSecureLogger(w, verbose))
}

// newClient builds the shared site client from cfg.
func newClient(cfg *config.Config, logger *slog.Logger, opts ...scribd.Option) (*scribd.Client, error) {
	base := []scribd.Option{
		scribd.WithUserAgent(cfg.UserAgent),
		scribd.WithTimeout(cfg.Timeout),
		scribd.WithMaxBodySize(cfg.EffectiveMaxBodySize()),
		scribd.WithRate(cfg.Rate),
		scribd.WithLogger(logger),
	}
	if cfg.ProxyAddress != "" {
		base = append(base, scribd.WithProxy(cfg.ProxyAddress))
	}
	return scribd.NewClient(cfg.BaseURL, append(base, opts...)...)
}

// openOutput returns the file at path, creating parent directories, or
// stdout when path is empty. The returned close function is never nil.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Findings are sensitive, so the file is owner-only.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
