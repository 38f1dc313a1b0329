package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// interruptNotice is printed when the user interrupts a run.
const interruptNotice = "\nUser keyboard interaction detected. Exiting..."

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scribdt",
		Short: "Harvest documents and user profiles from a document-sharing site",
		Long: `scribdt queries the document search and user profile endpoints of a
document-sharing site, downloads document text, scans it for sensitive
entities (emails, phone numbers, card numbers, keys...), and stores the
harvested records in a local SQLite database.

Settings are read from, in increasing priority:
  - the config file (--config, ./.scribdt.yaml or $XDG_CONFIG_HOME/scribdt/config.yaml)
  - a .env file and SCRIBDT_* environment variables
  - command-line flags`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .scribdt.yaml in current directory or XDG config directory)")
	cmd.PersistentFlags().Int("workers", 0,
		"Maximum number of concurrent requests (default: 5 per CPU)")
	cmd.PersistentFlags().Duration("timeout", 0,
		"Timeout for each HTTP request (default: 30s)")
	cmd.PersistentFlags().String("proxy", "",
		"Route requests through a SOCKS5 proxy at host:port")
	cmd.PersistentFlags().Float64("rate", 0,
		"Maximum requests per second, 0 for no limit")

	cmd.AddCommand(NewDocumentsCmd())
	cmd.AddCommand(NewUsersCmd())
	cmd.AddCommand(NewRetrieveCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. An interrupt is a normal exit: the notice
// is printed, in-flight work is canceled, queued records are flushed and
// the process exits with status 0.
func Execute() {
	ctx, stop := interruptContext(context.Background(), os.Stdout)
	err := NewRootCmd().ExecuteContext(ctx)
	interrupted := ctx.Err() != nil
	stop()

	if err != nil && !interrupted {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// interruptContext returns a context canceled on SIGINT or SIGTERM.
// The notice is written to w once, when the first signal arrives.
func interruptContext(parent context.Context, w io.Writer) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(w, interruptNotice)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}
