package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/C0oki3s/scribdt/internal/config"
	"github.com/C0oki3s/scribdt/internal/database"
	"github.com/C0oki3s/scribdt/internal/model"
	"github.com/C0oki3s/scribdt/internal/pipeline"
	"github.com/C0oki3s/scribdt/internal/report"
	"github.com/C0oki3s/scribdt/internal/sink"
)

// NewUsersCmd creates the users command.
func NewUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Enumerate user profiles by id",
		Long: `Users fetches the profile page of every user id from 1 to --user_end and
keeps the users that have a profile picture.

With --db the users are stored in the SQLite database (and can be searched
later with "scribdt r"); without it they are printed.

Examples:
  # Print users 1..200
  scribdt users

  # Store users 1..5000
  scribdt users --user_end 5000 --db scribdt.db`,
		Args: cobra.NoArgs,
		RunE: runUsersCmd,
	}

	cmd.Flags().Int("user_end", config.DefaultUserEnd,
		"Last user id to fetch")
	cmd.Flags().String("db", "",
		"SQLite database to store users in")

	return cmd
}

// runUsersCmd executes the users command.
func runUsersCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := stringFlag(cmd, "db", &cfg.DBPath); err != nil {
		return err
	}
	end, err := cmd.Flags().GetInt("user_end")
	if err != nil {
		return err
	}
	if end < 1 {
		return fmt.Errorf("configuration error: %w", pipeline.ErrInvalidRange)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)

	client, err := newClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	req := pipeline.UsersRequest{End: end}
	if cfg.DBPath != "" {
		store, err := database.Open(cfg.DBPath, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()
		req.Store = sink.WriterFunc[model.UserRecord](store.InsertUser)
	} else {
		req.Print = report.NewUserPrinter(cmd.OutOrStdout()).Print
	}

	driver := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithQueueSize(cfg.QueueSize),
		pipeline.WithOutput(cmd.OutOrStdout()),
	)

	summary, err := driver.Users(cmd.Context(), client, req)
	if err != nil {
		return err
	}

	if cfg.DBPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %d users in %s\n", summary.Persisted.Written, cfg.DBPath)
		if summary.Persisted.Failed > 0 {
			logger.Warn("some users were not stored", "failed", summary.Persisted.Failed)
		}
	}
	return nil
}
