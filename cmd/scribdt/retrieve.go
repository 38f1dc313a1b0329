package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/C0oki3s/scribdt/internal/config"
	"github.com/C0oki3s/scribdt/internal/database"
	"github.com/C0oki3s/scribdt/internal/model"
	"github.com/C0oki3s/scribdt/internal/report"
)

// errNothingToRetrieve is returned when r is called without a search term
// or a listing flag.
var errNothingToRetrieve = errors.New("nothing to retrieve: use --username, --users or --documents")

// NewRetrieveCmd creates the r command.
func NewRetrieveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "r",
		Short: "Search stored users and documents",
		Long: `R looks up records stored by previous runs.

--username matches any part of a stored username, and of the author name of
stored documents when --documents is also given. --users and --documents
without --username list everything stored.

Examples:
  # Users whose name contains "ali"
  scribdt r --db scribdt.db --username ali

  # All stored documents
  scribdt r --db scribdt.db -d`,
		Args: cobra.NoArgs,
		RunE: runRetrieveCmd,
	}

	cmd.Flags().String("db", "",
		"SQLite database to read (default: "+config.DefaultDBFile+")")
	cmd.Flags().String("username", "",
		"Substring to search for in usernames and author names")
	cmd.Flags().BoolP("users", "u", false,
		"Search or list users")
	cmd.Flags().BoolP("documents", "d", false,
		"Search or list documents")

	return cmd
}

// runRetrieveCmd executes the r command.
func runRetrieveCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := stringFlag(cmd, "db", &cfg.DBPath); err != nil {
		return err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = config.DefaultDBFile
	}

	term, err := cmd.Flags().GetString("username")
	if err != nil {
		return err
	}
	users, err := cmd.Flags().GetBool("users")
	if err != nil {
		return err
	}
	documents, err := cmd.Flags().GetBool("documents")
	if err != nil {
		return err
	}

	// A bare --username searches users.
	if !users && !documents {
		if term == "" {
			return errNothingToRetrieve
		}
		users = true
	}

	store, err := database.Open(cfg.DBPath, database.ReadOnlyOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if users {
		var rows []model.StoredUser
		if term != "" {
			rows, err = store.SearchUsers(ctx, term)
		} else {
			rows, err = store.ListUsers(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to query users: %w", err)
		}
		if err := report.UserTable(out, rows); err != nil {
			return err
		}
	}

	if documents {
		if users {
			fmt.Fprintln(out)
		}
		var rows []model.StoredDocument
		if term != "" {
			rows, err = store.SearchDocuments(ctx, term)
		} else {
			rows, err = store.ListDocuments(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to query documents: %w", err)
		}
		if err := report.DocumentTable(out, rows); err != nil {
			return err
		}
	}

	return nil
}
