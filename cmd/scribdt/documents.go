package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/C0oki3s/scribdt/internal/config"
	"github.com/C0oki3s/scribdt/internal/database"
	"github.com/C0oki3s/scribdt/internal/entity"
	"github.com/C0oki3s/scribdt/internal/model"
	"github.com/C0oki3s/scribdt/internal/pipeline"
	"github.com/C0oki3s/scribdt/internal/report"
	"github.com/C0oki3s/scribdt/internal/scribd"
	"github.com/C0oki3s/scribdt/internal/sink"
)

// NewDocumentsCmd creates the documents command.
func NewDocumentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents <query>",
		Short: "Search documents, download their text and scan it for sensitive data",
		Long: `Documents searches the site for <query>, downloads the plain-text version
of every document found, and reports sensitive entities detected in it.

A cookie file from a logged-in browser session is required: text downloads
are only available to authenticated users. The file holds name=value pairs
separated by semicolons, as copied from the browser's Cookie header.

Examples:
  # Scan the first search page
  scribdt documents "internal audit" --cookies cookies.txt

  # Scan five pages, only looking for emails and card numbers
  scribdt documents invoice -p 5 --cookies cookies.txt --filters filters.json

  # Store discovered documents and write a Markdown report
  scribdt documents payroll --cookies cookies.txt --db scribdt.db --format markdown -o report.md

Filter file example:
  {"entities": ["EMAIL_ADDRESS", "CREDIT_CARD"]}`,
		Args: cobra.ExactArgs(1),
		RunE: runDocumentsCmd,
	}

	cmd.Flags().IntP("pages", "p", config.DefaultPages,
		"Number of search result pages to fetch")
	cmd.Flags().String("cookies", "",
		"Cookie file of an authenticated session (required)")
	cmd.Flags().String("filters", "",
		"JSON file listing the entity kinds to report (default: all)")
	cmd.Flags().String("db", "",
		"SQLite database to store discovered documents in")
	cmd.Flags().String("format", report.FormatText,
		"Findings output format: text, json or markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write findings to the specified file instead of stdout")

	return cmd
}

// runDocumentsCmd executes the documents command.
func runDocumentsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := stringFlag(cmd, "cookies", &cfg.CookiesFile); err != nil {
		return err
	}
	if err := stringFlag(cmd, "filters", &cfg.FiltersFile); err != nil {
		return err
	}
	if err := stringFlag(cmd, "db", &cfg.DBPath); err != nil {
		return err
	}

	pages, err := cmd.Flags().GetInt("pages")
	if err != nil {
		return err
	}
	if pages < 1 {
		return fmt.Errorf("configuration error: %w", pipeline.ErrInvalidRange)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)

	// Everything below is checked before the first request.
	cookies, err := config.LoadCookies(cfg.CookiesFile, logger)
	if err != nil {
		return err
	}
	filters, err := config.LoadFilters(cfg.FiltersFile)
	if err != nil {
		return err
	}
	if _, err := report.NewFindingWriter(format, io.Discard); err != nil {
		return err
	}

	client, err := newClient(cfg, logger, scribd.WithCookies(cookies))
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	out, closeOut, err := openOutput(outputPath, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeOut() //nolint:errcheck // report errors are returned by Close below

	findings, err := report.NewFindingWriter(format, out)
	if err != nil {
		return err
	}

	analyzer := entity.NewAnalyzer(entity.WithLogger(logger))
	req := pipeline.DocumentsRequest{
		Query:    args[0],
		Pages:    pages,
		Kinds:    analyzer.ResolveKinds(filters, logger),
		Scanner:  analyzer,
		Findings: findings,
	}

	if cfg.DBPath != "" {
		store, err := database.Open(cfg.DBPath, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()
		req.Store = sink.WriterFunc[model.DocumentRecord](store.InsertDocument)
	}

	driver := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithQueueSize(cfg.QueueSize),
		pipeline.WithOutput(cmd.OutOrStdout()),
	)

	summary, err := runDocuments(cmd.Context(), driver, client, req, logger)
	if err != nil {
		return err
	}
	if err := findings.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if !summary.NoResults && cfg.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Scanned %d of %d documents, %d findings, %d failed\n",
			summary.Downloaded, summary.Documents, summary.Findings, summary.Failed)
	}
	return nil
}

// runDocuments runs the workflow and reports persistence failures.
func runDocuments(ctx context.Context, driver *pipeline.Driver, client pipeline.DocumentFetcher, req pipeline.DocumentsRequest, logger *slog.Logger) (pipeline.DocumentsSummary, error) {
	summary, err := driver.Documents(ctx, client, req)
	if err != nil {
		return summary, err
	}
	if summary.Persisted.Failed > 0 {
		logger.Warn("some documents were not stored", "failed", summary.Persisted.Failed)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		logger.Debug("documents run interrupted", "documents", summary.Documents)
	}
	return summary, nil
}
