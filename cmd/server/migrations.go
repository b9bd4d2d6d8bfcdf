package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/database"
)

// migrationRunner performs one migrate subcommand against an open database.
type migrationRunner func(ctx context.Context, p *goose.Provider, out io.Writer) error

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		migrationSubcommand("up", "Apply all pending migrations", migrateUp),
		migrationSubcommand("down", "Roll back the most recent migration", migrateDown),
		migrationSubcommand("status", "Show the state of every migration", migrateStatus),
		migrationSubcommand("version", "Print the current schema version", migrateVersion),
	)
	return cmd
}

func migrationSubcommand(use, short string, run migrationRunner) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return runMigration(cmd.Context(), cfg, cmd.OutOrStdout(), run)
		},
	}
}

func runMigration(ctx context.Context, cfg *config.Config, out io.Writer, run migrationRunner) error {
	db, err := database.Open(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			slog.Error("failed to close database", slog.String("error", cerr.Error()))
		}
	}()

	provider, err := db.MigrationProvider()
	if err != nil {
		return err
	}
	return run(ctx, provider, out)
}

func migrateUp(ctx context.Context, p *goose.Provider, out io.Writer) error {
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "no migrations to apply")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(out, "applied %d %s (%s)\n", r.Source.Version, r.Source.Path, r.Duration)
	}
	return nil
}

func migrateDown(ctx context.Context, p *goose.Provider, out io.Writer) error {
	result, err := p.Down(ctx)
	if err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	fmt.Fprintf(out, "rolled back %d %s (%s)\n", result.Source.Version, result.Source.Path, result.Duration)
	return nil
}

func migrateStatus(ctx context.Context, p *goose.Provider, out io.Writer) error {
	statuses, err := p.Status(ctx)
	if err != nil {
		return fmt.Errorf("migrate status: %w", err)
	}
	for _, s := range statuses {
		applied := "-"
		if !s.AppliedAt.IsZero() {
			applied = s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(out, "%-8d %-10s %-20s %s\n", s.Source.Version, s.State, applied, s.Source.Path)
	}
	return nil
}

func migrateVersion(ctx context.Context, p *goose.Provider, out io.Writer) error {
	version, err := p.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("migrate version: %w", err)
	}
	fmt.Fprintf(out, "%d\n", version)
	return nil
}
