package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phrazzld/todo-api/internal/platform/telemetry"
)

func newServeCommand() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, log, err := loadApplicationConfig()
			if err != nil {
				return err
			}

			shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
					log.Error("failed to shut down tracing", slog.String("error", err.Error()))
				}
			}()

			db, err := openDatabase(ctx, cfg, log, autoMigrate)
			if err != nil {
				return err
			}

			app, err := newApplication(cfg, log, db)
			if err != nil {
				_ = db.Close()
				return err
			}
			return app.startHTTPServer(ctx, app.setupRouter())
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", true, "apply pending migrations before serving")
	return cmd
}
