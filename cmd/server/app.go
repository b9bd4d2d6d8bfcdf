package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/database"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/platform/metrics"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
)

// application holds the wired dependencies of a running server.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	db      *database.DB
	metrics *metrics.Metrics

	jwtService  auth.JWTService
	authService service.AuthService
	taskService service.TaskService
	resolver    service.IdentityResolver
}

// appOption customises newApplication, mainly for tests.
type appOption func(*appOptions)

type appOptions struct {
	jwtOptions  []auth.JWTOption
	authOptions []service.AuthOption
}

func withJWTOptions(opts ...auth.JWTOption) appOption {
	return func(o *appOptions) { o.jwtOptions = append(o.jwtOptions, opts...) }
}

func withAuthOptions(opts ...service.AuthOption) appOption {
	return func(o *appOptions) { o.authOptions = append(o.authOptions, opts...) }
}

// loadApplicationConfig loads configuration and installs the default logger.
func loadApplicationConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("signing_algorithm", cfg.Auth.SigningAlgorithm))
	return cfg, log, nil
}

// openDatabase connects to the configured backend and optionally applies
// pending migrations.
func openDatabase(ctx context.Context, cfg *config.Config, log *slog.Logger, migrate bool) (*database.DB, error) {
	db, err := database.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	log.Info("database connection established", slog.String("driver", string(db.Driver)))

	if migrate {
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("database schema is up to date")
	}
	return db, nil
}

// newApplication wires services and stores around an open database.
func newApplication(cfg *config.Config, log *slog.Logger, db *database.DB, opts ...appOption) (*application, error) {
	var o appOptions
	for _, opt := range opts {
		opt(&o)
	}

	app := &application{
		config:  cfg,
		logger:  log,
		db:      db,
		metrics: metrics.New(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth, o.jwtOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	log.Info("JWT service initialized",
		slog.Int("access_token_ttl_minutes", cfg.Auth.AccessTokenTTLMinutes),
		slog.Int("refresh_token_ttl_days", cfg.Auth.RefreshTokenTTLDays))

	hasher := auth.NewBcryptHasher(cfg.Auth.BCryptCost)

	authOpts := append([]service.AuthOption{service.WithAuthEvents(app.metrics)}, o.authOptions...)
	app.authService, err = service.NewAuthService(db.DB, db.Users, db.RefreshTokens,
		app.jwtService, hasher, log, authOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	app.taskService, err = service.NewTaskService(db.DB, db.Tasks, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.resolver = service.NewIdentityResolver(db.Users, app.jwtService, app.metrics, log)

	log.Info("application initialized")
	return app, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
