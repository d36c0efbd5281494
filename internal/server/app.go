// Package server initializes and runs the portal backend. It wires the
// configuration, database, services, and the HTTP endpoint, and handles
// graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/lmwansa/studentportal/internal/logging"
	"github.com/lmwansa/studentportal/internal/server/auth"
	"github.com/lmwansa/studentportal/internal/server/config"
	"github.com/lmwansa/studentportal/internal/server/httpapi"
	"github.com/lmwansa/studentportal/internal/server/origin"
	"github.com/lmwansa/studentportal/internal/server/ratelimit"
	"github.com/lmwansa/studentportal/internal/server/repositories/repomanager"
	"github.com/lmwansa/studentportal/internal/server/services"

	"github.com/gin-gonic/gin"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	api    *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	gin.SetMode(cfg.GinMode)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	authService := services.NewAuthService(
		manager.Students(db),
		auth.NewHasher(cfg.BcryptCost),
		logger,
		cfg,
	)

	api := httpapi.NewServer(
		cfg.Address,
		logger,
		authService,
		ratelimit.New(cfg.RateLimitWindow, cfg.RateLimitMax),
		origin.NewGate(cfg.AllowedOrigins),
	)

	return &App{config: cfg, logger: logger, db: db, api: api}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.api.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
