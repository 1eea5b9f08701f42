// Package server initializes and runs the application server: configuration,
// database, blob storage, domain services and the HTTP endpoint, with
// graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"lockbox/internal/logging"
	"lockbox/internal/server/config"
	"lockbox/internal/server/httpapi"
	"lockbox/internal/server/repositories/repomanager"
	"lockbox/internal/server/services"
	"lockbox/internal/server/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("blob storage init error: %w", err)
	}

	us := services.NewUserService(db, rm, cfg)
	cs := services.NewCredentialService(db, rm)
	ds := services.NewDocumentService(db, rm, blobs, cfg.DocumentMaxBytes)
	vs := services.NewVaultService(db, rm, ds)

	srv := httpapi.NewServer(cfg, logger, us, vs, cs, ds)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func newBlobStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, error) {
	switch cfg.StorageDriver {
	case "s3":
		return storage.NewS3Store(ctx, cfg)
	default:
		return storage.NewDiskStore(cfg.StorageRoot)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server error", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
}
