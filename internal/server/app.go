// Package server wires the configured storage backend, object storage and
// the HTTP surface into a runnable application with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/indicasta/customerd/internal/logging"
	"github.com/indicasta/customerd/internal/server/auth"
	"github.com/indicasta/customerd/internal/server/config"
	"github.com/indicasta/customerd/internal/server/customers"
	"github.com/indicasta/customerd/internal/server/rest"
	"github.com/indicasta/customerd/internal/server/s3store"
	"github.com/indicasta/customerd/internal/server/shared/db"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	manager   db.RepositoryManager
	directory *customers.Service
	auth      *auth.Service
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout)

	manager, err := newRepositoryManager(c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	objects, err := s3store.NewClient(context.Background(), s3store.Options{
		User:         c.S3RootUser,
		Password:     c.S3RootPassword,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	directory := customers.NewService(manager.Customers(), objects, c.S3Bucket, logger)
	authService := auth.NewService(directory, c.SecretKey, c.TokenValidityDuration, logger)

	return &App{
		config:    c,
		logger:    logger,
		manager:   manager,
		directory: directory,
		auth:      authService,
	}, nil
}

func newRepositoryManager(c *config.Config) (db.RepositoryManager, error) {
	switch c.StorageBackend {
	case config.BackendMemory:
		return db.NewMemoryRepositoryManager(), nil
	case config.BackendPostgres:
		return db.NewPostgresRepositoryManager(c.DatabaseDSN)
	case config.BackendSQLite:
		return db.NewSQLiteRepositoryManager(c.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", c.StorageBackend)
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

func (app *App) startRESTServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config.EndpointAddr, app.config.SecretKey, app.auth, app.directory, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "starting app", "backend", app.config.StorageBackend)

	if app.config.SeedDemoData {
		app.seedDemoData(ctx)
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startRESTServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
