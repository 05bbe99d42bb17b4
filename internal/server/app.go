// Package server wires the QuickQR backend together: it opens PostgreSQL,
// applies migrations, builds the services and runs the HTTP API and the
// gRPC health endpoint until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/quickqr/internal/logging"
	"github.com/dmitrijs2005/quickqr/internal/server/api"
	"github.com/dmitrijs2005/quickqr/internal/server/config"
	"github.com/dmitrijs2005/quickqr/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/quickqr/internal/server/services"

	gs "github.com/dmitrijs2005/quickqr/internal/server/grpc"
)

// Database connection attempts at startup.
const dbConnectRetries = 5

var dbConnectBackoff = 500 * time.Millisecond

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	codeService *services.CodeService
	logoService *services.LogoService
}

var openPostgres = repomanager.OpenPostgres

// connect opens the database, retrying while it is still starting up.
func connect(ctx context.Context, dsn string, l logging.Logger) (*sql.DB, error) {
	var db *sql.DB
	b := retry.WithMaxRetries(dbConnectRetries, retry.NewExponential(dbConnectBackoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		var err error
		db, err = openPostgres(ctx, dsn)
		if err != nil {
			l.Warn(ctx, "database not ready", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	return db, err
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)

	db, err := connect(ctx, c.DatabaseDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	app := &App{
		config:      c,
		logger:      logger,
		db:          db,
		userService: services.NewUserService(db, rm, c),
		codeService: services.NewCodeService(db, rm),
		logoService: services.NewLogoService(c),
	}

	if c.AdminEmail != "" {
		ok, err := app.userService.EnsureAdmin(ctx, c.AdminEmail)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("admin setup error: %w", err)
		}
		if !ok {
			logger.Warn(ctx, "admin account not registered yet", "email", c.AdminEmail)
		}
	}

	return app, nil
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
	s := api.NewServer(app.userService, app.codeService, app.logoService, app.db.PingContext, app.logger)
	if err := s.Run(ctx, app.config.EndpointAddrHTTP); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db.PingContext)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a signal arrives or ctx is cancelled and both servers
// have stopped.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.EndpointAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
