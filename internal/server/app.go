// Package server wires storage, the deletion archive and the directory
// service, and runs the HTTP and gRPC endpoints until the process is
// signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/saasadmin/internal/identity"
	"github.com/dmitrijs2005/saasadmin/internal/logging"
	"github.com/dmitrijs2005/saasadmin/internal/server/archive"
	"github.com/dmitrijs2005/saasadmin/internal/server/config"
	"github.com/dmitrijs2005/saasadmin/internal/server/httpapi"
	"github.com/dmitrijs2005/saasadmin/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/saasadmin/internal/server/services"

	gs "github.com/dmitrijs2005/saasadmin/internal/server/grpc"
)

// Directory is what both endpoints serve.
type Directory interface {
	httpapi.Directory
	gs.Directory
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	dir    Directory
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogBackend, c.LogLevel, c.LogFormat, os.Stdout)
	if err != nil {
		return nil, err
	}

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	arch, err := archive.New(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if c.S3Bucket == "" {
		logger.Warn(ctx, "deletion archive disabled: no bucket configured")
	}

	policy := identity.NewAllowList(c.AdminEmails...)
	if len(c.AdminEmails) == 0 {
		logger.Warn(ctx, "admin allow-list is empty: every admin request will be refused")
	}

	dir := services.NewDirectoryService(db, rm, policy, arch, logger)

	return newApp(c, logger, db, dir), nil
}

func newApp(c *config.Config, l logging.Logger, db *sql.DB, dir Directory) *App {
	return &App{config: c, logger: l, db: db, dir: dir}
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

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.dir, app.config.SecretKey)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.dir, app.config.SecretKey, app.config.ShutdownTimeout, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or either server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
}

func (app *App) Close() error {
	if app.db == nil {
		return nil
	}
	return app.db.Close()
}
