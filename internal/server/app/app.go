// Package app assembles the server: config, store, services, HTTP.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/edumentor/learnconnect/internal/server/http"
	"github.com/edumentor/learnconnect/internal/server/service"
	"github.com/edumentor/learnconnect/internal/server/store"
	"github.com/edumentor/learnconnect/internal/server/store/sqlite"
	"github.com/edumentor/learnconnect/pkg/jwtx"
	"github.com/edumentor/learnconnect/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application bundles the server's dependencies and lifecycle.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	signer   *jwtx.Signer
	verifier *jwtx.Verifier

	authService      *service.AuthService
	userService      *service.UserService
	skillService     *service.SkillService
	bookingService   *service.BookingService
	matchingService  *service.MatchingService
	analyticsService *service.AnalyticsService
	housekeeping     *service.HousekeepingService
	hub              *service.NotificationHub

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "learnconnect",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initKeys(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the server and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeeping.Start()

	app.logger.Info("server starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests, stops the sweeper and closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeeping.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("server stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied")
	return nil
}

// initKeys loads the Ed25519 signing key from disk, generating and persisting
// one on first run. With no key file configured the key is ephemeral and
// sessions do not survive a restart.
func (app *Application) initKeys() error {
	var err error

	switch {
	case app.cfg.SigningKeyFile == "":
		app.signer, err = jwtx.NewEphemeralSigner(app.cfg.KeyID)
		if err != nil {
			return err
		}
		app.logger.Warn("using ephemeral signing key; tokens will not survive a restart")

	default:
		pemKey, readErr := os.ReadFile(app.cfg.SigningKeyFile)
		switch {
		case readErr == nil:
			app.signer, err = jwtx.NewSigner(app.cfg.KeyID, pemKey)
			if err != nil {
				return fmt.Errorf("failed to load signing key: %w", err)
			}
		case os.IsNotExist(readErr):
			app.signer, err = jwtx.NewEphemeralSigner(app.cfg.KeyID)
			if err != nil {
				return err
			}
			pemKey, err := app.signer.MarshalPrivatePEM()
			if err != nil {
				return err
			}
			if err := os.WriteFile(app.cfg.SigningKeyFile, pemKey, 0o600); err != nil {
				return fmt.Errorf("failed to persist signing key: %w", err)
			}
			app.logger.Info("generated new signing key", "path", app.cfg.SigningKeyFile)
		default:
			return fmt.Errorf("failed to read signing key: %w", readErr)
		}
	}

	app.verifier = jwtx.NewVerifier(app.cfg.Issuer, 30*time.Second)
	app.verifier.AddKey(app.signer.KID(), app.signer.PublicKey())
	return nil
}

func (app *Application) initServices() {
	app.hub = service.NewNotificationHub()

	app.authService = &service.AuthService{
		Signer:     app.signer,
		Store:      app.db,
		Issuer:     app.cfg.Issuer,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	}
	app.userService = &service.UserService{Store: app.db}
	app.skillService = &service.SkillService{Store: app.db}
	app.bookingService = &service.BookingService{Store: app.db, Hub: app.hub}
	app.matchingService = &service.MatchingService{Store: app.db}
	app.analyticsService = &service.AnalyticsService{Store: app.db}

	app.housekeeping = service.NewHousekeepingService(app.db, app.logger, app.cfg.HousekeepingInterval)
}

func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(app.verifier, BuildVersion, app.db, app.logger)
	app.router.AuthService = app.authService
	app.router.UserService = app.userService
	app.router.SkillService = app.skillService
	app.router.BookingService = app.bookingService
	app.router.MatchingService = app.matchingService
	app.router.AnalyticsService = app.analyticsService
	app.router.Hub = app.hub
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           app.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Router exposes the assembled HTTP handler, for in-process test servers.
func (app *Application) Router() http.Handler { return app.router }

// Store exposes the database layer, for seeding in tests.
func (app *Application) Store() store.Store { return app.db }
