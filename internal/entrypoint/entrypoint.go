// Package entrypoint wires configuration into the running components.
package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrlokans/calibre-xmnote/internal/audit"
	"github.com/mrlokans/calibre-xmnote/internal/calibre"
	"github.com/mrlokans/calibre-xmnote/internal/config"
	"github.com/mrlokans/calibre-xmnote/internal/database"
	"github.com/mrlokans/calibre-xmnote/internal/desktop"
	http_controllers "github.com/mrlokans/calibre-xmnote/internal/http"
	"github.com/mrlokans/calibre-xmnote/internal/logger"
	"github.com/mrlokans/calibre-xmnote/internal/services"
	"github.com/mrlokans/calibre-xmnote/internal/settingsstore"
	"github.com/mrlokans/calibre-xmnote/internal/xmnote"
)

// App holds every long-lived component. Library, Exporter and Actions are
// nil when no Calibre library is configured.
type App struct {
	Config   *config.Config
	Log      logger.Logger
	DB       *database.Database
	Settings *settingsstore.SettingsStore
	Reader   *calibre.Reader
	Exporter *services.Exporter
	Actions  *services.LibraryService
}

// NewApp opens the state database and, if configured, the Calibre library.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Settings: settingsstore.New(db, cfg.Device.IPAddr, cfg.Device.Port),
	}

	if cfg.Calibre.LibraryPath == "" {
		log.Warn("calibre library path is not set; export and library actions are disabled")
		return app, nil
	}

	reader, err := calibre.NewReader(cfg.Calibre.LibraryPath)
	if err != nil {
		db.Close()
		return nil, err
	}
	app.Reader = reader
	log.Info("calibre library opened", logger.String("path", cfg.Calibre.LibraryPath))

	app.Exporter = services.NewExporter(
		reader,
		xmnote.NewClient(cfg.Device.Timeout),
		app.Settings,
		services.WithHistory(db),
		services.WithAuditor(audit.NewAuditor(cfg.AuditDir())),
		services.WithLogger(log.With(logger.String("component", "exporter"))),
		services.WithConfigurablePort(cfg.Device.PortEnabled),
	)
	app.Actions = services.NewLibraryService(reader, app.Settings, db, desktop.NewOpener(), log)
	return app, nil
}

// RequireLibrary returns services.ErrNoLibrary when no Calibre library is open.
func (a *App) RequireLibrary() error {
	if a.Reader == nil {
		return services.ErrNoLibrary
	}
	return nil
}

func (a *App) Close() error {
	var errs []error
	if a.Reader != nil {
		errs = append(errs, a.Reader.Close())
	}
	errs = append(errs, a.DB.Close())
	return errors.Join(errs...)
}

// Router builds the HTTP API for the app.
func (a *App) Router(version string) http.Handler {
	routerCfg := http_controllers.RouterConfig{
		Settings:    a.Settings,
		History:     a.DB,
		Database:    a.DB,
		PortEnabled: a.Config.Device.PortEnabled,
		Logger:      a.Log.With(logger.String("component", "http")),
		Version:     version,
	}
	if a.Reader != nil {
		routerCfg.Exporter = a.Exporter
		routerCfg.Library = a.Actions
		routerCfg.Calibre = a.Reader
	} else {
		routerCfg.Exporter = unavailableExporter{}
		routerCfg.Library = unavailableLibrary{}
	}
	return http_controllers.NewRouter(routerCfg)
}

// Serve runs the HTTP API until ctx is cancelled or SIGINT/SIGTERM arrives,
// then shuts down within the configured timeout.
func Serve(ctx context.Context, app *App, version string) error {
	cfg := app.Config
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: app.Router(version),
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		app.Log.Info("starting server", logger.String("addr", srv.Addr), logger.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.Log.Info("shutting down server", logger.Duration("timeout", timeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	app.Log.Info("server exiting")
	return nil
}

// NewLogger builds the process logger from configuration.
func NewLogger(cfg *config.Config) (logger.Logger, error) {
	return logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		OutputPaths: []string{"stderr"},
	})
}
