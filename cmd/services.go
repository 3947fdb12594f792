package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/xvierd/pomo-cli/internal/adapters/calendar"
	"github.com/xvierd/pomo-cli/internal/adapters/git"
	"github.com/xvierd/pomo-cli/internal/adapters/notification"
	"github.com/xvierd/pomo-cli/internal/adapters/otel"
	"github.com/xvierd/pomo-cli/internal/adapters/storage"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/ports"
	"github.com/xvierd/pomo-cli/internal/services"
)

// drainTimeout bounds how long exit waits for listeners such as calendar sync.
const drainTimeout = 30 * time.Second

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config     *config.Config
	logger     *slog.Logger
	storage    ports.Storage
	colors     *services.ColorRegistry
	engine     *services.Engine
	stats      *services.StatsService
	state      *services.StateService
	dispatcher *services.Dispatcher
	notifier   *notification.Notifier
	syncer     *calendar.Syncer
	telemetry  *otel.Exporter
	git        ports.GitDetector
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// loadConfig reads the config file and builds the logger.
func loadConfig() error {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return err
	}
	app.config = cfg
	app.logger = newLogger(cfg.Log.Level)
	slog.SetDefault(app.logger)
	return nil
}

// newLogger returns a slog logger backed by the charm log handler.
func newLogger(level string) *slog.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "pomo",
	})
	return slog.New(handler)
}

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	if err := loadConfig(); err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger

	// Determine database path
	if dbPath == "" {
		dbPath = config.GetDBPath(cfg)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	var err error
	app.storage, err = storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.git = git.NewDetector()
	app.colors = services.NewColorRegistry(app.storage.Colors(), cfg.Colors.Palette, logger)
	app.stats = services.NewStatsService(app.storage.Sessions(), app.colors, cfg.WeekStart())

	// Listeners run off the record path, in registration order.
	app.notifier = notification.New(cfg.Notifications, logger)
	listeners := []ports.SessionListener{app.notifier}

	if cfg.Calendar.Enabled {
		app.syncer = calendar.NewSyncer(cfg.Calendar, app.storage.Sessions(), app.storage.SyncMappings(), colorFunc(), logger)
		listeners = append(listeners, app.syncer)
	}

	if cfg.Telemetry.Enabled {
		exp, err := otel.NewExporter(context.Background(), cfg.Telemetry)
		if err != nil {
			logger.Warn("telemetry disabled", "error", err)
		} else {
			app.telemetry = exp
			listeners = append(listeners, exp)
		}
	}

	app.dispatcher = services.NewDispatcher(logger, services.DefaultDispatchBuffer, listeners...)

	app.engine = services.NewEngine(app.storage.Sessions(), app.colors, services.EngineConfig{
		DefaultDuration: cfg.Timer.DefaultDuration,
		DiscardBelow:    cfg.Timer.DiscardBelow,
		TickInterval:    cfg.Timer.TickInterval,
	})
	app.engine.SetPublisher(app.dispatcher)
	app.engine.SetGitDetector(app.git)
	app.engine.SetLogger(logger)

	app.state = services.NewStateService(app.engine, app.stats, app.colors)

	return nil
}

// colorFunc adapts the color registry for adapters that have no context.
func colorFunc() calendar.ColorFunc {
	return func(taskName string) string {
		if app.colors == nil {
			return ""
		}
		return app.colors.ColorFor(context.Background(), taskName)
	}
}

// cleanupServices drains pending listener work and closes all resources.
// It is safe to call more than once.
func cleanupServices() error {
	logger := app.logger
	if logger == nil {
		logger = slog.Default()
	}
	if app.dispatcher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		if err := app.dispatcher.Close(ctx); err != nil {
			logger.Warn("listeners did not finish", "error", err)
		}
		cancel()
		app.dispatcher = nil
	}
	if app.telemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := app.telemetry.Close(ctx); err != nil {
			logger.Warn("failed to flush metrics", "error", err)
		}
		cancel()
		app.telemetry = nil
	}
	if app.storage != nil {
		err := app.storage.Close()
		app.storage = nil
		return err
	}
	return nil
}

// setupSignalHandler returns a context that is cancelled on interrupt signals.
func setupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
