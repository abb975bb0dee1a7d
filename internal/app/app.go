// Package app wires the meshlens core together: configuration, logging,
// the event dispatcher, the selection store and the sync coordinator. It
// owns their lifecycles; nothing in the core is an ambient global, so
// tests and embedders can run multiple isolated instances.
package app

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/meshlens/meshlens/internal/config"
	"github.com/meshlens/meshlens/internal/event"
	"github.com/meshlens/meshlens/internal/event/events"
	"github.com/meshlens/meshlens/internal/scene"
	"github.com/meshlens/meshlens/internal/selection"
	"github.com/meshlens/meshlens/internal/viewsync"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML configuration file. Empty means defaults.
	ConfigPath string

	// ManifestPath is an optional part-hierarchy manifest loaded on
	// Start, standing in for an interactive model loader.
	ManifestPath string

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string

	// Watch enables live reload of the configuration file.
	Watch bool

	// LogOutput overrides the log destination. Defaults to stderr.
	LogOutput io.Writer
}

// App is the application context for one session.
type App struct {
	opts Options
	log  zerolog.Logger

	dispatcher  *event.Dispatcher
	store       *selection.Store
	coordinator *viewsync.Coordinator
	watcher     *config.Watcher

	mu      sync.Mutex
	cfg     config.Config
	started bool

	shutdown sync.Once
}

// New builds an application from its options. The dispatcher comes up
// with every event kind registered and the coordinator constructed but
// not yet attached; Start completes the wiring.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	log, err := newLogger(cfg.Logging.Level, opts.LogOutput)
	if err != nil {
		return nil, err
	}

	dispatcher := event.NewDispatcher(
		event.WithLogger(log.With().Str("component", "dispatcher").Logger()),
		event.WithHistorySize(cfg.Dispatcher.HistorySize),
		event.WithDrainLimit(cfg.Dispatcher.DrainLimit),
		event.WithRetryPolicy(event.RetryPolicy{
			BaseDelay:   cfg.RetryBaseDelay(),
			MaxDelay:    cfg.RetryMaxDelay(),
			MaxAttempts: cfg.Dispatcher.Retry.MaxAttempts,
		}),
	)
	events.RegisterAll(dispatcher)

	store := selection.NewStore()

	return &App{
		opts:        opts,
		log:         log,
		cfg:         cfg,
		dispatcher:  dispatcher,
		store:       store,
		coordinator: viewsync.NewCoordinator(dispatcher, store, log),
	}, nil
}

// newLogger builds the root logger.
func newLogger(level string, out io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parsing log level %q: %w", level, err)
	}
	if out == nil {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// Start attaches the coordinator, begins config watching when enabled and
// loads the startup manifest when one was given.
func (a *App) Start() error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return nil
	}
	a.started = true
	a.mu.Unlock()

	a.coordinator.Attach()

	if a.opts.Watch && a.opts.ConfigPath != "" {
		w, err := config.NewWatcher(a.opts.ConfigPath, a.onConfigReload, a.log)
		if err != nil {
			return fmt.Errorf("starting config watcher: %w", err)
		}
		a.watcher = w
	}

	if a.opts.ManifestPath != "" {
		if err := a.loadManifest(a.opts.ManifestPath); err != nil {
			return err
		}
	}

	a.log.Info().Msg("meshlens core started")
	return nil
}

// onConfigReload swaps the active configuration and announces the change.
// Dispatcher construction settings (history size, retry policy) stay as
// they were; only settings read per call, like the hover throttle, take
// effect immediately.
func (a *App) onConfigReload(cfg config.Config) {
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()

	a.dispatcher.Dispatch(events.KindConfigChanged, event.Payload{
		events.FieldPath: a.opts.ConfigPath,
	})
}

// Config returns the active configuration.
func (a *App) Config() config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.cfg
}

// Dispatcher returns the event dispatcher.
func (a *App) Dispatcher() *event.Dispatcher {
	return a.dispatcher
}

// State returns the selection store. Consumers must treat it as
// read-only; mutations belong to the coordinator.
func (a *App) State() *selection.Store {
	return a.store
}

// Coordinator returns the sync coordinator.
func (a *App) Coordinator() *viewsync.Coordinator {
	return a.coordinator
}

// Catalog returns the session model catalog.
func (a *App) Catalog() *scene.Catalog {
	return a.coordinator.Catalog()
}

// SessionStats is a point-in-time snapshot of the running session, for
// status surfaces and diagnostics.
type SessionStats struct {
	// Models is the number of cataloged models.
	Models int

	// ActiveModel is the id of the model interactions resolve against,
	// empty when none is loaded.
	ActiveModel string

	// SelectedNodes is the current selection size.
	SelectedNodes int

	// Dispatcher carries the dispatch core's counters.
	Dispatcher event.Stats
}

// Stats snapshots the session.
func (a *App) Stats() SessionStats {
	s := SessionStats{
		Models:        a.Catalog().Len(),
		SelectedNodes: a.store.SelectionCount(),
		Dispatcher:    a.dispatcher.Stats(),
	}
	if m := a.coordinator.Model(); m != nil {
		s.ActiveModel = m.ID
	}
	return s
}

// Logger returns the root logger.
func (a *App) Logger() zerolog.Logger {
	return a.log
}

// HoverThrottle returns the active hover throttle window.
func (a *App) HoverThrottle() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.cfg.HoverThrottle()
}

// HoverDebounce returns the active hover debounce quiet period.
func (a *App) HoverDebounce() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.cfg.HoverDebounce()
}

// Shutdown tears the session down in reverse construction order. It is
// idempotent and safe to call from a signal handler.
func (a *App) Shutdown() {
	a.shutdown.Do(func() {
		if a.watcher != nil {
			if err := a.watcher.Close(); err != nil {
				a.log.Warn().Err(err).Msg("closing config watcher")
			}
		}
		a.coordinator.Detach()
		a.dispatcher.Close()
		a.log.Info().Msg("meshlens core stopped")
	})
}
