// Package app wires the session engine to its storage, ledger and event bus.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"kidsfocus/internal/core/eventbus"
	"kidsfocus/internal/core/model"
	"kidsfocus/internal/core/rewards"
	"kidsfocus/internal/core/timekeeper"
	"kidsfocus/internal/storage"
)

// Name is the application name used for config paths and the instance guard.
const Name = "KidsFocus"

// Options tunes how the application is assembled. Zero values use the
// production defaults.
type Options struct {
	Logger       *slog.Logger
	Clock        timekeeper.Clock
	Location     *time.Location
	TickInterval time.Duration
	// Store overrides the backend selected by the settings.
	Store storage.Store
}

// App owns every long-lived component of a running KidsFocus instance.
type App struct {
	Settings model.Settings
	Logger   *slog.Logger
	Store    storage.Store
	Ledger   *rewards.Ledger
	History  *storage.History
	Days     *storage.DayTracker
	Bus      *eventbus.Bus[timekeeper.Event]
	Keeper   *timekeeper.TimeKeeper
}

// New opens the store, loads profiles and builds an idle engine.
func New(ctx context.Context, settings model.Settings, options Options) (*App, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	location := options.Location
	if location == nil {
		location = time.Local
	}

	store := options.Store
	if store == nil {
		opened, err := storage.NewStore(Name, storage.StoreConfig(settings.Storage))
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		store = opened
	}

	ledger, err := rewards.NewLedger(ctx, store, logger.With("component", "rewards"))
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	ledger.SetLocation(location)

	history := storage.NewHistory(store)
	if options.Clock != nil {
		ledger.SetClock(options.Clock.Now)
		history.SetClock(options.Clock.Now)
	}
	days := storage.NewDayTracker(store)
	bus := eventbus.New[timekeeper.Event](logger.With("component", "eventbus"))

	keeper := timekeeper.New(settings.TimeKeeperConfig(), timekeeper.Options{
		TickInterval: options.TickInterval,
		Clock:        options.Clock,
		Location:     location,
		Logger:       logger,
		Ledger:       ledger,
		History:      history,
		Days:         days,
		Publisher:    bus,
	})

	return &App{
		Settings: settings,
		Logger:   logger,
		Store:    store,
		Ledger:   ledger,
		History:  history,
		Days:     days,
		Bus:      bus,
		Keeper:   keeper,
	}, nil
}

// ApplySettings pushes edited settings into the engine. Alerts always
// apply; durations only apply while the engine is idle, otherwise
// timekeeper.ErrConfigLocked is returned and the new durations take effect
// the next time settings are applied.
func (app *App) ApplySettings(settings model.Settings) error {
	app.Settings = settings
	app.Keeper.SetAlerts(settings.Alerts)

	config := settings.TimeKeeperConfig()
	if config.Preset != model.PresetCustom {
		return app.Keeper.SetPreset(config.Preset)
	}
	return app.Keeper.SetDurations(config.WorkMinutes, config.BreakMinutes)
}

// Close stops the engine, then the bus, then the store.
func (app *App) Close() error {
	app.Keeper.Close()
	app.Bus.Close()
	if err := app.Store.Close(); err != nil && !errors.Is(err, storage.ErrStoreClosed) {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// NewLogger builds the process logger. JSON output is used by headless runs.
func NewLogger(w io.Writer, level string, json bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: ParseLevel(level)}
	if json {
		return slog.New(slog.NewJSONHandler(w, options))
	}
	return slog.New(slog.NewTextHandler(w, options))
}

// ParseLevel maps a settings log level to slog. Unknown values mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
