package platform

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultAwayAfter    = 2 * time.Minute
	defaultSuspendSlack = 3 * time.Second
)

// WatcherOptions tunes a Watcher. Zero values use defaults.
type WatcherOptions struct {
	PollInterval time.Duration
	// AwayAfter is the idle time after which the user counts as away.
	AwayAfter time.Duration
	// SuspendSlack is how far the wall clock may outrun the monotonic
	// clock between polls before a suspend is assumed.
	SuspendSlack time.Duration
	Logger       *slog.Logger
}

// Watcher calls onRestore when the session comes back to the foreground:
// after the machine wakes from suspend, or when the user returns from
// being idle.
type Watcher struct {
	idle      IdleProvider
	onRestore func(reason string)
	options   WatcherOptions
	logger    *slog.Logger

	// sample returns the wall time and a monotonic reading.
	sample func() (time.Time, time.Duration)

	lastWall      time.Time
	lastMono      time.Duration
	away          bool
	idleSupported bool
}

// NewWatcher creates a Watcher. idle may be nil to watch for suspend only.
func NewWatcher(idle IdleProvider, onRestore func(reason string), options WatcherOptions) *Watcher {
	if options.PollInterval <= 0 {
		options.PollInterval = defaultPollInterval
	}
	if options.AwayAfter <= 0 {
		options.AwayAfter = defaultAwayAfter
	}
	if options.SuspendSlack <= 0 {
		options.SuspendSlack = defaultSuspendSlack
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}

	start := time.Now()
	return &Watcher{
		idle:      idle,
		onRestore: onRestore,
		options:   options,
		logger:    options.Logger.With("component", "visibility"),
		sample: func() (time.Time, time.Duration) {
			now := time.Now()
			return now.Round(0), now.Sub(start)
		},
		idleSupported: idle != nil,
	}
}

// Run polls until ctx is cancelled.
func (watcher *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(watcher.options.PollInterval)
	defer ticker.Stop()

	watcher.lastWall, watcher.lastMono = watcher.sample()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			watcher.poll(ctx)
		}
	}
}

func (watcher *Watcher) poll(ctx context.Context) {
	wall, mono := watcher.sample()
	wallGap := wall.Sub(watcher.lastWall)
	monoGap := mono - watcher.lastMono
	watcher.lastWall, watcher.lastMono = wall, mono

	if wallGap-monoGap > watcher.options.SuspendSlack {
		watcher.logger.Info("resumed from suspend", "slept", wallGap-monoGap)
		watcher.away = false
		watcher.onRestore("suspend")
		return
	}

	if !watcher.idleSupported {
		return
	}
	idle, err := watcher.idle.IdleDuration(ctx)
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			watcher.idleSupported = false
			watcher.logger.Info("idle detection unavailable, watching for suspend only")
			return
		}
		watcher.logger.Warn("idle check failed", "error", err)
		return
	}

	switch {
	case idle >= watcher.options.AwayAfter:
		if !watcher.away {
			watcher.logger.Debug("user away", "idle", idle)
		}
		watcher.away = true
	case watcher.away:
		watcher.away = false
		watcher.logger.Info("user returned", "idle", idle)
		watcher.onRestore("return")
	}
}
