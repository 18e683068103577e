package timekeeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"kidsfocus/internal/core/alerts"
	"kidsfocus/internal/core/model"
)

var (
	// ErrInvalidConfiguration rejects a phase start with a non-positive duration.
	ErrInvalidConfiguration = errors.New("invalid timer configuration")
	// ErrConfigLocked rejects duration changes outside the idle phase.
	ErrConfigLocked = errors.New("timer configuration is locked while a session is active")
	ErrUnknownPreset = errors.New("unknown preset")
)

const (
	defaultTickInterval = 250 * time.Millisecond
	dateLayout          = "2006-01-02"
)

// Options contains runtime options and collaborators for TimeKeeper.
// Nil collaborators are skipped.
type Options struct {
	TickInterval time.Duration
	Clock        Clock
	Location     *time.Location
	Logger       *slog.Logger

	Ledger    Ledger
	History   HistoryRecorder
	Days      DayTracker
	Publisher Publisher
}

// TimeKeeper is the work/break state machine. Remaining time is always
// derived from an absolute deadline, so a suspended process catches up on
// the next tick instead of drifting.
//
// opMu serialises operations, ticks and event delivery. mu guards the state
// and is released before events are published, so handlers may call
// Snapshot but must not call mutating methods synchronously.
type TimeKeeper struct {
	opMu sync.Mutex
	mu   sync.RWMutex

	config    model.TimeKeeperConfig
	options   Options
	logger    *slog.Logger
	publisher Publisher
	days      DayTracker
	ctx       context.Context
	cancel    context.CancelFunc

	phase           Phase
	priorPhase      Phase
	remaining       int
	total           int
	deadline        time.Time
	pausedRemaining int
	lastEvaluated   int

	completedToday int
	firstOfDay     bool
	activeDate     string

	generation uint64
	stopCh     chan struct{}
	loops      sync.WaitGroup
	pending    []Event
	closed     bool
}

// New creates an idle TimeKeeper with the provided configuration.
func New(config model.TimeKeeperConfig, options Options) *TimeKeeper {
	if options.TickInterval <= 0 {
		options.TickInterval = defaultTickInterval
	}
	if options.Clock == nil {
		options.Clock = SystemClock{}
	}
	if options.Location == nil {
		options.Location = time.Local
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Preset == "" {
		config.Preset = model.PresetCustom
	}

	ctx, cancel := context.WithCancel(context.Background())
	keeper := &TimeKeeper{
		config:     config,
		options:    options,
		logger:     options.Logger.With("component", "timekeeper"),
		publisher:  options.Publisher,
		days:       options.Days,
		ctx:        ctx,
		cancel:     cancel,
		phase:      PhaseIdle,
		firstOfDay: true,
	}
	if keeper.publisher == nil {
		keeper.publisher = nopPublisher{}
	}
	if keeper.days == nil {
		keeper.days = nopDays{}
	}

	keeper.mu.Lock()
	keeper.rolloverLocked(options.Clock.Now())
	keeper.mu.Unlock()
	return keeper
}

// StartWork begins a work interval from Idle.
func (keeper *TimeKeeper) StartWork() error {
	return keeper.apply(func(now time.Time) error {
		if keeper.phase != PhaseIdle {
			return nil
		}
		if keeper.config.WorkMinutes <= 0 {
			return fmt.Errorf("%w: work minutes %d", ErrInvalidConfiguration, keeper.config.WorkMinutes)
		}
		keeper.rolloverLocked(now)
		keeper.enterPhaseLocked(PhaseWorking, keeper.config.WorkMinutes, now)
		keeper.emitLocked(EventWorkStart, now, nil)
		keeper.logger.Info("work started", "minutes", keeper.config.WorkMinutes)
		return nil
	})
}

// StartBreak begins a break interval from Idle.
func (keeper *TimeKeeper) StartBreak() error {
	return keeper.apply(func(now time.Time) error {
		if keeper.phase != PhaseIdle {
			return nil
		}
		return keeper.startBreakLocked(now)
	})
}

// Pause freezes the running phase.
func (keeper *TimeKeeper) Pause() {
	_ = keeper.apply(func(time.Time) error {
		if !keeper.phase.Running() {
			return nil
		}
		keeper.stopTickerLocked()
		keeper.priorPhase = keeper.phase
		keeper.pausedRemaining = keeper.remaining
		keeper.phase = PhasePaused
		keeper.deadline = time.Time{}
		keeper.logger.Debug("paused", "remaining", keeper.pausedRemaining)
		return nil
	})
}

// Resume restores the paused phase with a deadline measured from now.
func (keeper *TimeKeeper) Resume() {
	_ = keeper.apply(func(now time.Time) error {
		if keeper.phase != PhasePaused {
			return nil
		}
		keeper.phase = keeper.priorPhase
		keeper.priorPhase = ""
		keeper.remaining = keeper.pausedRemaining
		keeper.deadline = now.Add(seconds(keeper.pausedRemaining))
		keeper.pausedRemaining = 0
		keeper.startTickerLocked()
		keeper.logger.Debug("resumed", "remaining", keeper.remaining)
		return nil
	})
}

// Stop resets to Idle from any phase. No tick runs after Stop returns.
func (keeper *TimeKeeper) Stop() {
	_ = keeper.apply(func(time.Time) error {
		if keeper.phase == PhaseIdle {
			return nil
		}
		keeper.stopTickerLocked()
		keeper.resetLocked()
		keeper.logger.Info("stopped")
		return nil
	})
}

// SkipBreak ends the current break without completing it.
func (keeper *TimeKeeper) SkipBreak() {
	_ = keeper.apply(func(now time.Time) error {
		if keeper.phase != PhaseOnBreak {
			return nil
		}
		keeper.stopTickerLocked()
		keeper.emitLocked(EventBreakSkipped, now, nil)
		keeper.resetLocked()
		return nil
	})
}

// Tick recomputes the remaining time against the clock. It completes at
// most one phase per call.
func (keeper *TimeKeeper) Tick() {
	_ = keeper.apply(func(now time.Time) error {
		keeper.tickLocked(now)
		return nil
	})
}

// Refresh runs an immediate tick after the process regains the foreground
// or wakes from suspend. It is a no-op unless a phase is running.
func (keeper *TimeKeeper) Refresh() {
	_ = keeper.apply(func(now time.Time) error {
		if !keeper.phase.Running() {
			return nil
		}
		keeper.logger.Debug("refresh", "phase", keeper.phase)
		keeper.tickLocked(now)
		return nil
	})
}

// SetDurations updates the work and break lengths in minutes.
func (keeper *TimeKeeper) SetDurations(workMinutes, breakMinutes int) error {
	return keeper.apply(func(time.Time) error {
		if keeper.phase != PhaseIdle {
			return ErrConfigLocked
		}
		if workMinutes <= 0 || breakMinutes <= 0 {
			return fmt.Errorf("%w: work %d, break %d", ErrInvalidConfiguration, workMinutes, breakMinutes)
		}
		keeper.config.Preset = model.PresetCustom
		keeper.config.WorkMinutes = workMinutes
		keeper.config.BreakMinutes = breakMinutes
		return nil
	})
}

// SetPreset applies a named preset. The custom preset keeps the current
// durations.
func (keeper *TimeKeeper) SetPreset(id string) error {
	preset, ok := model.FindPreset(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPreset, id)
	}
	return keeper.apply(func(time.Time) error {
		if keeper.phase != PhaseIdle {
			return ErrConfigLocked
		}
		keeper.config.Preset = preset.ID
		if preset.ID != model.PresetCustom {
			keeper.config.WorkMinutes = preset.WorkMinutes
			keeper.config.BreakMinutes = preset.BreakMinutes
		}
		return nil
	})
}

// SetAlerts replaces the enabled alert kinds. Allowed in any phase.
func (keeper *TimeKeeper) SetAlerts(set alerts.Set) {
	_ = keeper.apply(func(time.Time) error {
		keeper.config.Alerts = set
		return nil
	})
}

// Snapshot returns the current state.
func (keeper *TimeKeeper) Snapshot() Snapshot {
	keeper.mu.RLock()
	defer keeper.mu.RUnlock()

	remaining := keeper.remaining
	if keeper.phase == PhasePaused {
		remaining = keeper.pausedRemaining
	}
	return Snapshot{
		Phase:          keeper.phase,
		PriorPhase:     keeper.priorPhase,
		Remaining:      seconds(remaining),
		Total:          seconds(keeper.total),
		WorkMinutes:    keeper.config.WorkMinutes,
		BreakMinutes:   keeper.config.BreakMinutes,
		Preset:         keeper.config.Preset,
		Alerts:         keeper.config.Alerts,
		CompletedToday: keeper.completedToday,
	}
}

// Close stops the timer and waits for the ticking loop to exit. Further
// calls on a closed TimeKeeper are no-ops.
func (keeper *TimeKeeper) Close() {
	_ = keeper.apply(func(time.Time) error {
		keeper.stopTickerLocked()
		keeper.resetLocked()
		keeper.closed = true
		return nil
	})
	keeper.loops.Wait()
	keeper.cancel()
}

// apply runs op with the state locked, then publishes the events op queued.
func (keeper *TimeKeeper) apply(op func(now time.Time) error) error {
	keeper.opMu.Lock()
	defer keeper.opMu.Unlock()

	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		return nil
	}
	err := op(keeper.options.Clock.Now())
	events := keeper.pending
	keeper.pending = nil
	keeper.mu.Unlock()

	for _, event := range events {
		keeper.publisher.Publish(event)
	}
	return err
}

func (keeper *TimeKeeper) run(generation uint64, stopCh <-chan struct{}) {
	defer keeper.loops.Done()

	ticker := time.NewTicker(keeper.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			keeper.tick(generation)
		}
	}
}

// tick discards ticks from a loop that was stopped while this tick waited
// for the lock.
func (keeper *TimeKeeper) tick(generation uint64) {
	_ = keeper.apply(func(now time.Time) error {
		if generation != keeper.generation {
			return nil
		}
		keeper.tickLocked(now)
		return nil
	})
}

func (keeper *TimeKeeper) tickLocked(now time.Time) {
	if !keeper.phase.Running() {
		return
	}

	remaining := keeper.observeLocked(now)
	keeper.remaining = remaining
	if remaining != keeper.lastEvaluated {
		keeper.lastEvaluated = remaining
		if remaining > 0 {
			keeper.emitLocked(EventTimerTick, now, nil)
		}
		if triggered := alerts.Evaluate(remaining, keeper.total, keeper.config.Alerts); len(triggered) > 0 {
			keeper.emitLocked(EventTimerAlert, now, triggered)
		}
	}
	if remaining == 0 {
		keeper.completeLocked(now)
	}
}

// observeLocked derives whole seconds left from the deadline. A wall clock
// that moved backwards never raises the remaining value; the deadline is
// re-anchored at the last observed value instead.
func (keeper *TimeKeeper) observeLocked(now time.Time) int {
	remaining := int(keeper.deadline.Sub(now).Round(time.Second) / time.Second)
	if remaining < 0 {
		remaining = 0
	}
	if remaining > keeper.remaining {
		keeper.logger.Warn("clock moved backwards", "remaining", keeper.remaining, "computed", remaining)
		keeper.deadline = now.Add(seconds(keeper.remaining))
		remaining = keeper.remaining
	}
	return remaining
}

func (keeper *TimeKeeper) completeLocked(now time.Time) {
	keeper.stopTickerLocked()

	switch keeper.phase {
	case PhaseWorking:
		keeper.accountWorkLocked(now)
		keeper.emitLocked(EventWorkComplete, now, nil)
		keeper.emitLocked(EventPomodoroComplete, now, nil)
		keeper.logger.Info("pomodoro complete", "completed_today", keeper.completedToday)
		if err := keeper.startBreakLocked(now); err != nil {
			keeper.logger.Warn("break not started", "error", err)
			keeper.resetLocked()
		}
	case PhaseOnBreak:
		keeper.emitLocked(EventBreakComplete, now, nil)
		keeper.resetLocked()
		keeper.logger.Info("break complete")
	}
}

func (keeper *TimeKeeper) startBreakLocked(now time.Time) error {
	if keeper.config.BreakMinutes <= 0 {
		return fmt.Errorf("%w: break minutes %d", ErrInvalidConfiguration, keeper.config.BreakMinutes)
	}
	keeper.enterPhaseLocked(PhaseOnBreak, keeper.config.BreakMinutes, now)
	keeper.emitLocked(EventBreakStart, now, nil)
	return nil
}

func (keeper *TimeKeeper) enterPhaseLocked(phase Phase, minutes int, now time.Time) {
	keeper.phase = phase
	keeper.priorPhase = ""
	keeper.total = minutes * 60
	keeper.remaining = keeper.total
	keeper.lastEvaluated = keeper.total
	keeper.pausedRemaining = 0
	keeper.deadline = now.Add(seconds(keeper.total))
	keeper.startTickerLocked()
}

func (keeper *TimeKeeper) resetLocked() {
	keeper.phase = PhaseIdle
	keeper.priorPhase = ""
	keeper.remaining = 0
	keeper.total = 0
	keeper.pausedRemaining = 0
	keeper.deadline = time.Time{}
}

func (keeper *TimeKeeper) startTickerLocked() {
	keeper.stopTickerLocked()
	stopCh := make(chan struct{})
	keeper.stopCh = stopCh
	keeper.loops.Add(1)
	go keeper.run(keeper.generation, stopCh)
}

func (keeper *TimeKeeper) stopTickerLocked() {
	keeper.generation++
	if keeper.stopCh != nil {
		close(keeper.stopCh)
		keeper.stopCh = nil
	}
}

func (keeper *TimeKeeper) emitLocked(eventType EventType, now time.Time, triggered []alerts.Kind) {
	remaining := seconds(keeper.remaining)
	total := seconds(keeper.total)
	keeper.pending = append(keeper.pending, Event{
		Type:      eventType,
		Phase:     keeper.phase,
		Remaining: remaining,
		Total:     total,
		Progress:  progress(remaining, total),
		Alerts:    triggered,
		At:        now,
	})
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
