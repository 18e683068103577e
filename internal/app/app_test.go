package app

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsfocus/internal/core/alerts"
	"kidsfocus/internal/core/model"
	"kidsfocus/internal/core/rewards"
	"kidsfocus/internal/core/timekeeper"
	"kidsfocus/internal/storage"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestApp(t *testing.T, settings model.Settings) (*App, *stepClock) {
	t.Helper()
	clock := &stepClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	application, err := New(context.Background(), settings, Options{
		Clock:        clock,
		Location:     time.UTC,
		TickInterval: time.Hour,
		Store:        storage.NewMemoryStore(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })
	return application, clock
}

func customSettings(work, brk int) model.Settings {
	settings := model.DefaultSettings()
	settings.DefaultPreset = model.PresetCustom
	settings.WorkMinutes = work
	settings.BreakMinutes = brk
	return settings
}

func TestCompletedWorkReachesLedgerHistoryAndBus(t *testing.T) {
	application, clock := newTestApp(t, customSettings(1, 5))
	ctx := context.Background()

	profile, err := application.Ledger.CreateProfile(ctx, "Ana")
	require.NoError(t, err)
	require.NoError(t, application.Ledger.SelectProfile(ctx, profile.ID))

	var mu sync.Mutex
	var types []timekeeper.EventType
	application.Bus.Subscribe("test", func(event timekeeper.Event) error {
		mu.Lock()
		defer mu.Unlock()
		if event.Type != timekeeper.EventTimerTick {
			types = append(types, event.Type)
		}
		return nil
	})

	require.NoError(t, application.Keeper.StartWork())
	clock.Advance(61 * time.Second)
	application.Keeper.Tick()

	mu.Lock()
	assert.Equal(t, []timekeeper.EventType{
		timekeeper.EventWorkStart,
		timekeeper.EventWorkComplete,
		timekeeper.EventPomodoroComplete,
		timekeeper.EventBreakStart,
	}, types)
	mu.Unlock()

	active, ok := application.Ledger.ActiveProfile()
	require.True(t, ok)
	assert.Equal(t, rewards.PointsCompletePomodoro+rewards.PointsFirstOfDay, active.Points)
	assert.Equal(t, 1, active.TotalPomodoros)
	// streak dates follow the injected clock, not the machine's
	assert.Equal(t, "2026-03-02", active.LastActiveDate)

	records, err := application.History.Records(ctx, profile.ID)
	require.NoError(t, err)
	require.Len(t, records, 1, "record stamped with the injected clock must survive pruning")
	assert.Equal(t, 1, records[0].WorkMinutes)
	assert.WithinDuration(t, time.Date(2026, 3, 2, 9, 1, 1, 0, time.UTC), records[0].Timestamp, 0)

	date, err := application.Days.LastActiveDate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", date)
}

func TestApplySettings(t *testing.T) {
	application, _ := newTestApp(t, model.DefaultSettings())

	updated := customSettings(20, 4)
	updated.Alerts = alerts.NewSet(alerts.FiveMinutes)
	require.NoError(t, application.ApplySettings(updated))

	snapshot := application.Keeper.Snapshot()
	assert.Equal(t, model.PresetCustom, snapshot.Preset)
	assert.Equal(t, 20, snapshot.WorkMinutes)
	assert.Equal(t, 4, snapshot.BreakMinutes)
	assert.Equal(t, updated.Alerts, snapshot.Alerts)

	long := model.DefaultSettings()
	long.DefaultPreset = model.PresetLong
	require.NoError(t, application.ApplySettings(long))
	assert.Equal(t, 50, application.Keeper.Snapshot().WorkMinutes)
	assert.Equal(t, long, application.Settings)
}

func TestApplySettingsWhileRunningKeepsDurations(t *testing.T) {
	application, _ := newTestApp(t, model.DefaultSettings())
	require.NoError(t, application.Keeper.StartWork())

	updated := customSettings(10, 2)
	updated.Alerts = alerts.NewSet(alerts.FiftyPercent)
	err := application.ApplySettings(updated)

	assert.ErrorIs(t, err, timekeeper.ErrConfigLocked)
	snapshot := application.Keeper.Snapshot()
	assert.Equal(t, 25, snapshot.WorkMinutes)
	assert.Equal(t, updated.Alerts, snapshot.Alerts)
}

func TestNewFailsOnUnknownStore(t *testing.T) {
	settings := model.DefaultSettings()
	settings.Storage.Type = "floppy"

	_, err := New(context.Background(), settings, Options{})
	assert.ErrorContains(t, err, "open store")
}

func TestCloseIsSafeTwice(t *testing.T) {
	application, err := New(context.Background(), model.DefaultSettings(), Options{Store: storage.NewMemoryStore()})
	require.NoError(t, err)

	require.NoError(t, application.Close())
	require.NoError(t, application.Close())
}

func TestLogger(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))

	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", true)
	logger.Info("hidden")
	logger.Warn("shown", "phase", "working")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"phase":"working"`)
}
