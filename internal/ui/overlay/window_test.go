package overlay

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsfocus/internal/core/timekeeper"
)

func newTestWindow(t *testing.T, onSkip func()) *Window {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)
	overlay := New(app, onSkip)
	overlay.do = func(fn func()) { fn() }
	overlay.tips.intn = func(int) int { return 0 }
	return overlay
}

func TestBreakLifecycle(t *testing.T) {
	overlay := newTestWindow(t, nil)

	require.NoError(t, overlay.Handle(timekeeper.Event{
		Type:      timekeeper.EventBreakStart,
		Phase:     timekeeper.PhaseOnBreak,
		Remaining: 5 * time.Minute,
		Total:     5 * time.Minute,
	}))
	assert.True(t, overlay.Visible())
	assert.Equal(t, "05:00", overlay.timerLabel.Text)
	assert.Equal(t, "🏃 Stand up and stretch up high!", overlay.tipLabel.Text)

	require.NoError(t, overlay.Handle(timekeeper.Event{
		Type:      timekeeper.EventTimerTick,
		Phase:     timekeeper.PhaseOnBreak,
		Remaining: 150 * time.Second,
		Progress:  0.5,
	}))
	assert.Equal(t, "02:30", overlay.timerLabel.Text)
	assert.InDelta(t, 0.5, overlay.progress.Value, 1e-9)

	// work ticks never touch the card
	require.NoError(t, overlay.Handle(timekeeper.Event{Type: timekeeper.EventTimerTick, Phase: timekeeper.PhaseWorking, Remaining: time.Second}))
	assert.Equal(t, "02:30", overlay.timerLabel.Text)

	require.NoError(t, overlay.Handle(timekeeper.Event{Type: timekeeper.EventBreakComplete}))
	assert.False(t, overlay.Visible())
}

func TestSkipButtonAndSync(t *testing.T) {
	skipped := 0
	overlay := newTestWindow(t, func() { skipped++ })

	require.NoError(t, overlay.Handle(timekeeper.Event{Type: timekeeper.EventBreakStart, Remaining: time.Minute}))
	test.Tap(overlay.skipButton)
	assert.Equal(t, 1, skipped)

	overlay.Sync(timekeeper.Snapshot{Phase: timekeeper.PhasePaused, PriorPhase: timekeeper.PhaseOnBreak})
	assert.True(t, overlay.Visible())

	overlay.Sync(timekeeper.Snapshot{Phase: timekeeper.PhaseIdle})
	assert.False(t, overlay.Visible())
}
