package tray

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kidsfocus/internal/core/timekeeper"
)

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Ready", StatusLabel(timekeeper.Snapshot{Phase: timekeeper.PhaseIdle}))
	assert.Equal(t, "Focus 24:59", StatusLabel(timekeeper.Snapshot{
		Phase:     timekeeper.PhaseWorking,
		Remaining: 1499 * time.Second,
	}))
	assert.Equal(t, "Break 04:00 · 2 today", StatusLabel(timekeeper.Snapshot{
		Phase:          timekeeper.PhaseOnBreak,
		Remaining:      4 * time.Minute,
		CompletedToday: 2,
	}))
}

func TestUpdateTogglesItems(t *testing.T) {
	var skipped, preset int
	var presetID string
	manager := New(nil, Callbacks{
		OnSkipBreak: func() { skipped++ },
		OnPreset: func(id string) {
			preset++
			presetID = id
		},
	})

	assert.False(t, manager.startItem.Disabled)
	assert.True(t, manager.skipItem.Disabled)
	assert.True(t, manager.pauseItem.Disabled)

	manager.Update(timekeeper.Snapshot{Phase: timekeeper.PhaseOnBreak, Remaining: time.Minute})
	assert.True(t, manager.startItem.Disabled)
	assert.False(t, manager.skipItem.Disabled)
	assert.Equal(t, "Pause", manager.pauseItem.Label)

	manager.Update(timekeeper.Snapshot{Phase: timekeeper.PhasePaused, Remaining: time.Minute})
	assert.Equal(t, "Resume", manager.pauseItem.Label)
	assert.True(t, manager.skipItem.Disabled)

	manager.skipItem.Action()
	assert.Equal(t, 1, skipped)

	// nil callbacks are ignored
	manager.stopItem.Action()

	manager.presetItem.ChildMenu.Items[1].Action()
	assert.Equal(t, 1, preset)
	assert.Equal(t, "50-10", presetID)
}
