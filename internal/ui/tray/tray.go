package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"kidsfocus/internal/core/model"
	"kidsfocus/internal/core/timekeeper"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStartWork   func()
	OnStartBreak  func()
	OnTogglePause func()
	OnSkipBreak   func()
	OnStop        func()
	OnPreset      func(id string)
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	startItem  *fyne.MenuItem
	breakItem  *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	skipItem   *fyne.MenuItem
	stopItem   *fyne.MenuItem
	presetItem *fyne.MenuItem
	callbacks  Callbacks
	snapshot   timekeeper.Snapshot
}

// New creates a tray manager with the provided callbacks. app may be nil
// when no system tray is available.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Ready", nil)
	manager.statusItem.Disabled = true

	manager.startItem = fyne.NewMenuItem("Start focus", call(callbacks.OnStartWork))
	manager.breakItem = fyne.NewMenuItem("Start break", call(callbacks.OnStartBreak))
	manager.pauseItem = fyne.NewMenuItem("Pause", call(callbacks.OnTogglePause))
	manager.skipItem = fyne.NewMenuItem("Skip break", call(callbacks.OnSkipBreak))
	manager.stopItem = fyne.NewMenuItem("Stop", call(callbacks.OnStop))

	var presetItems []*fyne.MenuItem
	for _, preset := range model.Presets() {
		if preset.ID == model.PresetCustom {
			continue
		}
		id := preset.ID
		label := fmt.Sprintf("%s (%d/%d min)", preset.Name, preset.WorkMinutes, preset.BreakMinutes)
		presetItems = append(presetItems, fyne.NewMenuItem(label, func() {
			if manager.callbacks.OnPreset != nil {
				manager.callbacks.OnPreset(id)
			}
		}))
	}
	manager.presetItem = fyne.NewMenuItem("Preset", nil)
	manager.presetItem.ChildMenu = fyne.NewMenu("", presetItems...)

	manager.Update(timekeeper.Snapshot{Phase: timekeeper.PhaseIdle})
	return manager
}

// Update refreshes labels and enabled items from snapshot.
func (manager *Manager) Update(snapshot timekeeper.Snapshot) {
	manager.snapshot = snapshot
	phase := snapshot.Phase

	manager.statusItem.Label = StatusLabel(snapshot)
	manager.startItem.Disabled = phase != timekeeper.PhaseIdle
	manager.breakItem.Disabled = phase != timekeeper.PhaseIdle
	manager.presetItem.Disabled = phase != timekeeper.PhaseIdle
	manager.pauseItem.Disabled = phase == timekeeper.PhaseIdle
	manager.stopItem.Disabled = phase == timekeeper.PhaseIdle
	manager.skipItem.Disabled = phase != timekeeper.PhaseOnBreak
	if phase == timekeeper.PhasePaused {
		manager.pauseItem.Label = "Resume"
	} else {
		manager.pauseItem.Label = "Pause"
	}
	manager.refreshMenu()
}

// StatusLabel renders the tray status line.
func StatusLabel(snapshot timekeeper.Snapshot) string {
	var status string
	switch snapshot.Phase {
	case timekeeper.PhaseWorking:
		status = "Focus " + snapshot.Display()
	case timekeeper.PhaseOnBreak:
		status = "Break " + snapshot.Display()
	case timekeeper.PhasePaused:
		status = "Paused " + snapshot.Display()
	default:
		status = "Ready"
	}
	if snapshot.CompletedToday > 0 {
		status = fmt.Sprintf("%s · %d today", status, snapshot.CompletedToday)
	}
	return status
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("KidsFocus",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.breakItem,
		manager.pauseItem,
		manager.skipItem,
		manager.stopItem,
		manager.presetItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", call(manager.callbacks.OnPreferences)),
		fyne.NewMenuItem("Quit", call(manager.callbacks.OnQuit)),
	))
}

func call(handler func()) func() {
	return func() {
		if handler != nil {
			handler()
		}
	}
}
