package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"kidsfocus/internal/app"
	"kidsfocus/internal/core/model"
	"kidsfocus/internal/core/timekeeper"
	"kidsfocus/internal/platform"
	"kidsfocus/internal/storage"
	"kidsfocus/internal/transport/wsfeed"
	"kidsfocus/internal/ui/notify"
	"kidsfocus/internal/ui/overlay"
	"kidsfocus/internal/ui/preferences"
	"kidsfocus/internal/ui/tray"
	"kidsfocus/resources"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settings, err := storage.LoadSettings(app.Name)
	logger := app.NewLogger(os.Stderr, settings.LogLevel, false)
	if err != nil {
		logger.Warn("settings load failed, using defaults", "error", err)
	}

	guard, err := platform.AcquireSingleInstance(ctx, app.Name)
	if err != nil {
		if notifyErr := platform.NotifyRunning(ctx, app.Name); notifyErr != nil {
			logger.Error("single instance", "error", err, "notify", notifyErr)
		}
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	application, err := app.New(ctx, settings, app.Options{Logger: logger})
	if err != nil {
		logger.Error("start failed", "error", err)
		return
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("shutdown", "error", err)
		}
	}()
	keeper := application.Keeper

	fyneApp := fyneapp.NewWithID("com.kidsfocus.app")
	fyneApp.SetIcon(resources.MustIcon(resources.IconLogo))
	desktopApp, _ := fyneApp.(desktop.App)

	notifier := notify.New(fyneApp, settings.NotificationsEnabled)
	breakCard := overlay.New(fyneApp, keeper.SkipBreak)

	autostart := platform.NewAutostart(app.Name)
	syncAutostart := func(enabled bool) {
		execPath, err := os.Executable()
		if err != nil {
			logger.Warn("resolve executable", "error", err)
			return
		}
		logIfFailed(logger, "autostart", autostart.Apply(ctx, enabled, execPath))
	}
	syncAutostart(settings.LaunchAtLogin)

	prefsWindow := preferences.New(fyneApp, settings, func(updated model.Settings) {
		if updated.LaunchAtLogin != application.Settings.LaunchAtLogin {
			syncAutostart(updated.LaunchAtLogin)
		}
		if err := application.ApplySettings(updated); err != nil {
			if errors.Is(err, timekeeper.ErrConfigLocked) {
				logger.Info("durations apply after the current session", "error", err)
			} else {
				logger.Warn("apply settings", "error", err)
			}
		}
		notifier.SetEnabled(updated.NotificationsEnabled)
		if err := storage.SaveSettings(app.Name, updated); err != nil {
			logger.Warn("save settings", "error", err)
		}
	})

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnStartWork:  func() { logIfFailed(logger, "start work", keeper.StartWork()) },
		OnStartBreak: func() { logIfFailed(logger, "start break", keeper.StartBreak()) },
		OnTogglePause: func() {
			if keeper.Snapshot().Phase == timekeeper.PhasePaused {
				keeper.Resume()
				return
			}
			keeper.Pause()
		},
		OnSkipBreak: keeper.SkipBreak,
		OnStop:      keeper.Stop,
		OnPreset: func(id string) {
			if err := keeper.SetPreset(id); err != nil {
				logger.Info("preset not applied", "preset", id, "error", err)
				return
			}
			updated := application.Settings
			updated.DefaultPreset = id
			application.Settings = updated
			prefsWindow.UpdateSettings(updated)
			logIfFailed(logger, "save settings", storage.SaveSettings(app.Name, updated))
		},
		OnPreferences: prefsWindow.Show,
		OnQuit:        fyneApp.Quit,
	})

	lastPhase := timekeeper.Phase("")
	refreshUI := func() {
		snapshot := keeper.Snapshot()
		trayManager.Update(snapshot)
		breakCard.Sync(snapshot)
		if desktopApp != nil && snapshot.Phase != lastPhase {
			desktopApp.SetSystemTrayIcon(resources.TrayIcon(snapshot))
		}
		lastPhase = snapshot.Phase
	}
	application.Bus.Subscribe("tray", func(timekeeper.Event) error {
		fyne.Do(refreshUI)
		return nil
	})
	application.Bus.Subscribe("overlay", breakCard.Handle)
	application.Bus.Subscribe("notify", notifier.Handle)
	refreshUI()

	go guard.Serve(ctx, func() { fyne.Do(prefsWindow.Show) }, logger)

	watcher := platform.NewWatcher(platform.NewIdleProvider(), func(reason string) {
		logger.Debug("restoring timer", "reason", reason)
		keeper.Refresh()
	}, platform.WatcherOptions{Logger: logger})
	go func() {
		_ = watcher.Run(ctx)
	}()

	if settings.FeedAddress != "" {
		feed := wsfeed.New(settings.FeedAddress, keeper, application.Bus, logger)
		go func() {
			if err := feed.Run(ctx); err != nil {
				logger.Error("event feed stopped", "error", err)
			}
		}()
	}

	if desktopApp == nil {
		prefsWindow.Show()
	}
	fyneApp.Run()
}

func logIfFailed(logger *slog.Logger, action string, err error) {
	if err != nil {
		logger.Info("action failed", "action", action, "error", err)
	}
}
