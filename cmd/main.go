package main

import (
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"tempo/internal/core/engine"
	"tempo/internal/core/model"
	"tempo/internal/platform"
	"tempo/internal/storage"
	"tempo/internal/ui/display"
	"tempo/internal/ui/preferences"
	"tempo/internal/ui/tray"
)

const appName = "Tempo"

func main() {
	logger := zap.Must(zap.NewProduction())
	defer func() {
		_ = logger.Sync()
	}()

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		logger.Warn("another instance is already running", zap.Error(err))
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID("com.tempo.app")
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error("system tray unsupported on this platform")
		return
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("Tempo is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("load settings", zap.Error(err))
	}

	var notifyOnComplete atomic.Bool
	notifyOnComplete.Store(settings.NotifyOnComplete)

	eng := engine.New(engine.Config{})

	displayWindow := display.New(fyneApp, display.Config{KeepOnTop: settings.KeepOnTop}, display.Callbacks{
		OnTogglePause: func() { togglePause(eng, logger) },
		OnCancel:      func() { dismiss(eng) },
	})

	var trayManager *tray.Manager
	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		notifyOnComplete.Store(updated.NotifyOnComplete)
		trayManager.SetPresets(updated.Presets)
		if err := storage.SaveSettings(appName, updated); err != nil {
			logger.Warn("save settings", zap.Error(err))
		}
	})

	trayManager = tray.New(desktopApp, settings.Presets, tray.Callbacks{
		OnStartPreset: func(duration time.Duration) {
			if err := eng.StartCountdown(duration); err != nil {
				logger.Info("start countdown rejected", zap.Duration("duration", duration), zap.Error(err))
			}
		},
		OnStartStopwatch: func() {
			if err := eng.StartStopwatch(); err != nil {
				logger.Info("start stopwatch rejected", zap.Error(err))
			}
		},
		OnTogglePause: func() { togglePause(eng, logger) },
		OnCancel:      func() { dismiss(eng) },
		OnPreferences: func() { prefsWindow.Show() },
		OnQuit: func() {
			eng.Close()
			fyneApp.Quit()
		},
	})

	events := eng.Subscribe(8)
	go func() {
		previous := model.Idle()
		for state := range events {
			current := state
			fyne.Do(func() {
				displayWindow.Apply(current)
				trayManager.Apply(current)
			})
			if current.IsCompleted() && !previous.IsCompleted() && notifyOnComplete.Load() {
				fyneApp.SendNotification(fyne.NewNotification(appName, "Countdown finished"))
			}
			previous = current
		}
	}()

	fyneApp.Run()
}

// togglePause pauses or resumes whichever timer mode is active. With
// nothing active there is nothing to toggle and the error is only logged.
func togglePause(eng *engine.Engine, logger *zap.Logger) {
	var err error
	switch eng.State().Phase {
	case model.PhaseRunning:
		err = eng.PauseCountdown()
	case model.PhasePaused:
		err = eng.ResumeCountdown()
	case model.PhaseStopwatchRunning:
		err = eng.PauseStopwatch()
	case model.PhaseStopwatchPaused:
		err = eng.ResumeStopwatch()
	default:
		return
	}
	if err != nil {
		logger.Debug("pause toggle rejected", zap.Error(err))
	}
}

// dismiss clears the timer from any state. Cancel covers the active
// phases; Reset is the infallible fallback that also dismisses a
// Completed readout.
func dismiss(eng *engine.Engine) {
	if err := eng.Cancel(); err != nil {
		eng.Reset()
	}
}
