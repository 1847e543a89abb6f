package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"tempo/internal/core/model"
	"tempo/internal/ui/display"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStartPreset    func(time.Duration)
	OnStartStopwatch func()
	OnTogglePause    func()
	OnCancel         func()
	OnPreferences    func()
	OnQuit           func()
}

// Manager handles system tray state.
type Manager struct {
	app           desktop.App
	callbacks     Callbacks
	presets       []time.Duration
	statusItem    *fyne.MenuItem
	startItem     *fyne.MenuItem
	stopwatchItem *fyne.MenuItem
	pauseItem     *fyne.MenuItem
	cancelItem    *fyne.MenuItem
	state         model.State
}

// New creates a tray manager with the provided callbacks and countdown
// presets.
func New(app desktop.App, presets []time.Duration, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		presets:   presets,
		state:     model.Idle(),
	}

	manager.statusItem = fyne.NewMenuItem("Idle", nil)
	manager.statusItem.Disabled = true

	manager.startItem = fyne.NewMenuItem("Start countdown", nil)
	manager.startItem.ChildMenu = manager.buildPresetMenu()

	manager.stopwatchItem = fyne.NewMenuItem("Start stopwatch", func() {
		if manager.state.IsStopwatch() {
			if manager.callbacks.OnCancel != nil {
				manager.callbacks.OnCancel()
			}
		} else if manager.callbacks.OnStartStopwatch != nil {
			manager.callbacks.OnStartStopwatch()
		}
	})

	manager.pauseItem = fyne.NewMenuItem("Pause", func() {
		if manager.callbacks.OnTogglePause != nil {
			manager.callbacks.OnTogglePause()
		}
	})
	manager.pauseItem.Disabled = true

	manager.cancelItem = fyne.NewMenuItem("Cancel timer", func() {
		if manager.callbacks.OnCancel != nil {
			manager.callbacks.OnCancel()
		}
	})
	manager.cancelItem.Disabled = true

	manager.refreshMenu()
	return manager
}

// SetPresets replaces the countdown preset entries.
func (manager *Manager) SetPresets(presets []time.Duration) {
	manager.presets = presets
	manager.startItem.ChildMenu = manager.buildPresetMenu()
	manager.refreshMenu()
}

// Apply renders a timer state in the menu. Must be called on the fyne UI
// thread.
func (manager *Manager) Apply(state model.State) {
	manager.state = state

	switch state.Phase {
	case model.PhaseRunning:
		manager.statusItem.Label = fmt.Sprintf("Countdown %s", display.FormatState(state))
		manager.pauseItem.Label = "Pause"
	case model.PhasePaused:
		manager.statusItem.Label = fmt.Sprintf("Paused %s", display.FormatState(state))
		manager.pauseItem.Label = "Resume"
	case model.PhaseStopwatchRunning:
		manager.statusItem.Label = fmt.Sprintf("Stopwatch %s", display.FormatState(state))
		manager.pauseItem.Label = "Pause"
	case model.PhaseStopwatchPaused:
		manager.statusItem.Label = fmt.Sprintf("Stopwatch paused %s", display.FormatState(state))
		manager.pauseItem.Label = "Resume"
	case model.PhaseCompleted:
		manager.statusItem.Label = "Done"
		manager.pauseItem.Label = "Pause"
	default:
		manager.statusItem.Label = "Idle"
		manager.pauseItem.Label = "Pause"
	}

	manager.startItem.Disabled = state.IsActive()
	manager.pauseItem.Disabled = !state.IsActive()
	manager.cancelItem.Disabled = !state.IsActive()
	if state.IsStopwatch() {
		manager.stopwatchItem.Label = "Stop stopwatch"
		manager.stopwatchItem.Disabled = false
	} else {
		manager.stopwatchItem.Label = "Start stopwatch"
		manager.stopwatchItem.Disabled = state.IsActive()
	}

	manager.refreshMenu()
}

func (manager *Manager) buildPresetMenu() *fyne.Menu {
	items := make([]*fyne.MenuItem, 0, len(manager.presets))
	for _, preset := range manager.presets {
		duration := preset
		items = append(items, fyne.NewMenuItem(presetLabel(duration), func() {
			if manager.callbacks.OnStartPreset != nil {
				manager.callbacks.OnStartPreset(duration)
			}
		}))
	}
	return fyne.NewMenu("", items...)
}

func presetLabel(duration time.Duration) string {
	minutes := int(duration.Minutes())
	switch {
	case duration >= time.Hour:
		return fmt.Sprintf("%d h %d min", minutes/60, minutes%60)
	case minutes == 1:
		return "1 minute"
	default:
		return fmt.Sprintf("%d minutes", minutes)
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Tempo",
		manager.statusItem,
		manager.startItem,
		manager.stopwatchItem,
		manager.pauseItem,
		manager.cancelItem,
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}
