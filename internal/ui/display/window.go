package display

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"tempo/internal/core/model"
)

// Config defines display visuals.
type Config struct {
	KeepOnTop bool
}

// Callbacks defines handlers for the display controls.
type Callbacks struct {
	OnTogglePause func()
	OnCancel      func()
}

// Window is the small floating timer readout. It renders whatever state it
// is given; all timing decisions stay with the engine.
type Window struct {
	app         fyne.App
	window      fyne.Window
	config      Config
	timeLabel   *canvas.Text
	modeLabel   *canvas.Text
	progress    *widget.ProgressBar
	pauseButton *widget.Button
	stopButton  *widget.Button
	callbacks   Callbacks
	visible     bool
}

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates the floating display window, hidden until a timer starts.
func New(app fyne.App, config Config, callbacks Callbacks) *Window {
	window := app.NewWindow("Tempo")
	if driver, ok := app.Driver().(splashWindowDriver); ok && config.KeepOnTop {
		// Splash windows are undecorated and stay above normal windows.
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{R: 24, G: 24, B: 28, A: 235})

	timeLabel := canvas.NewText("--:--", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	timeLabel.Alignment = fyne.TextAlignCenter
	timeLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timeLabel.TextSize = 36

	modeLabel := canvas.NewText("", color.NRGBA{R: 255, G: 255, B: 255, A: 200})
	modeLabel.Alignment = fyne.TextAlignCenter
	modeLabel.TextSize = 12

	progress := widget.NewProgressBar()
	progress.TextFormatter = func() string { return "" }

	display := &Window{
		app:       app,
		window:    window,
		config:    config,
		timeLabel: timeLabel,
		modeLabel: modeLabel,
		progress:  progress,
		callbacks: callbacks,
	}

	display.pauseButton = widget.NewButton("Pause", func() {
		if display.callbacks.OnTogglePause != nil {
			display.callbacks.OnTogglePause()
		}
	})
	display.stopButton = widget.NewButton("Cancel", func() {
		if display.callbacks.OnCancel != nil {
			display.callbacks.OnCancel()
		}
	})

	buttons := container.NewGridWithColumns(2, display.pauseButton, display.stopButton)
	content := container.NewVBox(modeLabel, timeLabel, progress, buttons)
	window.SetContent(container.NewMax(background, content))
	window.Resize(fyne.NewSize(220, 140))
	window.SetCloseIntercept(func() {
		if display.callbacks.OnCancel != nil {
			display.callbacks.OnCancel()
		}
	})

	return display
}

// Apply renders a timer state. Must be called on the fyne UI thread.
func (display *Window) Apply(state model.State) {
	display.timeLabel.Text = FormatState(state)
	display.progress.SetValue(state.Progress())

	switch state.Phase {
	case model.PhaseRunning:
		display.modeLabel.Text = "countdown"
		display.pauseButton.SetText("Pause")
		display.pauseButton.Enable()
	case model.PhasePaused:
		display.modeLabel.Text = "paused"
		display.pauseButton.SetText("Resume")
		display.pauseButton.Enable()
	case model.PhaseStopwatchRunning:
		display.modeLabel.Text = "stopwatch"
		display.pauseButton.SetText("Pause")
		display.pauseButton.Enable()
	case model.PhaseStopwatchPaused:
		display.modeLabel.Text = "stopwatch paused"
		display.pauseButton.SetText("Resume")
		display.pauseButton.Enable()
	case model.PhaseCompleted:
		display.modeLabel.Text = "done"
		display.pauseButton.Disable()
	default:
		display.modeLabel.Text = ""
		display.pauseButton.Disable()
	}

	display.timeLabel.Refresh()
	display.modeLabel.Refresh()

	if state.IsActive() || state.IsCompleted() {
		display.show()
	} else {
		display.hide()
	}
}

func (display *Window) show() {
	if display.visible {
		return
	}
	display.visible = true
	display.window.Show()
}

func (display *Window) hide() {
	if !display.visible {
		return
	}
	display.visible = false
	display.window.Hide()
}
