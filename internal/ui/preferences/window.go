package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	onSave   func(Settings)

	presetEntries []*widget.Entry
	notify        *widget.Check
	keepOnTop     *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Tempo Settings")

	prefs := &Window{
		window:   window,
		settings: settings,
		onSave:   onSave,
	}

	rows := []fyne.CanvasObject{
		widget.NewLabelWithStyle("Countdown presets", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	}
	for i, preset := range settings.Presets {
		entry := widget.NewEntry()
		entry.SetText(fmt.Sprintf("%d", int(preset.Minutes())))
		prefs.presetEntries = append(prefs.presetEntries, entry)
		rows = append(rows, container.NewHBox(
			widget.NewLabel(fmt.Sprintf("Preset %d", i+1)), entry, widget.NewLabel("min"),
		))
	}

	prefs.notify = widget.NewCheck("Notify when a countdown finishes", nil)
	prefs.notify.SetChecked(settings.NotifyOnComplete)

	prefs.keepOnTop = widget.NewCheck("Keep timer window on top", nil)
	prefs.keepOnTop.SetChecked(settings.KeepOnTop)

	rows = append(rows, prefs.notify, prefs.keepOnTop)
	form := container.NewVBox(rows...)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(360, 320))

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	presets := make([]time.Duration, 0, len(prefs.presetEntries))
	for i, entry := range prefs.presetEntries {
		if minutes, ok := parsePositiveInt(entry.Text); ok {
			presets = append(presets, time.Duration(minutes)*time.Minute)
		} else if i < len(settings.Presets) {
			presets = append(presets, settings.Presets[i])
		}
	}
	if len(presets) > 0 {
		settings.Presets = presets
	}

	settings.NotifyOnComplete = prefs.notify.Checked
	settings.KeepOnTop = prefs.keepOnTop.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
