// Package prefs is the compact preferences window.
package prefs

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Settings are the values edited in the preferences window.
type Settings struct {
	RestInterval  time.Duration
	PomodoroWork  time.Duration
	PomodoroBreak time.Duration
	Scale         float64
}

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	onSave   func(Settings)

	restEntry  *widget.Entry
	workEntry  *widget.Entry
	breakEntry *widget.Entry
	scale      *widget.Slider
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("doei Preferences")

	restEntry := widget.NewEntry()
	workEntry := widget.NewEntry()
	breakEntry := widget.NewEntry()

	restEntry.SetText(fmt.Sprintf("%d", int(settings.RestInterval.Minutes())))
	workEntry.SetText(fmt.Sprintf("%d", int(settings.PomodoroWork.Minutes())))
	breakEntry.SetText(fmt.Sprintf("%d", int(settings.PomodoroBreak.Minutes())))

	scale := widget.NewSlider(0.3, 2.0)
	scale.Value = settings.Scale
	scale.Step = 0.05

	form := container.NewVBox(
		widget.NewLabelWithStyle("Reminders", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Rest reminder every"), restEntry, widget.NewLabel("min")),
		widget.NewLabelWithStyle("Pomodoro", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Work phase"), workEntry, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Break phase"), breakEntry, widget.NewLabel("min")),
		widget.NewLabel("Pet size"),
		scale,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(360, 300))

	prefs := &Window{
		window:     window,
		settings:   settings,
		onSave:     onSave,
		restEntry:  restEntry,
		workEntry:  workEntry,
		breakEntry: breakEntry,
		scale:      scale,
	}

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = window.Hide

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.restEntry.SetText(fmt.Sprintf("%d", int(settings.RestInterval.Minutes())))
	prefs.workEntry.SetText(fmt.Sprintf("%d", int(settings.PomodoroWork.Minutes())))
	prefs.breakEntry.SetText(fmt.Sprintf("%d", int(settings.PomodoroBreak.Minutes())))
	prefs.scale.Value = settings.Scale
	prefs.scale.Refresh()
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.restEntry.Text); ok {
		settings.RestInterval = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.workEntry.Text); ok {
		settings.PomodoroWork = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.breakEntry.Text); ok {
		settings.PomodoroBreak = time.Duration(minutes) * time.Minute
	}
	settings.Scale = prefs.scale.Value

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
