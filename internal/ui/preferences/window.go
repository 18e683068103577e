package preferences

import (
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"kidsfocus/internal/core/alerts"
	"kidsfocus/internal/core/model"
)

var alertLabels = map[alerts.Kind]string{
	alerts.OneMinute:         "1 minute left",
	alerts.FiveMinutes:       "5 minutes left",
	alerts.FiftyPercent:      "Halfway",
	alerts.TwentyFivePercent: "25% left",
}

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      model.Settings
	onSave        func(model.Settings)
	preset        *widget.Select
	workEntry     *widget.Entry
	breakEntry    *widget.Entry
	alertChecks   map[alerts.Kind]*widget.Check
	notifications *widget.Check
	launchAtLogin *widget.Check
	saveButton    *widget.Button
	presetIDs     map[string]string
}

// New creates a preferences window.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings)) *Window {
	window := app.NewWindow("KidsFocus Settings")

	presetIDs := make(map[string]string)
	var presetNames []string
	for _, preset := range model.Presets() {
		presetIDs[preset.Name] = preset.ID
		presetNames = append(presetNames, preset.Name)
	}

	workEntry := widget.NewEntry()
	breakEntry := widget.NewEntry()
	preset := widget.NewSelect(presetNames, nil)

	alertChecks := make(map[alerts.Kind]*widget.Check, len(alerts.AllKinds))
	alertBox := container.NewVBox()
	for _, kind := range alerts.AllKinds {
		check := widget.NewCheck(alertLabels[kind], nil)
		alertChecks[kind] = check
		alertBox.Add(check)
	}

	notifications := widget.NewCheck("Desktop notifications", nil)
	launchAtLogin := widget.NewCheck("Start with the computer", nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Preset"), preset),
		container.NewHBox(widget.NewLabel("Focus"), workEntry, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Break"), breakEntry, widget.NewLabel("min")),
		widget.NewLabelWithStyle("Alerts", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		alertBox,
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		notifications,
		launchAtLogin,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", func() { window.Hide() })
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 460))
	window.SetCloseIntercept(window.Hide)

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		preset:        preset,
		workEntry:     workEntry,
		breakEntry:    breakEntry,
		alertChecks:   alertChecks,
		notifications: notifications,
		launchAtLogin: launchAtLogin,
		saveButton:    saveButton,
		presetIDs:     presetIDs,
	}
	preset.OnChanged = prefs.handlePresetChange
	saveButton.OnTapped = prefs.handleSave
	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	prefs.workEntry.SetText(strconv.Itoa(settings.WorkMinutes))
	prefs.breakEntry.SetText(strconv.Itoa(settings.BreakMinutes))
	if preset, ok := model.FindPreset(settings.DefaultPreset); ok {
		prefs.preset.SetSelected(preset.Name)
	}
	for kind, check := range prefs.alertChecks {
		check.SetChecked(settings.Alerts.Has(kind))
	}
	prefs.notifications.SetChecked(settings.NotificationsEnabled)
	prefs.launchAtLogin.SetChecked(settings.LaunchAtLogin)
}

// Settings returns the last saved values.
func (prefs *Window) Settings() model.Settings {
	return prefs.settings
}

// handlePresetChange fills the minute entries from a fixed preset and
// locks them; custom unlocks them.
func (prefs *Window) handlePresetChange(name string) {
	preset, ok := model.FindPreset(prefs.presetIDs[name])
	if !ok {
		return
	}
	if preset.ID == model.PresetCustom {
		prefs.workEntry.Enable()
		prefs.breakEntry.Enable()
		return
	}
	prefs.workEntry.SetText(strconv.Itoa(preset.WorkMinutes))
	prefs.breakEntry.SetText(strconv.Itoa(preset.BreakMinutes))
	prefs.workEntry.Disable()
	prefs.breakEntry.Disable()
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if id, ok := prefs.presetIDs[prefs.preset.Selected]; ok {
		settings.DefaultPreset = id
	}
	if minutes, ok := parsePositiveInt(prefs.workEntry.Text); ok {
		settings.WorkMinutes = minutes
	}
	if minutes, ok := parsePositiveInt(prefs.breakEntry.Text); ok {
		settings.BreakMinutes = minutes
	}

	var enabled alerts.Set
	for kind, check := range prefs.alertChecks {
		enabled = enabled.With(kind, check.Checked)
	}
	settings.Alerts = enabled
	settings.NotificationsEnabled = prefs.notifications.Checked
	settings.LaunchAtLogin = prefs.launchAtLogin.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
