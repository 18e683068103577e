// Package overlay shows a small always-visible card while a break runs.
package overlay

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"kidsfocus/internal/core/timekeeper"
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Window manages the break card.
type Window struct {
	window     fyne.Window
	timerLabel *canvas.Text
	tipLabel   *widget.Label
	progress   *widget.ProgressBar
	skipButton *widget.Button
	tips       *tipPicker
	visible    bool

	// do runs UI updates on the fyne thread.
	do func(func())
}

// New creates a hidden break card. onSkip runs when the child skips the break.
func New(app fyne.App, onSkip func()) *Window {
	window := app.NewWindow("KidsFocus")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	title := canvas.NewText("Break time!", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 20

	timerLabel := canvas.NewText("--:--", color.NRGBA{R: 255, G: 214, B: 102, A: 255})
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 28

	tipLabel := widget.NewLabel("")
	tipLabel.Wrapping = fyne.TextWrapWord
	progress := widget.NewProgressBar()
	skipButton := widget.NewButton("Skip break", func() {
		if onSkip != nil {
			onSkip()
		}
	})

	background := canvas.NewRectangle(color.NRGBA{R: 46, G: 125, B: 110, A: 235})
	content := container.NewPadded(container.NewVBox(title, tipLabel, timerLabel, progress, skipButton))
	window.SetContent(container.NewStack(background, content))
	window.Resize(fyne.NewSize(280, 220))
	window.SetCloseIntercept(func() {})

	return &Window{
		window:     window,
		timerLabel: timerLabel,
		tipLabel:   tipLabel,
		progress:   progress,
		skipButton: skipButton,
		tips:       newTipPicker(),
		do:         fyne.Do,
	}
}

// Handle follows the break lifecycle. It is an event bus handler.
func (overlay *Window) Handle(event timekeeper.Event) error {
	switch event.Type {
	case timekeeper.EventBreakStart:
		overlay.do(func() { overlay.show(event.Remaining, event.Progress) })
	case timekeeper.EventTimerTick:
		if event.Phase == timekeeper.PhaseOnBreak {
			overlay.do(func() { overlay.setRemaining(event.Remaining, event.Progress) })
		}
	case timekeeper.EventBreakComplete, timekeeper.EventBreakSkipped, timekeeper.EventWorkStart:
		overlay.do(overlay.hide)
	}
	return nil
}

// Sync hides the card when the timer left the break by other means, such
// as Stop.
func (overlay *Window) Sync(snapshot timekeeper.Snapshot) {
	if snapshot.Phase == timekeeper.PhaseOnBreak {
		return
	}
	if snapshot.Phase == timekeeper.PhasePaused && snapshot.PriorPhase == timekeeper.PhaseOnBreak {
		return
	}
	overlay.do(overlay.hide)
}

// Visible reports whether the card is shown.
func (overlay *Window) Visible() bool {
	return overlay.visible
}

func (overlay *Window) show(remaining time.Duration, progress float64) {
	overlay.tipLabel.SetText(overlay.tips.next().Label())
	overlay.setRemaining(remaining, progress)
	overlay.visible = true
	overlay.window.CenterOnScreen()
	overlay.window.Show()
	overlay.window.RequestFocus()
}

func (overlay *Window) setRemaining(remaining time.Duration, progress float64) {
	overlay.timerLabel.Text = timekeeper.FormatClock(remaining)
	overlay.timerLabel.Refresh()
	overlay.progress.SetValue(progress)
}

func (overlay *Window) hide() {
	if !overlay.visible {
		return
	}
	overlay.visible = false
	overlay.window.Hide()
}
