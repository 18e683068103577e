// Package notify turns session events into desktop notifications.
package notify

import (
	"strings"
	"sync/atomic"

	"fyne.io/fyne/v2"

	"kidsfocus/internal/core/alerts"
	"kidsfocus/internal/core/timekeeper"
)

// Sender delivers a notification. fyne.App satisfies it.
type Sender interface {
	SendNotification(notification *fyne.Notification)
}

// Notifier is an event bus handler.
type Notifier struct {
	sender  Sender
	enabled atomic.Bool
}

func New(sender Sender, enabled bool) *Notifier {
	notifier := &Notifier{sender: sender}
	notifier.enabled.Store(enabled)
	return notifier
}

func (notifier *Notifier) SetEnabled(enabled bool) {
	notifier.enabled.Store(enabled)
}

// Handle sends a notification for events a child should notice.
func (notifier *Notifier) Handle(event timekeeper.Event) error {
	if !notifier.enabled.Load() {
		return nil
	}
	title, content, ok := Message(event)
	if !ok {
		return nil
	}
	notifier.sender.SendNotification(fyne.NewNotification(title, content))
	return nil
}

// Message returns the notification text for event, if any.
func Message(event timekeeper.Event) (string, string, bool) {
	switch event.Type {
	case timekeeper.EventPomodoroComplete:
		return "Great job!", "You finished a focus session and earned points.", true
	case timekeeper.EventBreakStart:
		return "Break time", "Stretch, drink some water and rest for " + timekeeper.FormatClock(event.Total) + ".", true
	case timekeeper.EventBreakComplete:
		return "Break is over", "Ready for another focus session?", true
	case timekeeper.EventTimerAlert:
		return "Keep going!", alertText(event.Alerts), true
	}
	return "", "", false
}

func alertText(kinds []alerts.Kind) string {
	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		switch kind {
		case alerts.OneMinute:
			parts = append(parts, "one minute left")
		case alerts.FiveMinutes:
			parts = append(parts, "five minutes left")
		case alerts.FiftyPercent:
			parts = append(parts, "halfway there")
		case alerts.TwentyFivePercent:
			parts = append(parts, "almost done")
		}
	}
	if len(parts) == 0 {
		return "Time check."
	}
	text := strings.Join(parts, ", ")
	return strings.ToUpper(text[:1]) + text[1:] + "."
}
