package timekeeper

import (
	"fmt"
	"time"

	"kidsfocus/internal/core/alerts"
)

// Phase represents the current TimeKeeper mode.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseWorking Phase = "working"
	PhaseOnBreak Phase = "on_break"
	PhasePaused  Phase = "paused"
)

// Running reports whether the phase has a deadline.
func (phase Phase) Running() bool {
	return phase == PhaseWorking || phase == PhaseOnBreak
}

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventWorkStart        EventType = "work-start"
	EventWorkComplete     EventType = "work-complete"
	EventPomodoroComplete EventType = "pomodoro-complete"
	EventBreakStart       EventType = "break-start"
	EventBreakComplete    EventType = "break-complete"
	EventBreakSkipped     EventType = "break-skipped"
	EventTimerAlert       EventType = "timer-alert"
	EventTimerTick        EventType = "timer-tick"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type      EventType
	Phase     Phase
	Remaining time.Duration
	Total     time.Duration
	Progress  float64
	Alerts    []alerts.Kind
	At        time.Time
}

// Snapshot is a read-only view of the session state.
type Snapshot struct {
	Phase          Phase
	PriorPhase     Phase
	Remaining      time.Duration
	Total          time.Duration
	WorkMinutes    int
	BreakMinutes   int
	Preset         string
	Alerts         alerts.Set
	CompletedToday int
}

// Progress is the elapsed fraction of the current phase.
func (snapshot Snapshot) Progress() float64 {
	return progress(snapshot.Remaining, snapshot.Total)
}

// Display formats the remaining time as mm:ss.
func (snapshot Snapshot) Display() string {
	return FormatClock(snapshot.Remaining)
}

// FormatClock renders d as zero-padded minutes and seconds.
func FormatClock(d time.Duration) string {
	seconds := int(d / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func progress(remaining, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	value := 1 - float64(remaining)/float64(total)
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
