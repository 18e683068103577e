package timekeeper

import (
	"context"
	"time"

	"kidsfocus/internal/storage"
)

// Clock returns the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock. The monotonic reading is stripped:
// it stops while the machine sleeps, and deadlines must keep running.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().Round(0) }

// Ledger receives reward accounting for completed work sessions.
type Ledger interface {
	AddPoints(ctx context.Context, amount int) error
	RecordCompletion(ctx context.Context, minutes int) (int, error)
	AwardBadge(ctx context.Context, badge string) error
	CurrentStreak() int
	ActiveProfileID() string
}

// HistoryRecorder stores one record per completed pomodoro.
type HistoryRecorder interface {
	Append(ctx context.Context, record storage.SessionRecord) error
}

// DayTracker persists the last local date the timer was active.
type DayTracker interface {
	LastActiveDate(ctx context.Context) (string, error)
	SetLastActiveDate(ctx context.Context, date string) error
}

// Publisher delivers lifecycle events.
type Publisher interface {
	Publish(event Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}

type nopDays struct{}

func (nopDays) LastActiveDate(context.Context) (string, error)   { return "", nil }
func (nopDays) SetLastActiveDate(context.Context, string) error { return nil }
