package storage

import (
	"context"
	"sync"
	"time"
)

// DefaultHistoryRetention is how long completed sessions are kept.
const DefaultHistoryRetention = 30 * 24 * time.Hour

// SessionTypePomodoro marks a completed work interval.
const SessionTypePomodoro = "pomodoro"

// SessionRecord is one completed pomodoro. Records are never modified.
type SessionRecord struct {
	ProfileID    string    `json:"profileId"`
	Timestamp    time.Time `json:"timestamp"`
	Type         string    `json:"type"`
	WorkMinutes  int       `json:"workMinutes"`
	BreakMinutes int       `json:"breakMinutes"`
	Completed    bool      `json:"completed"`
}

// History appends session records and prunes old ones on every write.
type History struct {
	store     Store
	now       func() time.Time
	retention time.Duration
	mu        sync.Mutex
}

func NewHistory(store Store) *History {
	return &History{
		store:     store,
		now:       time.Now,
		retention: DefaultHistoryRetention,
	}
}

// SetClock replaces the time source used for the retention cutoff.
func (h *History) SetClock(now func() time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.now = now
}

// Append stores record and drops records older than the retention window.
func (h *History) Append(ctx context.Context, record SessionRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	records, err := h.loadLocked(ctx)
	if err != nil {
		return err
	}
	if record.Type == "" {
		record.Type = SessionTypePomodoro
	}
	records = append(records, record)
	records = Prune(records, h.now().Add(-h.retention))
	return h.store.Save(ctx, KeySessionHistory, records)
}

// Records returns stored records, optionally filtered by profile.
func (h *History) Records(ctx context.Context, profileID string) ([]SessionRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	records, err := h.loadLocked(ctx)
	if err != nil {
		return nil, err
	}
	if profileID == "" {
		return records, nil
	}

	filtered := make([]SessionRecord, 0, len(records))
	for _, record := range records {
		if record.ProfileID == profileID {
			filtered = append(filtered, record)
		}
	}
	return filtered, nil
}

func (h *History) loadLocked(ctx context.Context) ([]SessionRecord, error) {
	var records []SessionRecord
	if _, err := h.store.Load(ctx, KeySessionHistory, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Prune keeps records strictly newer than cutoff.
func Prune(records []SessionRecord, cutoff time.Time) []SessionRecord {
	kept := records[:0]
	for _, record := range records {
		if record.Timestamp.After(cutoff) {
			kept = append(kept, record)
		}
	}
	return kept
}
