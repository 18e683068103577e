package storage

import "context"

// DayTracker persists the last local date the timer was active,
// formatted as YYYY-MM-DD.
type DayTracker struct {
	store Store
}

func NewDayTracker(store Store) *DayTracker {
	return &DayTracker{store: store}
}

func (d *DayTracker) LastActiveDate(ctx context.Context) (string, error) {
	var date string
	if _, err := d.store.Load(ctx, KeyLastActiveDate, &date); err != nil {
		return "", err
	}
	return date, nil
}

func (d *DayTracker) SetLastActiveDate(ctx context.Context, date string) error {
	return d.store.Save(ctx, KeyLastActiveDate, date)
}
