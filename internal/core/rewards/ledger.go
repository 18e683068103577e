package rewards

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"kidsfocus/internal/storage"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrNoActiveProfile    = errors.New("no active profile")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrUnknownItemKind    = errors.New("unknown item kind")
	ErrEmptyName          = errors.New("profile name is empty")
)

const dateLayout = "2006-01-02"

type profilesDocument struct {
	Profiles        []Profile `json:"profiles"`
	ActiveProfileID string    `json:"activeProfileId,omitempty"`
}

// Ledger tracks points, streaks and badges per profile. Every mutation is
// applied in memory first and then persisted; a failed write is returned to
// the caller while the in-memory state stays authoritative.
type Ledger struct {
	mu       sync.RWMutex
	store    storage.Store
	logger   *slog.Logger
	now      func() time.Time
	location *time.Location
	newID    func() string
	profiles []Profile
	activeID string
}

// NewLedger loads profiles from store.
func NewLedger(ctx context.Context, store storage.Store, logger *slog.Logger) (*Ledger, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ledger := &Ledger{
		store:    store,
		logger:   logger,
		now:      time.Now,
		location: time.Local,
		newID:    func() string { return "profile-" + uuid.NewString() },
	}

	var doc profilesDocument
	if _, err := store.Load(ctx, storage.KeyProfiles, &doc); err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	ledger.profiles = doc.Profiles
	ledger.activeID = doc.ActiveProfileID
	if ledger.indexLocked(ledger.activeID) < 0 {
		ledger.activeID = ""
	}
	return ledger, nil
}

// SetLocation sets the time zone used for streak day boundaries.
func (ledger *Ledger) SetLocation(location *time.Location) {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	ledger.location = location
}

// SetClock replaces the time source used for streak dates.
func (ledger *Ledger) SetClock(now func() time.Time) {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	ledger.now = now
}

// Profiles returns a copy of every profile.
func (ledger *Ledger) Profiles() []Profile {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()
	result := make([]Profile, len(ledger.profiles))
	for index, profile := range ledger.profiles {
		result[index] = profile.clone()
	}
	return result
}

// Profile returns a copy of the profile with id.
func (ledger *Ledger) Profile(id string) (Profile, bool) {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()
	index := ledger.indexLocked(id)
	if index < 0 {
		return Profile{}, false
	}
	return ledger.profiles[index].clone(), true
}

// ActiveProfile returns a copy of the selected profile.
func (ledger *Ledger) ActiveProfile() (Profile, bool) {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()
	index := ledger.indexLocked(ledger.activeID)
	if index < 0 {
		return Profile{}, false
	}
	return ledger.profiles[index].clone(), true
}

// ActiveProfileID returns the selected profile id, or "" when none.
func (ledger *Ledger) ActiveProfileID() string {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()
	return ledger.activeID
}

// CurrentStreak returns the active profile's daily streak.
func (ledger *Ledger) CurrentStreak() int {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()
	index := ledger.indexLocked(ledger.activeID)
	if index < 0 {
		return 0
	}
	return ledger.profiles[index].CurrentStreak
}

// CreateProfile adds a profile with the default unlocked items.
func (ledger *Ledger) CreateProfile(ctx context.Context, name string) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, ErrEmptyName
	}

	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	profile := newProfile(ledger.newID(), name)
	ledger.profiles = append(ledger.profiles, profile)
	ledger.logger.Info("profile created", "profile_id", profile.ID)
	return profile.clone(), ledger.persistLocked(ctx)
}

// SelectProfile makes id the active profile.
func (ledger *Ledger) SelectProfile(ctx context.Context, id string) error {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	if ledger.indexLocked(id) < 0 {
		return fmt.Errorf("%w: id=%s", ErrProfileNotFound, id)
	}
	ledger.activeID = id
	return ledger.persistLocked(ctx)
}

// UpdateProfile applies the non-nil fields of update.
func (ledger *Ledger) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	index := ledger.indexLocked(id)
	if index < 0 {
		return fmt.Errorf("%w: id=%s", ErrProfileNotFound, id)
	}
	ledger.profiles[index].apply(update)
	return ledger.persistLocked(ctx)
}

// DeleteProfile removes a profile. Deleting the active profile selects the
// first remaining one.
func (ledger *Ledger) DeleteProfile(ctx context.Context, id string) error {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	index := ledger.indexLocked(id)
	if index < 0 {
		return fmt.Errorf("%w: id=%s", ErrProfileNotFound, id)
	}

	ledger.profiles = slices.Delete(ledger.profiles, index, index+1)
	if ledger.activeID == id {
		ledger.activeID = ""
		if len(ledger.profiles) > 0 {
			ledger.activeID = ledger.profiles[0].ID
		}
	}
	ledger.logger.Info("profile deleted", "profile_id", id)
	return ledger.persistLocked(ctx)
}

// Logout clears the active profile.
func (ledger *Ledger) Logout(ctx context.Context) error {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	ledger.activeID = ""
	return ledger.persistLocked(ctx)
}

// AddPoints credits the active profile. Without an active profile it is a no-op.
func (ledger *Ledger) AddPoints(ctx context.Context, amount int) error {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	profile := ledger.activeLocked()
	if profile == nil {
		return nil
	}
	profile.Points += amount
	return ledger.persistLocked(ctx)
}

// SpendPoints debits the active profile if it holds enough points.
func (ledger *Ledger) SpendPoints(ctx context.Context, amount int) error {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	if err := ledger.spendLocked(amount); err != nil {
		return err
	}
	return ledger.persistLocked(ctx)
}

// UnlockItem buys an item for the active profile. Items already owned are
// not charged again.
func (ledger *Ledger) UnlockItem(ctx context.Context, kind ItemKind, itemID string, cost int) error {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	profile := ledger.activeLocked()
	if profile == nil {
		return ErrNoActiveProfile
	}
	owned := profile.unlocked(kind)
	if owned == nil {
		return fmt.Errorf("%w: %s", ErrUnknownItemKind, kind)
	}
	if slices.Contains(*owned, itemID) {
		return nil
	}
	if err := ledger.spendLocked(cost); err != nil {
		return err
	}
	*owned = append(*owned, itemID)
	ledger.logBadges(profile.ID, profile.awardThresholdBadges())
	ledger.logger.Info("item unlocked", "profile_id", profile.ID, "kind", kind, "item", itemID, "cost", cost)
	return ledger.persistLocked(ctx)
}

// AwardBadge grants badge to the active profile. Awarding twice is a no-op.
func (ledger *Ledger) AwardBadge(ctx context.Context, badge string) error {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	profile := ledger.activeLocked()
	if profile == nil || profile.HasBadge(badge) {
		return nil
	}
	profile.Badges = append(profile.Badges, badge)
	ledger.logBadges(profile.ID, []string{badge})
	return ledger.persistLocked(ctx)
}

// MarkIndicatorTried records that the active profile used a progress indicator.
func (ledger *Ledger) MarkIndicatorTried(ctx context.Context, indicator string) error {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	profile := ledger.activeLocked()
	if profile == nil || slices.Contains(profile.TriedIndicators, indicator) {
		return nil
	}
	profile.TriedIndicators = append(profile.TriedIndicators, indicator)
	ledger.logBadges(profile.ID, profile.awardThresholdBadges())
	return ledger.persistLocked(ctx)
}

// RecordCompletion counts one completed pomodoro of minutes length and
// updates the daily streak by local date: same day keeps it, the next day
// extends it, any other gap restarts it at 1. It returns the new streak.
func (ledger *Ledger) RecordCompletion(ctx context.Context, minutes int) (int, error) {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	profile := ledger.activeLocked()
	if profile == nil {
		return 0, nil
	}

	now := ledger.now().In(ledger.location)
	today := now.Format(dateLayout)

	profile.TotalPomodoros++
	profile.TotalMinutes += minutes

	if profile.LastActiveDate != today {
		yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
		if profile.LastActiveDate == yesterday {
			profile.CurrentStreak++
		} else {
			profile.CurrentStreak = 1
		}
		profile.LastActiveDate = today
	}
	if profile.CurrentStreak > profile.LongestStreak {
		profile.LongestStreak = profile.CurrentStreak
	}

	ledger.logBadges(profile.ID, profile.awardThresholdBadges())
	return profile.CurrentStreak, ledger.persistLocked(ctx)
}

func (ledger *Ledger) spendLocked(amount int) error {
	profile := ledger.activeLocked()
	if profile == nil {
		return ErrNoActiveProfile
	}
	if profile.Points < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientPoints, profile.Points, amount)
	}
	profile.Points -= amount
	return nil
}

func (ledger *Ledger) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(ledger.profiles, func(profile Profile) bool {
		return profile.ID == id
	})
}

func (ledger *Ledger) activeLocked() *Profile {
	index := ledger.indexLocked(ledger.activeID)
	if index < 0 {
		return nil
	}
	return &ledger.profiles[index]
}

func (ledger *Ledger) logBadges(profileID string, badges []string) {
	for _, badge := range badges {
		ledger.logger.Info("badge awarded", "profile_id", profileID, "badge", badge)
	}
}

func (ledger *Ledger) persistLocked(ctx context.Context) error {
	doc := profilesDocument{Profiles: ledger.profiles, ActiveProfileID: ledger.activeID}
	if err := ledger.store.Save(ctx, storage.KeyProfiles, doc); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}
	return nil
}
