package rewards

import "slices"

// Point values granted on work completion.
const (
	PointsCompletePomodoro = 15
	PointsFirstOfDay       = 5
	PointsDailyStreak      = 5
)

// Badge identifiers.
const (
	BadgeFirstStep   = "primeiro-passo"
	BadgeFiveInADay  = "cinco-seguidos"
	BadgeMarathon    = "maratonista"
	BadgeConsistent  = "consistente"
	BadgeDedicated   = "dedicado"
	BadgeCenturion   = "centuriao"
	BadgeExplorer    = "explorador"
	BadgeFashionista = "fashionista"
)

// ItemKind is a category of shop item a profile can unlock.
type ItemKind string

const (
	ItemTheme      ItemKind = "theme"
	ItemAvatar     ItemKind = "avatar"
	ItemAnimal     ItemKind = "animal"
	ItemSoundscape ItemKind = "soundscape"
)

// Profile is one child's progress and unlocked items.
type Profile struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Avatar            string `json:"avatar"`
	Theme             string `json:"theme"`
	ProgressIndicator string `json:"progressIndicator"`
	MusicPreference   string `json:"musicPreference"`
	PathAnimal        string `json:"pathAnimal"`

	TotalPomodoros int    `json:"totalPomodoros"`
	TotalMinutes   int    `json:"totalMinutes"`
	CurrentStreak  int    `json:"currentStreak"`
	LongestStreak  int    `json:"longestStreak"`
	LastActiveDate string `json:"lastActiveDate,omitempty"`

	Points              int      `json:"points"`
	UnlockedThemes      []string `json:"unlockedThemes"`
	UnlockedAvatars     []string `json:"unlockedAvatars"`
	UnlockedAnimals     []string `json:"unlockedAnimals"`
	UnlockedSoundscapes []string `json:"unlockedSoundscapes"`
	Badges              []string `json:"badges"`
	TriedIndicators     []string `json:"triedIndicators"`
}

// ProfileUpdate carries optional profile field changes.
type ProfileUpdate struct {
	Name              *string
	Avatar            *string
	Theme             *string
	ProgressIndicator *string
	MusicPreference   *string
	PathAnimal        *string
}

func newProfile(id, name string) Profile {
	return Profile{
		ID:                  id,
		Name:                name,
		Avatar:              "rabbit",
		Theme:               "divertido",
		ProgressIndicator:   "circular",
		MusicPreference:     "none",
		PathAnimal:          "rabbit",
		UnlockedThemes:      []string{"divertido", "minimalista"},
		UnlockedAvatars:     []string{"rabbit"},
		UnlockedAnimals:     []string{"rabbit"},
		UnlockedSoundscapes: []string{"piano-calmo", "anoitecer"},
		Badges:              []string{},
		TriedIndicators:     []string{},
	}
}

// HasBadge reports whether the profile already holds badge.
func (profile Profile) HasBadge(badge string) bool {
	return slices.Contains(profile.Badges, badge)
}

func (profile Profile) clone() Profile {
	profile.UnlockedThemes = slices.Clone(profile.UnlockedThemes)
	profile.UnlockedAvatars = slices.Clone(profile.UnlockedAvatars)
	profile.UnlockedAnimals = slices.Clone(profile.UnlockedAnimals)
	profile.UnlockedSoundscapes = slices.Clone(profile.UnlockedSoundscapes)
	profile.Badges = slices.Clone(profile.Badges)
	profile.TriedIndicators = slices.Clone(profile.TriedIndicators)
	return profile
}

func (profile *Profile) unlocked(kind ItemKind) *[]string {
	switch kind {
	case ItemTheme:
		return &profile.UnlockedThemes
	case ItemAvatar:
		return &profile.UnlockedAvatars
	case ItemAnimal:
		return &profile.UnlockedAnimals
	case ItemSoundscape:
		return &profile.UnlockedSoundscapes
	}
	return nil
}

func (profile *Profile) apply(update ProfileUpdate) {
	if update.Name != nil {
		profile.Name = *update.Name
	}
	if update.Avatar != nil {
		profile.Avatar = *update.Avatar
	}
	if update.Theme != nil {
		profile.Theme = *update.Theme
	}
	if update.ProgressIndicator != nil {
		profile.ProgressIndicator = *update.ProgressIndicator
	}
	if update.MusicPreference != nil {
		profile.MusicPreference = *update.MusicPreference
	}
	if update.PathAnimal != nil {
		profile.PathAnimal = *update.PathAnimal
	}
}

// awardThresholdBadges grants every threshold badge the profile now
// qualifies for and returns the newly added ids.
func (profile *Profile) awardThresholdBadges() []string {
	checks := []struct {
		badge string
		ok    bool
	}{
		{BadgeFirstStep, profile.TotalPomodoros >= 1},
		{BadgeCenturion, profile.TotalPomodoros >= 100},
		{BadgeConsistent, profile.CurrentStreak >= 7},
		{BadgeDedicated, profile.CurrentStreak >= 30},
		{BadgeFashionista, len(profile.UnlockedThemes) >= 3},
		{BadgeExplorer, len(profile.TriedIndicators) >= 4},
	}

	var awarded []string
	for _, check := range checks {
		if check.ok && !profile.HasBadge(check.badge) {
			profile.Badges = append(profile.Badges, check.badge)
			awarded = append(awarded, check.badge)
		}
	}
	return awarded
}
