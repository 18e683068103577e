package model

import "kidsfocus/internal/core/alerts"

// StorageSettings selects the document store backend.
type StorageSettings struct {
	Type          string
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Settings defines editable user preferences.
type Settings struct {
	WorkMinutes   int
	BreakMinutes  int
	DefaultPreset string
	Alerts        alerts.Set

	NotificationsEnabled bool
	LaunchAtLogin        bool

	Storage     StorageSettings
	FeedAddress string
	LogLevel    string
}

// DefaultSettings returns default settings for KidsFocus.
func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:          25,
		BreakMinutes:         5,
		DefaultPreset:        PresetShort,
		Alerts:               alerts.NewSet(alerts.OneMinute),
		NotificationsEnabled: true,
		Storage: StorageSettings{
			Type: "file",
		},
		LogLevel: "info",
	}
}

// TimeKeeperConfig converts settings to TimeKeeperConfig. A non-custom
// default preset overrides the stored minute values.
func (settings Settings) TimeKeeperConfig() TimeKeeperConfig {
	config := TimeKeeperConfig{
		Preset:       PresetCustom,
		WorkMinutes:  settings.WorkMinutes,
		BreakMinutes: settings.BreakMinutes,
		Alerts:       settings.Alerts,
	}
	if preset, ok := FindPreset(settings.DefaultPreset); ok && preset.ID != PresetCustom {
		config.Preset = preset.ID
		config.WorkMinutes = preset.WorkMinutes
		config.BreakMinutes = preset.BreakMinutes
	}
	return config
}
