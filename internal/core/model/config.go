package model

import "kidsfocus/internal/core/alerts"

// Preset identifiers.
const (
	PresetShort  = "25-5"
	PresetLong   = "50-10"
	PresetCustom = "custom"
)

// Preset is a named work/break pairing. Custom carries zero durations.
type Preset struct {
	ID           string
	Name         string
	WorkMinutes  int
	BreakMinutes int
}

var presets = []Preset{
	{ID: PresetShort, Name: "Curto", WorkMinutes: 25, BreakMinutes: 5},
	{ID: PresetLong, Name: "Longo", WorkMinutes: 50, BreakMinutes: 10},
	{ID: PresetCustom, Name: "Personalizado"},
}

// Presets returns the available presets.
func Presets() []Preset {
	return append([]Preset(nil), presets...)
}

// FindPreset looks up a preset by id.
func FindPreset(id string) (Preset, bool) {
	for _, preset := range presets {
		if preset.ID == id {
			return preset, true
		}
	}
	return Preset{}, false
}

// TimeKeeperConfig contains runtime settings for the TimeKeeper state machine.
type TimeKeeperConfig struct {
	Preset       string
	WorkMinutes  int
	BreakMinutes int
	Alerts       alerts.Set
}
