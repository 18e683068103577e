package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kidsfocus/internal/core/alerts"
)

func TestTimeKeeperConfigUsesPreset(t *testing.T) {
	settings := DefaultSettings()
	settings.DefaultPreset = PresetLong
	settings.WorkMinutes = 7

	config := settings.TimeKeeperConfig()
	assert.Equal(t, PresetLong, config.Preset)
	assert.Equal(t, 50, config.WorkMinutes)
	assert.Equal(t, 10, config.BreakMinutes)
	assert.True(t, config.Alerts.Has(alerts.OneMinute))
}

func TestTimeKeeperConfigCustomKeepsMinutes(t *testing.T) {
	settings := DefaultSettings()
	settings.DefaultPreset = PresetCustom
	settings.WorkMinutes = 15
	settings.BreakMinutes = 3

	config := settings.TimeKeeperConfig()
	assert.Equal(t, PresetCustom, config.Preset)
	assert.Equal(t, 15, config.WorkMinutes)
	assert.Equal(t, 3, config.BreakMinutes)
}

func TestFindPreset(t *testing.T) {
	preset, ok := FindPreset(PresetShort)
	assert.True(t, ok)
	assert.Equal(t, 25, preset.WorkMinutes)

	_, ok = FindPreset("90-30")
	assert.False(t, ok)
}
