package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsfocus/internal/core/alerts"
	"kidsfocus/internal/core/model"
)

func TestSettingsYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "KidsFocus", "settings.yaml")

	settings := model.DefaultSettings()
	settings.DefaultPreset = model.PresetCustom
	settings.WorkMinutes = 20
	settings.BreakMinutes = 4
	settings.Alerts = alerts.NewSet(alerts.FiveMinutes, alerts.FiftyPercent)
	settings.NotificationsEnabled = false
	settings.LaunchAtLogin = true
	settings.Storage = model.StorageSettings{Type: "sqlite", Path: "/tmp/k.db"}
	settings.FeedAddress = "127.0.0.1:8787"

	require.NoError(t, SaveSettingsFile(path, settings))

	loaded, err := LoadSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	loaded, err := LoadSettingsFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), loaded)
}

func TestLoadSettingsIgnoresInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `work_minutes: -5
break_minutes: 0
default_preset: "90-30"
storage:
  type: tape
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loaded, err := LoadSettingsFile(path)
	require.NoError(t, err)
	defaults := model.DefaultSettings()
	assert.Equal(t, defaults.WorkMinutes, loaded.WorkMinutes)
	assert.Equal(t, defaults.BreakMinutes, loaded.BreakMinutes)
	assert.Equal(t, defaults.DefaultPreset, loaded.DefaultPreset)
	assert.Equal(t, "file", loaded.Storage.Type)
	assert.True(t, loaded.Alerts.Has(alerts.OneMinute))
}

func TestLoadSettingsRejectsUnknownAlert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alerts: [tenMinutes]\n"), 0o644))

	_, err := LoadSettingsFile(path)
	assert.Error(t, err)
}
