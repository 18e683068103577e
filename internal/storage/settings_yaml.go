package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"kidsfocus/internal/core/alerts"
	"kidsfocus/internal/core/model"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	WorkMinutes          int         `yaml:"work_minutes"`
	BreakMinutes         int         `yaml:"break_minutes"`
	DefaultPreset        string      `yaml:"default_preset"`
	Alerts               []string    `yaml:"alerts"`
	NotificationsEnabled *bool       `yaml:"notifications_enabled"`
	LaunchAtLogin        bool        `yaml:"launch_at_login"`
	Storage              yamlStorage `yaml:"storage"`
	FeedAddress          string      `yaml:"feed_address"`
	LogLevel             string      `yaml:"log_level"`
}

type yamlStorage struct {
	Type  string      `yaml:"type"`
	Path  string      `yaml:"path"`
	Redis RedisConfig `yaml:"redis"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (model.Settings, error) {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return model.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads preferences from an explicit path.
func LoadSettingsFile(configPath string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	if err := applyYamlSettings(&settings, fileData); err != nil {
		return settings, err
	}
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings model.Settings) error {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// SaveSettingsFile writes preferences to an explicit path.
func SaveSettingsFile(configPath string, settings model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	notifications := settings.NotificationsEnabled
	fileData := yamlSettings{
		WorkMinutes:          settings.WorkMinutes,
		BreakMinutes:         settings.BreakMinutes,
		DefaultPreset:        settings.DefaultPreset,
		Alerts:               settings.Alerts.Names(),
		NotificationsEnabled: &notifications,
		LaunchAtLogin:        settings.LaunchAtLogin,
		Storage: yamlStorage{
			Type: settings.Storage.Type,
			Path: settings.Storage.Path,
			Redis: RedisConfig{
				Addr:      settings.Storage.RedisAddr,
				Password:  settings.Storage.RedisPassword,
				DB:        settings.Storage.RedisDB,
				KeyPrefix: settings.Storage.RedisPrefix,
			},
		},
		FeedAddress: settings.FeedAddress,
		LogLevel:    settings.LogLevel,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// SettingsPath resolves the settings file under the user config directory.
func SettingsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// StoreConfig converts storage settings into a store factory config.
func StoreConfig(settings model.StorageSettings) Config {
	return Config{
		Type: StoreType(settings.Type),
		Path: settings.Path,
		Redis: RedisConfig{
			Addr:      settings.RedisAddr,
			Password:  settings.RedisPassword,
			DB:        settings.RedisDB,
			KeyPrefix: settings.RedisPrefix,
		},
	}
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) error {
	if fileData.WorkMinutes > 0 {
		settings.WorkMinutes = fileData.WorkMinutes
	}
	if fileData.BreakMinutes > 0 {
		settings.BreakMinutes = fileData.BreakMinutes
	}
	if _, ok := model.FindPreset(fileData.DefaultPreset); ok {
		settings.DefaultPreset = fileData.DefaultPreset
	}
	if fileData.Alerts != nil {
		set, err := alerts.ParseSet(fileData.Alerts)
		if err != nil {
			return fmt.Errorf("parse settings alerts: %w", err)
		}
		settings.Alerts = set
	}
	if fileData.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *fileData.NotificationsEnabled
	}
	settings.LaunchAtLogin = fileData.LaunchAtLogin

	switch StoreType(fileData.Storage.Type) {
	case StoreTypeFile, StoreTypeSQLite, StoreTypeRedis, StoreTypeMemory:
		settings.Storage.Type = fileData.Storage.Type
	}
	settings.Storage.Path = fileData.Storage.Path
	settings.Storage.RedisAddr = fileData.Storage.Redis.Addr
	settings.Storage.RedisPassword = fileData.Storage.Redis.Password
	settings.Storage.RedisDB = fileData.Storage.Redis.DB
	settings.Storage.RedisPrefix = fileData.Storage.Redis.KeyPrefix

	settings.FeedAddress = fileData.FeedAddress
	if fileData.LogLevel != "" {
		settings.LogLevel = fileData.LogLevel
	}
	return nil
}
