package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// StoreType identifies the document store backend.
type StoreType string

const (
	StoreTypeFile   StoreType = "file"
	StoreTypeSQLite StoreType = "sqlite"
	StoreTypeRedis  StoreType = "redis"
	StoreTypeMemory StoreType = "memory"
)

// Config holds document store configuration.
type Config struct {
	Type  StoreType   `yaml:"type"`
	Path  string      `yaml:"path"`
	Redis RedisConfig `yaml:"redis"`
}

// NewStore creates a Store based on configuration. Empty paths resolve
// under the user config directory for appName.
func NewStore(appName string, cfg Config) (Store, error) {
	switch cfg.Type {
	case StoreTypeFile, "":
		path, err := dataPath(appName, cfg.Path, "data.json")
		if err != nil {
			return nil, err
		}
		return NewFileStore(path)
	case StoreTypeSQLite:
		path, err := dataPath(appName, cfg.Path, "data.db")
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(path)
	case StoreTypeRedis:
		return NewRedisStore(cfg.Redis)
	case StoreTypeMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}

func dataPath(appName, configured, fileName string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, fileName), nil
}
