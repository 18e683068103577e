package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrStoreClosed is returned by operations on a closed store.
var ErrStoreClosed = errors.New("store closed")

// Well-known document keys.
const (
	KeyProfiles       = "profiles"
	KeySessionHistory = "session-history"
	KeyLastActiveDate = "last-active-date"
)

// Store persists JSON documents by key.
type Store interface {
	// Load decodes the document stored under key into target.
	// It reports false when the key has never been written.
	Load(ctx context.Context, key string, target any) (bool, error)
	// Save replaces the document stored under key.
	Save(ctx context.Context, key string, value any) error
	Close() error
}

func encodeDocument(key string, value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", key, err)
	}
	return data, nil
}

func decodeDocument(key string, data []byte, target any) error {
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	return nil
}
