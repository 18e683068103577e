package storage

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu        sync.RWMutex
	documents map[string][]byte
	closed    bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{documents: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, key string, target any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrStoreClosed
	}

	data, ok := s.documents[key]
	if !ok {
		return false, nil
	}
	if err := decodeDocument(key, data, target); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, value any) error {
	data, err := encodeDocument(key, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.documents[key] = data
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
