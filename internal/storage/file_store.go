package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const documentVersion = 1

type fileDocument struct {
	Version int                        `json:"version"`
	Entries map[string]json.RawMessage `json:"entries"`
}

// FileStore keeps every key in a single JSON document on disk.
// Writes go to a temporary file that is renamed over the document.
type FileStore struct {
	path   string
	mu     sync.Mutex
	doc    *fileDocument
	closed bool
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Load(_ context.Context, key string, target any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrStoreClosed
	}

	doc, err := s.documentLocked()
	if err != nil {
		return false, err
	}
	raw, ok := doc.Entries[key]
	if !ok {
		return false, nil
	}
	if err := decodeDocument(key, raw, target); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FileStore) Save(_ context.Context, key string, value any) error {
	data, err := encodeDocument(key, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	doc, err := s.documentLocked()
	if err != nil {
		return err
	}

	previous, hadPrevious := doc.Entries[key]
	doc.Entries[key] = data
	if err := s.flushLocked(doc); err != nil {
		if hadPrevious {
			doc.Entries[key] = previous
		} else {
			delete(doc.Entries, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.doc = nil
	return nil
}

func (s *FileStore) documentLocked() (*fileDocument, error) {
	if s.doc != nil {
		return s.doc, nil
	}

	doc := &fileDocument{Version: documentVersion, Entries: make(map[string]json.RawMessage)}
	rawData, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.doc = doc
			return doc, nil
		}
		return nil, fmt.Errorf("read data file: %w", err)
	}

	if err := json.Unmarshal(rawData, doc); err != nil {
		return nil, fmt.Errorf("parse data file: %w", err)
	}
	if doc.Entries == nil {
		doc.Entries = make(map[string]json.RawMessage)
	}
	s.doc = doc
	return doc, nil
}

func (s *FileStore) flushLocked(doc *fileDocument) error {
	serialized, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp data file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(serialized); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close data file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}
