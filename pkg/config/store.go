package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

const documentVersion = "1"

// Store persists section data.
type Store interface {
	// Load reads the backing file. A missing file is an empty config.
	Load() error

	// Save writes every section back to the backing file
	Save() error

	// GetSection returns a copy of the stored values for sectionID, or an
	// empty map when the section has never been written
	GetSection(sectionID string) (map[string]any, error)

	// SetSection replaces the stored values for sectionID
	SetSection(sectionID string, data map[string]any) error
}

// document is the on-disk layout of the config file.
type document struct {
	Version  string                    `json:"version"`
	Sections map[string]map[string]any `json:"sections"`
}

// FileStore implements Store on top of a JSON file.
type FileStore struct {
	path     string
	sections map[string]map[string]any
	dirty    bool
	mu       sync.RWMutex
}

// DefaultPath returns ~/.slackpost/config.json.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".slackpost", "config.json"), nil
}

// NewFileStore creates a store for path and reads it if it exists.
// An empty path selects DefaultPath.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	store := &FileStore{
		path:     path,
		sections: make(map[string]map[string]any),
	}
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return store, nil
}

// Load reads the config file, replacing anything held in memory.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.sections = make(map[string]map[string]any)
		s.dirty = false
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}

	s.sections = doc.Sections
	if s.sections == nil {
		s.sections = make(map[string]map[string]any)
	}
	s.dirty = false
	return nil
}

// Save writes the config file through a temp file and rename so a crash
// never leaves a half-written config behind.
func (s *FileStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	raw, err := json.MarshalIndent(document{Version: documentVersion, Sections: s.sections}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, append(raw, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write temp config file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace config file: %w", err)
	}

	s.dirty = false
	return nil
}

// GetSection returns a copy of the stored section.
func (s *FileStore) GetSection(sectionID string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.sections[sectionID]))
	maps.Copy(out, s.sections[sectionID])
	return out, nil
}

// SetSection stores a copy of data under sectionID.
func (s *FileStore) SetSection(sectionID string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sections[sectionID] = maps.Clone(data)
	if s.sections[sectionID] == nil {
		s.sections[sectionID] = make(map[string]any)
	}
	s.dirty = true
	return nil
}

// IsModified reports whether SetSection was called since the last Load or Save.
func (s *FileStore) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Path returns the file path of the store.
func (s *FileStore) Path() string {
	return s.path
}
