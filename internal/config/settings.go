package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Settings is the persisted user configuration: today just the sheet
// endpoint URL, read at startup and rewritten whenever a new endpoint is
// committed after a successful connection test.
type Settings struct {
	path string

	mu       sync.RWMutex
	endpoint string
}

type settingsFile struct {
	SheetEndpoint string `json:"sheetEndpoint"`
}

// OpenSettings loads the settings file, treating a missing file as empty
// settings.
func OpenSettings(path string) (*Settings, error) {
	s := &Settings{path: path}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	var f settingsFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	s.endpoint = f.SheetEndpoint
	return s, nil
}

// Endpoint returns the committed endpoint URL, empty when none is
// configured.
func (s *Settings) Endpoint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.endpoint
}

// SetEndpoint commits and persists a new endpoint URL. The in-memory value
// only changes once the file write succeeds.
func (s *Settings) SetEndpoint(url string) error {
	raw, err := json.MarshalIndent(settingsFile{SheetEndpoint: url}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	s.mu.Lock()
	s.endpoint = url
	s.mu.Unlock()
	return nil
}
