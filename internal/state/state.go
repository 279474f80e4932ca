package state

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/avitaltamir/sqli/internal/config"
	"github.com/avitaltamir/sqli/internal/layout"
)

const stateFileName = "state.json"

// State represents the persisted application state.
type State struct {
	// LastConnection is the connection selected when the app last exited
	LastConnection string `json:"last_connection,omitempty"`
	// ThemeIndex is the index of the selected theme
	ThemeIndex int `json:"theme_index"`
	// CollectionsPercent is the width percentage of the collections pane (15-50)
	CollectionsPercent int `json:"collections_percent,omitempty"`
}

// DefaultState returns the default state for first run.
func DefaultState() State {
	return State{
		ThemeIndex:         0,
		CollectionsPercent: layout.DefaultCollectionsPercent,
	}
}

// statePath returns the path to the state file inside dir.
func statePath(dir string) string {
	return filepath.Join(dir, stateFileName)
}

// Load reads the application state from dir.
// Returns default state if the file doesn't exist or can't be read.
func Load(dir string) State {
	data, err := os.ReadFile(statePath(dir))
	if err != nil {
		return DefaultState()
	}

	s := DefaultState()
	if err := json.Unmarshal(data, &s); err != nil {
		// Invalid JSON - return defaults
		return DefaultState()
	}

	if s.CollectionsPercent < layout.MinCollectionsPercent || s.CollectionsPercent > layout.MaxCollectionsPercent {
		s.CollectionsPercent = layout.DefaultCollectionsPercent
	}
	return s
}

// Save writes the application state into dir.
func Save(dir string, s State) error {
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(statePath(dir), data, config.FilePermissions)
}
