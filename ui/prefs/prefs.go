// Package prefs persists window state between runs.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const prefsFile = "preferences.json"

// Prefs is the window state carried across runs. Annotation parameters
// (marker size, blend factor) come from the command line instead.
type Prefs struct {
	WindowWidth    float64 `json:"windowWidth"`
	WindowHeight   float64 `json:"windowHeight"`
	ShowReferences bool    `json:"showReferences"`
	ShowFilename   bool    `json:"showFilename"`

	path string
}

// Load reads preferences from ~/.config/mask-annotator/preferences.json.
// A missing or unreadable file yields the defaults.
func Load() *Prefs {
	p := &Prefs{
		WindowWidth:    900,
		WindowHeight:   700,
		ShowReferences: true,
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	p.path = filepath.Join(configDir, "mask-annotator", prefsFile)

	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, p)
	return p
}

// Save writes preferences to disk, creating the config directory on first
// use.
func (p *Prefs) Save() error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}
