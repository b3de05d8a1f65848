// Package prefs handles user preference persistence.
// Preferences are stored in ~/.vfit/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the preferences file name inside the data directory.
const FileName = "prefs.toml"

// Prefs holds display preferences for the TUI and formatted output.
type Prefs struct {
	DarkMode bool `toml:"dark_mode"`
}

// DefaultPrefs returns the out-of-the-box preferences.
func DefaultPrefs() Prefs {
	return Prefs{DarkMode: true}
}

// Path returns the preferences file path inside dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Load reads preferences from path. A missing or unreadable file yields
// the defaults rather than an error, so a broken prefs file never blocks
// the program from starting.
func Load(path string) Prefs {
	prefs := DefaultPrefs()

	data, err := os.ReadFile(path)
	if err != nil {
		return prefs
	}

	if err := toml.Unmarshal(data, &prefs); err != nil {
		return DefaultPrefs()
	}

	return prefs
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(p); err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	return nil
}

// Toggle flips dark mode on disk and returns the new preferences.
func Toggle(path string) (Prefs, error) {
	prefs := Load(path)
	prefs.DarkMode = !prefs.DarkMode

	if err := Save(path, prefs); err != nil {
		return prefs, err
	}

	return prefs, nil
}

// Exists reports whether a preferences file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
