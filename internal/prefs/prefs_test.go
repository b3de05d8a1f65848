package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		prefs := Load(Path(t.TempDir()))
		if !prefs.DarkMode {
			t.Error("expected dark mode on by default")
		}
	})

	t.Run("round-trips through save", func(t *testing.T) {
		path := Path(t.TempDir())

		if err := Save(path, Prefs{DarkMode: false}); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		prefs := Load(path)
		if prefs.DarkMode {
			t.Error("expected dark mode off after save")
		}
	})

	t.Run("corrupt file yields defaults", func(t *testing.T) {
		path := Path(t.TempDir())
		if err := os.WriteFile(path, []byte("dark_mode = {{{"), 0o644); err != nil {
			t.Fatalf("failed to seed prefs file: %v", err)
		}

		prefs := Load(path)
		if !prefs.DarkMode {
			t.Error("expected defaults for a corrupt file")
		}
	})

	t.Run("save creates missing directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "deeper", FileName)

		if err := Save(path, DefaultPrefs()); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		if !Exists(path) {
			t.Error("expected prefs file to exist")
		}
	})
}

func TestToggle(t *testing.T) {
	path := Path(t.TempDir())

	prefs, err := Toggle(path)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if prefs.DarkMode {
		t.Error("expected first toggle to turn dark mode off")
	}

	prefs, err = Toggle(path)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !prefs.DarkMode {
		t.Error("expected second toggle to turn dark mode back on")
	}
}
