package main

import (
	"context"

	"github.com/mirelvt/vfit/internal/prefs"
	"github.com/urfave/cli/v3"
)

// PrefsShow prints the current display preferences.
func (r *Runner) PrefsShow(ctx context.Context, cmd *cli.Command) error {
	path := prefs.Path(r.dataDir)
	p := prefs.Load(path)

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"dark_mode": p.DarkMode}, true)
	}

	r.writePlainHeader("Preferences")
	r.writePlain("Dark mode: %t\n", p.DarkMode)
	if !prefs.Exists(path) {
		r.writePlain("(defaults, no preferences file yet)\n")
	}

	return nil
}

// PrefsToggleDark flips dark mode and persists the change.
func (r *Runner) PrefsToggleDark(ctx context.Context, cmd *cli.Command) error {
	p, err := prefs.Toggle(prefs.Path(r.dataDir))
	if err != nil {
		return err
	}

	if p.DarkMode {
		return r.writePlain("✓ Dark mode on\n")
	}
	return r.writePlain("✓ Dark mode off\n")
}
