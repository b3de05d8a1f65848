package main

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mirelvt/vfit/internal/prefs"
	"github.com/mirelvt/vfit/internal/shared"
	"github.com/mirelvt/vfit/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive history and favorites browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	reconciler, err := r.reconciler()
	if err != nil {
		return err
	}
	favorites, err := r.favoritesRepo()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(filepath.Join(r.dataDir, "vfit-tui.log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	darkMode := prefs.Load(prefs.Path(r.dataDir)).DarkMode
	model := ui.NewModel(ctx, reconciler, favorites, r.notifier, r.client.BaseURL(), darkMode)
	defer model.Close()

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
