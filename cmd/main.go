package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"

	"github.com/mirelvt/vfit/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	if os.Getenv("VFIT_DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	dataDir, err := shared.DataDir()
	if err != nil {
		logger.Fatalf("failed to resolve data directory: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		DataDir: dataDir,
		Logger:  logger,
	})
	defer runner.Close()

	// Pick up a persisted session so authenticated commands work across runs.
	runner.session.Restore()

	app := &cli.Command{
		Name:     "vfit",
		Usage:    "Virtual wardrobe and try-on from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
