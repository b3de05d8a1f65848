package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mirelvt/vfit/internal/services"
	"github.com/mirelvt/vfit/internal/shared"
	"github.com/urfave/cli/v3"
)

// TryOnRun generates a try-on result and mirrors it into local history.
func (r *Runner) TryOnRun(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	req := services.TryOnRequest{
		PersonImagePath: cmd.String("person"),
		ClothImagePath:  cmd.String("cloth"),
		Instructions:    cmd.String("instructions"),
		ModelType:       cmd.String("model"),
		Gender:          cmd.String("gender"),
		GarmentType:     cmd.String("garment"),
		Style:           cmd.String("style"),
	}

	result, err := r.tryons.Run(ctx, req)
	if err != nil {
		return err
	}

	// mirror locally so history survives a backend outage
	if reconciler, rerr := r.reconciler(); rerr == nil {
		if err := reconciler.Record(result); err != nil {
			r.logger.Warn("failed to mirror session locally", "error", err)
		}
	} else {
		r.logger.Warn("failed to open local history", "error", rerr)
	}

	r.writePlain("✓ Try-on complete\n")
	if result.SessionID != "" {
		r.writePlain("Session: %s\n", result.SessionID)
	}
	r.writePlain("Result: %s\n", result.Image)
	if result.Text != "" {
		r.writePlain("\n%s\n", result.Text)
	}

	if cmd.Bool("open") && result.Image != "" {
		url := result.Image
		if strings.HasPrefix(url, "/") {
			url = r.client.BaseURL() + url
		}
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	return nil
}

// TryOnHistoryList prints reconciled history, falling back to the local
// mirror when the backend is unreachable.
func (r *Runner) TryOnHistoryList(ctx context.Context, cmd *cli.Command) error {
	reconciler, err := r.reconciler()
	if err != nil {
		return err
	}

	result, err := reconciler.Load(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	if result.Warning != "" {
		r.logger.Warn(result.Warning)
	}

	if len(result.Entries) == 0 {
		return r.writePlain("No completed try-ons yet.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Try-On History (%d sessions)", len(result.Entries)))
	for _, entry := range result.Entries {
		r.writePlain("%s  %s\n", entry.Timestamp, entry.ResultImage)
		if entry.Text != "" {
			r.writePlain("    %s\n", entry.Text)
		}
	}

	return nil
}

// TryOnHistoryClear deletes completed sessions server-side and always
// empties the local mirror.
func (r *Runner) TryOnHistoryClear(ctx context.Context, cmd *cli.Command) error {
	reconciler, err := r.reconciler()
	if err != nil {
		return err
	}

	result, err := reconciler.Clear(ctx)
	if err != nil {
		return err
	}

	if result.Warning != "" {
		r.logger.Warn(result.Warning)
	}

	if result.Deleted > 0 {
		r.writePlain("✓ Deleted %d sessions\n", result.Deleted)
	}
	if result.Failed > 0 {
		r.writePlain("✗ %d sessions could not be deleted\n", result.Failed)
	}

	return r.writePlain("✓ Local history cleared\n")
}
