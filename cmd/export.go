package main

import (
	"context"
	"fmt"

	"github.com/mirelvt/vfit/internal/formatter"
	"github.com/mirelvt/vfit/internal/shared"
	"github.com/urfave/cli/v3"
)

// ExportHistory writes try-on history to disk as CSV or plain text.
func (r *Runner) ExportHistory(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	reconciler, err := r.reconciler()
	if err != nil {
		return err
	}

	loaded, err := reconciler.Load(ctx)
	if err != nil {
		return err
	}
	if loaded.Warning != "" {
		r.logger.Warn(loaded.Warning)
	}
	if len(loaded.Entries) == 0 {
		return r.writePlain("Nothing to export.\n")
	}

	output := cmd.String("output")

	switch format := cmd.String("format"); format {
	case "csv":
		result, err := formatter.WriteHistoryCSVExport(loaded.Entries, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d sessions\n", len(loaded.Entries))
		r.writePlain("  %s\n", result.EntriesFile)
		return r.writePlain("  %s\n", result.MetadataFile)
	case "text":
		path, err := formatter.WriteTextExport(loaded.Entries, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d sessions to %s\n", len(loaded.Entries), path)
	default:
		return fmt.Errorf("%w: format must be csv or text, got %q", shared.ErrInvalidFlag, format)
	}
}

// ExportReport writes a Markdown report with downloaded result images.
func (r *Runner) ExportReport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	reconciler, err := r.reconciler()
	if err != nil {
		return err
	}

	loaded, err := reconciler.Load(ctx)
	if err != nil {
		return err
	}
	if loaded.Warning != "" {
		r.logger.Warn(loaded.Warning)
	}
	if len(loaded.Entries) == 0 {
		return r.writePlain("Nothing to export.\n")
	}

	result, err := formatter.WriteMarkdownReport(ctx, r.client, loaded.Entries, cmd.String("output"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Report written to %s\n", result.Directory)
	return r.writePlain("  %d sessions, %d images downloaded\n", len(loaded.Entries), result.Images)
}
