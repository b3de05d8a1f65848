package main

import (
	"context"
	"fmt"

	"github.com/mirelvt/vfit/internal/models"
	"github.com/mirelvt/vfit/internal/services"
	"github.com/mirelvt/vfit/internal/shared"
	"github.com/urfave/cli/v3"
)

// WardrobeList prints wardrobe items within the requested page.
func (r *Runner) WardrobeList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	page := services.Page{
		Skip:  cmd.Int("skip"),
		Limit: cmd.Int("limit"),
	}

	items, err := r.wardrobe.List(ctx, page)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	if len(items) == 0 {
		return r.writePlain("No wardrobe items yet. Add one with 'vfit wardrobe add'.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Wardrobe (%d items)", len(items)))
	for _, item := range items {
		r.writePlain("%s  %s", item.ID, item.Name)
		if item.Category != "" {
			r.writePlain(" [%s]", item.Category)
		}
		if item.Color != "" {
			r.writePlain(" (%s)", item.Color)
		}
		r.writePlain("\n")
	}

	return nil
}

// WardrobeSearch lists wardrobe items matching the given filters.
func (r *Runner) WardrobeSearch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	filter := services.SearchFilter{
		GarmentType: cmd.String("type"),
		Style:       cmd.String("style"),
		Color:       cmd.String("color"),
		Page: services.Page{
			Skip:  cmd.Int("skip"),
			Limit: cmd.Int("limit"),
		},
	}

	items, err := r.wardrobe.Search(ctx, filter)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, true)
	}

	if len(items) == 0 {
		return r.writePlain("No items match.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Search results (%d items)", len(items)))
	for _, item := range items {
		r.writePlain("%s  %s [%s]\n", item.ID, item.Name, item.Category)
	}

	return nil
}

// WardrobeStats prints wardrobe and try-on activity counts.
func (r *Runner) WardrobeStats(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	stats, err := r.wardrobe.Statistics(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	r.writePlainHeader("Wardrobe Statistics")
	r.writePlain("Items: %d\n", stats.TotalWardrobeItems)
	for garmentType, count := range stats.WardrobeItemsByType {
		r.writePlain("  %-16s %d\n", garmentType, count)
	}
	r.writePlain("Try-on sessions: %d (%d completed)\n", stats.TotalTryOnSessions, stats.CompletedTryOnSessions)

	return nil
}

// WardrobeAdd registers a new wardrobe item.
func (r *Runner) WardrobeAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	item := services.NewWardrobeItem{
		Name:        cmd.String("name"),
		Category:    cmd.String("category"),
		Color:       cmd.String("color"),
		Description: cmd.String("description"),
		ImageURL:    cmd.String("image-url"),
	}

	created, err := r.wardrobe.Add(ctx, item)
	if err != nil {
		return err
	}

	r.logger.Info("wardrobe item added", "id", created.ID, "name", created.Name)
	return r.writePlain("✓ Added %s (%s)\n", created.Name, created.ID)
}

// WardrobeDelete removes a wardrobe item and its local favorite, if any.
func (r *Runner) WardrobeDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id := cmd.String("id")

	if err := r.wardrobe.Delete(ctx, id); err != nil {
		return err
	}

	// the snapshot is useless once the item is gone
	if favorites, err := r.favoritesRepo(); err == nil {
		if err := favorites.RemoveEntity(models.CollectionWardrobe, id); err != nil {
			r.logger.Warn("failed to remove local favorite", "id", id, "error", err)
		}
	}

	return r.writePlain("✓ Deleted %s\n", id)
}

// WardrobeClassify uploads a garment photo and prints the classifier labels.
func (r *Runner) WardrobeClassify(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path to a garment photo", shared.ErrMissingArgument)
	}

	result, err := r.wardrobe.Classify(ctx, path)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlainHeader("Classification")
	for _, c := range result.Results {
		r.writePlain("%-20s %s\n", c.Class, c.Confidence)
	}
	if result.ImageURL != "" {
		r.writePlain("\nStored image: %s\n", result.ImageURL)
		r.writePlain("Use it with: vfit wardrobe add --image-url %s\n", result.ImageURL)
	}

	return nil
}
