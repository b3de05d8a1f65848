package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mirelvt/vfit/internal/api"
	"github.com/mirelvt/vfit/internal/models"
	"github.com/mirelvt/vfit/internal/shared"
	"github.com/urfave/cli/v3"
)

func favCollection(cmd *cli.Command) (string, error) {
	collection := cmd.String("collection")
	switch collection {
	case models.CollectionWardrobe, models.CollectionTryOn:
		return collection, nil
	default:
		return "", fmt.Errorf("%w: collection must be wardrobe or tryon, got %q", shared.ErrInvalidFlag, collection)
	}
}

// FavAdd snapshots an entity into the device-local favorites.
//
// Favoriting an already-favorited entity is a no-op, so the command is
// safe to re-run.
func (r *Runner) FavAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	collection, err := favCollection(cmd)
	if err != nil {
		return err
	}
	id := cmd.String("id")

	snapshot, err := r.snapshotEntity(ctx, collection, id)
	if err != nil {
		return err
	}

	favorites, err := r.favoritesRepo()
	if err != nil {
		return err
	}

	if err := favorites.Create(models.NewFavorite(collection, id, snapshot)); err != nil {
		return err
	}

	return r.writePlain("✓ Favorited %s\n", id)
}

// FavRemove unfavorites an entity. Removing a non-favorite is a no-op.
func (r *Runner) FavRemove(ctx context.Context, cmd *cli.Command) error {
	collection, err := favCollection(cmd)
	if err != nil {
		return err
	}
	id := cmd.String("id")

	favorites, err := r.favoritesRepo()
	if err != nil {
		return err
	}

	if err := favorites.RemoveEntity(collection, id); err != nil {
		return err
	}

	return r.writePlain("✓ Removed %s\n", id)
}

// FavList prints saved favorites, newest first.
func (r *Runner) FavList(ctx context.Context, cmd *cli.Command) error {
	favorites, err := r.favoritesRepo()
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if !cmd.Bool("all") {
		collection, err := favCollection(cmd)
		if err != nil {
			return err
		}
		criteria["collection"] = collection
	}

	saved, err := favorites.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out := make([]map[string]any, 0, len(saved))
		for _, f := range saved {
			out = append(out, map[string]any{
				"collection": f.Collection(),
				"entity_id":  f.EntityID(),
				"snapshot":   f.Snapshot(),
				"created_at": f.CreatedAt(),
			})
		}
		return r.writeJSON(out, true)
	}

	if len(saved) == 0 {
		return r.writePlain("No favorites saved on this device.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Favorites (%d)", len(saved)))
	for _, f := range saved {
		r.writePlain("%s  %-8s  saved %s\n", f.EntityID(), f.Collection(), shared.FormatTimestamp(f.CreatedAt()))
	}

	return nil
}

// snapshotEntity fetches the entity being favorited and freezes it as a
// JSON payload. The snapshot is what renders later, even offline.
func (r *Runner) snapshotEntity(ctx context.Context, collection, id string) ([]byte, error) {
	switch collection {
	case models.CollectionWardrobe:
		item, err := r.wardrobe.Get(ctx, id)
		if err != nil {
			if notFound(err) {
				return nil, fmt.Errorf("%w: %s", shared.ErrItemNotFound, id)
			}
			return nil, err
		}
		return shared.MarshalJSON(item, false)

	case models.CollectionTryOn:
		session, err := r.tryons.Session(ctx, id)
		if err != nil {
			if notFound(err) {
				return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
			}
			return nil, err
		}
		if !session.Completed() {
			return nil, fmt.Errorf("%w: session %s has no result yet", shared.ErrInvalidInput, id)
		}
		return shared.MarshalJSON(map[string]string{
			"text":  session.ResultText,
			"image": session.ResultImageURL,
		}, false)
	}

	return nil, fmt.Errorf("%w: unknown collection %s", shared.ErrInvalidInput, collection)
}

func notFound(err error) bool {
	var apiErr *api.Error
	return errors.As(err, &apiErr) && apiErr.Status == 404
}
