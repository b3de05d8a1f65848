package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mirelvt/vfit/internal/models"
	"github.com/mirelvt/vfit/internal/shared"
)

// FavoriteRepository implements models.Repository[*models.Favorite] for the
// device-local favorites collections.
//
// Adding an already-favorited entity is a no-op rather than an error, so
// repeated toggles and concurrent writers converge on the same state.
type FavoriteRepository struct {
	db       *sql.DB
	notifier *Notifier
}

// NewFavoriteRepository creates a new FavoriteRepository. The notifier may
// be nil when no live views need change events.
func NewFavoriteRepository(db *sql.DB, notifier *Notifier) *FavoriteRepository {
	return &FavoriteRepository{db: db, notifier: notifier}
}

// Create inserts a favorite with generated ID and sequence.
//
// If the entity is already favorited in its collection the insert is
// silently skipped and the existing row is left untouched.
func (r *FavoriteRepository) Create(favorite *models.Favorite) error {
	sequence, err := NextSequence(r.db, "favorites")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	favorite.SetID(id)
	favorite.SetSequence(sequence)

	if err := favorite.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT OR IGNORE INTO favorites (id, sequence, collection, entity_id, snapshot, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		id,
		sequence,
		favorite.Collection(),
		favorite.EntityID(),
		string(favorite.Snapshot()),
		favorite.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows > 0 && r.notifier != nil {
		r.notifier.Publish(Change{Collection: favorite.Collection(), EntityID: favorite.EntityID()})
	}

	return nil
}

// Get retrieves a favorite by ID
func (r *FavoriteRepository) Get(id string) (*models.Favorite, error) {
	query := `
		SELECT id, sequence, collection, entity_id, snapshot, created_at
		FROM favorites
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByEntity retrieves the favorite for an entity within a collection
func (r *FavoriteRepository) GetByEntity(collection, entityID string) (*models.Favorite, error) {
	query := `
		SELECT id, sequence, collection, entity_id, snapshot, created_at
		FROM favorites
		WHERE collection = ? AND entity_id = ?
	`

	return r.scanOne(r.db.QueryRow(query, collection, entityID))
}

// Has reports whether an entity is favorited in the given collection
func (r *FavoriteRepository) Has(collection, entityID string) (bool, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM favorites WHERE collection = ? AND entity_id = ?",
		collection, entityID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}

	return count > 0, nil
}

// Delete removes a favorite by ID
func (r *FavoriteRepository) Delete(id string) error {
	favorite, err := r.Get(id)
	if err != nil {
		return err
	}

	result, err := r.db.Exec("DELETE FROM favorites WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("favorite not found: %s", id)
	}

	if r.notifier != nil {
		r.notifier.Publish(Change{Collection: favorite.Collection(), EntityID: favorite.EntityID(), Removed: true})
	}

	return nil
}

// RemoveEntity unfavorites an entity. Removing an entity that is not
// favorited is a no-op, mirroring the idempotent Create.
func (r *FavoriteRepository) RemoveEntity(collection, entityID string) error {
	result, err := r.db.Exec(
		"DELETE FROM favorites WHERE collection = ? AND entity_id = ?",
		collection, entityID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows > 0 && r.notifier != nil {
		r.notifier.Publish(Change{Collection: collection, EntityID: entityID, Removed: true})
	}

	return nil
}

// List retrieves favorites matching the given criteria, newest first.
//
// Supported criteria: "collection" (string).
func (r *FavoriteRepository) List(criteria map[string]any) ([]*models.Favorite, error) {
	query := `
		SELECT id, sequence, collection, entity_id, snapshot, created_at
		FROM favorites
	`
	args := []any{}

	if collection, ok := criteria["collection"].(string); ok {
		query += " WHERE collection = ?"
		args = append(args, collection)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var favorites []*models.Favorite
	for rows.Next() {
		favorite, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, favorite)
	}

	return favorites, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func (r *FavoriteRepository) scanOne(row *sql.Row) (*models.Favorite, error) {
	favorite, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("favorite not found")
	}

	return favorite, err
}

func (r *FavoriteRepository) scanRow(rows *sql.Rows) (*models.Favorite, error) {
	return r.scan(rows)
}

func (r *FavoriteRepository) scan(row scannable) (*models.Favorite, error) {
	var (
		id, collection, entityID, snapshot string
		sequence                           int
		createdAt                          time.Time
	)

	if err := row.Scan(&id, &sequence, &collection, &entityID, &snapshot, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan favorite: %w", err)
	}

	favorite := models.NewFavorite(collection, entityID, json.RawMessage(snapshot))
	favorite.SetID(id)
	favorite.SetSequence(sequence)
	favorite.SetCreatedAt(createdAt)

	return favorite, nil
}
