package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mirelvt/vfit/internal/models"
	"github.com/mirelvt/vfit/internal/shared"
)

// HistoryCollection is the change-event collection name for the local
// try-on history mirror.
const HistoryCollection = "history"

// HistoryRepository implements models.Repository[*models.HistoryEntry] for
// the local mirror of completed try-on sessions.
//
// The mirror is what history rendering falls back to when the backend is
// unreachable, so writes happen as soon as a try-on completes.
type HistoryRepository struct {
	db       *sql.DB
	notifier *Notifier
}

// NewHistoryRepository creates a new HistoryRepository. The notifier may be nil.
func NewHistoryRepository(db *sql.DB, notifier *Notifier) *HistoryRepository {
	return &HistoryRepository{db: db, notifier: notifier}
}

// Create inserts a history entry with generated ID and sequence.
//
// A session already mirrored locally is skipped, keyed on its session id.
func (r *HistoryRepository) Create(entry *models.HistoryEntry) error {
	sequence, err := NextSequence(r.db, "history_entries")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	entry.SetID(id)
	entry.SetSequence(sequence)

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT OR IGNORE INTO history_entries (id, sequence, session_id, result_image_url, result_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		id,
		sequence,
		entry.SessionID(),
		entry.ResultImageURL(),
		entry.ResultText(),
		entry.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows > 0 && r.notifier != nil {
		r.notifier.Publish(Change{Collection: HistoryCollection, EntityID: entry.SessionID()})
	}

	return nil
}

// Get retrieves a history entry by ID
func (r *HistoryRepository) Get(id string) (*models.HistoryEntry, error) {
	query := `
		SELECT id, sequence, session_id, result_image_url, result_text, created_at
		FROM history_entries
		WHERE id = ?
	`

	entry, err := r.scan(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("history entry not found: %s", id)
	}

	return entry, err
}

// GetBySessionID retrieves the mirror entry for a server session
func (r *HistoryRepository) GetBySessionID(sessionID string) (*models.HistoryEntry, error) {
	query := `
		SELECT id, sequence, session_id, result_image_url, result_text, created_at
		FROM history_entries
		WHERE session_id = ?
	`

	entry, err := r.scan(r.db.QueryRow(query, sessionID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("history entry not found for session: %s", sessionID)
	}

	return entry, err
}

// Delete removes a history entry by ID
func (r *HistoryRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM history_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("history entry not found: %s", id)
	}

	if r.notifier != nil {
		r.notifier.Publish(Change{Collection: HistoryCollection, EntityID: id, Removed: true})
	}

	return nil
}

// DeleteBySessionID removes the mirror entry for a server session, if any
func (r *HistoryRepository) DeleteBySessionID(sessionID string) error {
	result, err := r.db.Exec("DELETE FROM history_entries WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows > 0 && r.notifier != nil {
		r.notifier.Publish(Change{Collection: HistoryCollection, EntityID: sessionID, Removed: true})
	}

	return nil
}

// Clear empties the local mirror. It succeeds even when the mirror is
// already empty, so callers can run it unconditionally after a server-side
// history clear.
func (r *HistoryRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM history_entries"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	if r.notifier != nil {
		r.notifier.Publish(Change{Collection: HistoryCollection, Removed: true})
	}

	return nil
}

// List retrieves mirrored entries, newest first. No criteria are supported.
func (r *HistoryRepository) List(criteria map[string]any) ([]*models.HistoryEntry, error) {
	query := `
		SELECT id, sequence, session_id, result_image_url, result_text, created_at
		FROM history_entries
		ORDER BY sequence DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query history entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.HistoryEntry
	for rows.Next() {
		entry, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *HistoryRepository) scan(row scannable) (*models.HistoryEntry, error) {
	var (
		id, sessionID, resultImageURL, resultText string
		sequence                                  int
		createdAt                                 time.Time
	)

	if err := row.Scan(&id, &sequence, &sessionID, &resultImageURL, &resultText, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan history entry: %w", err)
	}

	entry := models.NewHistoryEntry(sessionID, resultImageURL, resultText)
	entry.SetID(id)
	entry.SetSequence(sequence)
	entry.SetCreatedAt(createdAt)

	return entry, nil
}
