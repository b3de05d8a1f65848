// Package history merges server-side try-on sessions with the device's
// local mirror.
//
// The server owns history; the mirror only records sessions created from
// this machine so something sensible renders when the backend is down.
package history

import (
	"context"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mirelvt/vfit/internal/models"
	"github.com/mirelvt/vfit/internal/repositories"
	"github.com/mirelvt/vfit/internal/services"
	"github.com/mirelvt/vfit/internal/shared"
)

// Entry is one completed try-on, normalized for display.
type Entry struct {
	ID          string
	ResultImage string
	Text        string
	Timestamp   string
	CompletedAt time.Time
}

// LoadResult carries the reconciled history plus whether it came from the
// local fallback.
type LoadResult struct {
	Entries  []Entry
	Fallback bool
	Warning  string
}

// ClearResult reports how a bulk clear went. Failed deletions are not
// fatal; the warning summarizes them for display.
type ClearResult struct {
	Deleted int
	Failed  int
	Warning string
}

// Reconciler decides which history the user sees and keeps the mirror in
// step with what the server accepted.
type Reconciler struct {
	tryons *services.TryOnService
	mirror *repositories.HistoryRepository
	logger *log.Logger
}

func NewReconciler(tryons *services.TryOnService, mirror *repositories.HistoryRepository, logger *log.Logger) *Reconciler {
	return &Reconciler{tryons: tryons, mirror: mirror, logger: logger}
}

// Load fetches server sessions, keeps the completed ones, and falls back
// to the local mirror when the fetch fails.
func (r *Reconciler) Load(ctx context.Context) (*LoadResult, error) {
	sessions, err := r.tryons.Sessions(ctx)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("falling back to locally saved history", "error", err)
		}

		entries, mirrorErr := r.loadMirror()
		if mirrorErr != nil {
			return nil, mirrorErr
		}

		return &LoadResult{
			Entries:  entries,
			Fallback: true,
			Warning:  "Could not reach the server. Showing history saved on this device.",
		}, nil
	}

	entries := make([]Entry, 0, len(sessions))
	for _, session := range sessions {
		if !session.Completed() {
			continue
		}
		entries = append(entries, newEntry(session))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CompletedAt.After(entries[j].CompletedAt)
	})

	return &LoadResult{Entries: entries}, nil
}

// Record mirrors a finished try-on locally. When the server supplied no
// session id the entry gets a timestamp-derived one, so it still renders
// during fallback.
func (r *Reconciler) Record(result *services.TryOnResult) error {
	sessionID := result.SessionID
	if sessionID == "" {
		sessionID = "local-" + time.Now().UTC().Format("20060102150405.000")
	}

	return r.mirror.Create(models.NewHistoryEntry(sessionID, result.Image, result.Text))
}

// Clear deletes each completed server session individually, continuing
// past per-session failures, then empties the local mirror regardless.
// Incomplete sessions are left alone so in-flight generations survive.
func (r *Reconciler) Clear(ctx context.Context) (*ClearResult, error) {
	result := &ClearResult{}

	sessions, err := r.tryons.Sessions(ctx)
	if err != nil {
		result.Warning = "Could not reach the server. Cleared history saved on this device only."
	} else {
		for _, session := range sessions {
			if !session.Completed() {
				continue
			}

			if err := r.tryons.DeleteSession(ctx, session.ID); err != nil {
				if r.logger != nil {
					r.logger.Warn("failed to delete session", "session", session.ID, "error", err)
				}
				result.Failed++
				continue
			}

			result.Deleted++
		}

		if result.Failed > 0 {
			result.Warning = "Some sessions could not be deleted and remain on the server."
		}
	}

	if err := r.mirror.Clear(); err != nil {
		return result, err
	}

	return result, nil
}

func (r *Reconciler) loadMirror() ([]Entry, error) {
	mirrored, err := r.mirror.List(nil)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(mirrored))
	for _, m := range mirrored {
		entries = append(entries, Entry{
			ID:          m.SessionID(),
			ResultImage: m.ResultImageURL(),
			Text:        m.ResultText(),
			Timestamp:   shared.FormatTimestamp(m.CreatedAt()),
			CompletedAt: m.CreatedAt(),
		})
	}

	return entries, nil
}

func newEntry(session services.TryOnSession) Entry {
	completed := session.CompletedAt
	if completed.IsZero() {
		completed = session.CreatedAt
	}

	return Entry{
		ID:          session.ID,
		ResultImage: session.ResultImageURL,
		Text:        session.ResultText,
		Timestamp:   shared.FormatTimestamp(completed),
		CompletedAt: completed,
	}
}
