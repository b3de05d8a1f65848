package history

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mirelvt/vfit/internal/api"
	"github.com/mirelvt/vfit/internal/repositories"
	"github.com/mirelvt/vfit/internal/services"
	"github.com/mirelvt/vfit/internal/shared"
)

func setupMirror(t *testing.T) *repositories.HistoryRepository {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return repositories.NewHistoryRepository(db, nil)
}

func newReconciler(t *testing.T, handler http.Handler) (*Reconciler, *repositories.HistoryRepository) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, server.Client(), nil)
	mirror := setupMirror(t)

	return NewReconciler(services.NewTryOnService(client, nil), mirror, nil), mirror
}

func unreachableReconciler(t *testing.T) (*Reconciler, *repositories.HistoryRepository) {
	t.Helper()

	client := api.NewClient("http://localhost:1", &http.Client{}, nil)
	mirror := setupMirror(t)

	return NewReconciler(services.NewTryOnService(client, nil), mirror, nil), mirror
}

func TestReconcilerLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps only completed sessions, newest first", func(t *testing.T) {
		reconciler, _ := newReconciler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[
				{"id": "s1", "result_image_url": "/media/a.png", "result_text": "first", "created_at": "2025-06-10T10:00:00", "completed_at": "2025-06-10T10:01:00"},
				{"id": "s2", "result_image_url": "", "created_at": "2025-06-10T11:00:00"},
				{"id": "s3", "result_image_url": "/media/c.png", "result_text": "third", "created_at": "2025-06-10T12:00:00", "completed_at": "2025-06-10T12:01:00"}
			]`))
		}))

		result, err := reconciler.Load(ctx)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}

		if result.Fallback {
			t.Error("expected a live load, not a fallback")
		}
		if len(result.Entries) != 2 {
			t.Fatalf("expected 2 completed entries, got %d", len(result.Entries))
		}
		if result.Entries[0].ID != "s3" || result.Entries[1].ID != "s1" {
			t.Errorf("expected newest-first ordering, got %s then %s", result.Entries[0].ID, result.Entries[1].ID)
		}
		if result.Entries[0].Timestamp == "" {
			t.Error("expected a display timestamp")
		}
	})

	t.Run("falls back to the mirror when the server is unreachable", func(t *testing.T) {
		reconciler, _ := unreachableReconciler(t)

		if err := reconciler.Record(&services.TryOnResult{SessionID: "s1", Image: "/media/a.png", Text: "saved"}); err != nil {
			t.Fatalf("record failed: %v", err)
		}

		result, err := reconciler.Load(ctx)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}

		if !result.Fallback {
			t.Error("expected a fallback load")
		}
		if result.Warning == "" {
			t.Error("expected a fallback warning")
		}
		if len(result.Entries) != 1 || result.Entries[0].ID != "s1" {
			t.Errorf("expected the mirrored entry, got %+v", result.Entries)
		}
	})

	t.Run("fallback with an empty mirror yields an empty history", func(t *testing.T) {
		reconciler, _ := unreachableReconciler(t)

		result, err := reconciler.Load(ctx)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}

		if !result.Fallback || len(result.Entries) != 0 {
			t.Errorf("expected empty fallback history, got %+v", result)
		}
	})
}

func TestReconcilerRecord(t *testing.T) {
	t.Run("derives an id when the server supplied none", func(t *testing.T) {
		reconciler, mirror := unreachableReconciler(t)

		if err := reconciler.Record(&services.TryOnResult{Image: "/media/a.png"}); err != nil {
			t.Fatalf("record failed: %v", err)
		}

		entries, err := mirror.List(nil)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 mirrored entry, got %d", len(entries))
		}
		if !strings.HasPrefix(entries[0].SessionID(), "local-") {
			t.Errorf("expected a derived local id, got %s", entries[0].SessionID())
		}
	})
}

func TestReconcilerClear(t *testing.T) {
	ctx := context.Background()

	sessionsPayload := `[
		{"id": "s1", "result_image_url": "/media/a.png", "completed_at": "2025-06-10T10:01:00"},
		{"id": "s2", "result_image_url": ""},
		{"id": "s3", "result_image_url": "/media/c.png", "completed_at": "2025-06-10T12:01:00"}
	]`

	t.Run("deletes only completed sessions", func(t *testing.T) {
		var mu sync.Mutex
		deleted := []string{}

		reconciler, mirror := newReconciler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodDelete {
				mu.Lock()
				deleted = append(deleted, strings.TrimPrefix(r.URL.Path, "/api/try-on/sessions/"))
				mu.Unlock()
				w.WriteHeader(http.StatusNoContent)
				return
			}
			w.Write([]byte(sessionsPayload))
		}))

		if err := reconciler.Record(&services.TryOnResult{SessionID: "s1", Image: "/media/a.png"}); err != nil {
			t.Fatalf("record failed: %v", err)
		}

		result, err := reconciler.Clear(ctx)
		if err != nil {
			t.Fatalf("clear failed: %v", err)
		}

		if result.Deleted != 2 || result.Failed != 0 {
			t.Errorf("expected 2 deletions, got %+v", result)
		}
		if len(deleted) != 2 || deleted[0] != "s1" || deleted[1] != "s3" {
			t.Errorf("expected s1 and s3 deleted, got %v", deleted)
		}

		entries, err := mirror.List(nil)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected the mirror to be cleared, got %d entries", len(entries))
		}
	})

	t.Run("continues past per-session failures and warns", func(t *testing.T) {
		reconciler, _ := newReconciler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodDelete {
				if strings.HasSuffix(r.URL.Path, "/s1") {
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"detail": "boom"}`))
					return
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}
			w.Write([]byte(sessionsPayload))
		}))

		result, err := reconciler.Clear(ctx)
		if err != nil {
			t.Fatalf("clear failed: %v", err)
		}

		if result.Deleted != 1 || result.Failed != 1 {
			t.Errorf("expected partial success, got %+v", result)
		}
		if result.Warning == "" {
			t.Error("expected a partial-success warning")
		}
	})

	t.Run("clears the mirror even when the server is unreachable", func(t *testing.T) {
		reconciler, mirror := unreachableReconciler(t)

		if err := reconciler.Record(&services.TryOnResult{SessionID: "s1", Image: "/media/a.png"}); err != nil {
			t.Fatalf("record failed: %v", err)
		}

		result, err := reconciler.Clear(ctx)
		if err != nil {
			t.Fatalf("clear failed: %v", err)
		}

		if result.Warning == "" {
			t.Error("expected an unreachable-server warning")
		}

		entries, err := mirror.List(nil)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected the mirror to be cleared, got %d entries", len(entries))
		}
	})
}
