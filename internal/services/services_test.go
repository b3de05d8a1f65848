package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mirelvt/vfit/internal/api"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*api.Client, func()) {
	t.Helper()

	server := httptest.NewServer(handler)
	client := api.NewClient(server.URL, server.Client(), nil)

	return client, server.Close
}

func writeTempImage(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("png-bytes"), 0o644); err != nil {
		t.Fatalf("failed to write temp image: %v", err)
	}
	return path
}

func TestPage(t *testing.T) {
	t.Run("zero value adds no query", func(t *testing.T) {
		if got := (Page{}).query(); got != "" {
			t.Errorf("expected empty query, got %q", got)
		}
	})

	t.Run("bounds are encoded", func(t *testing.T) {
		if got := (Page{Skip: 20, Limit: 10}).query(); got != "?limit=10&skip=20" {
			t.Errorf("unexpected query %q", got)
		}
	})
}

func TestTimestamp(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		zero bool
	}{
		{"RFC 3339", `"2025-06-10T14:30:00Z"`, false},
		{"bare ISO with micros", `"2025-06-10T14:30:00.123456"`, false},
		{"bare ISO", `"2025-06-10T14:30:00"`, false},
		{"null", `null`, true},
		{"empty string", `""`, true},
		{"garbage", `"not a time"`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ts timestamp
			if err := json.Unmarshal([]byte(tc.raw), &ts); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if ts.IsZero() != tc.zero {
				t.Errorf("expected zero=%v for %s, got %v", tc.zero, tc.raw, ts.Time)
			}
		})
	}
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	t.Run("login returns the access token", func(t *testing.T) {
		client, teardown := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/login" || r.Method != http.MethodPost {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}

			var creds Credentials
			if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email != "a@b.com" {
				t.Errorf("unexpected credentials %+v (%v)", creds, err)
			}

			w.Write([]byte(`{"access_token": "tok"}`))
		})
		defer teardown()

		token, err := NewAuthService(client, nil).Login(ctx, "a@b.com", "hunter2")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if token != "tok" {
			t.Errorf("expected token tok, got %q", token)
		}
	})

	t.Run("me returns the account email", func(t *testing.T) {
		client, teardown := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"email": "a@b.com"}`))
		})
		defer teardown()

		email, err := NewAuthService(client, nil).Me(ctx)
		if err != nil {
			t.Fatalf("me failed: %v", err)
		}
		if email != "a@b.com" {
			t.Errorf("expected email a@b.com, got %q", email)
		}
	})
}

func TestWardrobeService(t *testing.T) {
	ctx := context.Background()

	t.Run("list decodes items and forwards pagination", func(t *testing.T) {
		client, teardown := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("limit"); got != "5" {
				t.Errorf("expected limit=5, got %q", got)
			}
			w.Write([]byte(`[
				{"id": "item-1", "name": "Denim Jacket", "category": "outerwear", "created_at": "2025-06-10T14:30:00"},
				{"id": "item-2", "name": "White Tee", "category": "tops", "created_at": "2025-06-11T09:00:00"}
			]`))
		})
		defer teardown()

		items, err := NewWardrobeService(client, nil).List(ctx, Page{Limit: 5})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}

		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if items[0].Name != "Denim Jacket" || items[0].CreatedAt.IsZero() {
			t.Errorf("unexpected first item %+v", items[0])
		}
	})

	t.Run("search encodes only the set filters", func(t *testing.T) {
		client, teardown := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/wardrobe/search" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			query := r.URL.Query()
			if got := query.Get("garment_type"); got != "jacket" {
				t.Errorf("expected garment_type=jacket, got %q", got)
			}
			if got := query.Get("style"); got != "casual" {
				t.Errorf("expected style=casual, got %q", got)
			}
			if query.Has("color") || query.Has("skip") {
				t.Errorf("unexpected filters in %q", r.URL.RawQuery)
			}
			w.Write([]byte(`[{"id": "item-1", "name": "Denim Jacket", "category": "outerwear"}]`))
		})
		defer teardown()

		items, err := NewWardrobeService(client, nil).Search(ctx, SearchFilter{
			GarmentType: "jacket",
			Style:       "casual",
		})
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if len(items) != 1 || items[0].Name != "Denim Jacket" {
			t.Errorf("unexpected results %+v", items)
		}
	})

	t.Run("statistics decodes the per-type breakdown", func(t *testing.T) {
		client, teardown := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/wardrobe/statistics" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Write([]byte(`{
				"wardrobe_items_by_type": {"tops": 4, "outerwear": 2},
				"total_wardrobe_items": 6,
				"total_tryon_sessions": 3,
				"completed_tryon_sessions": 2
			}`))
		})
		defer teardown()

		stats, err := NewWardrobeService(client, nil).Statistics(ctx)
		if err != nil {
			t.Fatalf("statistics failed: %v", err)
		}
		if stats.TotalWardrobeItems != 6 || stats.CompletedTryOnSessions != 2 {
			t.Errorf("unexpected statistics %+v", stats)
		}
		if stats.WardrobeItemsByType["tops"] != 4 {
			t.Errorf("unexpected breakdown %v", stats.WardrobeItemsByType)
		}
	})

	t.Run("classify uploads the image as multipart", func(t *testing.T) {
		client, teardown := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("expected multipart body: %v", err)
			}
			if _, _, err := r.FormFile("file"); err != nil {
				t.Errorf("expected file part: %v", err)
			}
			w.Write([]byte(`{"results": [{"class": "jacket", "confidence": "92%"}], "image_url": "/media/x.png"}`))
		})
		defer teardown()

		result, err := NewWardrobeService(client, nil).Classify(ctx, writeTempImage(t, "jacket.png"))
		if err != nil {
			t.Fatalf("classify failed: %v", err)
		}

		if len(result.Results) != 1 || result.Results[0].Class != "jacket" || result.Results[0].Confidence != "92%" {
			t.Errorf("unexpected classify result %+v", result)
		}
	})

	t.Run("classify with a missing file fails client-side", func(t *testing.T) {
		client, teardown := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request should reach the server")
		})
		defer teardown()

		_, err := NewWardrobeService(client, nil).Classify(ctx, "/nonexistent.png")
		if err == nil {
			t.Fatal("expected error for missing file")
		}

		apiErr, ok := err.(*api.Error)
		if !ok || apiErr.Kind != api.KindClient {
			t.Errorf("expected client-side error, got %v", err)
		}
	})
}

func TestTryOnService(t *testing.T) {
	ctx := context.Background()

	t.Run("run sends every expected field", func(t *testing.T) {
		client, teardown := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("expected multipart body: %v", err)
			}

			for _, part := range []string{"person_image", "cloth_image"} {
				if _, _, err := r.FormFile(part); err != nil {
					t.Errorf("expected %s part: %v", part, err)
				}
			}
			for field, want := range map[string]string{
				"instructions": "fit loosely",
				"model_type":   "standard",
				"gender":       "female",
				"garment_type": "dress",
				"style":        "casual",
			} {
				if got := r.FormValue(field); got != want {
					t.Errorf("expected %s=%q, got %q", field, want, got)
				}
			}

			w.Write([]byte(`{"session_id": "s1", "image": "/media/result.png", "text": "Looks great"}`))
		})
		defer teardown()

		result, err := NewTryOnService(client, nil).Run(ctx, TryOnRequest{
			PersonImagePath: writeTempImage(t, "person.png"),
			ClothImagePath:  writeTempImage(t, "cloth.png"),
			Instructions:    "fit loosely",
			ModelType:       "standard",
			Gender:          "female",
			GarmentType:     "dress",
			Style:           "casual",
		})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if result.SessionID != "s1" || result.Image != "/media/result.png" {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("sessions distinguishes completed from pending", func(t *testing.T) {
		client, teardown := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[
				{"id": "s1", "result_image_url": "/media/a.png", "result_text": "done", "created_at": "2025-06-10T14:30:00", "completed_at": "2025-06-10T14:31:00"},
				{"id": "s2", "result_image_url": "", "created_at": "2025-06-10T15:00:00", "completed_at": null}
			]`))
		})
		defer teardown()

		sessions, err := NewTryOnService(client, nil).Sessions(ctx)
		if err != nil {
			t.Fatalf("sessions failed: %v", err)
		}

		if len(sessions) != 2 {
			t.Fatalf("expected 2 sessions, got %d", len(sessions))
		}
		if !sessions[0].Completed() {
			t.Error("expected s1 to be completed")
		}
		if sessions[1].Completed() {
			t.Error("expected s2 to be pending")
		}
		if want := time.Date(2025, 6, 10, 14, 31, 0, 0, time.UTC); !sessions[0].CompletedAt.Equal(want) {
			t.Errorf("expected completed_at %v, got %v", want, sessions[0].CompletedAt)
		}
	})

	t.Run("session fetches a single id", func(t *testing.T) {
		client, teardown := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/try-on/sessions/s1" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Write([]byte(`{"id": "s1", "result_image_url": "/media/a.png", "result_text": "done", "completed_at": "2025-06-10T14:31:00"}`))
		})
		defer teardown()

		session, err := NewTryOnService(client, nil).Session(ctx, "s1")
		if err != nil {
			t.Fatalf("session failed: %v", err)
		}
		if session.ID != "s1" || !session.Completed() {
			t.Errorf("unexpected session %+v", session)
		}
	})

	t.Run("delete targets the session path", func(t *testing.T) {
		client, teardown := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete || r.URL.Path != "/api/try-on/sessions/s1" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			w.WriteHeader(http.StatusNoContent)
		})
		defer teardown()

		if err := NewTryOnService(client, nil).DeleteSession(ctx, "s1"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
	})
}

func TestAdvisorService(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes canonical field names", func(t *testing.T) {
		wire := adviceWire{}
		if err := json.Unmarshal([]byte(`{
			"id": "adv-1",
			"suitability_score": 8.5,
			"recommendation": "wear it",
			"explanation": "colors match",
			"improvement_suggestions": ["add a belt"],
			"better_outfit_idea": "swap the shoes"
		}`), &wire); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}

		advice := wire.advice()
		if advice.SuitabilityScore != 8.5 || advice.Recommendation != "wear it" ||
			advice.Explanation != "colors match" || advice.Alternative != "swap the shoes" {
			t.Errorf("unexpected advice %+v", advice)
		}
		if len(advice.Suggestions) != 1 || advice.Suggestions[0] != "add a belt" {
			t.Errorf("unexpected suggestions %v", advice.Suggestions)
		}
	})

	t.Run("normalizes synonym field names", func(t *testing.T) {
		wire := adviceWire{}
		if err := json.Unmarshal([]byte(`{
			"id": "adv-2",
			"score": 6,
			"recommended": "maybe",
			"reason": "too formal",
			"suggestions": ["try sneakers"],
			"alternative": "jeans and a blazer"
		}`), &wire); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}

		advice := wire.advice()
		if advice.SuitabilityScore != 6 || advice.Recommendation != "maybe" ||
			advice.Explanation != "too formal" || advice.Alternative != "jeans and a blazer" {
			t.Errorf("unexpected advice %+v", advice)
		}
		if len(advice.Suggestions) != 1 || advice.Suggestions[0] != "try sneakers" {
			t.Errorf("unexpected suggestions %v", advice.Suggestions)
		}
	})

	t.Run("suggestions accept a comma-joined string", func(t *testing.T) {
		wire := adviceWire{}
		if err := json.Unmarshal([]byte(`{
			"suitability_score": 7,
			"improvement_suggestions": "add a belt, roll the sleeves"
		}`), &wire); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}

		advice := wire.advice()
		if len(advice.Suggestions) != 2 || advice.Suggestions[1] != "roll the sleeves" {
			t.Errorf("unexpected suggestions %v", advice.Suggestions)
		}
	})

	t.Run("analyze posts the outfit description", func(t *testing.T) {
		client, teardown := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/outfit-advisor/analyze" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}

			var req AdviceRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("expected JSON body: %v", err)
			}
			if req.OutfitType != "dress" || req.OutfitSeason != "summer" || req.ImageURL != "/media/outfit.png" {
				t.Errorf("unexpected request %+v", req)
			}

			w.Write([]byte(`{"id": "adv-1", "score": 7, "recommended": "yes"}`))
		})
		defer teardown()

		advice, err := NewAdvisorService(client, nil).Analyze(ctx, AdviceRequest{
			OutfitType:   "dress",
			OutfitSeason: "summer",
			ImageURL:     "/media/outfit.png",
		})
		if err != nil {
			t.Fatalf("analyze failed: %v", err)
		}

		if advice.SuitabilityScore != 7 || advice.Recommendation != "yes" {
			t.Errorf("unexpected advice %+v", advice)
		}
	})

	t.Run("upload sends the photo and returns its stored URL", func(t *testing.T) {
		client, teardown := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("expected multipart body: %v", err)
			}
			if _, _, err := r.FormFile("file"); err != nil {
				t.Errorf("expected file part: %v", err)
			}
			w.Write([]byte(`{"image_url": "/media/outfit.png"}`))
		})
		defer teardown()

		imageURL, err := NewAdvisorService(client, nil).Upload(ctx, writeTempImage(t, "outfit.png"))
		if err != nil {
			t.Fatalf("upload failed: %v", err)
		}
		if imageURL != "/media/outfit.png" {
			t.Errorf("expected stored URL, got %q", imageURL)
		}
	})
}
