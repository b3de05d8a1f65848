package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mirelvt/vfit/internal/api"
)

func signedToken(t *testing.T, email string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": email})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func authServer(t *testing.T, token string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login", "/register":
			w.Write([]byte(`{"access_token": "` + token + `"}`))
		case "/profile":
			if r.Header.Get("Authorization") == "" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail": "Not authenticated"}`))
				return
			}
			w.Write([]byte(`{"email": "a@b.com", "preferred_style": "casual"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("starts anonymous without a token file", func(t *testing.T) {
		store := NewStore(nil, t.TempDir(), nil)
		store.Restore()

		if store.IsAuthenticated() {
			t.Error("expected store to be anonymous")
		}
		if store.Identity() != nil {
			t.Error("expected nil identity while anonymous")
		}
		if store.Token() != "" {
			t.Error("expected empty token while anonymous")
		}
	})

	t.Run("restores a persisted token", func(t *testing.T) {
		dir := t.TempDir()
		token := signedToken(t, "a@b.com")
		if err := os.WriteFile(filepath.Join(dir, TokenFileName), []byte(token), 0o600); err != nil {
			t.Fatalf("failed to seed token file: %v", err)
		}

		store := NewStore(nil, dir, nil)
		store.Restore()

		if !store.IsAuthenticated() {
			t.Fatal("expected store to be authenticated")
		}
		if got := store.Identity().Email; got != "a@b.com" {
			t.Errorf("expected identity a@b.com, got %s", got)
		}
		if store.Token() != token {
			t.Error("expected restored token to match the file")
		}
	})

	t.Run("silently discards an undecodable token", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, TokenFileName)
		if err := os.WriteFile(path, []byte("not-a-jwt"), 0o600); err != nil {
			t.Fatalf("failed to seed token file: %v", err)
		}

		store := NewStore(nil, dir, nil)
		store.Restore()

		if store.IsAuthenticated() {
			t.Error("expected store to stay anonymous")
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("expected the corrupt token file to be removed")
		}
	})

	t.Run("login persists the token with owner-only permissions", func(t *testing.T) {
		token := signedToken(t, "a@b.com")
		server := authServer(t, token)
		defer server.Close()

		dir := t.TempDir()
		client := api.NewClient(server.URL, server.Client(), nil)
		store := NewStore(client, dir, nil)

		if err := store.Login(ctx, "a@b.com", "hunter2"); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		if !store.IsAuthenticated() {
			t.Fatal("expected store to be authenticated after login")
		}
		if got := store.Identity().Email; got != "a@b.com" {
			t.Errorf("expected identity a@b.com, got %s", got)
		}

		info, err := os.Stat(filepath.Join(dir, TokenFileName))
		if err != nil {
			t.Fatalf("expected token file after login: %v", err)
		}
		if runtime.GOOS != "windows" && info.Mode().Perm() != 0o600 {
			t.Errorf("expected 0600 token file, got %v", info.Mode().Perm())
		}
	})

	t.Run("failed login leaves the store anonymous", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail": "Incorrect email or password"}`))
		}))
		defer server.Close()

		client := api.NewClient(server.URL, server.Client(), nil)
		store := NewStore(client, t.TempDir(), nil)

		err := store.Login(ctx, "a@b.com", "wrong")
		if err == nil {
			t.Fatal("expected login to fail")
		}

		var apiErr *api.Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *api.Error, got %T", err)
		}
		if apiErr.Message != "Incorrect email or password" {
			t.Errorf("expected backend detail, got %q", apiErr.Message)
		}
		if store.IsAuthenticated() {
			t.Error("expected store to stay anonymous after failed login")
		}
	})

	t.Run("rejects a token the backend minted without a subject", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{})
		token, err := unsigned.SignedString([]byte("test-secret"))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}

		server := authServer(t, token)
		defer server.Close()

		client := api.NewClient(server.URL, server.Client(), nil)
		store := NewStore(client, t.TempDir(), nil)

		if err := store.Login(ctx, "a@b.com", "hunter2"); err == nil {
			t.Fatal("expected login to fail on a subjectless token")
		}
		if store.IsAuthenticated() {
			t.Error("expected store to stay anonymous")
		}
	})

	t.Run("logout is idempotent", func(t *testing.T) {
		token := signedToken(t, "a@b.com")
		server := authServer(t, token)
		defer server.Close()

		dir := t.TempDir()
		client := api.NewClient(server.URL, server.Client(), nil)
		store := NewStore(client, dir, nil)

		if err := store.Login(ctx, "a@b.com", "hunter2"); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		if err := store.Logout(); err != nil {
			t.Fatalf("logout failed: %v", err)
		}
		if err := store.Logout(); err != nil {
			t.Errorf("second logout should succeed, got: %v", err)
		}

		if store.IsAuthenticated() {
			t.Error("expected store to be anonymous after logout")
		}
		if _, err := os.Stat(filepath.Join(dir, TokenFileName)); !os.IsNotExist(err) {
			t.Error("expected token file to be removed")
		}
	})

	t.Run("a 401 anywhere forces a logout", func(t *testing.T) {
		token := signedToken(t, "a@b.com")
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/login":
				w.Write([]byte(`{"access_token": "` + token + `"}`))
			default:
				calls++
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail": "Token expired"}`))
			}
		}))
		defer server.Close()

		dir := t.TempDir()
		client := api.NewClient(server.URL, server.Client(), nil)
		store := NewStore(client, dir, nil)

		if err := store.Login(ctx, "a@b.com", "hunter2"); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		if _, err := store.GetProfile(ctx); err == nil {
			t.Fatal("expected profile fetch to fail")
		}

		if calls != 1 {
			t.Fatalf("expected one rejected request, got %d", calls)
		}
		if store.IsAuthenticated() {
			t.Error("expected the 401 to clear the session")
		}
		if _, err := os.Stat(filepath.Join(dir, TokenFileName)); !os.IsNotExist(err) {
			t.Error("expected the 401 to remove the token file")
		}
	})

	t.Run("profile round-trips through the client", func(t *testing.T) {
		token := signedToken(t, "a@b.com")
		server := authServer(t, token)
		defer server.Close()

		client := api.NewClient(server.URL, server.Client(), nil)
		store := NewStore(client, t.TempDir(), nil)

		if err := store.Login(ctx, "a@b.com", "hunter2"); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		profile, err := store.GetProfile(ctx)
		if err != nil {
			t.Fatalf("profile fetch failed: %v", err)
		}
		if profile.Email != "a@b.com" || profile.Style != "casual" {
			t.Errorf("unexpected profile %+v", profile)
		}
	})
}
