// Package session manages persisted login state for the wardrobe backend.
//
// A Store is either anonymous or authenticated. The bearer token lives at
// ~/.vfit/token with owner-only permissions, and identity is decoded from
// the token's claims locally, without a server round-trip.
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mirelvt/vfit/internal/api"
	"github.com/mirelvt/vfit/internal/services"
	"github.com/mirelvt/vfit/internal/shared"
)

// TokenFileName is the token's file name inside the data directory.
const TokenFileName = "token"

// Identity is what the token proves about the logged-in user.
type Identity struct {
	Email string
}

// Store owns the session lifecycle: restore, login, logout, expiry.
//
// It implements api.TokenSource and registers itself as the client's
// unauthorized hook, so a 401 anywhere forces a logout.
type Store struct {
	mu       sync.RWMutex
	token    string
	identity *Identity
	path     string
	auth     *services.AuthService
	logger   *log.Logger
}

// NewStore builds a Store persisting its token under dataDir and wires it
// into the client's auth plumbing.
func NewStore(client *api.Client, dataDir string, logger *log.Logger) *Store {
	s := &Store{
		path:   filepath.Join(dataDir, TokenFileName),
		logger: logger,
	}

	if client != nil {
		s.auth = services.NewAuthService(client, logger)
		client.SetTokenSource(s)
		client.OnUnauthorized(s.Expire)
	}

	return s
}

// Token implements api.TokenSource. Returns "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Identity returns who the current token belongs to, or nil when anonymous.
func (s *Store) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.identity
}

// IsAuthenticated reports whether a decodable token is loaded.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.identity != nil
}

// Restore loads the persisted token, if any. A missing file leaves the
// store anonymous; an undecodable token is discarded silently, since the
// holder of a corrupt token is indistinguishable from a logged-out user.
func (s *Store) Restore() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	identity, err := decodeIdentity(string(data))
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("discarding stored token", "error", err)
		}

		os.Remove(s.path)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = string(data)
	s.identity = identity
}

// Login exchanges credentials for a bearer token and persists it.
func (s *Store) Login(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, s.auth.Login, email, password)
}

// Register creates an account and logs straight in with it.
func (s *Store) Register(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, s.auth.Register, email, password)
}

func (s *Store) authenticate(ctx context.Context, obtain func(context.Context, string, string) (string, error), email, password string) error {
	token, err := obtain(ctx, email, password)
	if err != nil {
		return err
	}

	identity, err := decodeIdentity(token)
	if err != nil {
		return api.ClientError(fmt.Errorf("%w: %v", shared.ErrTokenInvalid, err))
	}

	if err := s.persist(token); err != nil {
		return api.ClientError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.identity = identity

	return nil
}

// Logout clears the session. Logging out while anonymous is a no-op.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.identity = nil

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}

	return nil
}

// Expire drops the session after the backend rejected its token. Unlike
// Logout it never fails: a stale token file is retried on the next logout.
func (s *Store) Expire() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return
	}

	s.token = ""
	s.identity = nil
	os.Remove(s.path)

	if s.logger != nil {
		s.logger.Warn("Session expired. Please log in again.")
	}
}

// GetProfile fetches the account profile. Session state is untouched on
// failure apart from the client's own 401 handling.
func (s *Store) GetProfile(ctx context.Context) (*services.Profile, error) {
	return s.auth.GetProfile(ctx)
}

// UpdateProfile writes profile fields and returns the updated account.
func (s *Store) UpdateProfile(ctx context.Context, profile *services.Profile) (*services.Profile, error) {
	return s.auth.UpdateProfile(ctx, profile)
}

func (s *Store) persist(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	return nil
}

// decodeIdentity extracts the subject claim without verifying the
// signature. The backend is the verifier; locally the token is only a
// statement of who we believe is logged in.
func decodeIdentity(token string) (*Identity, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()

	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("token has no subject claim")
	}

	return &Identity{Email: subject}, nil
}
