package services

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/mirelvt/vfit/internal/api"
)

// Credentials is the login/register request payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is the account payload exchanged with the backend.
type Profile struct {
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Style    string `json:"preferred_style,omitempty"`
}

// AuthService speaks the backend's account endpoints. Token persistence
// and session state belong to session.Store, which sits on top of this.
type AuthService struct {
	client *api.Client
	logger *log.Logger
}

func NewAuthService(client *api.Client, logger *log.Logger) *AuthService {
	return &AuthService{client: client, logger: logger}
}

// Login exchanges credentials for a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	return s.obtainToken(ctx, "/login", email, password)
}

// Register creates an account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, email, password string) (string, error) {
	return s.obtainToken(ctx, "/register", email, password)
}

func (s *AuthService) obtainToken(ctx context.Context, path, email, password string) (string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
	}

	if err := s.client.Post(ctx, path, Credentials{Email: email, Password: password}, &resp); err != nil {
		return "", err
	}

	return resp.AccessToken, nil
}

// GetProfile fetches the account profile for the current token.
func (s *AuthService) GetProfile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := s.client.Get(ctx, "/profile", &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

// UpdateProfile writes profile fields and returns the updated account.
func (s *AuthService) UpdateProfile(ctx context.Context, profile *Profile) (*Profile, error) {
	var updated Profile
	if err := s.client.Put(ctx, "/profile", profile, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// Me confirms the token against the backend and returns the account email.
func (s *AuthService) Me(ctx context.Context) (string, error) {
	var resp struct {
		Email string `json:"email"`
	}

	if err := s.client.Get(ctx, "/me", &resp); err != nil {
		return "", err
	}

	return resp.Email, nil
}
