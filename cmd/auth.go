package main

import (
	"context"
	"fmt"

	"github.com/mirelvt/vfit/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges credentials for a session token and persists it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	r.logger.Info("logging in", "email", email)

	if err := r.session.Login(ctx, email, password); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return r.writePlain("✓ Logged in as %s\n", r.session.Identity().Email)
}

// AuthRegister creates an account and logs straight in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	r.logger.Info("registering account", "email", email)

	if err := r.session.Register(ctx, email, password); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return r.writePlain("✓ Account created, logged in as %s\n", r.session.Identity().Email)
}

// AuthLogout discards the stored session. Safe to run while logged out.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.Logout(); err != nil {
		return err
	}

	return r.writePlain("✓ Logged out\n")
}

// AuthWhoami reports the identity decoded from the stored token, without
// a server round-trip.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	identity := r.session.Identity()
	if identity == nil {
		return r.writePlain("Not logged in\n")
	}

	return r.writePlain("%s\n", identity.Email)
}

// AuthStatus verifies the stored token against the backend.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	profile, err := r.session.GetProfile(ctx)
	if err != nil {
		if r.session.IsAuthenticated() {
			return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
		}
		return r.writePlain("✗ Session expired. Please log in again.\n")
	}

	r.writePlain("✓ Session valid\n")
	return r.writePlain("Account: %s\n", profile.Email)
}
