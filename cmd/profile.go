package main

import (
	"context"

	"github.com/mirelvt/vfit/internal/services"
	"github.com/urfave/cli/v3"
)

// ProfileShow prints the account profile.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	profile, err := r.session.GetProfile(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, true)
	}

	r.writePlainHeader("Profile")
	r.writePlain("Email: %s\n", profile.Email)
	if profile.FullName != "" {
		r.writePlain("Name: %s\n", profile.FullName)
	}
	if profile.Gender != "" {
		r.writePlain("Gender: %s\n", profile.Gender)
	}
	if profile.Style != "" {
		r.writePlain("Preferred style: %s\n", profile.Style)
	}

	return nil
}

// ProfileUpdate writes the provided profile fields.
func (r *Runner) ProfileUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	update := &services.Profile{
		FullName: cmd.String("name"),
		Gender:   cmd.String("gender"),
		Style:    cmd.String("style"),
	}

	updated, err := r.session.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}

	r.logger.Info("profile updated", "email", updated.Email)
	return r.writePlain("✓ Profile updated\n")
}
