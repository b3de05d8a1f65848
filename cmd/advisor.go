package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mirelvt/vfit/internal/services"
	"github.com/mirelvt/vfit/internal/shared"
	"github.com/urfave/cli/v3"
)

// AdvisorAnalyze evaluates an outfit. A photo argument is uploaded first
// and its stored URL attached to the analysis request.
func (r *Runner) AdvisorAnalyze(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	req := services.AdviceRequest{
		Description:  cmd.String("description"),
		OutfitName:   cmd.String("name"),
		OutfitType:   cmd.String("type"),
		OutfitSize:   cmd.String("size"),
		OutfitSeason: cmd.String("season"),
		OutfitStyle:  cmd.String("style"),
		ImageURL:     cmd.String("image-url"),
	}

	if path := cmd.StringArg("path"); path != "" {
		imageURL, err := r.advisor.Upload(ctx, path)
		if err != nil {
			return err
		}
		req.ImageURL = imageURL
	}

	advice, err := r.advisor.Analyze(ctx, req)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(advice, true)
	}

	r.printAdvice(advice)
	return nil
}

// AdvisorList prints past analyses.
func (r *Runner) AdvisorList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	page := services.Page{
		Skip:  cmd.Int("skip"),
		Limit: cmd.Int("limit"),
	}

	advices, err := r.advisor.List(ctx, page)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(advices, true)
	}

	if len(advices) == 0 {
		return r.writePlain("No analyses yet. Run 'vfit advisor analyze <photo>'.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Outfit Analyses (%d)", len(advices)))
	for _, advice := range advices {
		r.writePlain("%s  %.0f/10  %s\n", advice.ID, advice.SuitabilityScore, advice.Recommendation)
	}

	return nil
}

// AdvisorShow prints one analysis in full.
func (r *Runner) AdvisorShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	advice, err := r.advisor.Get(ctx, cmd.String("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(advice, true)
	}

	r.printAdvice(advice)
	return nil
}

// AdvisorDelete removes one analysis.
func (r *Runner) AdvisorDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id := cmd.String("id")
	if err := r.advisor.Delete(ctx, id); err != nil {
		return err
	}

	return r.writePlain("✓ Deleted analysis %s\n", id)
}

// AdvisorUpload stores an outfit photo for later analysis.
func (r *Runner) AdvisorUpload(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path to an outfit photo", shared.ErrMissingArgument)
	}

	imageURL, err := r.advisor.Upload(ctx, path)
	if err != nil {
		return err
	}

	r.writePlain("✓ Uploaded\n")
	return r.writePlain("Stored image: %s\n", imageURL)
}

func (r *Runner) printAdvice(advice *services.Advice) {
	r.writePlainHeader("Outfit Analysis")
	r.writePlain("Score: %.0f/10\n", advice.SuitabilityScore)
	r.writePlain("Recommendation: %s\n", advice.Recommendation)
	if advice.Explanation != "" {
		r.writePlain("\n%s\n", advice.Explanation)
	}
	if len(advice.Suggestions) > 0 {
		r.writePlainln("Suggestions:")
		for _, s := range advice.Suggestions {
			r.writePlain("  • %s\n", strings.TrimSpace(s))
		}
	}
	if advice.Alternative != "" {
		r.writePlainln("Alternative: %s", advice.Alternative)
	}
}
