package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mirelvt/vfit/internal/api"
)

// AdviceRequest describes the outfit to analyze. Every field is optional;
// ImageURL references an image previously stored with Upload.
type AdviceRequest struct {
	Description  string `json:"description,omitempty"`
	OutfitName   string `json:"outfit_name,omitempty"`
	OutfitType   string `json:"outfit_type,omitempty"`
	OutfitSize   string `json:"outfit_size,omitempty"`
	OutfitSeason string `json:"outfit_season,omitempty"`
	OutfitStyle  string `json:"outfit_style,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
}

// Advice is the canonical shape of an outfit analysis.
//
// The backend's model emits several synonymous field names depending on
// prompt version; adviceWire accepts all of them and normalization
// happens here, at the API boundary, so the rest of the program only ever
// sees this struct.
type Advice struct {
	ID               string
	SuitabilityScore float64
	Recommendation   string
	Explanation      string
	Suggestions      []string
	Alternative      string
	ImageURL         string
	CreatedAt        time.Time
}

type adviceWire struct {
	ID string `json:"id"`

	SuitabilityScore *float64 `json:"suitability_score"`
	Score            *float64 `json:"score"`

	Recommendation string `json:"recommendation"`
	Recommended    string `json:"recommended"`

	Explanation string `json:"explanation"`
	Reason      string `json:"reason"`

	ImprovementSuggestions stringList `json:"improvement_suggestions"`
	Suggestions            stringList `json:"suggestions"`

	BetterOutfitIdea string `json:"better_outfit_idea"`
	Alternative      string `json:"alternative"`

	ImageURL  string    `json:"image_url"`
	CreatedAt timestamp `json:"created_at"`
}

func (w adviceWire) advice() Advice {
	a := Advice{
		ID:             w.ID,
		Recommendation: firstOf(w.Recommendation, w.Recommended),
		Explanation:    firstOf(w.Explanation, w.Reason),
		Suggestions:    w.ImprovementSuggestions,
		Alternative:    firstOf(w.BetterOutfitIdea, w.Alternative),
		ImageURL:       w.ImageURL,
		CreatedAt:      w.CreatedAt.Time,
	}

	if w.SuitabilityScore != nil {
		a.SuitabilityScore = *w.SuitabilityScore
	} else if w.Score != nil {
		a.SuitabilityScore = *w.Score
	}

	if len(a.Suggestions) == 0 {
		a.Suggestions = w.Suggestions
	}

	return a
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// stringList accepts either a JSON array of strings or a single
// comma-joined string. The backend stores suggestions joined; the raw
// model output carries them as a list.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*l = nil
			return nil
		}

		parts := strings.Split(one, ",")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		*l = parts
		return nil
	}

	*l = nil
	return nil
}

// AdvisorService speaks the backend's outfit advisor endpoints.
type AdvisorService struct {
	client *api.Client
	logger *log.Logger
}

func NewAdvisorService(client *api.Client, logger *log.Logger) *AdvisorService {
	return &AdvisorService{client: client, logger: logger}
}

// Analyze sends the outfit description for evaluation.
func (s *AdvisorService) Analyze(ctx context.Context, req AdviceRequest) (*Advice, error) {
	if s.logger != nil {
		s.logger.Info("analyzing outfit, this can take a minute")
	}

	var wire adviceWire
	if err := s.client.Post(ctx, "/api/outfit-advisor/analyze", req, &wire); err != nil {
		return nil, err
	}

	advice := wire.advice()
	return &advice, nil
}

// Upload stores an outfit photo and returns its URL for use in Analyze.
func (s *AdvisorService) Upload(ctx context.Context, imagePath string) (string, error) {
	form := api.NewForm()
	if err := form.AddFilePath("file", imagePath); err != nil {
		return "", api.ClientError(err)
	}

	var resp struct {
		ImageURL string `json:"image_url"`
	}
	if err := s.client.PostForm(ctx, "/api/outfit-advisor/upload", form, &resp); err != nil {
		return "", err
	}

	return resp.ImageURL, nil
}

// List fetches past analyses within the requested page.
func (s *AdvisorService) List(ctx context.Context, page Page) ([]Advice, error) {
	var wire []adviceWire
	if err := s.client.Get(ctx, "/api/outfit-advisor"+page.query(), &wire); err != nil {
		return nil, err
	}

	advices := make([]Advice, 0, len(wire))
	for _, w := range wire {
		advices = append(advices, w.advice())
	}

	return advices, nil
}

// Get fetches one analysis by id.
func (s *AdvisorService) Get(ctx context.Context, id string) (*Advice, error) {
	var wire adviceWire
	if err := s.client.Get(ctx, "/api/outfit-advisor/"+id, &wire); err != nil {
		return nil, err
	}

	advice := wire.advice()
	return &advice, nil
}

// Delete removes one analysis by id.
func (s *AdvisorService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/api/outfit-advisor/"+id, nil)
}
