package services

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mirelvt/vfit/internal/api"
)

// TryOnRequest is everything a virtual try-on run needs. PersonImagePath
// and ClothImagePath are local files; the rest are free-form hints passed
// through to the generator.
type TryOnRequest struct {
	PersonImagePath string
	ClothImagePath  string
	Instructions    string
	ModelType       string
	Gender          string
	GarmentType     string
	Style           string
}

// TryOnResult is the immediate response of a try-on run.
type TryOnResult struct {
	SessionID string `json:"session_id"`
	Image     string `json:"image"`
	Text      string `json:"text"`
}

// TryOnSession is a server-side record of a try-on run.
type TryOnSession struct {
	ID             string    `json:"id"`
	ResultImageURL string    `json:"result_image_url"`
	ResultText     string    `json:"result_text"`
	CreatedAt      time.Time `json:"-"`
	CompletedAt    time.Time `json:"-"`
}

// Completed reports whether the session produced a result image. Sessions
// still generating, or that failed server-side, have none.
func (s TryOnSession) Completed() bool {
	return s.ResultImageURL != ""
}

type tryOnSessionWire struct {
	ID             string    `json:"id"`
	ResultImageURL string    `json:"result_image_url"`
	ResultText     string    `json:"result_text"`
	CreatedAt      timestamp `json:"created_at"`
	CompletedAt    timestamp `json:"completed_at"`
}

func (w tryOnSessionWire) session() TryOnSession {
	return TryOnSession{
		ID:             w.ID,
		ResultImageURL: w.ResultImageURL,
		ResultText:     w.ResultText,
		CreatedAt:      w.CreatedAt.Time,
		CompletedAt:    w.CompletedAt.Time,
	}
}

// TryOnService speaks the backend's virtual try-on endpoints.
type TryOnService struct {
	client *api.Client
	logger *log.Logger
}

func NewTryOnService(client *api.Client, logger *log.Logger) *TryOnService {
	return &TryOnService{client: client, logger: logger}
}

// Run submits a try-on and waits for the generated result. Generation can
// take a while, so callers should pass a context with a generous deadline.
func (s *TryOnService) Run(ctx context.Context, req TryOnRequest) (*TryOnResult, error) {
	form := api.NewForm()

	if err := form.AddFilePath("person_image", req.PersonImagePath); err != nil {
		return nil, api.ClientError(err)
	}
	if err := form.AddFilePath("cloth_image", req.ClothImagePath); err != nil {
		return nil, api.ClientError(err)
	}

	fields := map[string]string{
		"instructions": req.Instructions,
		"model_type":   req.ModelType,
		"gender":       req.Gender,
		"garment_type": req.GarmentType,
		"style":        req.Style,
	}
	for _, name := range []string{"instructions", "model_type", "gender", "garment_type", "style"} {
		if err := form.AddField(name, fields[name]); err != nil {
			return nil, api.ClientError(err)
		}
	}

	if s.logger != nil {
		s.logger.Info("generating try-on result, this can take a minute")
	}

	var result TryOnResult
	if err := s.client.PostForm(ctx, "/api/try-on", form, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Sessions fetches the server's try-on session history, completed or not.
func (s *TryOnService) Sessions(ctx context.Context) ([]TryOnSession, error) {
	var wire []tryOnSessionWire
	if err := s.client.Get(ctx, "/api/try-on/sessions", &wire); err != nil {
		return nil, err
	}

	sessions := make([]TryOnSession, 0, len(wire))
	for _, w := range wire {
		sessions = append(sessions, w.session())
	}

	return sessions, nil
}

// Session fetches a single try-on session by id.
func (s *TryOnService) Session(ctx context.Context, id string) (*TryOnSession, error) {
	var wire tryOnSessionWire
	if err := s.client.Get(ctx, "/api/try-on/sessions/"+id, &wire); err != nil {
		return nil, err
	}

	session := wire.session()
	return &session, nil
}

// DeleteSession removes one server-side session.
func (s *TryOnService) DeleteSession(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/api/try-on/sessions/"+id, nil)
}
