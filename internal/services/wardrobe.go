package services

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mirelvt/vfit/internal/api"
)

// WardrobeItem is a garment the user registered with the backend.
type WardrobeItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"-"`
}

type wardrobeItemWire struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   timestamp `json:"created_at"`
}

func (w wardrobeItemWire) item() WardrobeItem {
	return WardrobeItem{
		ID:          w.ID,
		Name:        w.Name,
		Category:    w.Category,
		Color:       w.Color,
		Description: w.Description,
		ImageURL:    w.ImageURL,
		CreatedAt:   w.CreatedAt.Time,
	}
}

// NewWardrobeItem is the creation payload for a wardrobe item.
type NewWardrobeItem struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// SearchFilter narrows a wardrobe search. Empty fields are not sent.
type SearchFilter struct {
	GarmentType string
	Style       string
	Color       string
	Page        Page
}

func (f SearchFilter) query() string {
	values := url.Values{}
	if f.GarmentType != "" {
		values.Set("garment_type", f.GarmentType)
	}
	if f.Style != "" {
		values.Set("style", f.Style)
	}
	if f.Color != "" {
		values.Set("color", f.Color)
	}
	if f.Page.Skip > 0 {
		values.Set("skip", strconv.Itoa(f.Page.Skip))
	}
	if f.Page.Limit > 0 {
		values.Set("limit", strconv.Itoa(f.Page.Limit))
	}

	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// Statistics summarizes the account's wardrobe and try-on activity.
type Statistics struct {
	WardrobeItemsByType    map[string]int `json:"wardrobe_items_by_type"`
	TotalWardrobeItems     int            `json:"total_wardrobe_items"`
	TotalTryOnSessions     int            `json:"total_tryon_sessions"`
	CompletedTryOnSessions int            `json:"completed_tryon_sessions"`
}

// Classification is one label the classifier assigned to an image. The
// confidence arrives pre-formatted as a percent string like "85%".
type Classification struct {
	Class      string `json:"class"`
	Confidence string `json:"confidence"`
}

// ClassifyResult is the classifier response for an uploaded garment photo.
type ClassifyResult struct {
	Results  []Classification `json:"results"`
	ImageURL string           `json:"image_url"`
}

// WardrobeService speaks the backend's wardrobe endpoints.
type WardrobeService struct {
	client *api.Client
	logger *log.Logger
}

func NewWardrobeService(client *api.Client, logger *log.Logger) *WardrobeService {
	return &WardrobeService{client: client, logger: logger}
}

// List fetches wardrobe items within the given page.
func (s *WardrobeService) List(ctx context.Context, page Page) ([]WardrobeItem, error) {
	var wire []wardrobeItemWire
	if err := s.client.Get(ctx, "/api/wardrobe/items"+page.query(), &wire); err != nil {
		return nil, err
	}

	items := make([]WardrobeItem, 0, len(wire))
	for _, w := range wire {
		items = append(items, w.item())
	}

	return items, nil
}

// Get fetches a single wardrobe item by id.
func (s *WardrobeService) Get(ctx context.Context, id string) (*WardrobeItem, error) {
	var wire wardrobeItemWire
	if err := s.client.Get(ctx, "/api/wardrobe/items/"+id, &wire); err != nil {
		return nil, err
	}

	item := wire.item()
	return &item, nil
}

// Search fetches wardrobe items matching the filter.
func (s *WardrobeService) Search(ctx context.Context, filter SearchFilter) ([]WardrobeItem, error) {
	var wire []wardrobeItemWire
	if err := s.client.Get(ctx, "/api/wardrobe/search"+filter.query(), &wire); err != nil {
		return nil, err
	}

	items := make([]WardrobeItem, 0, len(wire))
	for _, w := range wire {
		items = append(items, w.item())
	}

	return items, nil
}

// Statistics fetches the account's wardrobe and try-on counts.
func (s *WardrobeService) Statistics(ctx context.Context) (*Statistics, error) {
	var stats Statistics
	if err := s.client.Get(ctx, "/api/wardrobe/statistics", &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

// Add registers a new wardrobe item.
func (s *WardrobeService) Add(ctx context.Context, item NewWardrobeItem) (*WardrobeItem, error) {
	var wire wardrobeItemWire
	if err := s.client.Post(ctx, "/api/wardrobe/items", item, &wire); err != nil {
		return nil, err
	}

	created := wire.item()
	return &created, nil
}

// Delete removes a wardrobe item by id.
func (s *WardrobeService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/api/wardrobe/items/"+id, nil)
}

// Classify uploads a garment photo and returns the classifier's labels
// plus the stored image URL.
func (s *WardrobeService) Classify(ctx context.Context, imagePath string) (*ClassifyResult, error) {
	form := api.NewForm()
	if err := form.AddFilePath("file", imagePath); err != nil {
		return nil, api.ClientError(err)
	}

	if s.logger != nil {
		s.logger.Info("classifying garment image", "path", imagePath)
	}

	var result ClassifyResult
	if err := s.client.PostForm(ctx, "/api/wardrobe/classify", form, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
