package ui

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/mirelvt/vfit/internal/history"
	"github.com/mirelvt/vfit/internal/models"
)

var (
	_ list.Item = historyItem{}
	_ list.Item = favoriteItem{}
)

// historyItem wraps [history.Entry] to implement [list.Item].
type historyItem struct {
	entry history.Entry
}

func (i historyItem) FilterValue() string { return i.entry.Text }
func (i historyItem) Title() string       { return i.entry.Timestamp }
func (i historyItem) Description() string {
	if i.entry.Text != "" {
		return i.entry.Text
	}
	return i.entry.ResultImage
}

// favoriteItem wraps [models.Favorite] to implement [list.Item].
//
// Display fields come from the snapshot taken at favorite-time, so the
// list renders without touching the server.
type favoriteItem struct {
	favorite *models.Favorite
	name     string
	image    string
}

func newFavoriteItem(favorite *models.Favorite) favoriteItem {
	var snap struct {
		Name     string `json:"name"`
		Text     string `json:"text"`
		Image    string `json:"image"`
		ImageURL string `json:"image_url"`
	}
	// a snapshot that no longer decodes still renders by entity id
	_ = json.Unmarshal(favorite.Snapshot(), &snap)

	name := snap.Name
	if name == "" {
		name = snap.Text
	}
	if name == "" {
		name = favorite.EntityID()
	}

	image := snap.Image
	if image == "" {
		image = snap.ImageURL
	}

	return favoriteItem{favorite: favorite, name: name, image: image}
}

func (i favoriteItem) FilterValue() string { return i.name }
func (i favoriteItem) Title() string       { return i.name }
func (i favoriteItem) Description() string {
	return fmt.Sprintf("%s • saved %s", collectionLabel(i.favorite.Collection()), i.favorite.CreatedAt().Format("Jan 2, 2006"))
}

func collectionLabel(collection string) string {
	switch collection {
	case models.CollectionWardrobe:
		return "wardrobe item"
	case models.CollectionTryOn:
		return "try-on result"
	default:
		return collection
	}
}
