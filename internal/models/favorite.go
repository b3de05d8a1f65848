package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Collection names for the two independent favorites sets.
const (
	CollectionWardrobe = "wardrobe"
	CollectionTryOn    = "tryon"
)

// Favorite is a denormalized snapshot of a favorited entity.
//
// The snapshot is taken at favorite-time and does not track later edits
// to the original wardrobe item or try-on result.
type Favorite struct {
	id         string
	sequence   int
	collection string
	entityID   string
	snapshot   json.RawMessage
	createdAt  time.Time
}

// NewFavorite creates a Favorite for the given collection and entity.
func NewFavorite(collection, entityID string, snapshot json.RawMessage) *Favorite {
	return &Favorite{
		collection: collection,
		entityID:   entityID,
		snapshot:   snapshot,
		createdAt:  time.Now(),
	}
}

func (f *Favorite) ID() string                { return f.id }
func (f *Favorite) Sequence() int             { return f.sequence }
func (f *Favorite) Collection() string        { return f.collection }
func (f *Favorite) EntityID() string          { return f.entityID }
func (f *Favorite) Snapshot() json.RawMessage { return f.snapshot }
func (f *Favorite) CreatedAt() time.Time      { return f.createdAt }

func (f *Favorite) SetID(id string)          { f.id = id }
func (f *Favorite) SetSequence(sequence int) { f.sequence = sequence }
func (f *Favorite) SetCreatedAt(t time.Time) { f.createdAt = t }

// Validate checks that the favorite identifies an entity and belongs to a known collection.
func (f *Favorite) Validate() error {
	if f.entityID == "" {
		return fmt.Errorf("favorite requires an entity id")
	}
	if f.collection != CollectionWardrobe && f.collection != CollectionTryOn {
		return fmt.Errorf("unknown favorites collection: %s", f.collection)
	}
	if len(f.snapshot) == 0 {
		return fmt.Errorf("favorite requires a snapshot payload")
	}
	return nil
}
