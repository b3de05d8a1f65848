package ui

import (
	"github.com/mirelvt/vfit/internal/history"
	"github.com/mirelvt/vfit/internal/models"
	"github.com/mirelvt/vfit/internal/repositories"
)

// historyLoadedMsg carries a reconciled history load result.
type historyLoadedMsg struct {
	result *history.LoadResult
	err    error
}

// favoritesLoadedMsg carries a fresh read of both favorites collections.
type favoritesLoadedMsg struct {
	favorites []*models.Favorite
	err       error
}

// collectionChangedMsg relays one Notifier event into the Elm loop.
type collectionChangedMsg struct {
	change repositories.Change
	closed bool
}

// favoriteSavedMsg reports the outcome of a toggle from the history view.
type favoriteSavedMsg struct {
	err error
}
