package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mirelvt/vfit/internal/history"
	"github.com/mirelvt/vfit/internal/models"
	"github.com/mirelvt/vfit/internal/repositories"
	"github.com/mirelvt/vfit/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	HistoryView ViewState = iota
	FavoritesView
)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	reconciler *history.Reconciler
	favorites  *repositories.FavoriteRepository
	notifier   *repositories.Notifier
	baseURL    string
	styles     *Palette

	width  int
	height int

	historyList  list.Model
	favoriteList list.Model
	warning      string
	status       string
	err          error

	changes       <-chan repositories.Change
	cancelChanges func()

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, reconciler *history.Reconciler, favorites *repositories.FavoriteRepository, notifier *repositories.Notifier, baseURL string, darkMode bool) *Model {
	m := &Model{
		ctx:        ctx,
		view:       HistoryView,
		reconciler: reconciler,
		favorites:  favorites,
		notifier:   notifier,
		baseURL:    strings.TrimRight(baseURL, "/"),
		styles:     StylesFor(darkMode),
		help:       help.New(),
		keys:       newKeyMap(),
	}

	m.historyList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.historyList.Title = "Try-On History"
	m.favoriteList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.favoriteList.Title = "Favorites"

	if notifier != nil {
		m.changes, m.cancelChanges = notifier.Subscribe()
	}

	return m
}

// Init loads both views and arms the change subscription.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadHistory(), m.loadFavorites()}
	if m.changes != nil {
		cmds = append(cmds, m.waitForChange())
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.historyList.SetSize(msg.Width-4, msg.Height-8)
		m.favoriteList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case historyLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.warning = msg.result.Warning

		items := make([]list.Item, len(msg.result.Entries))
		for i, entry := range msg.result.Entries {
			items[i] = historyItem{entry: entry}
		}
		m.historyList.SetItems(items)
		m.historyList.SetSize(m.width-4, m.height-8)
		return m, nil

	case favoritesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		items := make([]list.Item, len(msg.favorites))
		for i, favorite := range msg.favorites {
			items[i] = newFavoriteItem(favorite)
		}
		m.favoriteList.SetItems(items)
		m.favoriteList.SetSize(m.width-4, m.height-8)
		return m, nil

	case collectionChangedMsg:
		if msg.closed {
			return m, nil
		}

		cmds := []tea.Cmd{m.waitForChange()}
		if msg.change.Collection == repositories.HistoryCollection {
			cmds = append(cmds, m.loadHistory())
		} else {
			cmds = append(cmds, m.loadFavorites())
		}
		return m, tea.Batch(cmds...)

	case favoriteSavedMsg:
		if msg.err != nil {
			m.status = "Could not update favorites: " + msg.err.Error()
		} else {
			m.status = "Favorites updated"
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return m.styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	var body string
	switch m.view {
	case HistoryView:
		body = m.renderHistory()
	case FavoritesView:
		body = m.renderFavorites()
	}

	if m.status != "" {
		body = fmt.Sprintf("%s\n%s", body, m.styles.ok.Render(m.status))
	}

	return body
}

// Close releases the change subscription. Safe to call more than once.
func (m *Model) Close() {
	if m.cancelChanges != nil {
		m.cancelChanges()
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.tab):
		if m.view == HistoryView {
			m.view = FavoritesView
		} else {
			m.view = HistoryView
		}
		return m, nil

	case key.Matches(msg, m.keys.refresh):
		return m, tea.Batch(m.loadHistory(), m.loadFavorites())

	case key.Matches(msg, m.keys.enter):
		return m, m.openSelectedImage()

	case key.Matches(msg, m.keys.fav):
		if m.view == HistoryView {
			return m, m.favoriteSelectedEntry()
		}
		return m, nil

	case key.Matches(msg, m.keys.remove):
		if m.view == FavoritesView {
			return m, m.removeSelectedFavorite()
		}
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case HistoryView:
		m.historyList, cmd = m.historyList.Update(msg)
	case FavoritesView:
		m.favoriteList, cmd = m.favoriteList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadHistory() tea.Cmd {
	return func() tea.Msg {
		result, err := m.reconciler.Load(m.ctx)
		return historyLoadedMsg{result: result, err: err}
	}
}

func (m *Model) loadFavorites() tea.Cmd {
	return func() tea.Msg {
		favorites, err := m.favorites.List(nil)
		return favoritesLoadedMsg{favorites: favorites, err: err}
	}
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		change, ok := <-m.changes
		return collectionChangedMsg{change: change, closed: !ok}
	}
}

func (m *Model) favoriteSelectedEntry() tea.Cmd {
	selected, ok := m.historyList.SelectedItem().(historyItem)
	if !ok {
		return nil
	}

	return func() tea.Msg {
		snapshot, err := json.Marshal(map[string]string{
			"text":  selected.entry.Text,
			"image": selected.entry.ResultImage,
		})
		if err != nil {
			return favoriteSavedMsg{err: err}
		}

		favorite := models.NewFavorite(models.CollectionTryOn, selected.entry.ID, snapshot)
		return favoriteSavedMsg{err: m.favorites.Create(favorite)}
	}
}

func (m *Model) removeSelectedFavorite() tea.Cmd {
	selected, ok := m.favoriteList.SelectedItem().(favoriteItem)
	if !ok {
		return nil
	}

	return func() tea.Msg {
		err := m.favorites.RemoveEntity(selected.favorite.Collection(), selected.favorite.EntityID())
		return favoriteSavedMsg{err: err}
	}
}

func (m *Model) openSelectedImage() tea.Cmd {
	var image string

	switch m.view {
	case HistoryView:
		if selected, ok := m.historyList.SelectedItem().(historyItem); ok {
			image = selected.entry.ResultImage
		}
	case FavoritesView:
		if selected, ok := m.favoriteList.SelectedItem().(favoriteItem); ok {
			image = selected.image
		}
	}

	if image == "" {
		return nil
	}

	if strings.HasPrefix(image, "/") {
		image = m.baseURL + image
	}

	return func() tea.Msg {
		return favoriteSavedMsg{err: shared.OpenBrowser(image)}
	}
}

func (m *Model) renderHistory() string {
	var warning string
	if m.warning != "" {
		warning = m.styles.warn.Render(m.warning) + "\n"
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.fav, m.keys.tab, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n\n%s", warning, m.historyList.View(), helpView)
}

func (m *Model) renderFavorites() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.remove, m.keys.tab, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s", m.favoriteList.View(), helpView)
}
