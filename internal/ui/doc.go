// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides two views over the wardrobe data:
//  1. [HistoryView] : Browse reconciled try-on history (server or local fallback)
//  2. [FavoritesView] : Browse device-local favorites across both collections
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via typed msg structs.
// Collection changes arrive through a repositories.Notifier subscription, so favorites saved or removed elsewhere
// in the process refresh the lists without polling the database.
//
// Keyboard navigation uses vim-style bindings (j/k, tab, enter, f, x, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
