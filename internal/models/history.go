package models

import (
	"fmt"
	"time"
)

// HistoryEntry mirrors a completed try-on session created from this machine.
//
// The session id is server-assigned when the try-on call returned one, or a
// timestamp-derived fallback id when it did not.
type HistoryEntry struct {
	id             string
	sequence       int
	sessionID      string
	resultImageURL string
	resultText     string
	createdAt      time.Time
}

// NewHistoryEntry creates a local history entry for a completed try-on result.
func NewHistoryEntry(sessionID, resultImageURL, resultText string) *HistoryEntry {
	return &HistoryEntry{
		sessionID:      sessionID,
		resultImageURL: resultImageURL,
		resultText:     resultText,
		createdAt:      time.Now(),
	}
}

func (h *HistoryEntry) ID() string             { return h.id }
func (h *HistoryEntry) Sequence() int          { return h.sequence }
func (h *HistoryEntry) SessionID() string      { return h.sessionID }
func (h *HistoryEntry) ResultImageURL() string { return h.resultImageURL }
func (h *HistoryEntry) ResultText() string     { return h.resultText }
func (h *HistoryEntry) CreatedAt() time.Time   { return h.createdAt }

func (h *HistoryEntry) SetID(id string)          { h.id = id }
func (h *HistoryEntry) SetSequence(sequence int) { h.sequence = sequence }
func (h *HistoryEntry) SetCreatedAt(t time.Time) { h.createdAt = t }

// Validate checks that the entry carries a session id and a result image.
// A session without a completed result is not history yet.
func (h *HistoryEntry) Validate() error {
	if h.sessionID == "" {
		return fmt.Errorf("history entry requires a session id")
	}
	if h.resultImageURL == "" {
		return fmt.Errorf("history entry requires a result image")
	}
	return nil
}
