package sharing

import (
	"time"

	"esign-backend/internal/queue"
)

// ShareType controls how a share URL is discoverable.
type ShareType string

const (
	SharePublic ShareType = "public"
	ShareListed ShareType = "listed"
)

// ShareDocument is the one share record per (document, sharer) pair. The URL
// is stable across repeated shares.
type ShareDocument struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	SharerID   string    `json:"sharerId"`
	Type       ShareType `json:"type"`
	URL        string    `json:"url"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LedgerEntry is one append-only row per attempted delivery to a signatory
// over one channel. Rows are never updated in place; re-deliveries append new
// rows, preserving the full audit trail.
type LedgerEntry struct {
	ID          string        `json:"id"`
	DocumentID  string        `json:"documentId"`
	SignatoryID string        `json:"signatoryId"`
	Channel     queue.Channel `json:"channel"`
	IsSent      bool          `json:"isSent"`
	CreatedAt   time.Time     `json:"createdAt"`
}
