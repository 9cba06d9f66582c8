package queue

import (
	"context"
	"time"
)

// Channel identifies the delivery channel of a notification job.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

// Job is one scheduled notification delivery. ID is an opaque identifier;
// the recipient/document/signatory fields are structured metadata, not
// encoded into a parsable name.
type Job struct {
	ID          string    `json:"id"`
	Channel     Channel   `json:"channel"`
	DocumentID  string    `json:"documentId"`
	SignatoryID string    `json:"signatoryId"`
	SharerID    string    `json:"sharerId"`
	Recipient   string    `json:"recipient"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	Link        string    `json:"link"`
	EnqueuedAt  time.Time `json:"enqueuedAt"`
}

// Delayed is a durable delayed queue. Enqueue schedules a job for execution
// after the given delay; Reserve claims jobs due at `now`, each at most once.
type Delayed interface {
	Enqueue(ctx context.Context, job Job, delay time.Duration) error
	Reserve(ctx context.Context, now time.Time, limit int) ([]Job, error)
}
