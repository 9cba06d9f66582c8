package documents

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("document not found")
	ErrWrongInput = errors.New("invalid document input")
)

// Repo defines persistence operations for documents. Reads exclude
// soft-deleted rows by default; there is no administrative opt-out here
// because nothing in this service needs one.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	// CreatorOf returns the creator of an active document.
	CreatorOf(ctx context.Context, id string) (string, error)
	Update(ctx context.Context, doc Document) error
	SoftDelete(ctx context.Context, id string) error
	ListByCreator(ctx context.Context, creatorID string, spec SearchSpec) ([]Document, error)
}
