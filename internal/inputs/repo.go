package inputs

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("input field not found")

// Repo defines persistence operations for input fields.
type Repo interface {
	Create(ctx context.Context, field InputField) error
	GetByID(ctx context.Context, id string) (InputField, error)
	ListByDocument(ctx context.Context, documentID string) ([]InputField, error)
}
