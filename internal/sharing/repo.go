package sharing

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("share not found")
	ErrWrongInput = errors.New("invalid share input")
)

// ShareRepo defines persistence operations for share records.
type ShareRepo interface {
	Create(ctx context.Context, share ShareDocument) error
	GetByDocumentAndSharer(ctx context.Context, documentID, sharerID string) (ShareDocument, error)
}

// LedgerRepo defines the append-only delivery ledger.
type LedgerRepo interface {
	Append(ctx context.Context, entry LedgerEntry) error
	ListByDocument(ctx context.Context, documentID string) ([]LedgerEntry, error)
}
