package signatories

import "context"

// OrderStore is the view of the signatory store available inside a
// per-document critical section. All mutations through it are atomic with
// respect to the enclosing WithDocumentLock call.
type OrderStore interface {
	ListActive(ctx context.Context, documentID string) ([]Signatory, error)
	SetPosition(ctx context.Context, signatoryID string, position *int) error
	MarkDeleted(ctx context.Context, signatoryID string) error
}

// Repo defines persistence operations for signatories.
type Repo interface {
	Create(ctx context.Context, sig Signatory) error
	GetByID(ctx context.Context, id string) (Signatory, error)
	ListActiveByDocument(ctx context.Context, documentID string) ([]Signatory, error)
	Update(ctx context.Context, sig Signatory) error
	// WithDocumentLock serializes order mutations per document: fn observes a
	// stable snapshot of the document's signatories and its writes land
	// atomically. Concurrent callers for the same document queue up here.
	WithDocumentLock(ctx context.Context, documentID string, fn func(store OrderStore) error) error
}
