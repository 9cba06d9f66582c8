package sharing

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryShareRepo struct {
	mu     sync.RWMutex
	shares map[string]ShareDocument
}

func NewMemoryShareRepo() *MemoryShareRepo {
	return &MemoryShareRepo{shares: make(map[string]ShareDocument)}
}

func (r *MemoryShareRepo) Create(ctx context.Context, share ShareDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if share.CreatedAt.IsZero() {
		share.CreatedAt = time.Now().UTC()
	}
	r.shares[share.ID] = share
	return nil
}

func (r *MemoryShareRepo) GetByDocumentAndSharer(ctx context.Context, documentID, sharerID string) (ShareDocument, error) {
	if err := ctx.Err(); err != nil {
		return ShareDocument{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, share := range r.shares {
		if share.DocumentID == documentID && share.SharerID == sharerID {
			return share, nil
		}
	}
	return ShareDocument{}, ErrNotFound
}

var _ ShareRepo = (*MemoryShareRepo)(nil)

type MemoryLedgerRepo struct {
	mu      sync.RWMutex
	entries []LedgerEntry
}

func NewMemoryLedgerRepo() *MemoryLedgerRepo {
	return &MemoryLedgerRepo{}
}

func (r *MemoryLedgerRepo) Append(ctx context.Context, entry LedgerEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *MemoryLedgerRepo) ListByDocument(ctx context.Context, documentID string) ([]LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []LedgerEntry
	for _, entry := range r.entries {
		if entry.DocumentID == documentID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

var _ LedgerRepo = (*MemoryLedgerRepo)(nil)
