package signatories

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo keeps signatories in process memory. Order mutations serialize
// on a per-document mutex, mirroring the advisory lock the Postgres repo
// takes.
type MemoryRepo struct {
	mu       sync.RWMutex
	sigs     map[string]Signatory
	docLocks sync.Map // documentID -> *sync.Mutex
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{sigs: make(map[string]Signatory)}
}

func (r *MemoryRepo) Create(ctx context.Context, sig Signatory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if sig.CreatedAt.IsZero() {
		sig.CreatedAt = now
	}
	sig.UpdatedAt = now
	r.sigs[sig.ID] = sig
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Signatory, error) {
	if err := ctx.Err(); err != nil {
		return Signatory{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	sig, ok := r.sigs[id]
	if !ok {
		return Signatory{}, ErrNotFound
	}
	return sig, nil
}

func (r *MemoryRepo) ListActiveByDocument(ctx context.Context, documentID string) ([]Signatory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listActiveLocked(documentID), nil
}

func (r *MemoryRepo) listActiveLocked(documentID string) []Signatory {
	var out []Signatory
	for _, sig := range r.sigs {
		if sig.DocumentID == documentID && sig.DeletedAt == nil {
			out = append(out, sig)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *MemoryRepo) Update(ctx context.Context, sig Signatory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.sigs[sig.ID]
	if !ok || existing.DeletedAt != nil {
		return ErrNotFound
	}
	sig.CreatedAt = existing.CreatedAt
	sig.UpdatedAt = time.Now().UTC()
	r.sigs[sig.ID] = sig
	return nil
}

func (r *MemoryRepo) WithDocumentLock(ctx context.Context, documentID string, fn func(store OrderStore) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lockAny, _ := r.docLocks.LoadOrStore(documentID, &sync.Mutex{})
	lock := lockAny.(*sync.Mutex)
	lock.Lock()
	defer lock.Unlock()
	return fn(&memoryOrderStore{repo: r})
}

type memoryOrderStore struct {
	repo *MemoryRepo
}

func (s *memoryOrderStore) ListActive(ctx context.Context, documentID string) ([]Signatory, error) {
	return s.repo.ListActiveByDocument(ctx, documentID)
}

func (s *memoryOrderStore) SetPosition(ctx context.Context, signatoryID string, position *int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	sig, ok := s.repo.sigs[signatoryID]
	if !ok {
		return ErrNotFound
	}
	if position == nil {
		sig.Position = nil
	} else {
		pos := *position
		sig.Position = &pos
	}
	sig.UpdatedAt = time.Now().UTC()
	s.repo.sigs[signatoryID] = sig
	return nil
}

func (s *memoryOrderStore) MarkDeleted(ctx context.Context, signatoryID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	sig, ok := s.repo.sigs[signatoryID]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	sig.DeletedAt = &now
	sig.UpdatedAt = now
	s.repo.sigs[signatoryID] = sig
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
