package inputs

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	fields map[string]InputField
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{fields: make(map[string]InputField)}
}

func (r *MemoryRepo) Create(ctx context.Context, field InputField) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if field.CreatedAt.IsZero() {
		field.CreatedAt = time.Now().UTC()
	}
	r.fields[field.ID] = field
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (InputField, error) {
	if err := ctx.Err(); err != nil {
		return InputField{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	field, ok := r.fields[id]
	if !ok {
		return InputField{}, ErrNotFound
	}
	return field, nil
}

func (r *MemoryRepo) ListByDocument(ctx context.Context, documentID string) ([]InputField, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []InputField
	for _, field := range r.fields {
		if field.DocumentID == documentID {
			out = append(out, field)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
