package documents

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]Document)}
}

func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	r.docs[doc.ID] = doc
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok || doc.DeletedAt != nil {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (r *MemoryRepo) CreatorOf(ctx context.Context, id string) (string, error) {
	doc, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return doc.CreatorID, nil
}

func (r *MemoryRepo) Update(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.docs[doc.ID]
	if !ok || existing.DeletedAt != nil {
		return ErrNotFound
	}
	doc.CreatedAt = existing.CreatedAt
	doc.UpdatedAt = time.Now().UTC()
	r.docs[doc.ID] = doc
	return nil
}

func (r *MemoryRepo) SoftDelete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok || doc.DeletedAt != nil {
		return ErrNotFound
	}
	now := time.Now().UTC()
	doc.Status = StatusDeleted
	doc.DeletedAt = &now
	doc.UpdatedAt = now
	r.docs[id] = doc
	return nil
}

func (r *MemoryRepo) ListByCreator(ctx context.Context, creatorID string, spec SearchSpec) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(spec.Query))
	var out []Document
	for _, doc := range r.docs {
		if doc.CreatorID != creatorID || doc.DeletedAt != nil {
			continue
		}
		if query != "" && !matches(strings.ToLower(doc.Title), query) {
			continue
		}
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	offset := spec.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if spec.Limit > 0 && spec.Limit < len(out) {
		out = out[:spec.Limit]
	}
	return out, nil
}

func matches(title, query string) bool {
	if utf8.RuneCountInString(query) < FullTextThreshold {
		return strings.HasPrefix(title, query)
	}
	return strings.Contains(title, query)
}

var _ Repo = (*MemoryRepo)(nil)
