package contacts

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	contacts map[string]Contact
	groups   map[string]Group
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		contacts: make(map[string]Contact),
		groups:   make(map[string]Group),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, contact Contact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now().UTC()
	}
	r.contacts[contact.ID] = contact
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Contact, error) {
	if err := ctx.Err(); err != nil {
		return Contact{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	contact, ok := r.contacts[id]
	if !ok {
		return Contact{}, ErrNotFound
	}
	return contact, nil
}

func (r *MemoryRepo) GetByIDs(ctx context.Context, ids []string) ([]Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Contact, 0, len(ids))
	for _, id := range ids {
		if contact, ok := r.contacts[id]; ok {
			out = append(out, contact)
		}
	}
	return out, nil
}

func (r *MemoryRepo) FindByEmailOrPhone(ctx context.Context, email, phone string) (Contact, error) {
	if err := ctx.Err(); err != nil {
		return Contact{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.TrimSpace(strings.ToLower(email))
	phone = strings.TrimSpace(phone)
	if email != "" {
		for _, contact := range r.contacts {
			if strings.EqualFold(contact.Email, email) {
				return contact, nil
			}
		}
	}
	if phone != "" {
		for _, contact := range r.contacts {
			if contact.Phone == phone {
				return contact, nil
			}
		}
	}
	return Contact{}, ErrNotFound
}

func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Contact
	for _, contact := range r.contacts {
		if contact.OwnerID == ownerID {
			out = append(out, contact)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) CreateGroup(ctx context.Context, group Group) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}
	r.groups[group.ID] = group
	return nil
}

func (r *MemoryRepo) ExpandGroups(ctx context.Context, groupIDs []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, groupID := range groupIDs {
		group, ok := r.groups[groupID]
		if !ok {
			continue
		}
		for _, memberID := range group.MemberIDs {
			if _, dup := seen[memberID]; dup {
				continue
			}
			seen[memberID] = struct{}{}
			out = append(out, memberID)
		}
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
