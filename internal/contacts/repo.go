package contacts

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("contact not found")

// Repo defines persistence operations for contacts and groups.
type Repo interface {
	Create(ctx context.Context, contact Contact) error
	GetByID(ctx context.Context, id string) (Contact, error)
	GetByIDs(ctx context.Context, ids []string) ([]Contact, error)
	// FindByEmailOrPhone matches a contact by email first, then phone.
	// Used to resolve a document owner's contact identity.
	FindByEmailOrPhone(ctx context.Context, email, phone string) (Contact, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Contact, error)
	CreateGroup(ctx context.Context, group Group) error
	// ExpandGroups returns the union of member contact ids of the given groups.
	// Unknown group ids are ignored.
	ExpandGroups(ctx context.Context, groupIDs []string) ([]string, error)
}
