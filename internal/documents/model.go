package documents

import "time"

// Status is the document lifecycle state. Deletion is a status transition;
// rows are never physically removed.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusDeleted    Status = "deleted"
)

// Document is a signable document owned by its creator. IsPrivate switches
// field visibility to the restrictive rule set.
type Document struct {
	ID        string     `json:"id"`
	CreatorID string     `json:"creatorId"`
	Title     string     `json:"title"`
	IsPrivate bool       `json:"isPrivate"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"-"`
}

// ValidStatus reports whether raw is a known document status.
func ValidStatus(raw Status) bool {
	switch raw {
	case StatusDraft, StatusInProgress, StatusCompleted, StatusDeleted:
		return true
	}
	return false
}

// SearchSpec is a typed query specification for listing documents. Query
// matching strategy depends on length: short inputs use prefix matching,
// longer ones full-text search.
type SearchSpec struct {
	Query  string
	Limit  int
	Offset int
}

// FullTextThreshold is the minimum query length (in runes) for full-text
// search; anything shorter falls back to prefix matching.
const FullTextThreshold = 3
