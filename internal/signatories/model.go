package signatories

import "time"

// SigningStatus tracks where a single signatory stands in the signing flow.
type SigningStatus string

const (
	SigningPending      SigningStatus = "pending"
	SigningAskForReview SigningStatus = "ask_for_review"
	SigningRejected     SigningStatus = "rejected"
	SigningCanceled     SigningStatus = "canceled"
	SigningSigned       SigningStatus = "signed"
	SigningDone         SigningStatus = "done"
)

// ReadStatus tracks delivery/consumption of the document by a signatory.
type ReadStatus string

const (
	ReadNotSent     ReadStatus = "not_sent"
	ReadSent        ReadStatus = "sent"
	ReadNotReceived ReadStatus = "not_received"
	ReadOpened      ReadStatus = "opened"
	ReadRead        ReadStatus = "read"
)

// Signatory is a participant attached to a document who may sign, view, or
// validate it. Position is the sign-order queue slot; nil means the signatory
// is not part of the ordered queue. Removal is a soft delete: the row stays,
// the position is cleared.
type Signatory struct {
	ID         string        `json:"id"`
	DocumentID string        `json:"documentId"`
	ContactID  string        `json:"contactId,omitempty"`
	UserID     string        `json:"userId"`
	Position   *int          `json:"position,omitempty"`
	Signing    SigningStatus `json:"signingStatus"`
	Read       ReadStatus    `json:"readStatus"`
	IsVisible  bool          `json:"isVisible"`
	Role       string        `json:"role"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
	DeletedAt  *time.Time    `json:"-"`
}

// ValidSigningStatus reports whether raw is a known signing status.
func ValidSigningStatus(raw SigningStatus) bool {
	switch raw {
	case SigningPending, SigningAskForReview, SigningRejected, SigningCanceled, SigningSigned, SigningDone:
		return true
	}
	return false
}

// ValidReadStatus reports whether raw is a known read status.
func ValidReadStatus(raw ReadStatus) bool {
	switch raw {
	case ReadNotSent, ReadSent, ReadNotReceived, ReadOpened, ReadRead:
		return true
	}
	return false
}
