package inputs

import "time"

// InputField is a form field placed on a document. ContactRecipients and
// GroupRecipients scope which signatories may see and fill it; groups expand
// to their member contact ids before visibility is evaluated.
type InputField struct {
	ID                string    `json:"id"`
	DocumentID        string    `json:"documentId"`
	Label             string    `json:"label"`
	Kind              string    `json:"kind"`
	ContactRecipients []string  `json:"contactRecipients"`
	GroupRecipients   []string  `json:"groupRecipients"`
	CreatedAt         time.Time `json:"createdAt"`
}
