package documents

import (
	"time"

	"esign-backend/internal/inputs"
)

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID string    `json:"documentId"`
	Title      string    `json:"title"`
	IsPrivate  bool      `json:"isPrivate"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ViewResponse adds the derived composite status to a document.
type ViewResponse struct {
	DocumentResponse
	SigningStatus string `json:"signingStatus"`
	ReadStatus    string `json:"readStatus"`
}

// InputFieldResponse is the per-viewer representation of a form field.
type InputFieldResponse struct {
	FieldID           string   `json:"fieldId"`
	Label             string   `json:"label"`
	Kind              string   `json:"kind"`
	ContactRecipients []string `json:"contactRecipients,omitempty"`
	GroupRecipients   []string `json:"groupRecipients,omitempty"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID: doc.ID,
		Title:      doc.Title,
		IsPrivate:  doc.IsPrivate,
		Status:     string(doc.Status),
		CreatedAt:  doc.CreatedAt,
	}
}

func toViewResponse(view View) ViewResponse {
	return ViewResponse{
		DocumentResponse: toResponse(view.Document),
		SigningStatus:    string(view.Aggregate.Signing),
		ReadStatus:       string(view.Aggregate.Read),
	}
}

func toFieldResponse(field inputs.InputField) InputFieldResponse {
	return InputFieldResponse{
		FieldID:           field.ID,
		Label:             field.Label,
		Kind:              field.Kind,
		ContactRecipients: field.ContactRecipients,
		GroupRecipients:   field.GroupRecipients,
	}
}
