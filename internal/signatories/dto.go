package signatories

// SignatoryResponse is the outward-facing representation of a signatory.
type SignatoryResponse struct {
	SignatoryID   string `json:"signatoryId"`
	DocumentID    string `json:"documentId"`
	ContactID     string `json:"contactId,omitempty"`
	UserID        string `json:"userId"`
	Position      *int   `json:"signOrderQueue"`
	SigningStatus string `json:"signingStatus"`
	ReadStatus    string `json:"readStatus"`
	IsVisible     bool   `json:"isVisible"`
	Role          string `json:"role"`
}

func toResponse(sig Signatory) SignatoryResponse {
	return SignatoryResponse{
		SignatoryID:   sig.ID,
		DocumentID:    sig.DocumentID,
		ContactID:     sig.ContactID,
		UserID:        sig.UserID,
		Position:      sig.Position,
		SigningStatus: string(sig.Signing),
		ReadStatus:    string(sig.Read),
		IsVisible:     sig.IsVisible,
		Role:          sig.Role,
	}
}
