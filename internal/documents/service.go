package documents

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"esign-backend/internal/contacts"
	"esign-backend/internal/identity"
	"esign-backend/internal/inputs"
	"esign-backend/internal/signatories"
)

// Service contains business logic for documents and their read views.
type Service struct {
	Repo     Repo
	Inputs   inputs.Repo
	Sigs     signatories.Repo
	Contacts contacts.Repo
	Users    identity.Repo
}

// Create records a new document owned by creatorID.
func (s *Service) Create(ctx context.Context, creatorID, title string, isPrivate bool) (Document, error) {
	if strings.TrimSpace(creatorID) == "" {
		return Document{}, errors.New("creator id required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Document{}, ErrWrongInput
	}
	doc := Document{
		ID:        uuid.NewString(),
		CreatorID: creatorID,
		Title:     title,
		IsPrivate: isPrivate,
		Status:    StatusDraft,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// View is a document together with its derived composite status.
type View struct {
	Document
	Aggregate signatories.AggregateStatus
}

// Get returns the caller's document with the composite status of the other
// parties. The aggregate is derived on every read, never stored.
func (s *Service) Get(ctx context.Context, documentID, callerID string) (View, error) {
	doc, err := s.ownedDocument(ctx, documentID, callerID)
	if err != nil {
		return View{}, err
	}
	sigs, err := s.Sigs.ListActiveByDocument(ctx, documentID)
	if err != nil {
		return View{}, err
	}
	return View{Document: doc, Aggregate: signatories.Aggregate(sigs, callerID)}, nil
}

// UpdateInput carries the optional settings fields of a document update.
type UpdateInput struct {
	Title     *string
	IsPrivate *bool
	Status    *Status
}

// UpdateSettings applies settings/status changes to the caller's document.
func (s *Service) UpdateSettings(ctx context.Context, documentID, callerID string, input UpdateInput) (Document, error) {
	doc, err := s.ownedDocument(ctx, documentID, callerID)
	if err != nil {
		return Document{}, err
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return Document{}, ErrWrongInput
		}
		doc.Title = title
	}
	if input.IsPrivate != nil {
		doc.IsPrivate = *input.IsPrivate
	}
	if input.Status != nil {
		if !ValidStatus(*input.Status) {
			return Document{}, ErrWrongInput
		}
		doc.Status = *input.Status
	}
	if err := s.Repo.Update(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Delete soft-deletes the caller's document.
func (s *Service) Delete(ctx context.Context, documentID, callerID string) error {
	if _, err := s.ownedDocument(ctx, documentID, callerID); err != nil {
		return err
	}
	return s.Repo.SoftDelete(ctx, documentID)
}

// List returns the caller's documents matching the search specification.
func (s *Service) List(ctx context.Context, callerID string, spec SearchSpec) ([]Document, error) {
	if strings.TrimSpace(callerID) == "" {
		return nil, errors.New("caller id required")
	}
	return s.Repo.ListByCreator(ctx, callerID, spec)
}

// GetInputs returns the document's fields filtered per viewer. Fields the
// viewer may not see are omitted from the result entirely. viewerSignatoryID
// may pin the viewer to a specific signatory row; otherwise the viewer's own
// signatory (matched by user id) is used.
func (s *Service) GetInputs(ctx context.Context, documentID, viewerID, viewerSignatoryID string) ([]inputs.InputField, error) {
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	sigs, err := s.Sigs.ListActiveByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	viewer := inputs.Viewer{IsCreator: doc.CreatorID == viewerID}
	if viewerSignatoryID != "" {
		found := false
		for _, sig := range sigs {
			if sig.ID == viewerSignatoryID {
				viewer.IsSignatory = true
				viewer.ContactID = sig.ContactID
				found = true
				break
			}
		}
		if !found {
			return nil, signatories.ErrNotFound
		}
	} else {
		for _, sig := range sigs {
			if sig.UserID != "" && sig.UserID == viewerID {
				viewer.IsSignatory = true
				viewer.ContactID = sig.ContactID
				break
			}
		}
	}
	if !viewer.IsCreator && !viewer.IsSignatory {
		return nil, ErrNotFound
	}

	owner, err := s.resolveOwner(ctx, doc, sigs)
	if err != nil {
		return nil, err
	}

	fields, err := s.Inputs.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	var visible []inputs.InputField
	for _, field := range fields {
		recipients, err := s.effectiveRecipients(ctx, field)
		if err != nil {
			return nil, err
		}
		if inputs.Visible(doc.IsPrivate, recipients, viewer, owner) {
			visible = append(visible, field)
		}
	}
	return visible, nil
}

// FieldInput carries the creation parameters of a form field.
type FieldInput struct {
	Label             string
	Kind              string
	ContactRecipients []string
	GroupRecipients   []string
}

// AddInput places a new form field on the caller's document.
func (s *Service) AddInput(ctx context.Context, documentID, callerID string, input FieldInput) (inputs.InputField, error) {
	if _, err := s.ownedDocument(ctx, documentID, callerID); err != nil {
		return inputs.InputField{}, err
	}
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return inputs.InputField{}, ErrWrongInput
	}
	kind := strings.TrimSpace(input.Kind)
	if kind == "" {
		kind = "text"
	}
	field := inputs.InputField{
		ID:                uuid.NewString(),
		DocumentID:        documentID,
		Label:             label,
		Kind:              kind,
		ContactRecipients: input.ContactRecipients,
		GroupRecipients:   input.GroupRecipients,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.Inputs.Create(ctx, field); err != nil {
		return inputs.InputField{}, err
	}
	return field, nil
}

// resolveOwner matches the document owner's email/phone against the contact
// store and looks up the owner's own signatory visibility flag.
func (s *Service) resolveOwner(ctx context.Context, doc Document, sigs []signatories.Signatory) (inputs.Owner, error) {
	ownerUser, err := s.Users.GetByID(ctx, doc.CreatorID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return inputs.Owner{}, nil
		}
		return inputs.Owner{}, err
	}
	ownerContact, err := s.Contacts.FindByEmailOrPhone(ctx, ownerUser.Email, ownerUser.Phone)
	if err != nil {
		if errors.Is(err, contacts.ErrNotFound) {
			return inputs.Owner{}, nil
		}
		return inputs.Owner{}, err
	}
	owner := inputs.Owner{ContactID: ownerContact.ID}
	for _, sig := range sigs {
		if sig.ContactID == ownerContact.ID {
			owner.IsVisible = sig.IsVisible
			break
		}
	}
	return owner, nil
}

func (s *Service) effectiveRecipients(ctx context.Context, field inputs.InputField) ([]string, error) {
	recipients := append([]string(nil), field.ContactRecipients...)
	if len(field.GroupRecipients) > 0 {
		expanded, err := s.Contacts.ExpandGroups(ctx, field.GroupRecipients)
		if err != nil {
			return nil, err
		}
		for _, contactID := range expanded {
			if !containsID(recipients, contactID) {
				recipients = append(recipients, contactID)
			}
		}
	}
	return recipients, nil
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func (s *Service) ownedDocument(ctx context.Context, documentID, callerID string) (Document, error) {
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	if doc.CreatorID != callerID {
		return Document{}, ErrNotFound
	}
	return doc, nil
}
