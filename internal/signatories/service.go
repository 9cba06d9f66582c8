package signatories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentGetter resolves the creator of an active document. Implemented by
// the documents repository; declared here to keep the dependency one-way.
type DocumentGetter interface {
	CreatorOf(ctx context.Context, documentID string) (string, error)
}

// Service contains business logic for signatories.
type Service struct {
	Repo  Repo
	Docs  DocumentGetter
	Queue *OrderQueue
}

func NewService(repo Repo, docs DocumentGetter) *Service {
	return &Service{Repo: repo, Docs: docs, Queue: NewOrderQueue(repo)}
}

// AddInput carries the fields for attaching a new signatory.
type AddInput struct {
	ContactID string
	UserID    string
	Role      string
	IsVisible *bool
}

// Add attaches a signatory to a document owned by the caller. A contact may
// participate in a document only once.
func (s *Service) Add(ctx context.Context, documentID, callerID string, input AddInput) (Signatory, error) {
	if err := s.authorizeCreator(ctx, documentID, callerID); err != nil {
		return Signatory{}, err
	}
	if input.ContactID == "" && input.UserID == "" {
		return Signatory{}, ErrWrongInput
	}

	existing, err := s.Repo.ListActiveByDocument(ctx, documentID)
	if err != nil {
		return Signatory{}, err
	}
	for _, sig := range existing {
		if input.ContactID != "" && sig.ContactID == input.ContactID {
			return Signatory{}, ErrConflict
		}
	}

	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = "signer"
	}
	visible := true
	if input.IsVisible != nil {
		visible = *input.IsVisible
	}
	sig := Signatory{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		ContactID:  input.ContactID,
		UserID:     input.UserID,
		Signing:    SigningPending,
		Read:       ReadNotSent,
		IsVisible:  visible,
		Role:       role,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, sig); err != nil {
		return Signatory{}, err
	}
	return sig, nil
}

// UpdateInput carries the optional fields of a signatory update. A non-nil
// SignOrderQueue triggers the order queue reassignment.
type UpdateInput struct {
	Signing        *SigningStatus
	Read           *ReadStatus
	IsVisible      *bool
	Role           *string
	SignOrderQueue *int
}

// Update applies status/visibility changes and, when requested, moves the
// signatory inside the sign-order queue. The caller must be the document
// creator or the signatory itself.
func (s *Service) Update(ctx context.Context, signatoryID, callerID string, input UpdateInput) (Signatory, error) {
	sig, err := s.Repo.GetByID(ctx, signatoryID)
	if err != nil {
		return Signatory{}, err
	}
	creatorID, err := s.Docs.CreatorOf(ctx, sig.DocumentID)
	if err != nil {
		return Signatory{}, ErrNotFound
	}
	if callerID != creatorID && callerID != sig.UserID {
		return Signatory{}, ErrNotFound
	}

	if input.Signing != nil {
		if !ValidSigningStatus(*input.Signing) {
			return Signatory{}, ErrWrongInput
		}
		sig.Signing = *input.Signing
	}
	if input.Read != nil {
		if !ValidReadStatus(*input.Read) {
			return Signatory{}, ErrWrongInput
		}
		sig.Read = *input.Read
	}
	if input.IsVisible != nil {
		sig.IsVisible = *input.IsVisible
	}
	if input.Role != nil {
		sig.Role = strings.TrimSpace(*input.Role)
	}
	if err := s.Repo.Update(ctx, sig); err != nil {
		return Signatory{}, err
	}

	if input.SignOrderQueue != nil {
		if err := s.Queue.AssignPosition(ctx, sig.DocumentID, sig.ID, *input.SignOrderQueue); err != nil {
			return Signatory{}, err
		}
	}
	return s.Repo.GetByID(ctx, signatoryID)
}

// Remove soft-deletes a signatory and renumbers the queue around it.
func (s *Service) Remove(ctx context.Context, signatoryID, callerID string) error {
	sig, err := s.Repo.GetByID(ctx, signatoryID)
	if err != nil {
		return err
	}
	if err := s.authorizeCreator(ctx, sig.DocumentID, callerID); err != nil {
		return err
	}
	return s.Queue.RemovePosition(ctx, sig.DocumentID, sig.ID)
}

// BulkSetOrder assigns one shared slot to every active signatory of the
// caller's document.
func (s *Service) BulkSetOrder(ctx context.Context, documentID, callerID string, position int) error {
	if err := s.authorizeCreator(ctx, documentID, callerID); err != nil {
		return err
	}
	return s.Queue.BulkSetPosition(ctx, documentID, position)
}

// ListByDocument returns the active signatories of the caller's document.
func (s *Service) ListByDocument(ctx context.Context, documentID, callerID string) ([]Signatory, error) {
	if err := s.authorizeCreator(ctx, documentID, callerID); err != nil {
		return nil, err
	}
	return s.Repo.ListActiveByDocument(ctx, documentID)
}

func (s *Service) authorizeCreator(ctx context.Context, documentID, callerID string) error {
	if s == nil || s.Repo == nil || s.Docs == nil {
		return errors.New("signatories service not configured")
	}
	creatorID, err := s.Docs.CreatorOf(ctx, documentID)
	if err != nil {
		return ErrNotFound
	}
	if creatorID != callerID {
		return ErrNotFound
	}
	return nil
}
