package sharing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"esign-backend/internal/contacts"
	"esign-backend/internal/documents"
	"esign-backend/internal/identity"
	"esign-backend/internal/queue"
	"esign-backend/internal/shared/metrics"
	"esign-backend/internal/shared/telemetry"
	"esign-backend/internal/signatories"
	"esign-backend/internal/tokens"
)

// Dispatcher orchestrates sharing a document: share-record resolution, token
// issuance, and scheduling of per-channel notification jobs. Dispatch returns
// once every job is enqueued; delivery happens later in the worker.
type Dispatcher struct {
	Shares   ShareRepo
	Ledger   LedgerRepo
	Docs     documents.Repo
	Sigs     signatories.Repo
	Contacts contacts.Repo
	Identity *identity.Service
	Tokens   *tokens.Issuer
	Queue    queue.Delayed
	BaseURL  string

	// Now is swappable in tests.
	Now func() time.Time
}

func (d *Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}

type shareTarget struct {
	sig     signatories.Signatory
	contact contacts.Contact
}

// Share dispatches notifications for the given signatories over the given
// channels, optionally delayed until scheduleAt. A missing address for any
// requested channel fails the whole call before anything is enqueued.
func (d *Dispatcher) Share(ctx context.Context, documentID, callerID string, signatoryIDs []string, channels []queue.Channel, scheduleAt *time.Time) error {
	if len(signatoryIDs) == 0 || len(channels) == 0 {
		return ErrWrongInput
	}
	doc, err := d.ownedDocument(ctx, documentID, callerID)
	if err != nil {
		return err
	}

	targets, err := d.resolveTargets(ctx, doc.ID, signatoryIDs)
	if err != nil {
		return err
	}
	// Validate every (target, channel) pair up front: enqueue nothing on a
	// bad request.
	for _, target := range targets {
		for _, channel := range channels {
			if recipientFor(target.contact, channel) == "" {
				return ErrWrongInput
			}
		}
	}

	share, err := d.resolveShare(ctx, doc.ID, callerID)
	if err != nil {
		return err
	}

	now := d.now()
	var delay time.Duration
	if scheduleAt != nil {
		if until := scheduleAt.Sub(now); until > 0 {
			delay = until
		}
	}

	for _, target := range targets {
		user, err := d.Identity.ResolveOrCreate(ctx, target.contact.Email, target.contact.Phone, target.contact.Name)
		if err != nil {
			return err
		}
		token, err := d.Tokens.Generate(target.contact.Email, target.contact.Phone, user.ID, doc.ID)
		if err != nil {
			return err
		}
		link := share.URL + "?token=" + token

		for _, channel := range channels {
			job := queue.Job{
				ID:          uuid.NewString(),
				Channel:     channel,
				DocumentID:  doc.ID,
				SignatoryID: target.sig.ID,
				SharerID:    callerID,
				Recipient:   recipientFor(target.contact, channel),
				Subject:     "You have a document to sign: " + doc.Title,
				Body:        "Open the link below to review and sign \"" + doc.Title + "\".",
				Link:        link,
				EnqueuedAt:  now,
			}
			if err := d.Queue.Enqueue(ctx, job, delay); err != nil {
				return err
			}
			metrics.ObserveNotificationDelayMs(float64(delay.Milliseconds()))
			telemetry.Info("share.job_enqueued", map[string]any{
				"job_id":       job.ID,
				"document_id":  doc.ID,
				"signatory_id": target.sig.ID,
				"channel":      string(channel),
				"delay_ms":     delay.Milliseconds(),
			})
		}
	}

	metrics.IncShareDispatch()
	return nil
}

// ShareLink returns the tokenized share link for one signatory without
// sending anything.
func (d *Dispatcher) ShareLink(ctx context.Context, documentID, signatoryID, callerID string) (string, error) {
	doc, err := d.ownedDocument(ctx, documentID, callerID)
	if err != nil {
		return "", err
	}
	targets, err := d.resolveTargets(ctx, doc.ID, []string{signatoryID})
	if err != nil {
		return "", err
	}
	target := targets[0]

	share, err := d.resolveShare(ctx, doc.ID, callerID)
	if err != nil {
		return "", err
	}
	user, err := d.Identity.ResolveOrCreate(ctx, target.contact.Email, target.contact.Phone, target.contact.Name)
	if err != nil {
		return "", err
	}
	token, err := d.Tokens.Generate(target.contact.Email, target.contact.Phone, user.ID, doc.ID)
	if err != nil {
		return "", err
	}
	return share.URL + "?token=" + token, nil
}

// History returns the document's delivery ledger, oldest entry first.
func (d *Dispatcher) History(ctx context.Context, documentID, callerID string) ([]LedgerEntry, error) {
	doc, err := d.ownedDocument(ctx, documentID, callerID)
	if err != nil {
		return nil, err
	}
	return d.Ledger.ListByDocument(ctx, doc.ID)
}

// resolveShare reuses the existing share record for (document, sharer) or
// creates one with a fresh stable URL.
func (d *Dispatcher) resolveShare(ctx context.Context, documentID, sharerID string) (ShareDocument, error) {
	share, err := d.Shares.GetByDocumentAndSharer(ctx, documentID, sharerID)
	if err == nil {
		return share, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return ShareDocument{}, err
	}
	share = ShareDocument{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		SharerID:   sharerID,
		Type:       ShareListed,
		URL:        d.BaseURL + "/s/" + uuid.NewString(),
		CreatedAt:  d.now(),
	}
	if err := d.Shares.Create(ctx, share); err != nil {
		return ShareDocument{}, err
	}
	return share, nil
}

func (d *Dispatcher) resolveTargets(ctx context.Context, documentID string, signatoryIDs []string) ([]shareTarget, error) {
	targets := make([]shareTarget, 0, len(signatoryIDs))
	for _, signatoryID := range signatoryIDs {
		sig, err := d.Sigs.GetByID(ctx, signatoryID)
		if err != nil {
			return nil, err
		}
		if sig.DocumentID != documentID {
			return nil, signatories.ErrNotFound
		}
		if sig.ContactID == "" {
			return nil, ErrWrongInput
		}
		contact, err := d.Contacts.GetByID(ctx, sig.ContactID)
		if err != nil {
			return nil, err
		}
		targets = append(targets, shareTarget{sig: sig, contact: contact})
	}
	return targets, nil
}

func (d *Dispatcher) ownedDocument(ctx context.Context, documentID, callerID string) (documents.Document, error) {
	doc, err := d.Docs.GetByID(ctx, documentID)
	if err != nil {
		return documents.Document{}, err
	}
	if doc.CreatorID != callerID {
		return documents.Document{}, documents.ErrNotFound
	}
	return doc, nil
}

func recipientFor(contact contacts.Contact, channel queue.Channel) string {
	switch channel {
	case queue.ChannelEmail:
		return contact.Email
	case queue.ChannelPhone:
		return contact.Phone
	}
	return ""
}
