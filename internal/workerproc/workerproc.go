package workerproc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"esign-backend/internal/documents"
	"esign-backend/internal/identity"
	"esign-backend/internal/notify"
	"esign-backend/internal/queue"
	"esign-backend/internal/shared/metrics"
	"esign-backend/internal/shared/telemetry"
	"esign-backend/internal/sharing"
	"esign-backend/internal/signatories"
)

// ErrInvalidJob indicates a job missing required fields. Such jobs are
// dropped; there is nothing to retry.
type ErrInvalidJob struct {
	JobID  string
	Reason string
}

func (e ErrInvalidJob) Error() string { return "invalid job: " + e.Reason }

// ErrSkipped indicates the job target went away between enqueue and delivery.
type ErrSkipped struct {
	JobID  string
	Reason string
}

func (e ErrSkipped) Error() string { return "job skipped: " + e.Reason }

// Processor delivers one notification job: it re-checks that the document and
// signatory are still live, sends over the job's channel, and appends the
// outcome to the delivery ledger. Delivery failures are recorded, never
// retried.
type Processor struct {
	Docs     documents.Repo
	Sigs     signatories.Repo
	Ledger   sharing.LedgerRepo
	Identity *identity.Service
	Email    notify.EmailSender
	SMS      notify.SMSSender

	// SMSOriginator is the sender name shown on outgoing SMS.
	SMSOriginator string

	Now func() time.Time
}

func (p *Processor) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now().UTC()
}

// Process handles a single reserved job. A non-nil error means infrastructure
// failure (store or ledger unavailable); provider-level delivery failures are
// absorbed into the ledger.
func (p *Processor) Process(ctx context.Context, job queue.Job) error {
	if err := validate(job); err != nil {
		return err
	}

	doc, err := p.Docs.GetByID(ctx, job.DocumentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return ErrSkipped{JobID: job.ID, Reason: "document gone"}
		}
		return err
	}
	if doc.Status == documents.StatusDeleted {
		return ErrSkipped{JobID: job.ID, Reason: "document deleted"}
	}

	sig, err := p.Sigs.GetByID(ctx, job.SignatoryID)
	if err != nil {
		if errors.Is(err, signatories.ErrNotFound) {
			return ErrSkipped{JobID: job.ID, Reason: "signatory gone"}
		}
		return err
	}
	if sig.DeletedAt != nil || sig.Signing == signatories.SigningCanceled {
		return ErrSkipped{JobID: job.ID, Reason: "signatory inactive"}
	}

	isSent := p.deliver(ctx, job)

	entry := sharing.LedgerEntry{
		ID:          uuid.NewString(),
		DocumentID:  job.DocumentID,
		SignatoryID: job.SignatoryID,
		Channel:     job.Channel,
		IsSent:      isSent,
		CreatedAt:   p.now(),
	}
	if err := p.Ledger.Append(ctx, entry); err != nil {
		return err
	}

	if isSent {
		metrics.IncNotificationSent()
		if sig.Read == signatories.ReadNotSent {
			sig.Read = signatories.ReadSent
			sig.UpdatedAt = p.now()
			if err := p.Sigs.Update(ctx, sig); err != nil {
				telemetry.Warn("worker.share.read_status_update_failed", map[string]any{
					"job_id":       job.ID,
					"signatory_id": job.SignatoryID,
					"error":        err.Error(),
				})
			}
		}
	} else {
		metrics.IncNotificationFailed()
	}
	return nil
}

// deliver attempts the channel send and reports the provider outcome.
func (p *Processor) deliver(ctx context.Context, job queue.Job) bool {
	switch job.Channel {
	case queue.ChannelEmail:
		if p.Email == nil {
			telemetry.Warn("worker.share.email_sender_missing", map[string]any{"job_id": job.ID})
			return false
		}
		body := job.Body + "\n\n" + job.Link
		isSent, err := p.Email.SendEmail(ctx, job.Recipient, job.Subject, body)
		if err != nil {
			telemetry.Error("worker.share.email_failed", map[string]any{
				"job_id": job.ID,
				"error":  err.Error(),
			})
			return false
		}
		return isSent

	case queue.ChannelPhone:
		if p.SMS == nil {
			telemetry.Warn("worker.share.sms_sender_missing", map[string]any{"job_id": job.ID})
			return false
		}
		// The sharer's quota gates the send; the decrement doubles as the
		// check.
		if err := p.Identity.ConsumeSMSCredit(ctx, job.SharerID); err != nil {
			if errors.Is(err, identity.ErrNoSMSQuota) {
				telemetry.Warn("worker.share.sms_quota_exhausted", map[string]any{
					"job_id":    job.ID,
					"sharer_id": job.SharerID,
				})
				return false
			}
			telemetry.Error("worker.share.sms_quota_check_failed", map[string]any{
				"job_id": job.ID,
				"error":  err.Error(),
			})
			return false
		}
		message := job.Body + " " + job.Link
		isSent, err := p.SMS.SendSMS(ctx, job.Recipient, message, p.SMSOriginator)
		if err != nil {
			telemetry.Error("worker.share.sms_failed", map[string]any{
				"job_id": job.ID,
				"error":  err.Error(),
			})
		}
		if !isSent || err != nil {
			// Only a delivered SMS costs a credit.
			p.refundSMSCredit(ctx, job)
			return false
		}
		return true
	}

	telemetry.Error("worker.share.unknown_channel", map[string]any{
		"job_id":  job.ID,
		"channel": string(job.Channel),
	})
	return false
}

func (p *Processor) refundSMSCredit(ctx context.Context, job queue.Job) {
	if err := p.Identity.RefundSMSCredit(ctx, job.SharerID); err != nil {
		telemetry.Warn("worker.share.sms_refund_failed", map[string]any{
			"job_id":    job.ID,
			"sharer_id": job.SharerID,
			"error":     err.Error(),
		})
	}
}

func validate(job queue.Job) error {
	switch {
	case strings.TrimSpace(job.ID) == "":
		return ErrInvalidJob{JobID: job.ID, Reason: "missing id"}
	case strings.TrimSpace(job.DocumentID) == "":
		return ErrInvalidJob{JobID: job.ID, Reason: "missing document id"}
	case strings.TrimSpace(job.SignatoryID) == "":
		return ErrInvalidJob{JobID: job.ID, Reason: "missing signatory id"}
	case strings.TrimSpace(job.Recipient) == "":
		return ErrInvalidJob{JobID: job.ID, Reason: "missing recipient"}
	case job.Channel != queue.ChannelEmail && job.Channel != queue.ChannelPhone:
		return ErrInvalidJob{JobID: job.ID, Reason: "unknown channel " + string(job.Channel)}
	}
	return nil
}
