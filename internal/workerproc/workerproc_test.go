package workerproc

import (
	"context"
	"errors"
	"testing"
	"time"

	"esign-backend/internal/documents"
	"esign-backend/internal/identity"
	"esign-backend/internal/queue"
	"esign-backend/internal/sharing"
	"esign-backend/internal/signatories"
)

type fakeEmailSender struct {
	sent   []string
	isSent bool
	err    error
}

func (f *fakeEmailSender) SendEmail(ctx context.Context, to, subject, body string) (bool, error) {
	f.sent = append(f.sent, to)
	return f.isSent, f.err
}

type fakeSMSSender struct {
	sent   []string
	isSent bool
	err    error
}

func (f *fakeSMSSender) SendSMS(ctx context.Context, phone, message, originator string) (bool, error) {
	f.sent = append(f.sent, phone)
	return f.isSent, f.err
}

type processorFixture struct {
	processor *Processor
	docs      *documents.MemoryRepo
	sigs      *signatories.MemoryRepo
	ledger    *sharing.MemoryLedgerRepo
	users     *identity.MemoryRepo
	email     *fakeEmailSender
	sms       *fakeSMSSender
}

func newProcessorFixture(t *testing.T) *processorFixture {
	t.Helper()
	ctx := context.Background()

	docs := documents.NewMemoryRepo()
	sigs := signatories.NewMemoryRepo()
	ledger := sharing.NewMemoryLedgerRepo()
	users := identity.NewMemoryRepo()
	email := &fakeEmailSender{isSent: true}
	sms := &fakeSMSSender{isSent: true}

	if err := docs.Create(ctx, documents.Document{
		ID:        "doc-1",
		CreatorID: "sharer",
		Title:     "NDA",
		Status:    documents.StatusDraft,
	}); err != nil {
		t.Fatalf("seed document: %v", err)
	}
	if err := sigs.Create(ctx, signatories.Signatory{
		ID:         "sig-1",
		DocumentID: "doc-1",
		UserID:     "user-1",
		Signing:    signatories.SigningPending,
		Read:       signatories.ReadNotSent,
	}); err != nil {
		t.Fatalf("seed signatory: %v", err)
	}
	if err := users.Create(ctx, identity.User{ID: "sharer", Phone: "+999", SMSCredits: 1}); err != nil {
		t.Fatalf("seed sharer: %v", err)
	}

	return &processorFixture{
		processor: &Processor{
			Docs:          docs,
			Sigs:          sigs,
			Ledger:        ledger,
			Identity:      identity.NewService(users),
			Email:         email,
			SMS:           sms,
			SMSOriginator: "esign",
			Now:           func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		},
		docs:   docs,
		sigs:   sigs,
		ledger: ledger,
		users:  users,
		email:  email,
		sms:    sms,
	}
}

func emailJob() queue.Job {
	return queue.Job{
		ID:          "job-1",
		Channel:     queue.ChannelEmail,
		DocumentID:  "doc-1",
		SignatoryID: "sig-1",
		SharerID:    "sharer",
		Recipient:   "to@example.com",
		Subject:     "subject",
		Body:        "body",
		Link:        "https://esign.example.com/s/x?token=t",
	}
}

func smsJob() queue.Job {
	job := emailJob()
	job.Channel = queue.ChannelPhone
	job.Recipient = "+100"
	return job
}

func ledgerEntries(t *testing.T, repo *sharing.MemoryLedgerRepo) []sharing.LedgerEntry {
	t.Helper()
	entries, err := repo.ListByDocument(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	return entries
}

func TestProcessEmailRecordsSentEntry(t *testing.T) {
	f := newProcessorFixture(t)

	if err := f.processor.Process(context.Background(), emailJob()); err != nil {
		t.Fatalf("process: %v", err)
	}

	if len(f.email.sent) != 1 || f.email.sent[0] != "to@example.com" {
		t.Errorf("email sends = %v", f.email.sent)
	}
	entries := ledgerEntries(t, f.ledger)
	if len(entries) != 1 {
		t.Fatalf("ledger has %d entries, want 1", len(entries))
	}
	if !entries[0].IsSent {
		t.Errorf("ledger entry marked not sent")
	}
	if entries[0].Channel != queue.ChannelEmail {
		t.Errorf("ledger channel = %s", entries[0].Channel)
	}

	sig, err := f.sigs.GetByID(context.Background(), "sig-1")
	if err != nil {
		t.Fatalf("get signatory: %v", err)
	}
	if sig.Read != signatories.ReadSent {
		t.Errorf("read status = %s, want %s", sig.Read, signatories.ReadSent)
	}
}

func TestProcessProviderFailureAppendsFailedEntry(t *testing.T) {
	f := newProcessorFixture(t)
	f.email.err = errors.New("relay refused")

	if err := f.processor.Process(context.Background(), emailJob()); err != nil {
		t.Fatalf("delivery failure must not propagate, got %v", err)
	}

	entries := ledgerEntries(t, f.ledger)
	if len(entries) != 1 || entries[0].IsSent {
		t.Fatalf("ledger entries = %+v, want one failed entry", entries)
	}
	sig, _ := f.sigs.GetByID(context.Background(), "sig-1")
	if sig.Read != signatories.ReadNotSent {
		t.Errorf("read status advanced despite failed delivery")
	}
}

func TestProcessRedeliveryAppendsNewRow(t *testing.T) {
	f := newProcessorFixture(t)

	for i := 0; i < 2; i++ {
		if err := f.processor.Process(context.Background(), emailJob()); err != nil {
			t.Fatalf("process round %d: %v", i+1, err)
		}
	}

	if entries := ledgerEntries(t, f.ledger); len(entries) != 2 {
		t.Fatalf("ledger has %d entries, want 2 appended rows", len(entries))
	}
}

func TestProcessSMSConsumesSharerQuota(t *testing.T) {
	f := newProcessorFixture(t)

	if err := f.processor.Process(context.Background(), smsJob()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(f.sms.sent) != 1 {
		t.Fatalf("sms sends = %v", f.sms.sent)
	}
	sharer, _ := f.users.GetByID(context.Background(), "sharer")
	if sharer.SMSCredits != 0 {
		t.Errorf("sharer credits = %d, want 0", sharer.SMSCredits)
	}
}

func TestProcessSMSProviderFailureRefundsQuota(t *testing.T) {
	f := newProcessorFixture(t)
	f.sms.err = errors.New("gateway down")

	if err := f.processor.Process(context.Background(), smsJob()); err != nil {
		t.Fatalf("delivery failure must not propagate, got %v", err)
	}

	entries := ledgerEntries(t, f.ledger)
	if len(entries) != 1 || entries[0].IsSent {
		t.Fatalf("ledger entries = %+v, want one failed entry", entries)
	}
	sharer, _ := f.users.GetByID(context.Background(), "sharer")
	if sharer.SMSCredits != 1 {
		t.Errorf("sharer credits = %d after failed send, want 1", sharer.SMSCredits)
	}

	// With the credit back, a retry of the share can still go out.
	f.sms.err = nil
	if err := f.processor.Process(context.Background(), smsJob()); err != nil {
		t.Fatalf("process: %v", err)
	}
	sharer, _ = f.users.GetByID(context.Background(), "sharer")
	if sharer.SMSCredits != 0 {
		t.Errorf("sharer credits = %d after successful send, want 0", sharer.SMSCredits)
	}
}

func TestProcessSMSRejectedByProviderRefundsQuota(t *testing.T) {
	f := newProcessorFixture(t)
	f.sms.isSent = false

	if err := f.processor.Process(context.Background(), smsJob()); err != nil {
		t.Fatalf("process: %v", err)
	}

	entries := ledgerEntries(t, f.ledger)
	if len(entries) != 1 || entries[0].IsSent {
		t.Fatalf("ledger entries = %+v, want one failed entry", entries)
	}
	sharer, _ := f.users.GetByID(context.Background(), "sharer")
	if sharer.SMSCredits != 1 {
		t.Errorf("sharer credits = %d after rejected send, want 1", sharer.SMSCredits)
	}
}

func TestProcessSMSQuotaExhaustedFailsDelivery(t *testing.T) {
	f := newProcessorFixture(t)
	// Burn the only credit.
	if err := f.processor.Process(context.Background(), smsJob()); err != nil {
		t.Fatalf("process: %v", err)
	}

	if err := f.processor.Process(context.Background(), smsJob()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(f.sms.sent) != 1 {
		t.Errorf("sms sent %d times, want 1 (quota gate)", len(f.sms.sent))
	}
	entries := ledgerEntries(t, f.ledger)
	if len(entries) != 2 || entries[1].IsSent {
		t.Fatalf("second delivery not recorded as failed: %+v", entries)
	}
}

func TestProcessSkipsDeletedDocument(t *testing.T) {
	f := newProcessorFixture(t)
	if err := f.docs.SoftDelete(context.Background(), "doc-1"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	err := f.processor.Process(context.Background(), emailJob())
	var skipped ErrSkipped
	if !errors.As(err, &skipped) {
		t.Fatalf("err = %v, want ErrSkipped", err)
	}
	if len(f.email.sent) != 0 {
		t.Errorf("delivery attempted for deleted document")
	}
	if entries := ledgerEntries(t, f.ledger); len(entries) != 0 {
		t.Errorf("ledger recorded a skipped job")
	}
}

func TestProcessSkipsRemovedSignatory(t *testing.T) {
	f := newProcessorFixture(t)
	err := f.sigs.WithDocumentLock(context.Background(), "doc-1", func(store signatories.OrderStore) error {
		return store.MarkDeleted(context.Background(), "sig-1")
	})
	if err != nil {
		t.Fatalf("mark deleted: %v", err)
	}

	procErr := f.processor.Process(context.Background(), emailJob())
	var skipped ErrSkipped
	if !errors.As(procErr, &skipped) {
		t.Fatalf("err = %v, want ErrSkipped", procErr)
	}
	if len(f.email.sent) != 0 {
		t.Errorf("delivery attempted for removed signatory")
	}
}

func TestProcessRejectsMalformedJob(t *testing.T) {
	f := newProcessorFixture(t)

	job := emailJob()
	job.Recipient = ""
	err := f.processor.Process(context.Background(), job)
	var invalid ErrInvalidJob
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want ErrInvalidJob", err)
	}
}
