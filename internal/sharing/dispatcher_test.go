package sharing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"esign-backend/internal/contacts"
	"esign-backend/internal/documents"
	"esign-backend/internal/identity"
	"esign-backend/internal/queue"
	"esign-backend/internal/signatories"
	"esign-backend/internal/tokens"
)

type dispatcherFixture struct {
	dispatcher *Dispatcher
	queue      *queue.MemoryQueue
	users      *identity.MemoryRepo
	now        time.Time
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	docRepo := documents.NewMemoryRepo()
	sigRepo := signatories.NewMemoryRepo()
	contactRepo := contacts.NewMemoryRepo()
	userRepo := identity.NewMemoryRepo()
	q := queue.NewMemoryQueue()

	if err := docRepo.Create(ctx, documents.Document{
		ID:        "doc-1",
		CreatorID: "creator",
		Title:     "NDA",
		Status:    documents.StatusDraft,
	}); err != nil {
		t.Fatalf("seed document: %v", err)
	}

	seedContact := func(id, email, phone string) {
		if err := contactRepo.Create(ctx, contacts.Contact{
			ID:      id,
			OwnerID: "creator",
			Name:    id,
			Email:   email,
			Phone:   phone,
		}); err != nil {
			t.Fatalf("seed contact %s: %v", id, err)
		}
	}
	seedContact("contact-both", "both@example.com", "+100")
	seedContact("contact-email-only", "emailonly@example.com", "")

	seedSig := func(id, contactID string) {
		if err := sigRepo.Create(ctx, signatories.Signatory{
			ID:         id,
			DocumentID: "doc-1",
			ContactID:  contactID,
			UserID:     "user-" + id,
			Signing:    signatories.SigningPending,
			Read:       signatories.ReadNotSent,
		}); err != nil {
			t.Fatalf("seed signatory %s: %v", id, err)
		}
	}
	seedSig("sig-both", "contact-both")
	seedSig("sig-email-only", "contact-email-only")

	dispatcher := &Dispatcher{
		Shares:   NewMemoryShareRepo(),
		Ledger:   NewMemoryLedgerRepo(),
		Docs:     docRepo,
		Sigs:     sigRepo,
		Contacts: contactRepo,
		Identity: identity.NewService(userRepo),
		Tokens:   tokens.NewIssuer("secret", "esign", 3600),
		Queue:    q,
		BaseURL:  "https://esign.example.com",
		Now:      func() time.Time { return now },
	}
	return &dispatcherFixture{dispatcher: dispatcher, queue: q, users: userRepo, now: now}
}

func reserveAll(t *testing.T, q *queue.MemoryQueue, at time.Time) []queue.Job {
	t.Helper()
	jobs, err := q.Reserve(context.Background(), at, 100)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	return jobs
}

func TestShareEnqueuesJobPerSignatoryPerChannel(t *testing.T) {
	f := newDispatcherFixture(t)
	ctx := context.Background()

	err := f.dispatcher.Share(ctx, "doc-1", "creator",
		[]string{"sig-both", "sig-email-only"},
		[]queue.Channel{queue.ChannelEmail}, nil)
	if err != nil {
		t.Fatalf("share: %v", err)
	}

	jobs := reserveAll(t, f.queue, time.Now().UTC())
	if len(jobs) != 2 {
		t.Fatalf("enqueued %d jobs, want 2", len(jobs))
	}
	for _, job := range jobs {
		if job.Channel != queue.ChannelEmail {
			t.Errorf("job %s channel = %s", job.ID, job.Channel)
		}
		if job.Recipient == "" {
			t.Errorf("job %s missing recipient", job.ID)
		}
		if !strings.Contains(job.Link, "?token=") {
			t.Errorf("job %s link %q missing token", job.ID, job.Link)
		}
	}
}

func TestShareFailsBeforeEnqueueOnMissingAddress(t *testing.T) {
	f := newDispatcherFixture(t)
	ctx := context.Background()

	// sig-email-only has no phone; the phone channel must fail the whole call.
	err := f.dispatcher.Share(ctx, "doc-1", "creator",
		[]string{"sig-both", "sig-email-only"},
		[]queue.Channel{queue.ChannelEmail, queue.ChannelPhone}, nil)
	if !errors.Is(err, ErrWrongInput) {
		t.Fatalf("err = %v, want ErrWrongInput", err)
	}
	if f.queue.Len() != 0 {
		t.Errorf("%d jobs enqueued despite validation failure", f.queue.Len())
	}
}

func TestShareSchedulesAtRequestedTime(t *testing.T) {
	f := newDispatcherFixture(t)
	ctx := context.Background()

	scheduleAt := f.now.Add(48 * time.Hour)
	err := f.dispatcher.Share(ctx, "doc-1", "creator",
		[]string{"sig-both"}, []queue.Channel{queue.ChannelEmail}, &scheduleAt)
	if err != nil {
		t.Fatalf("share: %v", err)
	}

	if jobs := reserveAll(t, f.queue, time.Now().UTC()); len(jobs) != 0 {
		t.Fatalf("job surfaced %d hours early", 48)
	}
	if jobs := reserveAll(t, f.queue, time.Now().UTC().Add(72*time.Hour)); len(jobs) != 1 {
		t.Fatalf("delayed job never surfaced")
	}
}

func TestSharePastScheduleDispatchesImmediately(t *testing.T) {
	f := newDispatcherFixture(t)
	ctx := context.Background()

	scheduleAt := f.now.Add(-time.Hour)
	err := f.dispatcher.Share(ctx, "doc-1", "creator",
		[]string{"sig-both"}, []queue.Channel{queue.ChannelEmail}, &scheduleAt)
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if jobs := reserveAll(t, f.queue, time.Now().UTC()); len(jobs) != 1 {
		t.Fatalf("past-dated share not dispatched immediately")
	}
}

func TestShareReusesStableURL(t *testing.T) {
	f := newDispatcherFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		err := f.dispatcher.Share(ctx, "doc-1", "creator",
			[]string{"sig-both"}, []queue.Channel{queue.ChannelEmail}, nil)
		if err != nil {
			t.Fatalf("share round %d: %v", i+1, err)
		}
	}

	jobs := reserveAll(t, f.queue, time.Now().UTC())
	if len(jobs) != 2 {
		t.Fatalf("enqueued %d jobs, want 2", len(jobs))
	}
	base := func(link string) string {
		if idx := strings.Index(link, "?"); idx >= 0 {
			return link[:idx]
		}
		return link
	}
	if base(jobs[0].Link) != base(jobs[1].Link) {
		t.Errorf("share URL not stable across repeated shares: %q vs %q", jobs[0].Link, jobs[1].Link)
	}
}

func TestShareResolvesSignatoryToUser(t *testing.T) {
	f := newDispatcherFixture(t)
	ctx := context.Background()

	err := f.dispatcher.Share(ctx, "doc-1", "creator",
		[]string{"sig-both"}, []queue.Channel{queue.ChannelEmail}, nil)
	if err != nil {
		t.Fatalf("share: %v", err)
	}

	if _, err := f.users.FindByEmail(ctx, "both@example.com"); err != nil {
		t.Errorf("share target was not resolved to a user account: %v", err)
	}

	// A second share reuses the account instead of minting another.
	err = f.dispatcher.Share(ctx, "doc-1", "creator",
		[]string{"sig-both"}, []queue.Channel{queue.ChannelEmail}, nil)
	if err != nil {
		t.Fatalf("share: %v", err)
	}
}

func TestShareRejectsNonOwner(t *testing.T) {
	f := newDispatcherFixture(t)

	err := f.dispatcher.Share(context.Background(), "doc-1", "someone-else",
		[]string{"sig-both"}, []queue.Channel{queue.ChannelEmail}, nil)
	if !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("err = %v, want documents.ErrNotFound", err)
	}
}

func TestShareLinkReturnsTokenizedURL(t *testing.T) {
	f := newDispatcherFixture(t)

	link, err := f.dispatcher.ShareLink(context.Background(), "doc-1", "sig-both", "creator")
	if err != nil {
		t.Fatalf("share link: %v", err)
	}
	if !strings.HasPrefix(link, "https://esign.example.com/s/") {
		t.Errorf("link %q missing base url", link)
	}
	idx := strings.Index(link, "?token=")
	if idx < 0 {
		t.Fatalf("link %q missing token", link)
	}
	claims, err := f.dispatcher.Tokens.Parse(link[idx+len("?token="):])
	if err != nil {
		t.Fatalf("parse embedded token: %v", err)
	}
	if claims.DocumentID != "doc-1" {
		t.Errorf("token document id = %s", claims.DocumentID)
	}
}
