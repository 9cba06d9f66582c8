package notify

import "context"

// EmailSender delivers one email. isSent reports the provider outcome; err is
// reserved for transport failures.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (bool, error)
}

// SMSSender delivers one SMS from the given originator.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message, originator string) (bool, error)
}
