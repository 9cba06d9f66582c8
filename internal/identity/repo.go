package identity

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrNoSMSQuota = errors.New("sms quota exhausted")
)

// Repo defines persistence operations for users.
type Repo interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByPhone(ctx context.Context, phone string) (User, error)
	// ConsumeSMSCredit atomically decrements the user's remaining SMS quota.
	// Returns ErrNoSMSQuota when the balance is already zero.
	ConsumeSMSCredit(ctx context.Context, userID string) error
	// RefundSMSCredit returns one previously consumed credit.
	RefundSMSCredit(ctx context.Context, userID string) error
}
