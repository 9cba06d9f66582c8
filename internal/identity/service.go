package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrWrongInput = errors.New("email or phone required")

// Service resolves share targets to user accounts.
type Service struct {
	Repo Repo

	// DefaultSMSCredits seeds the quota of accounts created implicitly
	// during a share.
	DefaultSMSCredits int
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, DefaultSMSCredits: 10}
}

// ResolveOrCreate finds the account matching the given email (first) or phone,
// creating a new one when neither matches. At least one of email/phone is required.
func (s *Service) ResolveOrCreate(ctx context.Context, email, phone, name string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("identity service not configured")
	}
	email = strings.TrimSpace(strings.ToLower(email))
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return User{}, ErrWrongInput
	}

	if email != "" {
		user, err := s.Repo.FindByEmail(ctx, email)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return User{}, err
		}
	}
	if phone != "" {
		user, err := s.Repo.FindByPhone(ctx, phone)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return User{}, err
		}
	}

	user := User{
		ID:         uuid.NewString(),
		Email:      email,
		Phone:      phone,
		Name:       strings.TrimSpace(name),
		SMSCredits: s.DefaultSMSCredits,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// ConsumeSMSCredit decrements the user's remaining SMS quota.
func (s *Service) ConsumeSMSCredit(ctx context.Context, userID string) error {
	if s == nil || s.Repo == nil {
		return errors.New("identity service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return errors.New("user id is required")
	}
	return s.Repo.ConsumeSMSCredit(ctx, userID)
}

// RefundSMSCredit returns one credit, undoing a consume whose send never
// happened.
func (s *Service) RefundSMSCredit(ctx context.Context, userID string) error {
	if s == nil || s.Repo == nil {
		return errors.New("identity service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return errors.New("user id is required")
	}
	return s.Repo.RefundSMSCredit(ctx, userID)
}
