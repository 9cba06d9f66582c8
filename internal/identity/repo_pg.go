package identity

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, COALESCE(email, ''), COALESCE(phone, ''), name, sms_credits, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, phone, name, sms_credits, created_at, updated_at)
VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, $6)`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Phone,
		user.Name,
		user.SMSCredits,
		user.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
}

func (r *PGRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *PGRepo) FindByPhone(ctx context.Context, phone string) (User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone)
}

func (r *PGRepo) ConsumeSMSCredit(ctx context.Context, userID string) error {
	const query = `
UPDATE users
SET sms_credits = sms_credits - 1, updated_at = now()
WHERE id = $1 AND sms_credits > 0`
	res, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, userID); err != nil {
			return err
		}
		return ErrNoSMSQuota
	}
	return nil
}

func (r *PGRepo) RefundSMSCredit(ctx context.Context, userID string) error {
	const query = `
UPDATE users
SET sms_credits = sms_credits + 1, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) getOne(ctx context.Context, query string, arg any) (User, error) {
	var user User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Phone,
		&user.Name,
		&user.SMSCredits,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

var _ Repo = (*PGRepo)(nil)
