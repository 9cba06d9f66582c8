package contacts

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, contact Contact) error {
	const query = `
INSERT INTO contacts (id, owner_id, name, email, phone, created_at)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6)`
	_, err := r.DB.ExecContext(ctx, query,
		contact.ID,
		contact.OwnerID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Contact, error) {
	const query = `
SELECT id, owner_id, name, COALESCE(email, ''), COALESCE(phone, ''), created_at
FROM contacts
WHERE id = $1`
	var contact Contact
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&contact.ID,
		&contact.OwnerID,
		&contact.Name,
		&contact.Email,
		&contact.Phone,
		&contact.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Contact{}, ErrNotFound
		}
		return Contact{}, err
	}
	return contact, nil
}

func (r *PGRepo) GetByIDs(ctx context.Context, ids []string) ([]Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `
SELECT id, owner_id, name, COALESCE(email, ''), COALESCE(phone, ''), created_at
FROM contacts
WHERE id = ANY($1)`
	rows, err := r.DB.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Contact
	for rows.Next() {
		var contact Contact
		if err := rows.Scan(
			&contact.ID,
			&contact.OwnerID,
			&contact.Name,
			&contact.Email,
			&contact.Phone,
			&contact.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, contact)
	}
	return out, rows.Err()
}

func (r *PGRepo) FindByEmailOrPhone(ctx context.Context, email, phone string) (Contact, error) {
	const query = `
SELECT id, owner_id, name, COALESCE(email, ''), COALESCE(phone, ''), created_at
FROM contacts
WHERE (NULLIF($1, '') IS NOT NULL AND lower(email) = lower($1))
   OR (NULLIF($2, '') IS NOT NULL AND phone = $2)
ORDER BY (lower(email) = lower($1)) DESC NULLS LAST
LIMIT 1`
	var contact Contact
	err := r.DB.QueryRowContext(ctx, query, email, phone).Scan(
		&contact.ID,
		&contact.OwnerID,
		&contact.Name,
		&contact.Email,
		&contact.Phone,
		&contact.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Contact{}, ErrNotFound
		}
		return Contact{}, err
	}
	return contact, nil
}

func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string) ([]Contact, error) {
	const query = `
SELECT id, owner_id, name, COALESCE(email, ''), COALESCE(phone, ''), created_at
FROM contacts
WHERE owner_id = $1
ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Contact
	for rows.Next() {
		var contact Contact
		if err := rows.Scan(
			&contact.ID,
			&contact.OwnerID,
			&contact.Name,
			&contact.Email,
			&contact.Phone,
			&contact.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, contact)
	}
	return out, rows.Err()
}

func (r *PGRepo) CreateGroup(ctx context.Context, group Group) error {
	const insertGroup = `
INSERT INTO contact_groups (id, owner_id, name, created_at)
VALUES ($1, $2, $3, $4)`
	const insertMember = `
INSERT INTO contact_group_members (group_id, contact_id)
VALUES ($1, $2) ON CONFLICT DO NOTHING`

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertGroup, group.ID, group.OwnerID, group.Name, group.CreatedAt); err != nil {
		return err
	}
	for _, memberID := range group.MemberIDs {
		if _, err := tx.ExecContext(ctx, insertMember, group.ID, memberID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *PGRepo) ExpandGroups(ctx context.Context, groupIDs []string) ([]string, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	const query = `
SELECT DISTINCT contact_id
FROM contact_group_members
WHERE group_id = ANY($1)`
	rows, err := r.DB.QueryContext(ctx, query, groupIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var contactID string
		if err := rows.Scan(&contactID); err != nil {
			return nil, err
		}
		out = append(out, contactID)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
