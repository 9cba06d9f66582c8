package signatories

import (
	"context"
	"database/sql"
	"errors"

	"esign-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres. Order mutations run inside a
// transaction holding a per-document advisory lock, so a concurrent reorder
// and removal on the same document cannot interleave their renumbering.
type PGRepo struct {
	DB *sql.DB
}

const sigColumns = `id, document_id, COALESCE(contact_id, ''), user_id, position, signing_status, read_status, is_visible, role, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, sig Signatory) error {
	const query = `
INSERT INTO signatories (id, document_id, contact_id, user_id, position, signing_status, read_status, is_visible, role, created_at, updated_at)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		sig.ID,
		sig.DocumentID,
		sig.ContactID,
		sig.UserID,
		nullableInt(sig.Position),
		sig.Signing,
		sig.Read,
		sig.IsVisible,
		sig.Role,
		sig.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Signatory, error) {
	query := `SELECT ` + sigColumns + ` FROM signatories WHERE id = $1 AND deleted_at IS NULL`
	sig, err := scanSignatory(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Signatory{}, ErrNotFound
		}
		return Signatory{}, err
	}
	return sig, nil
}

func (r *PGRepo) ListActiveByDocument(ctx context.Context, documentID string) ([]Signatory, error) {
	return listActive(ctx, r.DB, documentID)
}

func (r *PGRepo) Update(ctx context.Context, sig Signatory) error {
	const query = `
UPDATE signatories
SET signing_status = $1, read_status = $2, is_visible = $3, role = $4, updated_at = now()
WHERE id = $5 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, sig.Signing, sig.Read, sig.IsVisible, sig.Role, sig.ID)
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

func (r *PGRepo) WithDocumentLock(ctx context.Context, documentID string, fn func(store OrderStore) error) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := db.LockDocument(ctx, tx, documentID); err != nil {
			return err
		}
		return fn(&pgOrderStore{tx: tx})
	})
}

type pgOrderStore struct {
	tx *sql.Tx
}

func (s *pgOrderStore) ListActive(ctx context.Context, documentID string) ([]Signatory, error) {
	return listActive(ctx, s.tx, documentID)
}

func (s *pgOrderStore) SetPosition(ctx context.Context, signatoryID string, position *int) error {
	const query = `
UPDATE signatories SET position = $1, updated_at = now() WHERE id = $2`
	res, err := s.tx.ExecContext(ctx, query, nullableInt(position), signatoryID)
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

func (s *pgOrderStore) MarkDeleted(ctx context.Context, signatoryID string) error {
	const query = `
UPDATE signatories SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`
	res, err := s.tx.ExecContext(ctx, query, signatoryID)
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

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listActive(ctx context.Context, q querier, documentID string) ([]Signatory, error) {
	query := `
SELECT ` + sigColumns + `
FROM signatories
WHERE document_id = $1 AND deleted_at IS NULL
ORDER BY created_at`
	rows, err := q.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Signatory
	for rows.Next() {
		sig, err := scanSignatory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sig)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSignatory(row rowScanner) (Signatory, error) {
	var sig Signatory
	var position sql.NullInt64
	err := row.Scan(
		&sig.ID,
		&sig.DocumentID,
		&sig.ContactID,
		&sig.UserID,
		&position,
		&sig.Signing,
		&sig.Read,
		&sig.IsVisible,
		&sig.Role,
		&sig.CreatedAt,
		&sig.UpdatedAt,
	)
	if err != nil {
		return Signatory{}, err
	}
	if position.Valid {
		pos := int(position.Int64)
		sig.Position = &pos
	}
	return sig, nil
}

func nullableInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

var _ Repo = (*PGRepo)(nil)
