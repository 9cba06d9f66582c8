package sharing

import (
	"context"
	"database/sql"
	"errors"
)

// PGShareRepo implements ShareRepo using Postgres.
type PGShareRepo struct {
	DB *sql.DB
}

func (r *PGShareRepo) Create(ctx context.Context, share ShareDocument) error {
	const query = `
INSERT INTO share_documents (id, document_id, sharer_id, share_type, url, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query,
		share.ID,
		share.DocumentID,
		share.SharerID,
		share.Type,
		share.URL,
		share.CreatedAt,
	)
	return err
}

func (r *PGShareRepo) GetByDocumentAndSharer(ctx context.Context, documentID, sharerID string) (ShareDocument, error) {
	const query = `
SELECT id, document_id, sharer_id, share_type, url, created_at
FROM share_documents
WHERE document_id = $1 AND sharer_id = $2`
	var share ShareDocument
	err := r.DB.QueryRowContext(ctx, query, documentID, sharerID).Scan(
		&share.ID,
		&share.DocumentID,
		&share.SharerID,
		&share.Type,
		&share.URL,
		&share.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ShareDocument{}, ErrNotFound
		}
		return ShareDocument{}, err
	}
	return share, nil
}

var _ ShareRepo = (*PGShareRepo)(nil)

// PGLedgerRepo implements LedgerRepo using Postgres. Appends only; nothing
// ever updates an existing row.
type PGLedgerRepo struct {
	DB *sql.DB
}

func (r *PGLedgerRepo) Append(ctx context.Context, entry LedgerEntry) error {
	const query = `
INSERT INTO shared_user_documents (id, document_id, signatory_id, channel, is_sent, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query,
		entry.ID,
		entry.DocumentID,
		entry.SignatoryID,
		entry.Channel,
		entry.IsSent,
		entry.CreatedAt,
	)
	return err
}

func (r *PGLedgerRepo) ListByDocument(ctx context.Context, documentID string) ([]LedgerEntry, error) {
	const query = `
SELECT id, document_id, signatory_id, channel, is_sent, created_at
FROM shared_user_documents
WHERE document_id = $1
ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LedgerEntry
	for rows.Next() {
		var entry LedgerEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.DocumentID,
			&entry.SignatoryID,
			&entry.Channel,
			&entry.IsSent,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

var _ LedgerRepo = (*PGLedgerRepo)(nil)
