package documents

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// PGRepo implements Repo using Postgres. Soft-deleted rows are filtered out
// of every read.
type PGRepo struct {
	DB *sql.DB
}

const docColumns = `id, creator_id, title, is_private, status, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (id, creator_id, title, is_private, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)`
	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.CreatorID,
		doc.Title,
		doc.IsPrivate,
		doc.Status,
		doc.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	query := `SELECT ` + docColumns + ` FROM documents WHERE id = $1 AND deleted_at IS NULL`
	var doc Document
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.CreatorID,
		&doc.Title,
		&doc.IsPrivate,
		&doc.Status,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

func (r *PGRepo) CreatorOf(ctx context.Context, id string) (string, error) {
	const query = `SELECT creator_id FROM documents WHERE id = $1 AND deleted_at IS NULL`
	var creatorID string
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&creatorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return creatorID, nil
}

func (r *PGRepo) Update(ctx context.Context, doc Document) error {
	const query = `
UPDATE documents
SET title = $1, is_private = $2, status = $3, updated_at = now()
WHERE id = $4 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, doc.Title, doc.IsPrivate, doc.Status, doc.ID)
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

func (r *PGRepo) SoftDelete(ctx context.Context, id string) error {
	const query = `
UPDATE documents
SET status = 'deleted', deleted_at = now(), updated_at = now()
WHERE id = $1 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, id)
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

// ListByCreator lists a creator's documents newest-first. Non-empty queries
// use full-text search once they reach FullTextThreshold runes and prefix
// matching below it.
func (r *PGRepo) ListByCreator(ctx context.Context, creatorID string, spec SearchSpec) ([]Document, error) {
	limit := spec.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := spec.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
SELECT ` + docColumns + `
FROM documents
WHERE creator_id = $1 AND deleted_at IS NULL`
	args := []any{creatorID}

	if trimmed := strings.TrimSpace(spec.Query); trimmed != "" {
		if utf8.RuneCountInString(trimmed) < FullTextThreshold {
			query += ` AND title ILIKE $2 || '%'`
			args = append(args, trimmed)
		} else {
			query += ` AND to_tsvector('simple', title) @@ websearch_to_tsquery('simple', $2)`
			args = append(args, trimmed)
		}
	}

	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(
			&doc.ID,
			&doc.CreatorID,
			&doc.Title,
			&doc.IsPrivate,
			&doc.Status,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
