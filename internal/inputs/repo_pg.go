package inputs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. Recipient lists are stored as JSONB
// arrays on the field row.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, field InputField) error {
	const query = `
INSERT INTO input_fields (id, document_id, label, kind, contact_recipients, group_recipients, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	contactJSON, err := encodeIDs(field.ContactRecipients)
	if err != nil {
		return err
	}
	groupJSON, err := encodeIDs(field.GroupRecipients)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		field.ID,
		field.DocumentID,
		field.Label,
		field.Kind,
		contactJSON,
		groupJSON,
		field.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (InputField, error) {
	const query = `
SELECT id, document_id, label, kind, contact_recipients, group_recipients, created_at
FROM input_fields
WHERE id = $1`
	field, err := scanField(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return InputField{}, ErrNotFound
		}
		return InputField{}, err
	}
	return field, nil
}

func (r *PGRepo) ListByDocument(ctx context.Context, documentID string) ([]InputField, error) {
	const query = `
SELECT id, document_id, label, kind, contact_recipients, group_recipients, created_at
FROM input_fields
WHERE document_id = $1
ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InputField
	for rows.Next() {
		field, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, field)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanField(row rowScanner) (InputField, error) {
	var field InputField
	var contactJSON, groupJSON []byte
	err := row.Scan(
		&field.ID,
		&field.DocumentID,
		&field.Label,
		&field.Kind,
		&contactJSON,
		&groupJSON,
		&field.CreatedAt,
	)
	if err != nil {
		return InputField{}, err
	}
	if field.ContactRecipients, err = decodeIDs(contactJSON); err != nil {
		return InputField{}, fmt.Errorf("decode contact recipients: %w", err)
	}
	if field.GroupRecipients, err = decodeIDs(groupJSON); err != nil {
		return InputField{}, fmt.Errorf("decode group recipients: %w", err)
	}
	return field, nil
}

func encodeIDs(ids []string) ([]byte, error) {
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(ids)
}

func decodeIDs(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ids, nil
}

var _ Repo = (*PGRepo)(nil)
