package signatories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestWithDocumentLockTakesAdvisoryLock(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE signatories SET position").
		WithArgs(sqlmock.AnyArg(), "sig-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.WithDocumentLock(context.Background(), "doc-1", func(store OrderStore) error {
		pos := 2
		return store.SetPosition(context.Background(), "sig-1", &pos)
	})
	if err != nil {
		t.Fatalf("WithDocumentLock: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestWithDocumentLockRollsBackOnError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := repo.WithDocumentLock(context.Background(), "doc-1", func(store OrderStore) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDScansNullPosition(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "document_id", "contact_id", "user_id", "position",
		"signing_status", "read_status", "is_visible", "role", "created_at", "updated_at",
	}).AddRow("sig-1", "doc-1", "c1", "user-1", nil,
		string(SigningPending), string(ReadNotSent), true, "signer", now, now)
	mock.ExpectQuery("SELECT (.+) FROM signatories WHERE id = \\$1").
		WithArgs("sig-1").
		WillReturnRows(rows)

	sig, err := repo.GetByID(context.Background(), "sig-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if sig.Position != nil {
		t.Errorf("position = %v, want nil", *sig.Position)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
