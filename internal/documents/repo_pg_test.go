package documents

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

func TestPGRepoGetByIDFiltersDeleted(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "creator_id", "title", "is_private", "status", "created_at", "updated_at"}).
		AddRow("doc-1", "creator", "NDA", true, string(StatusDraft), now, now)
	mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = \\$1 AND deleted_at IS NULL").
		WithArgs("doc-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc.Title != "NDA" || !doc.IsPrivate {
		t.Errorf("doc = %+v", doc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateMissingRowIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE documents").
		WithArgs("NDA", false, string(StatusDraft), "doc-gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), Document{ID: "doc-gone", Title: "NDA", Status: StatusDraft})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByCreatorShortQueryUsesPrefixMatch(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "creator_id", "title", "is_private", "status", "created_at", "updated_at"})
	mock.ExpectQuery("title ILIKE \\$2").
		WithArgs("creator", "nd", 20, 0).
		WillReturnRows(rows)

	_, err := repo.ListByCreator(context.Background(), "creator", SearchSpec{Query: "nd"})
	if err != nil {
		t.Fatalf("ListByCreator: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByCreatorLongQueryUsesFullText(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "creator_id", "title", "is_private", "status", "created_at", "updated_at"})
	mock.ExpectQuery("websearch_to_tsquery").
		WithArgs("creator", "employment contract", 20, 0).
		WillReturnRows(rows)

	_, err := repo.ListByCreator(context.Background(), "creator", SearchSpec{Query: "employment contract"})
	if err != nil {
		t.Fatalf("ListByCreator: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSoftDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE documents").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SoftDelete(context.Background(), "doc-1"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
