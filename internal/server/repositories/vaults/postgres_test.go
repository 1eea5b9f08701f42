package vaults

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"lockbox/internal/common"
	"lockbox/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestList_NewestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\b.*FROM\s+vaults\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC,\s*id`

	now := time.Now()
	mock.ExpectQuery(q).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "name", "description", "color", "created_at"}).
			AddRow("v2", "u1", "Work", "", "#111111", now).
			AddRow("v1", "u1", "Finance", "bills", "#4F46E5", now.Add(-time.Hour)))

	got, err := repo.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "v2" || got[1].ID != "v1" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGet_ScopedByOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\b.*FROM\s+vaults\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`

	// The same id under a different owner yields not found.
	mock.ExpectQuery(q).WithArgs("v1", "intruder").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "v1", "intruder")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+vaults\b.*RETURNING\s+id,\s*created_at`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("u1", "Finance", "bills", "#4F46E5").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("v1", now))

	v, err := repo.Create(context.Background(), &models.Vault{
		OwnerID: "u1", Name: "Finance", Description: "bills", Color: "#4F46E5",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ID != "v1" {
		t.Fatalf("unexpected vault: %+v", v)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+vaults\s+SET\b.*WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`

	mock.ExpectQuery(q).
		WithArgs("v9", "u1", "New", "", "#000000").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), &models.Vault{
		ID: "v9", OwnerID: "u1", Name: "New", Color: "#000000",
	})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestDelete_Idempotent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `^DELETE\s+FROM\s+vaults\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`

	mock.ExpectExec(q).WithArgs("v1", "u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("v1", "u1").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "v1", "u1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	err := repo.Delete(context.Background(), "v1", "u1")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("second delete: want ErrorNotFound, got %v", err)
	}
}
