package sessions

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/ecnotes/internal/common"
	"github.com/dmitrijs2005/ecnotes/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Collision(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+sessions`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &models.Session{
		Token:     []byte("tok"),
		UserID:    1,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected ErrorAlreadyExists, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM sessions`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), []byte("absent"))
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestDelete_Idempotent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	// deleting an absent token affects zero rows and is still success
	mock.ExpectExec(`DELETE\s+FROM\s+sessions`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), []byte("absent")); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}
