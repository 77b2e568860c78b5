package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/ecnotes/internal/common"
	"github.com/dmitrijs2005/ecnotes/internal/dbx"
	"github.com/dmitrijs2005/ecnotes/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const uniqueViolation = "23505"

func (r *PostgresRepository) Create(ctx context.Context, session *models.Session) error {

	query :=
		`INSERT INTO sessions (token, user_id, expires_at)
		 VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, session.Token, session.UserID, session.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, token []byte) (*models.Session, error) {
	query :=
		`SELECT token, user_id, expires_at FROM sessions
		 WHERE token = $1
		 `

	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&session.Token, &session.UserID, &session.ExpiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token []byte) error {
	query := `DELETE FROM sessions WHERE token = $1`

	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
