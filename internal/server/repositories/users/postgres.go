package users

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

// uniqueViolation is the postgres SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, password_hash, salt, public_key, private_key)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.Salt, user.PublicKey, user.PrivateKey).
		Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT id, username, password_hash, salt, public_key, private_key, created_at, last_login
		 FROM users
		 WHERE username = $1
		 `

	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uint32) (*models.User, error) {
	query :=
		`SELECT id, username, password_hash, salt, public_key, private_key, created_at, last_login
		 FROM users
		 WHERE id = $1
		 `

	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id uint32) error {
	query :=
		`UPDATE users SET last_login = now()
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var lastLogin sql.NullTime

	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Salt,
		&user.PublicKey, &user.PrivateKey, &user.CreatedAt, &lastLogin)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if lastLogin.Valid {
		user.LastLogin = lastLogin.Time
	}
	return user, nil
}
