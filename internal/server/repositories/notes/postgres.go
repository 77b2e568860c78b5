package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {

	query :=
		`INSERT INTO notes (user_id, title, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, note.UserID, note.Title, note.Content).
		Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uint32) (*models.Note, error) {
	query :=
		`SELECT id, user_id, title, content, created_at, updated_at
		 FROM notes
		 WHERE id = $1
		 `

	note := &models.Note{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

func (r *PostgresRepository) Update(ctx context.Context, note *models.Note) error {
	query :=
		`UPDATE notes SET content = $1, updated_at = now()
		 WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, note.Content, note.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uint32) error {
	query := `DELETE FROM notes WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID uint32) ([]*models.Note, error) {
	query :=
		`SELECT id, user_id, title, created_at, updated_at
		 FROM notes
		 WHERE user_id = $1
		 ORDER BY updated_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var list []*models.Note
	for rows.Next() {
		note := &models.Note{}
		if err := rows.Scan(&note.ID, &note.UserID, &note.Title, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return list, nil
}
