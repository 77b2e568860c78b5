package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/ecnotes/internal/dbx"
	"github.com/dmitrijs2005/ecnotes/internal/server/migrations"
	"github.com/dmitrijs2005/ecnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/ecnotes/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/ecnotes/internal/server/repositories/users"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Notes(db dbx.DBTX) notes.Repository {
	return notes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}
