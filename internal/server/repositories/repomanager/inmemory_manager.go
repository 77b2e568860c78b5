package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/ecnotes/internal/dbx"
	"github.com/dmitrijs2005/ecnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/ecnotes/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/ecnotes/internal/server/repositories/users"
)

// InMemoryRepositoryManager hands out shared in-memory repositories. The db
// argument is ignored; there is no transaction support and no migrations.
type InMemoryRepositoryManager struct {
	users    *users.InMemoryRepository
	notes    *notes.InMemoryRepository
	sessions *sessions.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:    users.NewInMemoryRepository(),
		notes:    notes.NewInMemoryRepository(),
		sessions: sessions.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository          { return m.users }
func (m *InMemoryRepositoryManager) Notes(dbx.DBTX) notes.Repository          { return m.notes }
func (m *InMemoryRepositoryManager) Sessions(dbx.DBTX) sessions.Repository    { return m.sessions }
func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }
