// Package repomanager wires concrete repository implementations behind one
// factory so services stay agnostic of the storage backend.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/ecnotes/internal/dbx"
	"github.com/dmitrijs2005/ecnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/ecnotes/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/ecnotes/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Notes(db dbx.DBTX) notes.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
