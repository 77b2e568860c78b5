package sessions

import (
	"context"

	"github.com/dmitrijs2005/ecnotes/internal/server/models"
)

type Repository interface {
	// Create persists a new session. An existing session with the same
	// token yields common.ErrorAlreadyExists; the store never overwrites.
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, token []byte) (*models.Session, error)
	// Delete removes a session. Deleting an absent token is not an error.
	Delete(ctx context.Context, token []byte) error
}
