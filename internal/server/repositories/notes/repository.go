package notes

import (
	"context"

	"github.com/dmitrijs2005/ecnotes/internal/server/models"
)

type Repository interface {
	// Create inserts a new note and returns it with the assigned id and
	// timestamps.
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	Get(ctx context.Context, id uint32) (*models.Note, error)
	// Update replaces the note's content and bumps updated_at.
	Update(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, id uint32) error
	// ListByUser returns the user's notes ordered most-recently-updated
	// first. Content is not loaded for listings.
	ListByUser(ctx context.Context, userID uint32) ([]*models.Note, error)
}
