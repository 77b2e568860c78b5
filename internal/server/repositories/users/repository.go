package users

import (
	"context"

	"github.com/dmitrijs2005/ecnotes/internal/server/models"
)

type Repository interface {
	// Create inserts a new user and returns it with the assigned id.
	// A duplicate username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id uint32) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uint32) error
}
