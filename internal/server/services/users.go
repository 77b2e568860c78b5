// Package services contains server-side business logic sitting between the
// protocol dispatcher and the repositories. This file implements UserService:
// registration, login and logout.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ecnotes/internal/common"
	"github.com/dmitrijs2005/ecnotes/internal/server/crypto"
	"github.com/dmitrijs2005/ecnotes/internal/server/models"
	"github.com/dmitrijs2005/ecnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ecnotes/internal/server/sessions"
)

// UserService provides the account lifecycle:
// - Register: create a user with a fresh salt, digest and keypair
// - Login: verify credentials and open a session
// - Logout: close a session
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *sessions.Service
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, sm *sessions.Service) *UserService {
	return &UserService{db: db, repomanager: m, sessions: sm}
}

// Register creates a new account. The server generates the salt and the
// encryption keypair itself; key material supplied by the client is ignored.
// The private key is stored next to the user, so the server can decrypt the
// notes it holds. Existing clients depend on this key custody; see the note
// on models.User.
func (s *UserService) Register(ctx context.Context, username string, password []byte) (*models.User, error) {
	if username == "" {
		return nil, common.ErrorAuthFailed
	}

	salt, err := crypto.NewSalt()
	if err != nil {
		return nil, fmt.Errorf("salt generation: %w", err)
	}

	publicKey, privateKey, err := crypto.GenerateKeypair()
	if err != nil {
		return nil, fmt.Errorf("keypair generation: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: crypto.HashPassword(password, salt),
		Salt:         salt,
		PublicKey:    publicKey,
		PrivateKey:   privateKey,
	}

	repo := s.repomanager.Users(s.db)
	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}

// burnSalt is hashed against when the username does not exist, so an unknown
// user costs the same as a wrong password.
var burnSalt = make([]byte, crypto.SaltSize)

// Login verifies the password against the stored digest and, on success,
// opens a session and returns its token. Unknown user and wrong password are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username string, password []byte) ([]byte, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			crypto.HashPassword(password, burnSalt)
			return nil, common.ErrorAuthFailed
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !crypto.VerifyPassword(password, user.Salt, user.PasswordHash) {
		return nil, common.ErrorAuthFailed
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	if err := repo.UpdateLastLogin(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("error updating last login: %w", err)
	}

	return token, nil
}

// Logout destroys the session. Logging out an already-dead session succeeds.
func (s *UserService) Logout(ctx context.Context, token []byte) error {
	return s.sessions.Destroy(ctx, token)
}
