// Package sessions implements the session manager: issuing, validating and
// destroying the opaque bearer tokens that authenticate every request after
// login.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ecnotes/internal/common"
	"github.com/dmitrijs2005/ecnotes/internal/server/models"
	"github.com/dmitrijs2005/ecnotes/internal/server/repositories/sessions"
)

// TokenSize is the fixed width of a session token.
const TokenSize = 64

// DefaultTTL is the session lifetime applied when the config does not
// override it.
const DefaultTTL = time.Hour

type Service struct {
	repo sessions.Repository
	ttl  time.Duration

	// now is swappable for expiry tests.
	now func() time.Time
}

func NewService(repo sessions.Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{repo: repo, ttl: ttl, now: time.Now}
}

// Create issues a fresh random token for userID with expiry now+ttl.
// A token collision in the store is fatal for the operation: with 64 random
// bytes it indicates a broken randomness source, and an existing session
// must never be overwritten.
func (s *Service) Create(ctx context.Context, userID uint32) ([]byte, error) {
	token, err := common.GenerateRandByteArray(TokenSize)
	if err != nil {
		return nil, fmt.Errorf("token generation: %w", err)
	}

	session := &models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
	}

	if err := s.repo.Create(ctx, session); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorTokenCollision
		}
		return nil, fmt.Errorf("session create: %w", err)
	}

	return token, nil
}

// Validate resolves a token to its owning user id. An absent token is
// invalid; a present but expired token is deleted on sight (lazy expiry)
// and reported invalid.
func (s *Service) Validate(ctx context.Context, token []byte) (uint32, error) {
	session, err := s.repo.Get(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, common.ErrorInvalidSession
		}
		return 0, fmt.Errorf("session lookup: %w", err)
	}

	if session.Expired(s.now()) {
		_ = s.repo.Delete(ctx, token)
		return 0, common.ErrorInvalidSession
	}

	return session.UserID, nil
}

// Destroy removes a session. Destroying an absent token succeeds.
func (s *Service) Destroy(ctx context.Context, token []byte) error {
	return s.repo.Delete(ctx, token)
}
