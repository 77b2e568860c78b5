package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ecnotes/internal/common"
	"github.com/dmitrijs2005/ecnotes/internal/server/models"
	sessionsrepo "github.com/dmitrijs2005/ecnotes/internal/server/repositories/sessions"
)

func newTestService(t *testing.T, ttl time.Duration) (*Service, *sessionsrepo.InMemoryRepository) {
	t.Helper()
	repo := sessionsrepo.NewInMemoryRepository()
	return NewService(repo, ttl), repo
}

func TestCreate_TokenProperties(t *testing.T) {
	s, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	t1, err := s.Create(ctx, 1)
	require.NoError(t, err)
	t2, err := s.Create(ctx, 1)
	require.NoError(t, err)

	assert.Len(t, t1, TokenSize)
	assert.Len(t, t2, TokenSize)
	assert.NotEqual(t, t1, t2)
}

func TestValidate_HappyPath(t *testing.T) {
	s, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	token, err := s.Create(ctx, 7)
	require.NoError(t, err)

	userID, err := s.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), userID)
}

func TestValidate_UnknownToken(t *testing.T) {
	s, _ := newTestService(t, time.Hour)

	_, err := s.Validate(context.Background(), make([]byte, TokenSize))
	require.ErrorIs(t, err, common.ErrorInvalidSession)
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	s, repo := newTestService(t, time.Hour)
	ctx := context.Background()

	t0 := time.Now()
	s.now = func() time.Time { return t0 }

	token, err := s.Create(ctx, 7)
	require.NoError(t, err)

	// any instant strictly before t0+ttl validates
	s.now = func() time.Time { return t0.Add(time.Hour - time.Nanosecond) }
	userID, err := s.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), userID)

	// exactly t0+ttl is dead: rejected and removed from the store
	s.now = func() time.Time { return t0.Add(time.Hour) }
	_, err = s.Validate(ctx, token)
	require.ErrorIs(t, err, common.ErrorInvalidSession)

	_, err = repo.Get(ctx, token)
	require.ErrorIs(t, err, common.ErrorNotFound, "expired session must be deleted on detection")
}

func TestDestroy_Idempotent(t *testing.T) {
	s, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	token, err := s.Create(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, s.Destroy(ctx, token))
	require.NoError(t, s.Destroy(ctx, token), "destroying an absent token is not an error")

	_, err = s.Validate(ctx, token)
	require.ErrorIs(t, err, common.ErrorInvalidSession)
}

// fakeRepo lets single repository calls be forced to fail.
type fakeRepo struct {
	createErr error
	getOut    *models.Session
	getErr    error
	deleteErr error
}

func (r *fakeRepo) Create(context.Context, *models.Session) error { return r.createErr }
func (r *fakeRepo) Get(context.Context, []byte) (*models.Session, error) {
	return r.getOut, r.getErr
}
func (r *fakeRepo) Delete(context.Context, []byte) error { return r.deleteErr }

func TestCreate_CollisionIsFatal(t *testing.T) {
	s := NewService(&fakeRepo{createErr: common.ErrorAlreadyExists}, time.Hour)

	_, err := s.Create(context.Background(), 1)
	require.ErrorIs(t, err, common.ErrorTokenCollision)
}

func TestValidate_StoreErrorIsNotInvalidSession(t *testing.T) {
	s := NewService(&fakeRepo{getErr: errors.New("store down")}, time.Hour)

	_, err := s.Validate(context.Background(), make([]byte, TokenSize))
	require.Error(t, err)
	require.NotErrorIs(t, err, common.ErrorInvalidSession)
}
