package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ecnotes/internal/common"
	"github.com/dmitrijs2005/ecnotes/internal/server/crypto"
	"github.com/dmitrijs2005/ecnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ecnotes/internal/server/sessions"
)

func newUserService(t *testing.T) (*UserService, *sessions.Service, repomanager.RepositoryManager) {
	t.Helper()
	m := repomanager.NewInMemoryRepositoryManager()
	sm := sessions.NewService(m.Sessions(nil), time.Hour)
	return NewUserService(nil, m, sm), sm, m
}

func TestRegister(t *testing.T) {
	svc, _, m := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", []byte("s3cret"))
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	stored, err := m.Users(nil).GetByUsername(ctx, "alice")
	require.NoError(t, err)

	assert.Len(t, stored.Salt, crypto.SaltSize)
	assert.Len(t, stored.PasswordHash, crypto.DigestSize)
	assert.Len(t, stored.PublicKey, crypto.PublicKeySize)
	assert.Len(t, stored.PrivateKey, crypto.PrivateKeySize)
	assert.Equal(t, crypto.HashPassword([]byte("s3cret"), stored.Salt), stored.PasswordHash)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", []byte("s3cret"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", []byte("other"))
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_FreshSaltAndKeysPerUser(t *testing.T) {
	svc, _, m := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", []byte("same-password"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, "bob", []byte("same-password"))
	require.NoError(t, err)

	alice, err := m.Users(nil).GetByUsername(ctx, "alice")
	require.NoError(t, err)
	bob, err := m.Users(nil).GetByUsername(ctx, "bob")
	require.NoError(t, err)

	assert.NotEqual(t, alice.Salt, bob.Salt)
	assert.NotEqual(t, alice.PasswordHash, bob.PasswordHash)
	assert.NotEqual(t, alice.PublicKey, bob.PublicKey)
}

func TestLogin(t *testing.T) {
	svc, sm, m := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", []byte("s3cret"))
	require.NoError(t, err)

	token, err := svc.Login(ctx, "alice", []byte("s3cret"))
	require.NoError(t, err)
	require.Len(t, token, sessions.TokenSize)

	userID, err := sm.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	stored, err := m.Users(nil).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.LastLogin.IsZero())
}

func TestLogin_Failures(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", []byte("s3cret"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "mallory", "s3cret"},
		{"wrong password", "alice", "wrong"},
		{"empty password", "alice", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.username, []byte(tt.password))
			require.ErrorIs(t, err, common.ErrorAuthFailed)
		})
	}
}

func TestLogout(t *testing.T) {
	svc, sm, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", []byte("s3cret"))
	require.NoError(t, err)
	token, err := svc.Login(ctx, "alice", []byte("s3cret"))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))

	_, err = sm.Validate(ctx, token)
	require.ErrorIs(t, err, common.ErrorInvalidSession)

	// logging out again is not an error
	require.NoError(t, svc.Logout(ctx, token))
}
