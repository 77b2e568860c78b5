package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/ecnotes/internal/common"
	"github.com/dmitrijs2005/ecnotes/internal/server/models"
)

// InMemoryRepository is a mutex-guarded map-backed implementation used by
// tests and local runs without postgres. Each method is atomic from the
// caller's point of view.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID uint32
	byID   map[uint32]*models.User
	byName map[string]uint32
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:   make(map[uint32]*models.User),
		byName: make(map[string]uint32),
	}
}

func (r *InMemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[user.Username]; ok {
		return nil, common.ErrorAlreadyExists
	}

	r.nextID++
	u := cloneUser(user)
	u.ID = r.nextID
	u.CreatedAt = time.Now()

	r.byID[u.ID] = u
	r.byName[u.Username] = u.ID

	out := cloneUser(u)
	*user = *out
	return user, nil
}

func (r *InMemoryRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id uint32) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(u), nil
}

func (r *InMemoryRepository) UpdateLastLogin(_ context.Context, id uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.LastLogin = time.Now()
	return nil
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.PasswordHash = append([]byte{}, u.PasswordHash...)
	c.Salt = append([]byte{}, u.Salt...)
	c.PublicKey = append([]byte{}, u.PublicKey...)
	c.PrivateKey = append([]byte{}, u.PrivateKey...)
	return &c
}
