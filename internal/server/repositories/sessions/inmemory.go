package sessions

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/ecnotes/internal/common"
	"github.com/dmitrijs2005/ecnotes/internal/server/models"
)

// InMemoryRepository is a mutex-guarded implementation used by tests and
// local runs without an external store.
type InMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{sessions: make(map[string]*models.Session)}
}

func (r *InMemoryRepository) Create(_ context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := string(session.Token)
	if _, ok := r.sessions[key]; ok {
		return common.ErrorAlreadyExists
	}

	c := *session
	c.Token = append([]byte{}, session.Token...)
	r.sessions[key] = &c
	return nil
}

func (r *InMemoryRepository) Get(_ context.Context, token []byte) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[string(token)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *s
	c.Token = append([]byte{}, s.Token...)
	return &c, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, token []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, string(token))
	return nil
}
