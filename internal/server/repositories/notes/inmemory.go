package notes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/ecnotes/internal/common"
	"github.com/dmitrijs2005/ecnotes/internal/server/models"
)

// InMemoryRepository is a mutex-guarded implementation used by tests and
// local runs without postgres.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID uint32
	notes  map[uint32]*models.Note
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{notes: make(map[uint32]*models.Note)}
}

func (r *InMemoryRepository) Create(_ context.Context, note *models.Note) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	n := cloneNote(note)
	n.ID = r.nextID
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	r.notes[n.ID] = n

	*note = *cloneNote(n)
	return note, nil
}

func (r *InMemoryRepository) Get(_ context.Context, id uint32) (*models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneNote(n), nil
}

func (r *InMemoryRepository) Update(_ context.Context, note *models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[note.ID]
	if !ok {
		return common.ErrorNotFound
	}
	n.Content = append([]byte{}, note.Content...)
	n.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.notes, id)
	return nil
}

func (r *InMemoryRepository) ListByUser(_ context.Context, userID uint32) ([]*models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []*models.Note
	for _, n := range r.notes {
		if n.UserID != userID {
			continue
		}
		c := cloneNote(n)
		c.Content = nil // listings never carry content
		list = append(list, c)
	}

	sort.Slice(list, func(i, j int) bool {
		if !list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
			return list[i].UpdatedAt.After(list[j].UpdatedAt)
		}
		return list[i].ID > list[j].ID
	})

	return list, nil
}

func cloneNote(n *models.Note) *models.Note {
	c := *n
	c.Content = append([]byte{}, n.Content...)
	return &c
}
