package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ecnotes/internal/common"
	"github.com/dmitrijs2005/ecnotes/internal/dbx"
	"github.com/dmitrijs2005/ecnotes/internal/server/crypto"
	"github.com/dmitrijs2005/ecnotes/internal/server/models"
	"github.com/dmitrijs2005/ecnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/ecnotes/internal/server/repositories/repomanager"
)

// NoteService implements note CRUD on top of the repositories. Content is
// encrypted with the owner's public key before it reaches storage and
// decrypted with the stored private key on the way out; repositories only
// ever see ciphertext.
//
// Every operation takes the caller's user id (already resolved from the
// session token by the dispatcher). Touching a note owned by someone else
// fails with ErrorAuthFailed, the same value a bad login produces.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager) *NoteService {
	return &NoteService{db: db, repomanager: m}
}

// withTx runs fn transactionally when a real database is attached. The
// in-memory backend has no transactions; fn runs directly.
func (s *NoteService) withTx(ctx context.Context, fn func(ctx context.Context, db dbx.DBTX) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}

// Create encrypts content for the owner and stores the note. The returned
// note carries the assigned id and timestamps; its Content is the ciphertext.
func (s *NoteService) Create(ctx context.Context, userID uint32, title string, content []byte) (*models.Note, error) {
	owner, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	envelope, err := crypto.Encrypt(content, owner.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("error encrypting note: %w", err)
	}

	note := &models.Note{UserID: userID, Title: title, Content: envelope}

	created, err := s.repomanager.Notes(s.db).Create(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("error creating note: %w", err)
	}

	return created, nil
}

// Update replaces the note's content with a freshly encrypted envelope. The
// ownership check and the write run in one transaction so a concurrent
// delete cannot slip between them.
func (s *NoteService) Update(ctx context.Context, userID, noteID uint32, content []byte) error {
	owner, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	envelope, err := crypto.Encrypt(content, owner.PublicKey)
	if err != nil {
		return fmt.Errorf("error encrypting note: %w", err)
	}

	return s.withTx(ctx, func(ctx context.Context, db dbx.DBTX) error {
		repo := s.repomanager.Notes(db)

		note, err := s.getOwned(ctx, repo, userID, noteID)
		if err != nil {
			return err
		}

		note.Content = envelope
		if err := repo.Update(ctx, note); err != nil {
			return fmt.Errorf("error updating note: %w", err)
		}
		return nil
	})
}

// Delete removes the caller's note.
func (s *NoteService) Delete(ctx context.Context, userID, noteID uint32) error {
	return s.withTx(ctx, func(ctx context.Context, db dbx.DBTX) error {
		repo := s.repomanager.Notes(db)

		if _, err := s.getOwned(ctx, repo, userID, noteID); err != nil {
			return err
		}

		if err := repo.Delete(ctx, noteID); err != nil {
			return fmt.Errorf("error deleting note: %w", err)
		}
		return nil
	})
}

// Get returns the caller's note with Content decrypted to plaintext.
func (s *NoteService) Get(ctx context.Context, userID, noteID uint32) (*models.Note, error) {
	note, err := s.getOwned(ctx, s.repomanager.Notes(s.db), userID, noteID)
	if err != nil {
		return nil, err
	}

	owner, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	plaintext, err := crypto.Decrypt(note.Content, owner.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("error decrypting note %d: %w", note.ID, err)
	}

	note.Content = plaintext
	return note, nil
}

// List returns the caller's notes, most recently updated first. Content is
// not populated.
func (s *NoteService) List(ctx context.Context, userID uint32) ([]*models.Note, error) {
	list, err := s.repomanager.Notes(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	return list, nil
}

func (s *NoteService) getUser(ctx context.Context, userID uint32) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorAuthFailed
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

// getOwned loads a note and enforces ownership. A note that exists but
// belongs to another user reports ErrorAuthFailed, not ErrorNotFound.
func (s *NoteService) getOwned(ctx context.Context, repo notes.Repository, userID, noteID uint32) (*models.Note, error) {
	note, err := repo.Get(ctx, noteID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error searching note: %w", err)
	}

	if note.UserID != userID {
		return nil, common.ErrorAuthFailed
	}

	return note, nil
}
