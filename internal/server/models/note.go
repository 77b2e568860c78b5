package models

import "time"

// Note is a content record. Content always holds the hybrid envelope
// ciphertext; plaintext never reaches storage.
type Note struct {
	ID        uint32
	UserID    uint32
	Title     string
	Content   []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}
