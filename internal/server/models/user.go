package models

import "time"

// User is the identity record. PrivateKey is stored server-side alongside
// the user; key custody is deliberately server-side, so the server can
// decrypt every note it stores. Known weakness, not an accident.
type User struct {
	ID           uint32
	Username     string
	PasswordHash []byte
	Salt         []byte
	PublicKey    []byte
	PrivateKey   []byte
	CreatedAt    time.Time
	LastLogin    time.Time
}
