// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Auth errors. Deliberately coarse: the same value covers an unknown
	// user, a wrong password and an ownership violation, so callers cannot
	// tell which check failed.
	ErrorAuthFailed = errors.New("authentication failed")

	// Session lifecycle errors.
	ErrorInvalidSession = errors.New("invalid session")
	ErrorTokenCollision = errors.New("session token collision")
)
