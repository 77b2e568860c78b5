// Package protocol implements the fixed binary wire protocol spoken between
// clients and the notes server.
//
// Every message starts with a fixed 68-byte header:
//
//	version(1) type(1) payload_len(2) session_token(64)
//
// followed by exactly payload_len bytes of type-specific payload. All
// multi-byte integers are little-endian; the existing clients serialize
// packed structs on little-endian hosts and the byte order is part of the
// wire contract.
package protocol

import (
	"encoding/binary"
	"errors"
)

// Version is the protocol version implemented by this package. A header
// carrying any other value is rejected.
const Version = 1

// Fixed field and message sizes.
const (
	TokenSize  = 64
	HeaderSize = 1 + 1 + 2 + TokenSize

	// MaxMessageSize bounds the per-connection receive buffer.
	MaxMessageSize = 4096
	// MaxPayloadSize is the largest payload_len a header may declare.
	MaxPayloadSize = MaxMessageSize - HeaderSize

	UsernameSize  = 32
	PasswordSize  = 64
	PublicKeySize = 65
	TitleSize     = 256
)

var byteOrder = binary.LittleEndian

// MsgType tags a message.
type MsgType uint8

const (
	MsgRegister MsgType = 1
	MsgLogin    MsgType = 2
	MsgLogout   MsgType = 3

	MsgNoteCreate MsgType = 10
	MsgNoteUpdate MsgType = 11
	MsgNoteDelete MsgType = 12
	MsgNoteList   MsgType = 13
	MsgNoteGet    MsgType = 14

	MsgResponse MsgType = 100
	MsgError    MsgType = 101
)

// ErrCode is the 1-byte error code carried in every response payload.
type ErrCode uint8

const (
	ErrNone           ErrCode = 0
	ErrAuthFailed     ErrCode = 1
	ErrUserExists     ErrCode = 2
	ErrInvalidToken   ErrCode = 3
	ErrNotFound       ErrCode = 4
	ErrServer         ErrCode = 5
	ErrInvalidRequest ErrCode = 6
	ErrVersion        ErrCode = 7
	ErrInvalidSession ErrCode = 8
)

func (c ErrCode) String() string {
	switch c {
	case ErrNone:
		return "none"
	case ErrAuthFailed:
		return "authentication failed"
	case ErrUserExists:
		return "user exists"
	case ErrInvalidToken:
		return "invalid token"
	case ErrNotFound:
		return "not found"
	case ErrServer:
		return "server error"
	case ErrInvalidRequest:
		return "invalid request"
	case ErrVersion:
		return "version mismatch"
	case ErrInvalidSession:
		return "invalid session"
	default:
		return "unknown"
	}
}

// Decode results. ErrIncomplete is not a protocol violation: the caller must
// keep buffering. Every other error terminates the exchange for the message.
var (
	ErrIncomplete       = errors.New("incomplete frame")
	ErrVersionMismatch  = errors.New("protocol version mismatch")
	ErrPayloadTooLarge  = errors.New("declared payload exceeds maximum")
	ErrMalformedPayload = errors.New("malformed payload")
)

// Header is the fixed part of every frame. Token is zero-filled for
// messages sent before authentication.
type Header struct {
	Version    uint8
	Type       MsgType
	PayloadLen uint16
	Token      [TokenSize]byte
}

// Frame is one complete wire message: a header plus its declared payload.
type Frame struct {
	Header  Header
	Payload []byte
}
