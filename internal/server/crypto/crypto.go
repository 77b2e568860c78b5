// Package crypto composes the primitives used by the notes server: the
// password digest, user keypairs, and the hybrid envelope protecting note
// content at rest. It only assembles calls to vetted primitive
// implementations; no algorithm is implemented here.
package crypto

import (
	"crypto/ecdh"
	"crypto/rand"
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/sha3"

	"github.com/dmitrijs2005/ecnotes/internal/common"
)

const (
	// SaltSize is the width of per-user password salts.
	SaltSize = 16
	// DigestSize is the width of the password digest.
	DigestSize = 32
	// PublicKeySize is the uncompressed EC point width (0x04 || X || Y).
	PublicKeySize = 65
	// PrivateKeySize is the EC scalar width.
	PrivateKeySize = 32
)

// ErrDecrypt is the single error returned for every structural or
// cryptographic failure while opening an envelope. Callers never learn
// whether the length, the key or the ciphertext was at fault.
var ErrDecrypt = errors.New("decryption failed")

// ErrInvalidKey reports a key that does not parse as a point or scalar on
// the curve.
var ErrInvalidKey = errors.New("invalid key")

var curve = ecdh.P256()

// HashPassword returns digest(password || salt). Deterministic: the caller
// generates the salt fresh at registration and reuses the stored salt at
// login.
func HashPassword(password []byte, salt []byte) []byte {
	h := sha3.New256()
	h.Write(password)
	h.Write(salt)
	return h.Sum(nil)
}

// VerifyPassword recomputes the digest for a candidate password and compares
// it against the stored digest in constant time.
func VerifyPassword(password, salt, storedDigest []byte) bool {
	digest := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(digest, storedDigest) == 1
}

// NewSalt returns a fresh random password salt.
func NewSalt() ([]byte, error) {
	return common.GenerateRandByteArray(SaltSize)
}

// GenerateKeypair creates a fresh EC keypair. The public key is the 65-byte
// uncompressed point, the private key the 32-byte scalar, matching the
// fixed-width fields the protocol and storage schema require.
func GenerateKeypair() (publicKey, privateKey []byte, err error) {
	priv, err := curve.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return priv.PublicKey().Bytes(), priv.Bytes(), nil
}

func parsePublicKey(publicKey []byte) (*ecdh.PublicKey, error) {
	pub, err := curve.NewPublicKey(publicKey)
	if err != nil {
		return nil, ErrInvalidKey
	}
	return pub, nil
}

func parsePrivateKey(privateKey []byte) (*ecdh.PrivateKey, error) {
	priv, err := curve.NewPrivateKey(privateKey)
	if err != nil {
		return nil, ErrInvalidKey
	}
	return priv, nil
}
