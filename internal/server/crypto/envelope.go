package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

// Envelope layout:
//
//	[4-byte wrapped-key length, little-endian]
//	[wrapped key: eph_pub(65) || wrap_nonce(12) || sealed content key(32+16)]
//	[content nonce(12) || sealed content]
//
// A fresh random content key is generated per call and wrapped under a key
// derived from ECDH(ephemeral, recipient). Both seals are AEAD, so any
// tampering with either region fails authentication on open.
const (
	symKeySize = chacha20poly1305.KeySize
	nonceSize  = chacha20poly1305.NonceSize
	tagSize    = chacha20poly1305.Overhead

	wrappedKeySize = PublicKeySize + nonceSize + symKeySize + tagSize

	minEnvelopeSize = 4 + wrappedKeySize + nonceSize + tagSize
)

var hkdfInfo = []byte("ecnotes envelope key wrap v1")

// deriveWrapKey derives the key-wrapping key from the ECDH shared secret,
// binding both public keys into the derivation. The info buffer is built
// fresh here: ephPub may be a subslice of an envelope being parsed and must
// not be appended to.
func deriveWrapKey(shared, ephPub, recipientPub []byte) ([]byte, error) {
	info := make([]byte, 0, len(hkdfInfo)+len(ephPub)+len(recipientPub))
	info = append(info, hkdfInfo...)
	info = append(info, ephPub...)
	info = append(info, recipientPub...)

	kdf := hkdf.New(sha3.New256, shared, nil, info)
	key := make([]byte, symKeySize)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Encrypt seals plaintext into a hybrid envelope for the holder of the
// private half of recipientPublicKey. It either returns a complete envelope
// or an error; no partial output is produced.
func Encrypt(plaintext, recipientPublicKey []byte) ([]byte, error) {
	recipient, err := parsePublicKey(recipientPublicKey)
	if err != nil {
		return nil, err
	}

	eph, err := curve.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	shared, err := eph.ECDH(recipient)
	if err != nil {
		return nil, err
	}
	wrapKey, err := deriveWrapKey(shared, eph.PublicKey().Bytes(), recipientPublicKey)
	if err != nil {
		return nil, err
	}

	// fresh content key, sealed under the derived wrap key
	contentKey := make([]byte, symKeySize)
	if _, err := rand.Read(contentKey); err != nil {
		return nil, err
	}
	wrapAEAD, err := chacha20poly1305.New(wrapKey)
	if err != nil {
		return nil, err
	}
	wrapNonce := make([]byte, nonceSize)
	if _, err := rand.Read(wrapNonce); err != nil {
		return nil, err
	}

	wrapped := make([]byte, 0, wrappedKeySize)
	wrapped = append(wrapped, eph.PublicKey().Bytes()...)
	wrapped = append(wrapped, wrapNonce...)
	wrapped = wrapAEAD.Seal(wrapped, wrapNonce, contentKey, nil)

	// plaintext sealed under the content key with its own fresh nonce
	contentAEAD, err := chacha20poly1305.New(contentKey)
	if err != nil {
		return nil, err
	}
	contentNonce := make([]byte, nonceSize)
	if _, err := rand.Read(contentNonce); err != nil {
		return nil, err
	}

	envelope := make([]byte, 0, 4+len(wrapped)+nonceSize+len(plaintext)+tagSize)
	envelope = binary.LittleEndian.AppendUint32(envelope, uint32(len(wrapped)))
	envelope = append(envelope, wrapped...)
	envelope = append(envelope, contentNonce...)
	envelope = contentAEAD.Seal(envelope, contentNonce, plaintext, nil)

	return envelope, nil
}

// Decrypt opens a hybrid envelope with the recipient's private key. Every
// failure, structural or cryptographic, is reported as ErrDecrypt.
func Decrypt(envelope, recipientPrivateKey []byte) ([]byte, error) {
	if len(envelope) < minEnvelopeSize {
		return nil, ErrDecrypt
	}
	wrappedLen := binary.LittleEndian.Uint32(envelope[:4])
	if int(wrappedLen) != wrappedKeySize {
		return nil, ErrDecrypt
	}

	priv, err := parsePrivateKey(recipientPrivateKey)
	if err != nil {
		return nil, ErrDecrypt
	}

	wrapped := envelope[4 : 4+wrappedKeySize]
	ephPubBytes := wrapped[:PublicKeySize]
	wrapNonce := wrapped[PublicKeySize : PublicKeySize+nonceSize]
	sealedKey := wrapped[PublicKeySize+nonceSize:]

	ephPub, err := curve.NewPublicKey(ephPubBytes)
	if err != nil {
		return nil, ErrDecrypt
	}
	shared, err := priv.ECDH(ephPub)
	if err != nil {
		return nil, ErrDecrypt
	}
	wrapKey, err := deriveWrapKey(shared, ephPubBytes, priv.PublicKey().Bytes())
	if err != nil {
		return nil, ErrDecrypt
	}
	wrapAEAD, err := chacha20poly1305.New(wrapKey)
	if err != nil {
		return nil, ErrDecrypt
	}
	contentKey, err := wrapAEAD.Open(nil, wrapNonce, sealedKey, nil)
	if err != nil {
		return nil, ErrDecrypt
	}

	rest := envelope[4+wrappedKeySize:]
	contentNonce := rest[:nonceSize]
	sealedContent := rest[nonceSize:]

	contentAEAD, err := chacha20poly1305.New(contentKey)
	if err != nil {
		return nil, ErrDecrypt
	}
	plaintext, err := contentAEAD.Open(nil, contentNonce, sealedContent, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}
