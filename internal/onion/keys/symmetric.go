package keys

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"github.com/pkg/errors"

	"github.com/HannahMarsh/onion-relay/internal/domain/models"
)

const (
	SymmetricKeySize = 32 // AES-256
	IVSize           = 12 // GCM standard nonce
	TagSize          = 16
)

// GenerateSymmetricKey generates a random AES-256 key.
func GenerateSymmetricKey() ([]byte, error) {
	key := make([]byte, SymmetricKeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, errors.Wrap(err, "failed to generate symmetric key")
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != SymmetricKeySize {
		return nil, errors.Wrapf(models.ErrValidation, "symmetric key is %d bytes, want %d", len(key), SymmetricKeySize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create AES cipher")
	}
	return cipher.NewGCM(block)
}

// EncryptSymmetric encrypts plaintext with AES-256-GCM under a fresh IV.
// Output: base64(IV (12 bytes) || ciphertext || tag (16 bytes)).
func EncryptSymmetric(key, plaintext []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	out := make([]byte, IVSize, IVSize+len(plaintext)+gcm.Overhead())
	if _, err := io.ReadFull(rand.Reader, out); err != nil {
		return "", errors.Wrap(err, "failed to generate IV")
	}
	out = gcm.Seal(out, out[:IVSize], plaintext, nil)
	return Encode(out), nil
}

// DecryptSymmetric reads the IV back from the prefix and opens the rest.
// A truncated, tampered or wrongly keyed ciphertext yields ErrDecryption.
func DecryptSymmetric(key []byte, ciphertext string) ([]byte, error) {
	raw, err := Decode(ciphertext)
	if err != nil {
		return nil, errors.Wrap(models.ErrDecryption, err.Error())
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, errors.Wrap(models.ErrDecryption, err.Error())
	}
	if len(raw) < IVSize+gcm.Overhead() {
		return nil, errors.Wrap(models.ErrDecryption, "ciphertext too short")
	}
	plaintext, err := gcm.Open(nil, raw[:IVSize], raw[IVSize:], nil)
	if err != nil {
		return nil, errors.Wrap(models.ErrDecryption, "authentication failed")
	}
	return plaintext, nil
}
