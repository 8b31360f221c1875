package keys

import (
	"encoding/base64"

	"github.com/pkg/errors"

	"github.com/HannahMarsh/onion-relay/internal/domain/models"
)

// Encode returns the standard base64 text form of b.
func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Decode reverses Encode. Decoding is strict: a given byte string has exactly one accepted text form.
func Decode(s string) ([]byte, error) {
	b, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(models.ErrValidation, "invalid base64: %v", err)
	}
	return b, nil
}
