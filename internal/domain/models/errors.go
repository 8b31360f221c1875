package models

import (
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrValidation marks a missing or malformed request field. No state changes.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks an unknown node id or address.
	ErrNotFound = errors.New("not found")
	// ErrDecryption marks a ciphertext that could not be opened with the key at hand.
	ErrDecryption = errors.New("decryption error")
	// ErrInsufficientNodes is returned when the directory cannot supply a full circuit.
	ErrInsufficientNodes = errors.New("insufficient nodes")
	// ErrUnreachable marks a next hop that did not accept a message.
	ErrUnreachable = errors.New("unreachable")
)

// HTTPStatus maps an error onto the response code the components answer with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientNodes):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrUnreachable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorForStatus is the inverse of HTTPStatus, used by clients to rebuild the error class of a remote failure.
func ErrorForStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusServiceUnavailable:
		return ErrInsufficientNodes
	case http.StatusBadGateway:
		return ErrUnreachable
	default:
		return nil
	}
}
