package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized means the session token is missing or expired. The
	// caller tears down the session; the call is never retried.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRemote covers every other non-2xx rejection. Surfaced to the user
	// as a generic retriable message; local state is left unchanged.
	ErrRemote = errors.New("remote rejection")
)

func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return fmt.Errorf("%w (status %d)", ErrNotFound, code)
	default:
		return fmt.Errorf("%w (status %d)", ErrRemote, code)
	}
}
