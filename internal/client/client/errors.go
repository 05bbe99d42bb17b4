package client

import (
	"errors"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
	ErrDecode       = errors.New("malformed server response")
)

// UserMessage turns an error returned by a Client into a sentence suitable
// for showing to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please log in again."
	case errors.Is(err, ErrForbidden):
		return "You do not have access to this QR code."
	case errors.Is(err, ErrNotFound):
		return "The QR code no longer exists."
	case errors.Is(err, ErrConflict):
		return "An account with this email already exists."
	case errors.Is(err, ErrUnavailable):
		return "Cannot reach the server. Check your connection and try again."
	case errors.Is(err, ErrDecode):
		return "The server sent an unexpected response."
	case errors.Is(err, ErrServer):
		return "The server failed to process the request. Please try again later."
	default:
		return err.Error()
	}
}
