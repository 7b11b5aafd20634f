package apperr

import (
	"errors"
	"net/http"
)

// Sentinel errors returned by the service layer. Handlers map them onto HTTP
// statuses with Status and never leak datastore errors to clients.
var (
	ErrUnauthorized      = errors.New("invalid or expired session")
	ErrForbidden         = errors.New("not authorized")
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrOutOfStock        = errors.New("requested quantity exceeds stock")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
)

func Status(err error) int {
	switch {
	case errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrOutOfStock),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing error text. Unexpected errors collapse to
// a generic message so datastore details never reach the response body.
func Message(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
