package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Status(ErrDuplicateEmail))
	assert.Equal(t, http.StatusBadRequest, Status(ErrOutOfStock))
	assert.Equal(t, http.StatusBadRequest, Status(ErrInsufficientStock))
	assert.Equal(t, http.StatusBadRequest, Status(ErrEmptyCart))
	assert.Equal(t, http.StatusUnauthorized, Status(ErrUnauthorized))
	assert.Equal(t, http.StatusForbidden, Status(ErrForbidden))
	assert.Equal(t, http.StatusNotFound, Status(ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("connection reset")))
}

func TestStatusUnwrapsSentinels(t *testing.T) {
	wrapped := fmt.Errorf("product %q: %w", "mug", ErrInsufficientStock)
	assert.Equal(t, http.StatusBadRequest, Status(wrapped))
	assert.Contains(t, Message(wrapped), "mug")
}

func TestMessageHidesInternalErrors(t *testing.T) {
	assert.Equal(t, "internal server error", Message(errors.New("dial tcp: refused")))
	assert.Equal(t, "cart is empty", Message(ErrEmptyCart))
}
