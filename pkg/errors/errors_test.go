package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_WrapsSentinel(t *testing.T) {
	err := NotFound("product", "p-1")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "product with id p-1 not found")
	assert.Equal(t, http.StatusNotFound, err.Status)
}

func TestAlreadyExists_MessageAndStatus(t *testing.T) {
	err := AlreadyExists("category", "name", "Kitchen")

	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Contains(t, err.Message, `category with name "Kitchen" already exists`)
	assert.Equal(t, http.StatusConflict, err.Status)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", InvalidInput("bad"), http.StatusBadRequest},
		{"wrapped app error", fmt.Errorf("outer: %w", NotFound("tag", "t-1")), http.StatusNotFound},
		{"bare sentinel", ErrAlreadyExists, http.StatusConflict},
		{"wrapped sentinel", fmt.Errorf("create: %w", ErrInvalidInput), http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	base := errors.New("connection refused")
	err := Wrap(base, "ping store")

	assert.ErrorIs(t, err, base)
	assert.Equal(t, "ping store: connection refused", err.Error())
}
