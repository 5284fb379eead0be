package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKindAndCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Storage("reports.create", cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "reports.create: storage failure: disk full", err.Error())
}

func TestStorage_NilAndAlreadyClassified(t *testing.T) {
	assert.NoError(t, Storage("op", nil))

	nf := NotFound("users.find", "user %d not found", 7)
	wrapped := Storage("outer", nf)
	assert.Same(t, nf, wrapped, "classified errors are passed through")
	assert.ErrorIs(t, wrapped, ErrNotFound)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", Validation("op", "bad status %q", "x"), http.StatusBadRequest},
		{"duplicate", Duplicate("op", "email taken"), http.StatusConflict},
		{"not found", NotFound("op", "missing"), http.StatusNotFound},
		{"storage", Storage("op", errors.New("boom")), http.StatusInternalServerError},
		{"wrapped validation", fmt.Errorf("handler: %w", Validation("op", "empty")), http.StatusBadRequest},
		{"plain", errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "email taken", PublicMessage(Duplicate("op", "email taken")))
	assert.Equal(t, "internal error", PublicMessage(Storage("op", errors.New("secret dsn"))))
	assert.Equal(t, "internal error", PublicMessage(errors.New("plain")))
}
