package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation maps to 400", Validation("bad input"), http.StatusBadRequest},
		{"conflict maps to 400", Conflict("already processed"), http.StatusBadRequest},
		{"unauthorized maps to 401", Unauthorized("no session"), http.StatusUnauthorized},
		{"forbidden maps to 403", Forbidden("wrong role"), http.StatusForbidden},
		{"not found maps to 404", NotFound("missing"), http.StatusNotFound},
		{"internal maps to 500", Internal(errors.New("boom")), http.StatusInternalServerError},
		{"plain error maps to 500", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "bad input", PublicMessage(Validation("bad input")))
	assert.Equal(t, "internal server error", PublicMessage(Internal(errors.New("pq: connection refused"))),
		"internal details must not leak")
	assert.Equal(t, "internal server error", PublicMessage(errors.New("raw")))
}

func TestIsKindUnwraps(t *testing.T) {
	wrapped := Wrap(KindNotFound, "missing", errors.New("sql: no rows"))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindConflict))
	assert.True(t, errors.Is(wrapped, wrapped))
}
