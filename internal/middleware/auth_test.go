package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/internal/token"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
)

const testSessionSecret = "test-secret"

func signedSession(t *testing.T, role constants.Role) (uuid.UUID, string) {
	t.Helper()
	u := &model.User{ID: uuid.New(), Email: "ravi@example.com", Role: role}
	signed, err := token.GenerateToken(u, testSessionSecret)
	require.NoError(t, err)
	return u.ID, signed
}

func TestRequireRejectsAnonymous(t *testing.T) {
	a := NewAuth(testSessionSecret, "session")

	rec := httptest.NewRecorder()
	handler := a.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a session")
	}))
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAllowsAnonymous(t *testing.T) {
	a := NewAuth(testSessionSecret, "session")

	rec := httptest.NewRecorder()
	handler := a.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Nil(t, GetClaims(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalResolvesPresentSession(t *testing.T) {
	a := NewAuth(testSessionSecret, "session")
	userID, signed := signedSession(t, constants.RoleFarmer)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	rec := httptest.NewRecorder()
	handler := a.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		require.NotNil(t, claims)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, constants.RoleFarmer, claims.Role)
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalRejectsBadToken(t *testing.T) {
	a := NewAuth(testSessionSecret, "session")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")

	rec := httptest.NewRecorder()
	handler := a.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a bad token")
	}))
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireEnrichesRequestLogger(t *testing.T) {
	a := NewAuth(testSessionSecret, "session")
	userID, signed := signedSession(t, constants.RoleRetailer)

	var buf bytes.Buffer
	baseLogger := zerolog.New(&buf)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: signed})
	req = req.WithContext(context.WithValue(req.Context(), loggerContextKey, &baseLogger))

	rec := httptest.NewRecorder()
	handler := a.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		GetLogger(r.Context()).Info().Msg("handled")
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), userID.String())
	assert.Contains(t, buf.String(), string(constants.RoleRetailer))
}
