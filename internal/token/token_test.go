package token

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
)

func TestTokenRoundTrip(t *testing.T) {
	u := &model.User{
		ID:    uuid.New(),
		Email: "ravi@example.com",
		Role:  constants.RoleFarmer,
	}

	signed, err := GenerateToken(u, "secret")
	require.NoError(t, err)

	claims, err := ParseToken(signed, "secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, constants.RoleFarmer, claims.Role)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, u.ID.String(), claims.Subject)
}

func TestParseTokenWrongSecret(t *testing.T) {
	u := &model.User{ID: uuid.New(), Role: constants.RoleRetailer}

	signed, err := GenerateToken(u, "secret")
	require.NoError(t, err)

	_, err = ParseToken(signed, "other-secret")
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token", "secret")
	assert.Error(t, err)
}

func TestParseTokenUnknownRole(t *testing.T) {
	u := &model.User{ID: uuid.New(), Role: constants.Role("SUPERUSER")}

	signed, err := GenerateToken(u, "secret")
	require.NoError(t, err)

	_, err = ParseToken(signed, "secret")
	assert.Error(t, err)
}
