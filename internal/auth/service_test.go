package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/config"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

type fakeUserRepo struct {
	byEmail map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*model.User{}}
}

func (f *fakeUserRepo) CreateWithProfile(ctx context.Context, u *model.User, farmer *model.Farmer, retailer *model.Retailer) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return apperr.Validation("email already registered")
	}
	u.ID = uuid.New()
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:   "test-secret",
		AdminSecret: "admin-secret",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("farmer registration", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), testAuthConfig())

		u, err := svc.Register(ctx, &types.RegisterRequest{
			Name: "Ravi", Email: "ravi@example.com", Password: "password123",
			Role: "FARMER", Location: "Nashik",
		})
		require.NoError(t, err)
		assert.Equal(t, constants.RoleFarmer, u.Role)
		assert.Equal(t, constants.AccountActive, u.AccountStatus)
		assert.Equal(t, "en", u.Language)
		assert.NotEqual(t, "password123", u.PasswordHash)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), testAuthConfig())

		_, err := svc.Register(ctx, &types.RegisterRequest{
			Name: "Eve", Email: "eve@example.com", Password: "password123", Role: "WHOLESALER",
		})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("admin requires the shared secret", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), testAuthConfig())

		_, err := svc.Register(ctx, &types.RegisterRequest{
			Name: "Root", Email: "root@example.com", Password: "password123",
			Role: "ADMIN", AdminSecret: "wrong",
		})
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

		_, err = svc.Register(ctx, &types.RegisterRequest{
			Name: "Root", Email: "root@example.com", Password: "password123",
			Role: "ADMIN", AdminSecret: "admin-secret",
		})
		assert.NoError(t, err)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(repo, testAuthConfig())

		req := &types.RegisterRequest{
			Name: "Ravi", Email: "ravi@example.com", Password: "password123", Role: "FARMER",
		}
		_, err := svc.Register(ctx, req)
		require.NoError(t, err)

		_, err = svc.Register(ctx, req)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, repo *fakeUserRepo, status constants.AccountStatus) *model.User {
		t.Helper()
		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
		require.NoError(t, err)
		u := &model.User{
			ID:            uuid.New(),
			Email:         "ravi@example.com",
			PasswordHash:  string(hash),
			Role:          constants.RoleFarmer,
			AccountStatus: status,
		}
		repo.byEmail[u.Email] = u
		return u
	}

	t.Run("valid credentials issue a token", func(t *testing.T) {
		repo := newFakeUserRepo()
		seed(t, repo, constants.AccountActive)
		svc := NewAuthService(repo, testAuthConfig())

		u, signed, err := svc.Login(ctx, &types.LoginRequest{Email: "ravi@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, signed)
		assert.Equal(t, "ravi@example.com", u.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := newFakeUserRepo()
		seed(t, repo, constants.AccountActive)
		svc := NewAuthService(repo, testAuthConfig())

		_, _, err := svc.Login(ctx, &types.LoginRequest{Email: "ravi@example.com", Password: "nope"})
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	})

	t.Run("unknown email reads as invalid credentials", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), testAuthConfig())

		_, _, err := svc.Login(ctx, &types.LoginRequest{Email: "ghost@example.com", Password: "password123"})
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	})

	t.Run("suspended account cannot log in", func(t *testing.T) {
		repo := newFakeUserRepo()
		seed(t, repo, constants.AccountSuspended)
		svc := NewAuthService(repo, testAuthConfig())

		_, _, err := svc.Login(ctx, &types.LoginRequest{Email: "ravi@example.com", Password: "password123"})
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})
}
