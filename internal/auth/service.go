package auth

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/config"
	"github.com/sandesh691/agribid-sub001/internal/middleware"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/internal/token"
	"github.com/sandesh691/agribid-sub001/internal/user"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

type AuthService struct {
	users user.UserRepository
	cfg   *config.AuthConfig
}

func NewAuthService(users user.UserRepository, cfg *config.AuthConfig) *AuthService {
	return &AuthService{users: users, cfg: cfg}
}

func (as *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*model.User, error) {
	logger := middleware.GetLogger(ctx)

	role := constants.Role(req.Role)
	if !role.Valid() {
		return nil, apperr.Validation("invalid role")
	}

	// Admin self-registration is gated by the shared secret.
	if role == constants.RoleAdmin && req.AdminSecret != as.cfg.AdminSecret {
		return nil, apperr.Forbidden("invalid admin registration secret")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	language := req.Language
	if language == "" {
		language = "en"
	}

	u := &model.User{
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  string(hash),
		Role:          role,
		AccountStatus: constants.AccountActive,
		Language:      language,
	}
	farmer := &model.Farmer{Location: req.Location}
	retailer := &model.Retailer{BusinessName: req.BusinessName, GSTNumber: req.GSTNumber}

	if err := as.users.CreateWithProfile(ctx, u, farmer, retailer); err != nil {
		return nil, err
	}

	logger.Info().Str("user_id", u.ID.String()).Str("role", string(u.Role)).Msg("user registered")
	return u, nil
}

// Login verifies credentials and issues a signed session token. Suspended
// accounts cannot start new sessions.
func (as *AuthService) Login(ctx context.Context, req *types.LoginRequest) (*model.User, string, error) {
	u, err := as.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, "", apperr.Unauthorized("invalid credentials")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", apperr.Unauthorized("invalid credentials")
	}

	if u.AccountStatus == constants.AccountSuspended {
		return nil, "", apperr.Forbidden("account suspended")
	}

	signed, err := token.GenerateToken(u, as.cfg.JWTSecret)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	return u, signed, nil
}

func (as *AuthService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return as.users.GetByID(ctx, userID)
}
