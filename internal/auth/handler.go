package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/config"
	"github.com/sandesh691/agribid-sub001/internal/middleware"
	"github.com/sandesh691/agribid-sub001/internal/respond"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

type AuthHandler struct {
	service *AuthService
	cfg     *config.AuthConfig
}

func NewAuthHandler(service *AuthService, cfg *config.AuthConfig) *AuthHandler {
	return &AuthHandler{service: service, cfg: cfg}
}

var validate = validator.New()

func (ah *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	var req types.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("invalid request payload"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		respond.Error(w, apperr.Validation("validation error: "+err.Error()))
		return
	}

	u, err := ah.service.Register(ctx, &req)
	if err != nil {
		logger.Error().Err(err).Msg("failed to register user")
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, u)
}

func (ah *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("invalid request payload"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		respond.Error(w, apperr.Validation("validation error: "+err.Error()))
		return
	}

	u, signed, err := ah.service.Login(ctx, &req)
	if err != nil {
		logger.Warn().Err(err).Str("email", req.Email).Msg("login rejected")
		respond.Error(w, err)
		return
	}

	ah.setSessionCookie(w, signed, int(constants.SessionTTL.Seconds()))
	respond.JSON(w, http.StatusOK, map[string]any{"user": u, "token": signed})
}

func (ah *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ah.setSessionCookie(w, "", -1)
	respond.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (ah *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	u, err := ah.service.Me(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, u)
}

func (ah *AuthHandler) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     ah.cfg.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   ah.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
