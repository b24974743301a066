package admin

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/middleware"
	"github.com/sandesh691/agribid-sub001/internal/respond"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

type AdminHandler struct {
	service  *AdminService
	validate *validator.Validate
}

func NewAdminHandler(service *AdminService) *AdminHandler {
	return &AdminHandler{service: service, validate: validator.New()}
}

func (ah *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, err := ah.service.ListUsers(r.Context(), q.Get("role"), q.Get("status"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

func (ah *AdminHandler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.Validation("invalid user id"))
		return
	}

	var req types.UpdateUserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("invalid request body"))
		return
	}
	if err := ah.validate.Struct(req); err != nil {
		respond.Error(w, apperr.Validation(err.Error()))
		return
	}

	if err := ah.service.SetUserStatus(r.Context(), middleware.GetUserID(r.Context()), userID, req); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"account_status": req.AccountStatus})
}

func (ah *AdminHandler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.Validation("invalid user id"))
		return
	}

	if err := ah.service.VerifyUser(r.Context(), middleware.GetUserID(r.Context()), userID); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"verified": true})
}

func (ah *AdminHandler) ListCrops(w http.ResponseWriter, r *http.Request) {
	crops, err := ah.service.ListCrops(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, crops)
}

func (ah *AdminHandler) RemoveCrop(w http.ResponseWriter, r *http.Request) {
	cropID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.Validation("invalid listing id"))
		return
	}

	outcome, err := ah.service.RemoveCrop(r.Context(), middleware.GetUserID(r.Context()), cropID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, outcome)
}

func (ah *AdminHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := ah.service.ListReports(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, reports)
}

func (ah *AdminHandler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.Validation("invalid report id"))
		return
	}

	var req types.ResolveReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("invalid request body"))
		return
	}
	if err := ah.validate.Struct(req); err != nil {
		respond.Error(w, apperr.Validation(err.Error()))
		return
	}

	rep, err := ah.service.ResolveReport(r.Context(), middleware.GetUserID(r.Context()), reportID, req)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, rep)
}

func (ah *AdminHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	entries, err := ah.service.AuditTrail(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, entries)
}
