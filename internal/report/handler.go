package report

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/middleware"
	"github.com/sandesh691/agribid-sub001/internal/respond"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

type ReportHandler struct {
	service  *ReportService
	validate *validator.Validate
}

func NewReportHandler(service *ReportService) *ReportHandler {
	return &ReportHandler{service: service, validate: validator.New()}
}

func (rh *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("invalid request body"))
		return
	}
	if err := rh.validate.Struct(req); err != nil {
		respond.Error(w, apperr.Validation(err.Error()))
		return
	}

	rep, err := rh.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, rep)
}

func (rh *ReportHandler) MyReports(w http.ResponseWriter, r *http.Request) {
	reports, err := rh.service.MyReports(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, reports)
}
