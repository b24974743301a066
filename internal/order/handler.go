package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/middleware"
	"github.com/sandesh691/agribid-sub001/internal/respond"
)

type OrderHandler struct {
	service *OrderService
}

func NewOrderHandler(service *OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

func (oh *OrderHandler) AcceptBid(w http.ResponseWriter, r *http.Request) {
	bidID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, apperr.Validation("invalid bid id"))
		return
	}

	txn, err := oh.service.AcceptBid(r.Context(), middleware.GetUserID(r.Context()), bidID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, txn)
}

func (oh *OrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	bidID, err := uuid.Parse(chi.URLParam(r, "bidId"))
	if err != nil {
		respond.Error(w, apperr.Validation("invalid bid id"))
		return
	}

	txn, err := oh.service.Pay(r.Context(), middleware.GetUserID(r.Context()), bidID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, txn)
}

func (oh *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		respond.Error(w, apperr.Unauthorized("authentication required"))
		return
	}

	txns, err := oh.service.History(r.Context(), claims.UserID, claims.Role)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, txns)
}
