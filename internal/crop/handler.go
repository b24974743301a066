package crop

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/middleware"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/internal/respond"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

type CropHandler struct {
	service *CropService
}

func NewCropHandler(service *CropService) *CropHandler {
	return &CropHandler{service: service}
}

var validate = validator.New()

func (ch *CropHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	var req types.CreateCropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("invalid request payload"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		respond.Error(w, apperr.Validation("validation error: "+err.Error()))
		return
	}

	c, err := ch.service.CreateListing(ctx, middleware.GetUserID(ctx), &req)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create listing")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, c)
}

func (ch *CropHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := &types.CropFilter{
		Status: q.Get("status"),
		Name:   q.Get("name"),
		Grade:  q.Get("grade"),
		Type:   q.Get("type"),
		Sort:   q.Get("sort"),
	}
	// "mine" restricts to the caller's own listings, visibility rules relaxed.
	if q.Get("mine") == "true" {
		claims := middleware.GetClaims(ctx)
		if claims == nil {
			respond.Error(w, apperr.Unauthorized("missing session token"))
			return
		}
		filter.FarmerID = claims.UserID
	}

	crops, err := ch.service.ListListings(ctx, filter)
	if err != nil {
		middleware.GetLogger(ctx).Error().Err(err).Msg("failed to list crops")
		respond.Error(w, err)
		return
	}
	if crops == nil {
		crops = []model.Crop{}
	}
	respond.JSON(w, http.StatusOK, crops)
}

func (ch *CropHandler) Details(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		respond.Error(w, apperr.Validation("invalid crop id"))
		return
	}

	c, bids, err := ch.service.Details(ctx, id)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"crop": c, "bids": bids})
}
