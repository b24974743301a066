package bid

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/middleware"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/internal/respond"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

type BidHandler struct {
	service *BidService
}

func NewBidHandler(service *BidService) *BidHandler {
	return &BidHandler{service: service}
}

var validate = validator.New()

func (bh *BidHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	var req types.PlaceBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("invalid request payload"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		respond.Error(w, apperr.Validation("validation error: "+err.Error()))
		return
	}

	b, err := bh.service.PlaceBid(ctx, middleware.GetUserID(ctx), &req)
	if err != nil {
		logger.Warn().Err(err).Str("crop_id", req.CropID.String()).Msg("bid rejected")
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, b)
}

func (bh *BidHandler) MyBids(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bids, err := bh.service.MyBids(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respond.Error(w, err)
		return
	}
	if bids == nil {
		bids = []model.Bid{}
	}
	respond.JSON(w, http.StatusOK, bids)
}

func (bh *BidHandler) ReceivedBids(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bids, err := bh.service.ReceivedBids(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respond.Error(w, err)
		return
	}
	if bids == nil {
		bids = []model.Bid{}
	}
	respond.JSON(w, http.StatusOK, bids)
}
