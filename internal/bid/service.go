package bid

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/crop"
	"github.com/sandesh691/agribid-sub001/internal/middleware"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

type BidService struct {
	repo  BidRepository
	crops crop.CropRepository
	now   func() time.Time
}

func NewBidService(repo BidRepository, crops crop.CropRepository) *BidService {
	return &BidService{repo: repo, crops: crops, now: time.Now}
}

// validateQuantity enforces the per-type quantity rules. BULK bids come in
// fixed tranches, with the exact remaining quantity allowed so a retailer can
// buy out the listing.
func validateQuantity(biddingType constants.BiddingType, quantity, available int64) error {
	switch biddingType {
	case constants.BiddingBulk:
		if quantity == available {
			return nil
		}
		for _, tranche := range constants.BulkTranches {
			if quantity == tranche {
				return nil
			}
		}
		return apperr.Validation("bulk bids must be 100, 250, 500, 750 or 1000 kg, or the exact remaining quantity")
	case constants.BiddingMini:
		if quantity < constants.MiniMinQuantityKg || quantity > constants.MiniMaxQuantityKg {
			return apperr.Validation("mini bids must be between 1 and 20 kg")
		}
		return nil
	default:
		return apperr.Validation("invalid bidding type")
	}
}

// PlaceBid validates the bid against the listing's live constraints and
// records it as PENDING. Check order matters: state, window, quantity, price.
func (bs *BidService) PlaceBid(ctx context.Context, retailerID uuid.UUID, req *types.PlaceBidRequest) (*model.Bid, error) {
	logger := middleware.GetLogger(ctx)
	now := bs.now()

	c, err := bs.crops.GetByID(ctx, req.CropID)
	if err != nil {
		return nil, err
	}

	if c.Status != constants.CropActive || c.BiddingStatus != constants.BiddingOpen {
		return nil, apperr.Validation("bidding is not active for this crop")
	}
	if now.Before(c.BiddingStartTime) {
		return nil, apperr.Validation("bidding window has not opened yet")
	}
	if now.After(c.BiddingEndTime) {
		// Close the window on the way out; the sweeper would catch it later
		if cerr := bs.crops.CloseBidding(ctx, c.ID); cerr != nil {
			logger.Error().Err(cerr).Str("crop_id", c.ID.String()).Msg("failed to close expired bidding window")
		}
		return nil, apperr.Validation("bidding window has closed")
	}

	if err := validateQuantity(c.BiddingType, req.Quantity, c.AvailableQuantity); err != nil {
		return nil, err
	}
	if req.Quantity > c.AvailableQuantity {
		return nil, apperr.Validation("requested quantity exceeds available quantity")
	}
	if req.PricePerKg < c.MinPrice {
		return nil, apperr.Validation("bid price cannot be lower than minimum price")
	}

	b := &model.Bid{
		CropID:     c.ID,
		RetailerID: retailerID,
		Quantity:   req.Quantity,
		PricePerKg: req.PricePerKg,
		Status:     constants.BidPending,
	}
	event := &types.BidPlacedEvent{
		CropID:     c.ID,
		CropName:   c.Name,
		FarmerID:   c.FarmerID,
		RetailerID: retailerID,
		Quantity:   req.Quantity,
		PricePerKg: req.PricePerKg,
	}
	if err := bs.repo.Create(ctx, b, event); err != nil {
		return nil, err
	}

	logger.Info().
		Str("bid_id", b.ID.String()).
		Str("crop_id", c.ID.String()).
		Int64("quantity", b.Quantity).
		Int64("price_per_kg", b.PricePerKg).
		Msg("bid placed")
	return b, nil
}

func (bs *BidService) MyBids(ctx context.Context, retailerID uuid.UUID) ([]model.Bid, error) {
	return bs.repo.ListForRetailer(ctx, retailerID)
}

func (bs *BidService) ReceivedBids(ctx context.Context, farmerID uuid.UUID) ([]model.Bid, error) {
	return bs.repo.ListForFarmer(ctx, farmerID)
}
