package crop

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/middleware"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

// BidLister is the slice of the bid repository the details view needs.
type BidLister interface {
	ListForCrop(ctx context.Context, cropID uuid.UUID) ([]model.Bid, error)
}

type CropService struct {
	repo CropRepository
	bids BidLister
	now  func() time.Time
}

func NewCropService(repo CropRepository, bids BidLister) *CropService {
	return &CropService{repo: repo, bids: bids, now: time.Now}
}

// CreateListing validates quantity and scheduling rules for the bidding type
// and persists the listing. The announcement to retailers rides the outbox;
// its delivery never fails listing creation.
func (cs *CropService) CreateListing(ctx context.Context, farmerID uuid.UUID, req *types.CreateCropRequest) (*model.Crop, error) {
	logger := middleware.GetLogger(ctx)
	now := cs.now()

	biddingType := constants.BiddingType(req.BiddingType)

	var start, end time.Time
	var err error
	switch biddingType {
	case constants.BiddingBulk:
		if req.TotalQuantity < constants.BulkMinQuantityKg {
			return nil, apperr.Validation("bulk listings require more than 20 kg")
		}
		if req.StartTime == "" {
			return nil, apperr.Validation("start_time is required for bulk listings")
		}
		start, end, err = bulkWindow(now, req.StartTime, req.DurationMinutes)
		if err != nil {
			return nil, err
		}
	case constants.BiddingMini:
		start, end = miniWindow(now)
	default:
		return nil, apperr.Validation("invalid bidding type")
	}

	c := &model.Crop{
		FarmerID:          farmerID,
		Name:              req.Name,
		QualityGrade:      req.QualityGrade,
		TotalQuantity:     req.TotalQuantity,
		AvailableQuantity: req.TotalQuantity,
		MinPrice:          req.MinPrice,
		BiddingType:       biddingType,
		Status:            constants.CropActive,
		BiddingStatus:     constants.BiddingOpen,
		BiddingStartTime:  start,
		BiddingEndTime:    end,
		AttemptNumber:     1,
	}

	if err := cs.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	logger.Info().
		Str("crop_id", c.ID.String()).
		Str("bidding_type", string(c.BiddingType)).
		Time("window_start", start).
		Time("window_end", end).
		Msg("listing created")
	return c, nil
}

func (cs *CropService) ListListings(ctx context.Context, filter *types.CropFilter) ([]model.Crop, error) {
	return cs.repo.List(ctx, filter)
}

// Details returns the listing together with its bids.
func (cs *CropService) Details(ctx context.Context, id uuid.UUID) (*model.Crop, []model.Bid, error) {
	c, err := cs.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	bids, err := cs.bids.ListForCrop(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return c, bids, nil
}
