package bid

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

type fakeBidRepo struct {
	created *model.Bid
	bids    []model.Bid
}

func (f *fakeBidRepo) Create(ctx context.Context, bid *model.Bid, event *types.BidPlacedEvent) error {
	bid.ID = uuid.New()
	f.created = bid
	return nil
}

func (f *fakeBidRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Bid, error) {
	return nil, apperr.NotFound("bid not found")
}

func (f *fakeBidRepo) ListForCrop(ctx context.Context, cropID uuid.UUID) ([]model.Bid, error) {
	return f.bids, nil
}

func (f *fakeBidRepo) ListForRetailer(ctx context.Context, retailerID uuid.UUID) ([]model.Bid, error) {
	return f.bids, nil
}

func (f *fakeBidRepo) ListForFarmer(ctx context.Context, farmerID uuid.UUID) ([]model.Bid, error) {
	return f.bids, nil
}

type fakeCropRepo struct {
	crop   *model.Crop
	closed []uuid.UUID
}

func (f *fakeCropRepo) Create(ctx context.Context, crop *model.Crop) error { return nil }

func (f *fakeCropRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Crop, error) {
	if f.crop == nil || f.crop.ID != id {
		return nil, apperr.NotFound("crop not found")
	}
	return f.crop, nil
}

func (f *fakeCropRepo) List(ctx context.Context, filter *types.CropFilter) ([]model.Crop, error) {
	return nil, nil
}

func (f *fakeCropRepo) CloseBidding(ctx context.Context, id uuid.UUID) error {
	f.closed = append(f.closed, id)
	return nil
}

func TestValidateQuantity(t *testing.T) {
	tests := []struct {
		name        string
		biddingType constants.BiddingType
		quantity    int64
		available   int64
		wantErr     bool
	}{
		{"bulk tranche 100", constants.BiddingBulk, 100, 1000, false},
		{"bulk tranche 250", constants.BiddingBulk, 250, 1000, false},
		{"bulk tranche 500", constants.BiddingBulk, 500, 1000, false},
		{"bulk tranche 750", constants.BiddingBulk, 750, 1000, false},
		{"bulk tranche 1000", constants.BiddingBulk, 1000, 1000, false},
		{"bulk exact remainder allowed", constants.BiddingBulk, 321, 321, false},
		{"bulk off-tranche rejected", constants.BiddingBulk, 300, 500, true},
		{"bulk off-tranche under remainder rejected", constants.BiddingBulk, 99, 500, true},
		{"mini lower bound", constants.BiddingMini, 1, 20, false},
		{"mini upper bound", constants.BiddingMini, 20, 20, false},
		{"mini zero rejected", constants.BiddingMini, 0, 20, true},
		{"mini over 20 rejected", constants.BiddingMini, 21, 20, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateQuantity(tt.biddingType, tt.quantity, tt.available)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func newOpenCrop(now time.Time) *model.Crop {
	return &model.Crop{
		ID:                uuid.New(),
		FarmerID:          uuid.New(),
		Name:              "Wheat",
		TotalQuantity:     1000,
		AvailableQuantity: 500,
		MinPrice:          2500,
		BiddingType:       constants.BiddingBulk,
		Status:            constants.CropActive,
		BiddingStatus:     constants.BiddingOpen,
		BiddingStartTime:  now.Add(-time.Hour),
		BiddingEndTime:    now.Add(time.Hour),
	}
}

func TestPlaceBid(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	newService := func(c *model.Crop) (*BidService, *fakeBidRepo, *fakeCropRepo) {
		bids := &fakeBidRepo{}
		crops := &fakeCropRepo{crop: c}
		svc := NewBidService(bids, crops)
		svc.now = func() time.Time { return now }
		return svc, bids, crops
	}

	t.Run("valid bid recorded as pending", func(t *testing.T) {
		c := newOpenCrop(now)
		svc, bids, _ := newService(c)

		b, err := svc.PlaceBid(ctx, uuid.New(), &types.PlaceBidRequest{
			CropID: c.ID, Quantity: 500, PricePerKg: 3000,
		})
		require.NoError(t, err)
		assert.Equal(t, constants.BidPending, b.Status)
		assert.Equal(t, b, bids.created)
	})

	t.Run("window not open yet", func(t *testing.T) {
		c := newOpenCrop(now)
		c.BiddingStartTime = now.Add(time.Minute)
		svc, _, _ := newService(c)

		_, err := svc.PlaceBid(ctx, uuid.New(), &types.PlaceBidRequest{
			CropID: c.ID, Quantity: 500, PricePerKg: 3000,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not opened yet")
	})

	t.Run("window closed also closes the listing", func(t *testing.T) {
		c := newOpenCrop(now)
		c.BiddingEndTime = now.Add(-time.Minute)
		svc, _, crops := newService(c)

		_, err := svc.PlaceBid(ctx, uuid.New(), &types.PlaceBidRequest{
			CropID: c.ID, Quantity: 500, PricePerKg: 3000,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "closed")
		assert.Equal(t, []uuid.UUID{c.ID}, crops.closed)
	})

	t.Run("price below minimum", func(t *testing.T) {
		c := newOpenCrop(now)
		svc, _, _ := newService(c)

		_, err := svc.PlaceBid(ctx, uuid.New(), &types.PlaceBidRequest{
			CropID: c.ID, Quantity: 500, PricePerKg: 2499,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be lower than minimum price")
	})

	t.Run("price at minimum accepted", func(t *testing.T) {
		c := newOpenCrop(now)
		svc, _, _ := newService(c)

		_, err := svc.PlaceBid(ctx, uuid.New(), &types.PlaceBidRequest{
			CropID: c.ID, Quantity: 500, PricePerKg: 2500,
		})
		assert.NoError(t, err)
	})

	t.Run("tranche above remaining stock rejected", func(t *testing.T) {
		c := newOpenCrop(now)
		svc, _, _ := newService(c)

		_, err := svc.PlaceBid(ctx, uuid.New(), &types.PlaceBidRequest{
			CropID: c.ID, Quantity: 750, PricePerKg: 3000,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds available")
	})

	t.Run("inactive listing rejected", func(t *testing.T) {
		c := newOpenCrop(now)
		c.Status = constants.CropSold
		svc, _, _ := newService(c)

		_, err := svc.PlaceBid(ctx, uuid.New(), &types.PlaceBidRequest{
			CropID: c.ID, Quantity: 500, PricePerKg: 3000,
		})
		assert.Error(t, err)
	})

	t.Run("unknown crop", func(t *testing.T) {
		svc, _, _ := newService(newOpenCrop(now))

		_, err := svc.PlaceBid(ctx, uuid.New(), &types.PlaceBidRequest{
			CropID: uuid.New(), Quantity: 500, PricePerKg: 3000,
		})
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}
