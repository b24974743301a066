package crop

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

type fakeCropRepo struct {
	created *model.Crop
}

func (f *fakeCropRepo) Create(ctx context.Context, c *model.Crop) error {
	c.ID = uuid.New()
	f.created = c
	return nil
}

func (f *fakeCropRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Crop, error) {
	if f.created != nil && f.created.ID == id {
		return f.created, nil
	}
	return nil, apperr.NotFound("crop not found")
}

func (f *fakeCropRepo) List(ctx context.Context, filter *types.CropFilter) ([]model.Crop, error) {
	return nil, nil
}

func (f *fakeCropRepo) CloseBidding(ctx context.Context, id uuid.UUID) error { return nil }

type fakeBidLister struct {
	bids []model.Bid
}

func (f *fakeBidLister) ListForCrop(ctx context.Context, cropID uuid.UUID) ([]model.Bid, error) {
	return f.bids, nil
}

func TestCreateListing(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	farmerID := uuid.New()

	newService := func() (*CropService, *fakeCropRepo) {
		repo := &fakeCropRepo{}
		svc := NewCropService(repo, &fakeBidLister{})
		svc.now = func() time.Time { return now }
		return svc, repo
	}

	t.Run("bulk listing", func(t *testing.T) {
		svc, repo := newService()

		c, err := svc.CreateListing(ctx, farmerID, &types.CreateCropRequest{
			Name: "Wheat", TotalQuantity: 1000, MinPrice: 2500,
			BiddingType: "BULK", StartTime: "14:00",
		})
		require.NoError(t, err)
		assert.Equal(t, constants.CropActive, c.Status)
		assert.Equal(t, constants.BiddingOpen, c.BiddingStatus)
		assert.Equal(t, int64(1000), c.AvailableQuantity)
		assert.Equal(t, 1, c.AttemptNumber)
		assert.Equal(t, time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC), c.BiddingStartTime)
		assert.Equal(t, repo.created, c)
	})

	t.Run("bulk quantity at or below 20 kg rejected", func(t *testing.T) {
		svc, _ := newService()

		_, err := svc.CreateListing(ctx, farmerID, &types.CreateCropRequest{
			Name: "Wheat", TotalQuantity: 20, MinPrice: 2500,
			BiddingType: "BULK", StartTime: "14:00",
		})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("bulk without start time rejected", func(t *testing.T) {
		svc, _ := newService()

		_, err := svc.CreateListing(ctx, farmerID, &types.CreateCropRequest{
			Name: "Wheat", TotalQuantity: 1000, MinPrice: 2500, BiddingType: "BULK",
		})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("mini listing gets the fixed window", func(t *testing.T) {
		svc, _ := newService()

		c, err := svc.CreateListing(ctx, farmerID, &types.CreateCropRequest{
			Name: "Tomatoes", TotalQuantity: 15, MinPrice: 4000, BiddingType: "MINI",
		})
		require.NoError(t, err)
		assert.Equal(t, now.Add(2*time.Hour), c.BiddingStartTime)
		assert.Equal(t, now.Add(6*time.Hour), c.BiddingEndTime)
	})

	t.Run("unknown bidding type rejected", func(t *testing.T) {
		svc, _ := newService()

		_, err := svc.CreateListing(ctx, farmerID, &types.CreateCropRequest{
			Name: "Wheat", TotalQuantity: 100, MinPrice: 2500, BiddingType: "AUCTION",
		})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestDetails(t *testing.T) {
	ctx := context.Background()
	repo := &fakeCropRepo{}
	lister := &fakeBidLister{bids: []model.Bid{{ID: uuid.New()}}}
	svc := NewCropService(repo, lister)

	c := &model.Crop{ID: uuid.New()}
	repo.created = c

	got, bids, err := svc.Details(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.Len(t, bids, 1)

	_, _, err = svc.Details(ctx, uuid.New())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
