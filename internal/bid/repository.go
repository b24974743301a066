package bid

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/kafka"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/internal/outbox"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

type BidRepository interface {
	Create(ctx context.Context, bid *model.Bid, event *types.BidPlacedEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Bid, error)
	ListForCrop(ctx context.Context, cropID uuid.UUID) ([]model.Bid, error)
	ListForRetailer(ctx context.Context, retailerID uuid.UUID) ([]model.Bid, error)
	ListForFarmer(ctx context.Context, farmerID uuid.UUID) ([]model.Bid, error)
}

type BidRepo struct {
	db *pgxpool.Pool
}

func NewBidRepository(db *pgxpool.Pool) *BidRepo {
	return &BidRepo{db: db}
}

const bidColumns = `id, crop_id, retailer_id, quantity, price_per_kg, status, created_at, updated_at`

func scanBid(row pgx.Row) (*model.Bid, error) {
	var b model.Bid
	err := row.Scan(&b.ID, &b.CropID, &b.RetailerID, &b.Quantity, &b.PricePerKg,
		&b.Status, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("bid not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &b, nil
}

// Create inserts the bid and enqueues the farmer notification event in one
// transaction.
func (br *BidRepo) Create(ctx context.Context, bid *model.Bid, event *types.BidPlacedEvent) error {
	tx, err := br.db.Begin(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO bids (crop_id, retailer_id, quantity, price_per_kg, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, bid.CropID, bid.RetailerID, bid.Quantity, bid.PricePerKg, bid.Status,
	).Scan(&bid.ID, &bid.CreatedAt, &bid.UpdatedAt)
	if err != nil {
		return apperr.Internal(err)
	}

	event.BidID = bid.ID
	if err := outbox.Enqueue(ctx, tx, kafka.EventBidPlaced, bid.CropID.String(), event); err != nil {
		return apperr.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (br *BidRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Bid, error) {
	return scanBid(br.db.QueryRow(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1`, id))
}

func (br *BidRepo) ListForCrop(ctx context.Context, cropID uuid.UUID) ([]model.Bid, error) {
	return br.list(ctx, `SELECT `+bidColumns+` FROM bids WHERE crop_id = $1 ORDER BY created_at DESC`, cropID)
}

func (br *BidRepo) ListForRetailer(ctx context.Context, retailerID uuid.UUID) ([]model.Bid, error) {
	return br.list(ctx, `SELECT `+bidColumns+` FROM bids WHERE retailer_id = $1 ORDER BY created_at DESC`, retailerID)
}

// ListForFarmer returns bids across all of the farmer's listings.
func (br *BidRepo) ListForFarmer(ctx context.Context, farmerID uuid.UUID) ([]model.Bid, error) {
	return br.list(ctx, `
		SELECT b.id, b.crop_id, b.retailer_id, b.quantity, b.price_per_kg, b.status, b.created_at, b.updated_at
		FROM bids b JOIN crops c ON c.id = b.crop_id
		WHERE c.farmer_id = $1
		ORDER BY b.created_at DESC
	`, farmerID)
}

func (br *BidRepo) list(ctx context.Context, query string, args ...any) ([]model.Bid, error) {
	rows, err := br.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	var bids []model.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, *b)
	}
	return bids, nil
}
