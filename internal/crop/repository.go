package crop

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/kafka"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/internal/outbox"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

type CropRepository interface {
	Create(ctx context.Context, crop *model.Crop) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Crop, error)
	List(ctx context.Context, filter *types.CropFilter) ([]model.Crop, error)
	CloseBidding(ctx context.Context, id uuid.UUID) error
}

type CropRepo struct {
	db *pgxpool.Pool
}

func NewCropRepository(db *pgxpool.Pool) *CropRepo {
	return &CropRepo{db: db}
}

const cropColumns = `id, farmer_id, name, quality_grade, total_quantity, available_quantity,
	min_price, bidding_type, status, bidding_status, bidding_start_time, bidding_end_time,
	attempt_number, created_at, updated_at`

func scanCrop(row pgx.Row) (*model.Crop, error) {
	var c model.Crop
	err := row.Scan(&c.ID, &c.FarmerID, &c.Name, &c.QualityGrade, &c.TotalQuantity,
		&c.AvailableQuantity, &c.MinPrice, &c.BiddingType, &c.Status, &c.BiddingStatus,
		&c.BiddingStartTime, &c.BiddingEndTime, &c.AttemptNumber, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("crop not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &c, nil
}

// Create inserts the listing and enqueues the announcement event in the same
// transaction.
func (cr *CropRepo) Create(ctx context.Context, crop *model.Crop) error {
	tx, err := cr.db.Begin(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO crops (farmer_id, name, quality_grade, total_quantity, available_quantity,
			min_price, bidding_type, status, bidding_status, bidding_start_time, bidding_end_time,
			attempt_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, crop.FarmerID, crop.Name, crop.QualityGrade, crop.TotalQuantity, crop.AvailableQuantity,
		crop.MinPrice, crop.BiddingType, crop.Status, crop.BiddingStatus,
		crop.BiddingStartTime, crop.BiddingEndTime, crop.AttemptNumber,
	).Scan(&crop.ID, &crop.CreatedAt, &crop.UpdatedAt)
	if err != nil {
		return apperr.Internal(err)
	}

	event := types.ListingPublishedEvent{
		CropID:           crop.ID,
		FarmerID:         crop.FarmerID,
		Name:             crop.Name,
		BiddingType:      crop.BiddingType,
		MinPrice:         crop.MinPrice,
		BiddingStartTime: crop.BiddingStartTime,
		BiddingEndTime:   crop.BiddingEndTime,
	}
	if err := outbox.Enqueue(ctx, tx, kafka.EventListingPublished, crop.ID.String(), event); err != nil {
		return apperr.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (cr *CropRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Crop, error) {
	return scanCrop(cr.db.QueryRow(ctx, `SELECT `+cropColumns+` FROM crops WHERE id = $1`, id))
}

// List applies the public visibility rules unless the filter targets a single
// farmer's own listings.
func (cr *CropRepo) List(ctx context.Context, filter *types.CropFilter) ([]model.Crop, error) {
	query := `SELECT c.id, c.farmer_id, c.name, c.quality_grade, c.total_quantity,
		c.available_quantity, c.min_price, c.bidding_type, c.status, c.bidding_status,
		c.bidding_start_time, c.bidding_end_time, c.attempt_number, c.created_at, c.updated_at
		FROM crops c JOIN users u ON u.id = c.farmer_id`
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.FarmerID != uuid.Nil {
		conds = append(conds, "c.farmer_id = "+arg(filter.FarmerID))
		if filter.Status != "" {
			conds = append(conds, "c.status = "+arg(filter.Status))
		}
	} else {
		status := filter.Status
		if status == "" {
			status = string(constants.CropActive)
		}
		conds = append(conds,
			"c.status = "+arg(status),
			"c.bidding_status = "+arg(constants.BiddingOpen),
			"c.bidding_end_time > NOW()",
			"u.account_status = "+arg(constants.AccountActive),
		)
	}
	if filter.Name != "" {
		conds = append(conds, "c.name ILIKE "+arg("%"+filter.Name+"%"))
	}
	if filter.Grade != "" {
		conds = append(conds, "c.quality_grade = "+arg(filter.Grade))
	}
	if filter.Type != "" {
		conds = append(conds, "c.bidding_type = "+arg(filter.Type))
	}

	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}

	switch filter.Sort {
	case "price_desc":
		query += " ORDER BY c.min_price DESC"
	case "price_asc":
		query += " ORDER BY c.min_price ASC"
	default:
		query += " ORDER BY c.bidding_end_time ASC"
	}

	rows, err := cr.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	var crops []model.Crop
	for rows.Next() {
		c, err := scanCrop(rows)
		if err != nil {
			return nil, err
		}
		crops = append(crops, *c)
	}
	return crops, nil
}

// CloseBidding marks the window closed without touching listing status.
func (cr *CropRepo) CloseBidding(ctx context.Context, id uuid.UUID) error {
	_, err := cr.db.Exec(ctx, `
		UPDATE crops SET bidding_status = $1, updated_at = NOW() WHERE id = $2
	`, constants.BiddingClosed, id)
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}
