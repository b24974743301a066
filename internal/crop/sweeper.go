package crop

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/sandesh691/agribid-sub001/internal/kafka"
	"github.com/sandesh691/agribid-sub001/internal/outbox"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

type sweepAction int

const (
	sweepCloseWindow sweepAction = iota // bids exist, just close the window
	sweepReschedule                     // first no-bid expiry: push the window out a day
	sweepRetire                         // second no-bid expiry: terminal close
)

// sweepTransition decides what happens to an expired BULK listing. A window
// that drew no bids gets exactly one 24h reschedule before it is retired.
func sweepTransition(attemptNumber int, bidCount int64) sweepAction {
	if bidCount > 0 {
		return sweepCloseWindow
	}
	if attemptNumber < constants.BulkMaxAttempts {
		return sweepReschedule
	}
	return sweepRetire
}

// Sweeper expires and reschedules stale listings on a timer, decoupled from
// any request path.
type Sweeper struct {
	db        *pgxpool.Pool
	logger    *zerolog.Logger
	batchSize int
	interval  time.Duration
	now       func() time.Time
}

func NewSweeper(db *pgxpool.Pool, logger *zerolog.Logger, interval time.Duration, batchSize int) *Sweeper {
	return &Sweeper{
		db:        db,
		logger:    logger,
		batchSize: batchSize,
		interval:  interval,
		now:       time.Now,
	}
}

func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("Starting Listing Sweeper")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Stopping Listing Sweeper")
			return nil
		case <-ticker.C:
			if err := s.processBatch(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Failed to sweep listings")
			}
		}
	}
}

type expiredListing struct {
	id          uuid.UUID
	farmerID    uuid.UUID
	name        string
	minPrice    int64
	biddingType string
	start       time.Time
	end         time.Time
	attempt     int
	bidCount    int64
}

func (s *Sweeper) processBatch(ctx context.Context) error {
	now := s.now()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT c.id, c.farmer_id, c.name, c.min_price, c.bidding_type,
			c.bidding_start_time, c.bidding_end_time, c.attempt_number,
			(SELECT COUNT(*) FROM bids b WHERE b.crop_id = c.id) AS bid_count
		FROM crops c
		WHERE c.bidding_type = $1
		  AND c.status = $2
		  AND c.bidding_status = $3
		  AND c.bidding_end_time < $4
		ORDER BY c.bidding_end_time ASC
		LIMIT $5
		FOR UPDATE OF c SKIP LOCKED
	`, constants.BiddingBulk, constants.CropActive, constants.BiddingOpen, now, s.batchSize)
	if err != nil {
		return err
	}

	var expired []expiredListing
	for rows.Next() {
		var e expiredListing
		if err := rows.Scan(&e.id, &e.farmerID, &e.name, &e.minPrice, &e.biddingType,
			&e.start, &e.end, &e.attempt, &e.bidCount); err != nil {
			rows.Close()
			return err
		}
		expired = append(expired, e)
	}
	rows.Close()

	if len(expired) == 0 {
		return nil
	}

	for _, e := range expired {
		switch sweepTransition(e.attempt, e.bidCount) {
		case sweepCloseWindow:
			_, err = tx.Exec(ctx, `
				UPDATE crops SET bidding_status = $1, updated_at = NOW() WHERE id = $2
			`, constants.BiddingClosed, e.id)

		case sweepReschedule:
			newStart := e.start.Add(constants.BulkRescheduleDelay)
			newEnd := e.end.Add(constants.BulkRescheduleDelay)
			_, err = tx.Exec(ctx, `
				UPDATE crops
				SET bidding_start_time = $1, bidding_end_time = $2,
					attempt_number = attempt_number + 1, updated_at = NOW()
				WHERE id = $3
			`, newStart, newEnd, e.id)
			if err == nil {
				// Re-announce the rescheduled window to retailers
				err = outbox.Enqueue(ctx, tx, kafka.EventListingPublished, e.id.String(), types.ListingPublishedEvent{
					CropID:           e.id,
					FarmerID:         e.farmerID,
					Name:             e.name,
					BiddingType:      constants.BiddingType(e.biddingType),
					MinPrice:         e.minPrice,
					BiddingStartTime: newStart,
					BiddingEndTime:   newEnd,
					Rescheduled:      true,
				})
			}
			s.logger.Info().Str("crop_id", e.id.String()).Time("new_end", newEnd).Msg("rescheduled expired listing")

		case sweepRetire:
			_, err = tx.Exec(ctx, `
				UPDATE crops SET bidding_status = $1, status = $2, updated_at = NOW() WHERE id = $3
			`, constants.BiddingClosed, constants.CropSold, e.id)
			s.logger.Info().Str("crop_id", e.id.String()).Msg("retired listing after second no-bid expiry")
		}
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
