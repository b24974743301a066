package outbox

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/sandesh691/agribid-sub001/internal/kafka"
	"github.com/sandesh691/agribid-sub001/internal/model"
)

type Relay struct {
	db          *pgxpool.Pool
	kafkaClient *kafka.Producer
	logger      *zerolog.Logger
	batchSize   int
	interval    time.Duration
}

func NewRelay(db *pgxpool.Pool, kafkaClient *kafka.Producer, logger *zerolog.Logger) *Relay {
	return &Relay{
		db:          db,
		kafkaClient: kafkaClient,
		logger:      logger,
		batchSize:   100,
		interval:    10 * time.Second,
	}
}

func (r *Relay) Start(ctx context.Context) error {
	r.logger.Info().Msg("Starting Outbox Relay")
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("Stopping Outbox Relay")
			return nil
		case <-ticker.C:
			if err := r.processBatch(ctx); err != nil {
				r.logger.Error().Err(err).Msg("Failed to process batch")
			}
		}
	}
}

func (r *Relay) processBatch(ctx context.Context) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT id, event_type, payload, partition_key
		FROM event_outbox
		WHERE status = 'pending'
		ORDER BY id ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, r.batchSize)
	if err != nil {
		return err
	}

	var events []model.EventOutbox
	for rows.Next() {
		var e model.EventOutbox
		if err := rows.Scan(&e.ID, &e.EventType, &e.Payload, &e.PartitionKey); err != nil {
			rows.Close()
			return err
		}
		events = append(events, e)
	}
	rows.Close()

	if len(events) == 0 {
		return nil
	}

	r.logger.Info().Int("count", len(events)).Msg("Fetched outbox events")

	var processedIDs []int64
	for _, e := range events {
		topic := topicForEvent(e.EventType)
		err := r.kafkaClient.Publish(ctx, topic, []byte(e.PartitionKey), e.Payload)
		if err != nil {
			r.logger.Error().Err(err).Int64("event_id", e.ID).Str("event_type", e.EventType).Msg("Failed to publish event to Kafka")
			// Record the failure, leave the row pending for the next pass
			if _, uerr := tx.Exec(ctx, `
				UPDATE event_outbox
				SET retry_count = retry_count + 1, last_error = $1, updated_at = NOW()
				WHERE id = $2
			`, err.Error(), e.ID); uerr != nil {
				r.logger.Error().Err(uerr).Int64("event_id", e.ID).Msg("Failed to record publish failure")
			}
			continue
		}
		processedIDs = append(processedIDs, e.ID)
	}

	if len(processedIDs) == 0 {
		return tx.Commit(ctx)
	}

	_, err = tx.Exec(ctx, `
		UPDATE event_outbox
		SET status = 'processed', updated_at = NOW()
		WHERE id = ANY($1)
	`, processedIDs)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func topicForEvent(eventType string) string {
	switch eventType {
	case kafka.EventListingPublished:
		return kafka.TopicListingPublished
	case kafka.EventBidPlaced:
		return kafka.TopicBidPlaced
	case kafka.EventBidAccepted:
		return kafka.TopicBidAccepted
	case kafka.EventOrderPaid:
		return kafka.TopicOrderPaid
	default:
		return kafka.TopicDLQ // Unknown events go to the DLQ
	}
}
