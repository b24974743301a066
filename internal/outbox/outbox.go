package outbox

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
)

// Enqueue writes an outbox row inside the caller's transaction so the event
// commits or rolls back together with the state change it announces.
func Enqueue(ctx context.Context, tx pgx.Tx, eventType, partitionKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO event_outbox (event_type, payload, partition_key, status, created_at, updated_at)
		VALUES ($1, $2, $3, 'pending', NOW(), NOW())
	`, eventType, body, partitionKey)
	return err
}
