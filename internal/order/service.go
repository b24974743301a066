package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/internal/redis"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
)

const (
	paymentIdempotencyTTL = 24 * time.Hour
	walletLockTTL         = 10 * time.Second
)

// PaymentGuard is the Redis surface Pay leans on for request idempotency and
// wallet serialization.
type PaymentGuard interface {
	CheckAndSetIdempotency(ctx context.Context, key string, ttl time.Duration) ([]byte, error)
	MarkIdempotencyComplete(ctx context.Context, key string, response []byte, ttl time.Duration) error
	MarkIdempotencyFailed(ctx context.Context, key string) error
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (*redis.Lock, error)
}

type OrderService struct {
	repo  OrderRepository
	redis PaymentGuard
	log   zerolog.Logger
}

func NewOrderService(repo OrderRepository, guard PaymentGuard, log zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, redis: guard, log: log}
}

func (os *OrderService) AcceptBid(ctx context.Context, farmerID, bidID uuid.UUID) (*model.Transaction, error) {
	return os.repo.AcceptBid(ctx, farmerID, bidID)
}

// Pay runs the payment exactly once per (bid, retailer) pair. A Redis
// idempotency key absorbs double submits before they reach the database,
// and a short lock on the retailer's wallet keeps concurrent payments from
// the same buyer from racing each other. The database transaction remains
// the source of truth when Redis is unavailable.
func (os *OrderService) Pay(ctx context.Context, retailerID, bidID uuid.UUID) (*model.Transaction, error) {
	idemKey := fmt.Sprintf("payment:%s:%s", bidID, retailerID)

	cached, err := os.redis.CheckAndSetIdempotency(ctx, idemKey, paymentIdempotencyTTL)
	if err != nil {
		if errors.Is(err, redis.ErrKeyExists) {
			return nil, apperr.Conflict("order already processed")
		}
		// Redis down: proceed, the row lock in Pay still prevents a double charge.
		os.log.Warn().Err(err).Str("bid_id", bidID.String()).
			Msg("idempotency check unavailable, relying on database guard")
	} else if cached != nil {
		return nil, apperr.Conflict("order already processed")
	}

	lock, err := os.redis.AcquireLock(ctx, "wallet:"+retailerID.String(), walletLockTTL)
	switch {
	case err == nil:
		defer func() {
			if relErr := lock.Release(context.WithoutCancel(ctx)); relErr != nil {
				os.log.Warn().Err(relErr).Msg("failed to release wallet lock")
			}
		}()
	case errors.Is(err, redis.ErrLockHeld):
		if markErr := os.redis.MarkIdempotencyFailed(ctx, idemKey); markErr != nil {
			os.log.Warn().Err(markErr).Msg("failed to clear idempotency key")
		}
		return nil, apperr.Conflict("another payment is in progress for this wallet")
	default:
		os.log.Warn().Err(err).Str("retailer_id", retailerID.String()).
			Msg("wallet lock unavailable, relying on database guard")
	}

	txn, err := os.repo.Pay(ctx, retailerID, bidID)
	if err != nil {
		if markErr := os.redis.MarkIdempotencyFailed(ctx, idemKey); markErr != nil {
			os.log.Warn().Err(markErr).Msg("failed to clear idempotency key")
		}
		return nil, err
	}

	if markErr := os.redis.MarkIdempotencyComplete(ctx, idemKey,
		[]byte(txn.ID.String()), paymentIdempotencyTTL); markErr != nil {
		os.log.Warn().Err(markErr).Msg("failed to mark payment idempotency key complete")
	}
	return txn, nil
}

func (os *OrderService) History(ctx context.Context, userID uuid.UUID, role constants.Role) ([]model.Transaction, error) {
	return os.repo.History(ctx, userID, role)
}
