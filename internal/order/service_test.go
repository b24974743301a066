package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/internal/redis"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
)

// fakeGuard mirrors the Redis idempotency protocol in memory: a claimed key
// holds nil while the payment is in flight and the cached response once it
// completes.
type fakeGuard struct {
	entries  map[string][]byte
	pending  map[string]bool
	checkErr error
	lockErr  error
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{entries: map[string][]byte{}, pending: map[string]bool{}}
}

func (g *fakeGuard) CheckAndSetIdempotency(_ context.Context, key string, _ time.Duration) ([]byte, error) {
	if g.checkErr != nil {
		return nil, g.checkErr
	}
	if g.pending[key] {
		return nil, redis.ErrKeyExists
	}
	if cached, ok := g.entries[key]; ok {
		return cached, nil
	}
	g.pending[key] = true
	return nil, nil
}

func (g *fakeGuard) MarkIdempotencyComplete(_ context.Context, key string, response []byte, _ time.Duration) error {
	delete(g.pending, key)
	g.entries[key] = response
	return nil
}

func (g *fakeGuard) MarkIdempotencyFailed(_ context.Context, key string) error {
	delete(g.pending, key)
	delete(g.entries, key)
	return nil
}

func (g *fakeGuard) AcquireLock(_ context.Context, _ string, _ time.Duration) (*redis.Lock, error) {
	if g.lockErr != nil {
		return nil, g.lockErr
	}
	return nil, nil
}

type fakeOrderRepo struct {
	payCalls int
	payErr   error
	txn      *model.Transaction
}

func (r *fakeOrderRepo) AcceptBid(context.Context, uuid.UUID, uuid.UUID) (*model.Transaction, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeOrderRepo) Pay(context.Context, uuid.UUID, uuid.UUID) (*model.Transaction, error) {
	r.payCalls++
	if r.payErr != nil {
		return nil, r.payErr
	}
	return r.txn, nil
}

func (r *fakeOrderRepo) History(context.Context, uuid.UUID, constants.Role) ([]model.Transaction, error) {
	return nil, nil
}

func newPayFixture(repo *fakeOrderRepo, guard *fakeGuard) *OrderService {
	return NewOrderService(repo, guard, zerolog.Nop())
}

func TestPayAppliesExactlyOnce(t *testing.T) {
	retailerID, bidID := uuid.New(), uuid.New()
	repo := &fakeOrderRepo{txn: &model.Transaction{ID: uuid.New()}}
	svc := newPayFixture(repo, newFakeGuard())

	txn, err := svc.Pay(context.Background(), retailerID, bidID)
	require.NoError(t, err)
	require.NotNil(t, txn)

	_, err = svc.Pay(context.Background(), retailerID, bidID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Equal(t, 1, repo.payCalls, "a double submit must not reach the database")
}

func TestPayRejectsInFlightDuplicate(t *testing.T) {
	retailerID, bidID := uuid.New(), uuid.New()
	guard := newFakeGuard()
	guard.pending["payment:"+bidID.String()+":"+retailerID.String()] = true
	repo := &fakeOrderRepo{txn: &model.Transaction{ID: uuid.New()}}
	svc := newPayFixture(repo, guard)

	_, err := svc.Pay(context.Background(), retailerID, bidID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Zero(t, repo.payCalls)
}

func TestPayRepoErrorReleasesIdempotencyKey(t *testing.T) {
	retailerID, bidID := uuid.New(), uuid.New()
	repo := &fakeOrderRepo{payErr: apperr.Validation("insufficient wallet balance")}
	guard := newFakeGuard()
	svc := newPayFixture(repo, guard)

	_, err := svc.Pay(context.Background(), retailerID, bidID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	// The failed attempt must not poison retries after a top-up.
	repo.payErr = nil
	repo.txn = &model.Transaction{ID: uuid.New()}
	_, err = svc.Pay(context.Background(), retailerID, bidID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.payCalls)
}

func TestPayWalletLockHeld(t *testing.T) {
	retailerID, bidID := uuid.New(), uuid.New()
	guard := newFakeGuard()
	guard.lockErr = redis.ErrLockHeld
	repo := &fakeOrderRepo{txn: &model.Transaction{ID: uuid.New()}}
	svc := newPayFixture(repo, guard)

	_, err := svc.Pay(context.Background(), retailerID, bidID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Zero(t, repo.payCalls)

	// The aborted attempt released its claim, so a later retry goes through.
	guard.lockErr = nil
	_, err = svc.Pay(context.Background(), retailerID, bidID)
	require.NoError(t, err)
}

func TestPayFallsBackToDatabaseGuard(t *testing.T) {
	retailerID, bidID := uuid.New(), uuid.New()
	guard := newFakeGuard()
	guard.checkErr = errors.New("redis: connection refused")
	guard.lockErr = errors.New("redis: connection refused")
	repo := &fakeOrderRepo{payErr: apperr.Conflict("order already processed")}
	svc := newPayFixture(repo, guard)

	_, err := svc.Pay(context.Background(), retailerID, bidID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Equal(t, 1, repo.payCalls, "with Redis down the row lock check still runs")
}

func TestPayGate(t *testing.T) {
	owner := uuid.New()

	t.Run("wrong owner looks like a missing order", func(t *testing.T) {
		txn := &model.Transaction{RetailerID: owner, PaymentStatus: constants.PaymentPending}
		err := payGate(txn, uuid.New())
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("already paid order conflicts", func(t *testing.T) {
		txn := &model.Transaction{RetailerID: owner, PaymentStatus: constants.PaymentReceived}
		err := payGate(txn, owner)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("pending order owned by caller passes", func(t *testing.T) {
		txn := &model.Transaction{RetailerID: owner, PaymentStatus: constants.PaymentPending}
		assert.NoError(t, payGate(txn, owner))
	})
}
