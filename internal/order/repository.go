package order

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
	"github.com/sandesh691/agribid-sub001/internal/wallet"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

type OrderRepository interface {
	AcceptBid(ctx context.Context, farmerID, bidID uuid.UUID) (*model.Transaction, error)
	Pay(ctx context.Context, retailerID, bidID uuid.UUID) (*model.Transaction, error)
	History(ctx context.Context, userID uuid.UUID, role constants.Role) ([]model.Transaction, error)
}

type OrderRepo struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{db: db}
}

// AcceptBid settles a farmer's acceptance in one transaction: the bid flips
// to ACCEPTED, the crop's available quantity shrinks, and a PENDING payment
// transaction is created. The crop row is locked first so concurrent
// acceptances against the same listing serialize on its stock.
func (or *OrderRepo) AcceptBid(ctx context.Context, farmerID, bidID uuid.UUID) (*model.Transaction, error) {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	var (
		bid          model.Bid
		cropName     string
		cropFarmerID uuid.UUID
		available    int64
	)
	err = tx.QueryRow(ctx, `
		SELECT b.id, b.crop_id, b.retailer_id, b.quantity, b.price_per_kg, b.status,
		       c.farmer_id, c.name, c.available_quantity
		FROM bids b
		JOIN crops c ON c.id = b.crop_id
		WHERE b.id = $1
		FOR UPDATE
	`, bidID).Scan(&bid.ID, &bid.CropID, &bid.RetailerID, &bid.Quantity, &bid.PricePerKg,
		&bid.Status, &cropFarmerID, &cropName, &available)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("bid not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if cropFarmerID != farmerID {
		return nil, apperr.Forbidden("you can only accept bids on your own listings")
	}
	if bid.Status != constants.BidPending {
		return nil, apperr.Conflict("bid is no longer pending")
	}

	remaining, sold, err := settleStock(available, bid.Quantity)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE bids SET status = $1, updated_at = NOW() WHERE id = $2
	`, constants.BidAccepted, bid.ID); err != nil {
		return nil, apperr.Internal(err)
	}

	if sold {
		_, err = tx.Exec(ctx, `
			UPDATE crops SET available_quantity = $1, status = $2, bidding_status = $3, updated_at = NOW()
			WHERE id = $4
		`, remaining, constants.CropSold, constants.BiddingClosed, bid.CropID)
	} else {
		_, err = tx.Exec(ctx, `
			UPDATE crops SET available_quantity = $1, updated_at = NOW() WHERE id = $2
		`, remaining, bid.CropID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	txn := model.Transaction{
		BidID:         bid.ID,
		CropID:        bid.CropID,
		FarmerID:      farmerID,
		RetailerID:    bid.RetailerID,
		Quantity:      bid.Quantity,
		PricePerKg:    bid.PricePerKg,
		TotalAmount:   bid.Quantity * bid.PricePerKg,
		PaymentStatus: constants.PaymentPending,
		OrderStatus:   constants.OrderProcessing,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO transactions
			(bid_id, crop_id, farmer_id, retailer_id, quantity, price_per_kg,
			 total_amount, payment_status, order_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, txn.BidID, txn.CropID, txn.FarmerID, txn.RetailerID, txn.Quantity, txn.PricePerKg,
		txn.TotalAmount, txn.PaymentStatus, txn.OrderStatus).
		Scan(&txn.ID, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	event := types.BidAcceptedEvent{
		BidID:         bid.ID,
		TransactionID: txn.ID,
		CropID:        bid.CropID,
		CropName:      cropName,
		RetailerID:    bid.RetailerID,
		TotalAmount:   txn.TotalAmount,
	}
	if err := outbox.Enqueue(ctx, tx, kafka.EventBidAccepted, bid.CropID.String(), event); err != nil {
		return nil, apperr.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	return &txn, nil
}

// Pay moves the money for one accepted bid: retailer wallet debited, farmer
// wallet credited, both legs recorded in the ledger, all inside one
// transaction. The payment row is re-read under lock so a double submit
// surfaces as a conflict rather than a second transfer.
func (or *OrderRepo) Pay(ctx context.Context, retailerID, bidID uuid.UUID) (*model.Transaction, error) {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	var txn model.Transaction
	err = tx.QueryRow(ctx, `
		SELECT id, bid_id, crop_id, farmer_id, retailer_id, quantity, price_per_kg,
		       total_amount, payment_status, order_status, created_at, updated_at
		FROM transactions
		WHERE bid_id = $1
		FOR UPDATE
	`, bidID).Scan(&txn.ID, &txn.BidID, &txn.CropID, &txn.FarmerID, &txn.RetailerID,
		&txn.Quantity, &txn.PricePerKg, &txn.TotalAmount, &txn.PaymentStatus,
		&txn.OrderStatus, &txn.CreatedAt, &txn.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("no order found for this bid")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := payGate(&txn, retailerID); err != nil {
		return nil, err
	}

	// Lock wallets in a fixed order keyed by user id to avoid deadlocks when
	// a farmer and retailer settle against each other concurrently.
	first, second := retailerID, txn.FarmerID
	if second.String() < first.String() {
		first, second = second, first
	}
	wallets := map[uuid.UUID]*model.Wallet{}
	for _, userID := range []uuid.UUID{first, second} {
		w, err := wallet.EnsureWalletTx(ctx, tx, userID)
		if err != nil {
			return nil, err
		}
		wallets[userID] = w
	}
	retailerWallet := wallets[retailerID]
	farmerWallet := wallets[txn.FarmerID]

	if retailerWallet.Balance < txn.TotalAmount {
		return nil, apperr.Validation("insufficient wallet balance")
	}

	if _, err := tx.Exec(ctx, `
		UPDATE wallets SET balance = balance - $1, updated_at = NOW() WHERE id = $2
	`, txn.TotalAmount, retailerWallet.ID); err != nil {
		return nil, apperr.Internal(err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE wallets SET balance = balance + $1, updated_at = NOW() WHERE id = $2
	`, txn.TotalAmount, farmerWallet.ID); err != nil {
		return nil, apperr.Internal(err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO wallet_transactions (wallet_id, direction, amount, description)
		VALUES ($1, $2, $3, $4)
	`, retailerWallet.ID, constants.LedgerDebit, txn.TotalAmount,
		"payment for order "+txn.ID.String()); err != nil {
		return nil, apperr.Internal(err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO wallet_transactions (wallet_id, direction, amount, description)
		VALUES ($1, $2, $3, $4)
	`, farmerWallet.ID, constants.LedgerCredit, txn.TotalAmount,
		"payout for order "+txn.ID.String()); err != nil {
		return nil, apperr.Internal(err)
	}

	txn.PaymentStatus = constants.PaymentReceived
	txn.OrderStatus = constants.OrderCompleted
	if _, err := tx.Exec(ctx, `
		UPDATE transactions SET payment_status = $1, order_status = $2, updated_at = NOW()
		WHERE id = $3
	`, txn.PaymentStatus, txn.OrderStatus, txn.ID); err != nil {
		return nil, apperr.Internal(err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE bids SET status = $1, updated_at = NOW() WHERE id = $2
	`, constants.BidPaid, txn.BidID); err != nil {
		return nil, apperr.Internal(err)
	}

	event := types.OrderPaidEvent{
		TransactionID: txn.ID,
		BidID:         txn.BidID,
		FarmerID:      txn.FarmerID,
		RetailerID:    txn.RetailerID,
		TotalAmount:   txn.TotalAmount,
	}
	if err := outbox.Enqueue(ctx, tx, kafka.EventOrderPaid, txn.ID.String(), event); err != nil {
		return nil, apperr.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	return &txn, nil
}

func (or *OrderRepo) History(ctx context.Context, userID uuid.UUID, role constants.Role) ([]model.Transaction, error) {
	column := "retailer_id"
	if role == constants.RoleFarmer {
		column = "farmer_id"
	}
	rows, err := or.db.Query(ctx, `
		SELECT id, bid_id, crop_id, farmer_id, retailer_id, quantity, price_per_kg,
		       total_amount, payment_status, order_status, created_at, updated_at
		FROM transactions
		WHERE `+column+` = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.BidID, &t.CropID, &t.FarmerID, &t.RetailerID,
			&t.Quantity, &t.PricePerKg, &t.TotalAmount, &t.PaymentStatus,
			&t.OrderStatus, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, apperr.Internal(err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// settleStock applies one accepted bid to a listing's remaining stock.
func settleStock(available, quantity int64) (remaining int64, sold bool, err error) {
	if quantity > available {
		return 0, false, apperr.Conflict("insufficient stock remaining")
	}
	remaining = available - quantity
	return remaining, remaining <= 0, nil
}

// payGate decides whether a locked order row may be settled by this caller.
// A non-owner gets the same NotFound as a missing order so the bid id leaks
// nothing about other buyers' orders.
func payGate(txn *model.Transaction, retailerID uuid.UUID) error {
	if txn.RetailerID != retailerID {
		return apperr.NotFound("no order found for this bid")
	}
	if txn.PaymentStatus != constants.PaymentPending {
		return apperr.Conflict("order already processed")
	}
	return nil
}
