package wallet

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
)

type WalletRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Wallet, error)
	Ledger(ctx context.Context, walletID uuid.UUID, limit int) ([]model.WalletTransaction, error)
	TopUp(ctx context.Context, userID uuid.UUID, amount int64) (*model.Wallet, error)
	Withdraw(ctx context.Context, userID uuid.UUID, amount int64, description string) (*model.Wallet, error)
}

type WalletRepo struct {
	db *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) *WalletRepo {
	return &WalletRepo{db: db}
}

// EnsureWalletTx returns the user's wallet inside the caller's transaction,
// creating and seeding it on first access. The seed is recorded as a CREDIT
// ledger entry so the ledger-sum invariant holds from day one. The returned
// wallet row is locked for the remainder of the transaction.
func EnsureWalletTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.Wallet, error) {
	_, err := tx.Exec(ctx, `
		WITH created AS (
			INSERT INTO wallets (user_id, balance)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO NOTHING
			RETURNING id
		)
		INSERT INTO wallet_transactions (wallet_id, direction, amount, description)
		SELECT id, $3, $2, 'initial balance' FROM created
	`, userID, constants.WalletSeedBalance, constants.LedgerCredit)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	var w model.Wallet
	err = tx.QueryRow(ctx, `
		SELECT id, user_id, balance, created_at, updated_at
		FROM wallets WHERE user_id = $1
		FOR UPDATE
	`, userID).Scan(&w.ID, &w.UserID, &w.Balance, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &w, nil
}

func (wr *WalletRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Wallet, error) {
	tx, err := wr.db.Begin(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	w, err := EnsureWalletTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	return w, nil
}

func (wr *WalletRepo) Ledger(ctx context.Context, walletID uuid.UUID, limit int) ([]model.WalletTransaction, error) {
	rows, err := wr.db.Query(ctx, `
		SELECT id, wallet_id, direction, amount, description, created_at, updated_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, walletID, limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	var entries []model.WalletTransaction
	for rows.Next() {
		var e model.WalletTransaction
		if err := rows.Scan(&e.ID, &e.WalletID, &e.Direction, &e.Amount,
			&e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, apperr.Internal(err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// TopUp credits the wallet and appends the ledger entry atomically.
func (wr *WalletRepo) TopUp(ctx context.Context, userID uuid.UUID, amount int64) (*model.Wallet, error) {
	tx, err := wr.db.Begin(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	w, err := EnsureWalletTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx, `
		UPDATE wallets SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING balance
	`, amount, w.ID).Scan(&w.Balance)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO wallet_transactions (wallet_id, direction, amount, description)
		VALUES ($1, $2, $3, 'wallet top-up')
	`, w.ID, constants.LedgerCredit, amount)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	return w, nil
}

// Withdraw debits the wallet, guarded by a conditional update so the balance
// can never go negative under concurrent withdrawals.
func (wr *WalletRepo) Withdraw(ctx context.Context, userID uuid.UUID, amount int64, description string) (*model.Wallet, error) {
	tx, err := wr.db.Begin(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	w, err := EnsureWalletTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx, `
		UPDATE wallets SET balance = balance - $1, updated_at = NOW()
		WHERE id = $2 AND balance >= $1
		RETURNING balance
	`, amount, w.ID).Scan(&w.Balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Validation("insufficient wallet balance")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO wallet_transactions (wallet_id, direction, amount, description)
		VALUES ($1, $2, $3, $4)
	`, w.ID, constants.LedgerDebit, amount, description)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	return w, nil
}
