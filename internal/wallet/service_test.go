package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/pkg/constants"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

type fakeWalletRepo struct {
	wallet model.Wallet
	ledger []model.WalletTransaction
}

func (f *fakeWalletRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Wallet, error) {
	if f.wallet.ID == uuid.Nil {
		f.wallet = model.Wallet{ID: uuid.New(), UserID: userID, Balance: constants.WalletSeedBalance}
		f.ledger = append(f.ledger, model.WalletTransaction{
			WalletID:  f.wallet.ID,
			Direction: constants.LedgerCredit,
			Amount:    constants.WalletSeedBalance,
		})
	}
	w := f.wallet
	return &w, nil
}

func (f *fakeWalletRepo) Ledger(ctx context.Context, walletID uuid.UUID, limit int) ([]model.WalletTransaction, error) {
	return f.ledger, nil
}

func (f *fakeWalletRepo) TopUp(ctx context.Context, userID uuid.UUID, amount int64) (*model.Wallet, error) {
	if _, err := f.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}
	f.wallet.Balance += amount
	f.ledger = append(f.ledger, model.WalletTransaction{
		WalletID: f.wallet.ID, Direction: constants.LedgerCredit, Amount: amount,
	})
	w := f.wallet
	return &w, nil
}

func (f *fakeWalletRepo) Withdraw(ctx context.Context, userID uuid.UUID, amount int64, description string) (*model.Wallet, error) {
	if _, err := f.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}
	if f.wallet.Balance < amount {
		return nil, apperr.Validation("insufficient wallet balance")
	}
	f.wallet.Balance -= amount
	f.ledger = append(f.ledger, model.WalletTransaction{
		WalletID: f.wallet.ID, Direction: constants.LedgerDebit, Amount: amount,
	})
	w := f.wallet
	return &w, nil
}

func ledgerSum(entries []model.WalletTransaction) int64 {
	var sum int64
	for _, e := range entries {
		if e.Direction == constants.LedgerCredit {
			sum += e.Amount
		} else {
			sum -= e.Amount
		}
	}
	return sum
}

func TestWalletService(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("first access seeds the wallet", func(t *testing.T) {
		svc := NewWalletService(&fakeWalletRepo{})

		view, err := svc.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(constants.WalletSeedBalance), view.Wallet.Balance)
		assert.Equal(t, view.Wallet.Balance, ledgerSum(view.Ledger),
			"ledger must account for the full balance")
	})

	t.Run("top-up must be positive", func(t *testing.T) {
		svc := NewWalletService(&fakeWalletRepo{})

		for _, amount := range []int64{0, -100} {
			_, err := svc.TopUp(ctx, userID, types.TopUpRequest{Amount: amount})
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		}
	})

	t.Run("withdraw must be positive", func(t *testing.T) {
		svc := NewWalletService(&fakeWalletRepo{})

		_, err := svc.Withdraw(ctx, userID, types.WithdrawRequest{Amount: 0})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("balance matches ledger across operations", func(t *testing.T) {
		repo := &fakeWalletRepo{}
		svc := NewWalletService(repo)

		_, err := svc.TopUp(ctx, userID, types.TopUpRequest{Amount: 50_000})
		require.NoError(t, err)

		w, err := svc.Withdraw(ctx, userID, types.WithdrawRequest{
			Amount: 30_000, AccountNumber: "1234567890", IFSCCode: "HDFC0000001",
		})
		require.NoError(t, err)
		assert.Equal(t, w.Balance, ledgerSum(repo.ledger))
	})

	t.Run("overdraw rejected", func(t *testing.T) {
		repo := &fakeWalletRepo{}
		svc := NewWalletService(repo)

		_, err := svc.Withdraw(ctx, userID, types.WithdrawRequest{
			Amount: constants.WalletSeedBalance + 1, AccountNumber: "1234567890", IFSCCode: "HDFC0000001",
		})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}
