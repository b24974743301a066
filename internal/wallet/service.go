package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sandesh691/agribid-sub001/internal/apperr"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

const ledgerPageSize = 50

type WalletService struct {
	repo WalletRepository
}

func NewWalletService(repo WalletRepository) *WalletService {
	return &WalletService{repo: repo}
}

type WalletView struct {
	Wallet *model.Wallet             `json:"wallet"`
	Ledger []model.WalletTransaction `json:"ledger"`
}

func (ws *WalletService) Get(ctx context.Context, userID uuid.UUID) (*WalletView, error) {
	w, err := ws.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	ledger, err := ws.repo.Ledger(ctx, w.ID, ledgerPageSize)
	if err != nil {
		return nil, err
	}
	return &WalletView{Wallet: w, Ledger: ledger}, nil
}

func (ws *WalletService) TopUp(ctx context.Context, userID uuid.UUID, req types.TopUpRequest) (*model.Wallet, error) {
	if req.Amount <= 0 {
		return nil, apperr.Validation("top-up amount must be positive")
	}
	return ws.repo.TopUp(ctx, userID, req.Amount)
}

func (ws *WalletService) Withdraw(ctx context.Context, userID uuid.UUID, req types.WithdrawRequest) (*model.Wallet, error) {
	if req.Amount <= 0 {
		return nil, apperr.Validation("withdrawal amount must be positive")
	}
	description := fmt.Sprintf("withdrawal to %s (%s)", req.AccountNumber, req.IFSCCode)
	return ws.repo.Withdraw(ctx, userID, req.Amount, description)
}
