package constants

import "time"

type Role string

const (
	RoleFarmer   Role = "FARMER"
	RoleRetailer Role = "RETAILER"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is one of the closed role set. Role checks go
// through this instead of comparing raw strings in handlers.
func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleRetailer, RoleAdmin:
		return true
	}
	return false
}

type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
)

type CropStatus string

const (
	CropActive  CropStatus = "ACTIVE"
	CropSold    CropStatus = "SOLD"
	CropRemoved CropStatus = "REMOVED"
)

type BiddingStatus string

const (
	BiddingOpen   BiddingStatus = "ACTIVE"
	BiddingClosed BiddingStatus = "CLOSED"
)

type BiddingType string

const (
	BiddingBulk BiddingType = "BULK"
	BiddingMini BiddingType = "MINI"
)

type BidStatus string

const (
	BidPending  BidStatus = "PENDING"
	BidAccepted BidStatus = "ACCEPTED"
	BidPaid     BidStatus = "PAID"
	BidRejected BidStatus = "REJECTED"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentReceived PaymentStatus = "RECEIVED"
)

type OrderStatus string

const (
	OrderProcessing OrderStatus = "PROCESSING"
	OrderCompleted  OrderStatus = "COMPLETED"
)

type LedgerDirection string

const (
	LedgerCredit LedgerDirection = "CREDIT"
	LedgerDebit  LedgerDirection = "DEBIT"
)

// Bidding window rules. BULK windows are scheduled from a wall-clock start
// time; MINI windows are fixed relative to listing creation.
const (
	BulkMinQuantityKg   int64 = 21
	BulkDefaultDuration       = 8 * time.Hour
	BulkMaxDuration           = 10 * time.Hour
	BulkRescheduleDelay       = 24 * time.Hour
	BulkMaxAttempts           = 2

	MiniMinQuantityKg int64 = 1
	MiniMaxQuantityKg int64 = 20
	MiniStartDelay          = 2 * time.Hour
	MiniWindow              = 4 * time.Hour
)

// BulkTranches are the only quantities a retailer may bid on a BULK listing,
// with the listing's exact remaining quantity allowed as a buy-out escape hatch.
var BulkTranches = []int64{100, 250, 500, 750, 1000}

// WalletSeedBalance is credited on first wallet access, in paise. The payment
// flow has no external funding leg, so new wallets start funded.
const WalletSeedBalance int64 = 100_000_00

const SessionTTL = 24 * time.Hour
