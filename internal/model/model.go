package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/sandesh691/agribid-sub001/pkg/constants"
)

type Model struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type User struct {
	ID            uuid.UUID               `json:"id"`
	Name          string                  `json:"name" validate:"required,min=2,max=100"`
	Email         string                  `json:"email" validate:"required,email"`
	PasswordHash  string                  `json:"-"`
	Role          constants.Role          `json:"role" validate:"required,oneof=FARMER RETAILER ADMIN"`
	Verified      bool                    `json:"verified"`
	AccountStatus constants.AccountStatus `json:"account_status"`
	TrustScore    int                     `json:"trust_score"`
	Language      string                  `json:"language"`
	Model
}

// Farmer and Retailer are 1:1 role extensions of User, created in the same
// transaction as the user row at registration.
type Farmer struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Location string    `json:"location"`
	Model
}

type Retailer struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	BusinessName string    `json:"business_name"`
	GSTNumber    string    `json:"gst_number"`
	Model
}

type Crop struct {
	ID                uuid.UUID               `json:"id"`
	FarmerID          uuid.UUID               `json:"farmer_id"`
	Name              string                  `json:"name" validate:"required,min=2,max=100"`
	QualityGrade      string                  `json:"quality_grade"`
	TotalQuantity     int64                   `json:"total_quantity" validate:"required,gt=0"`
	AvailableQuantity int64                   `json:"available_quantity" validate:"gte=0"`
	MinPrice          int64                   `json:"min_price" validate:"required,gt=0"`
	BiddingType       constants.BiddingType   `json:"bidding_type" validate:"required,oneof=BULK MINI"`
	Status            constants.CropStatus    `json:"status"`
	BiddingStatus     constants.BiddingStatus `json:"bidding_status"`
	BiddingStartTime  time.Time               `json:"bidding_start_time"`
	BiddingEndTime    time.Time               `json:"bidding_end_time"`
	AttemptNumber     int                     `json:"attempt_number"`
	Model
}

type Bid struct {
	ID         uuid.UUID           `json:"id"`
	CropID     uuid.UUID           `json:"crop_id" validate:"required"`
	RetailerID uuid.UUID           `json:"retailer_id"`
	Quantity   int64               `json:"quantity" validate:"required,gt=0"`
	PricePerKg int64               `json:"price_per_kg" validate:"required,gt=0"`
	Status     constants.BidStatus `json:"status"`
	Model
}

// Transaction records one accepted bid's settlement. TotalAmount is
// Quantity x PricePerKg in paise, fixed at acceptance time.
type Transaction struct {
	ID            uuid.UUID               `json:"id"`
	BidID         uuid.UUID               `json:"bid_id"`
	CropID        uuid.UUID               `json:"crop_id"`
	FarmerID      uuid.UUID               `json:"farmer_id"`
	RetailerID    uuid.UUID               `json:"retailer_id"`
	Quantity      int64                   `json:"quantity"`
	PricePerKg    int64                   `json:"price_per_kg"`
	TotalAmount   int64                   `json:"total_amount"`
	PaymentStatus constants.PaymentStatus `json:"payment_status"`
	OrderStatus   constants.OrderStatus   `json:"order_status"`
	Model
}

type Wallet struct {
	ID      uuid.UUID `json:"id"`
	UserID  uuid.UUID `json:"user_id"`
	Balance int64     `json:"balance" validate:"gte=0"`
	Model
}

type WalletTransaction struct {
	ID          int64                     `json:"id"`
	WalletID    uuid.UUID                 `json:"wallet_id"`
	Direction   constants.LedgerDirection `json:"direction" validate:"required,oneof=CREDIT DEBIT"`
	Amount      int64                     `json:"amount" validate:"required,gt=0"`
	Description string                    `json:"description"`
	Model
}

type Report struct {
	ID             uuid.UUID  `json:"id"`
	ReporterID     uuid.UUID  `json:"reporter_id"`
	ReportedUserID *uuid.UUID `json:"reported_user_id,omitempty"`
	CropID         *uuid.UUID `json:"crop_id,omitempty"`
	Reason         string     `json:"reason" validate:"required,min=5,max=500"`
	Status         string     `json:"status" validate:"oneof=OPEN RESOLVED DISMISSED"`
	ResolutionNote string     `json:"resolution_note,omitempty"`
	Model
}

type Notification struct {
	ID      uuid.UUID `json:"id"`
	UserID  uuid.UUID `json:"user_id"`
	Type    string    `json:"type"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Read    bool      `json:"read"`
	Model
}

type AuditLog struct {
	ID       int64           `json:"id"`
	ActorID  uuid.UUID       `json:"actor_id"`
	Action   string          `json:"action"`
	TargetID uuid.UUID       `json:"target_id"`
	Detail   json.RawMessage `json:"detail,omitempty"`
	Model
}

// EventOutbox rows are written in the same transaction as the state change
// they announce and relayed to Kafka by cmd/outbox-relay.
type EventOutbox struct {
	ID           int64           `json:"id"`
	EventType    string          `json:"event_type"`
	Payload      json.RawMessage `json:"payload"`
	PartitionKey string          `json:"partition_key"`
	Status       string          `json:"status" validate:"oneof=pending processed failed"`
	RetryCount   int             `json:"retry_count"`
	LastError    string          `json:"last_error,omitempty"`
	Model
}
