package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/sandesh691/agribid-sub001/pkg/constants"
)

type RegisterRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	Role         string `json:"role" validate:"required,oneof=FARMER RETAILER ADMIN"`
	Language     string `json:"language,omitempty"`
	Location     string `json:"location,omitempty"`
	BusinessName string `json:"business_name,omitempty"`
	GSTNumber    string `json:"gst_number,omitempty"`
	// AdminSecret must match the configured shared secret when role is ADMIN.
	AdminSecret string `json:"admin_secret,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateCropRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	QualityGrade  string `json:"quality_grade" validate:"required,oneof=A B C"`
	TotalQuantity int64  `json:"total_quantity" validate:"required,gt=0"`
	MinPrice      int64  `json:"min_price" validate:"required,gt=0"`
	BiddingType   string `json:"bidding_type" validate:"required,oneof=BULK MINI"`
	// BULK only: wall-clock "HH:MM" start and duration in minutes.
	StartTime       string `json:"start_time,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty" validate:"omitempty,gt=0"`
}

// CropFilter narrows the public listing query. Zero values mean "any".
type CropFilter struct {
	Status   string
	Name     string
	Grade    string
	Type     string
	Sort     string // price_desc | price_asc | ending_soon
	FarmerID uuid.UUID
}

type PlaceBidRequest struct {
	CropID     uuid.UUID `json:"crop_id" validate:"required"`
	Quantity   int64     `json:"quantity" validate:"required,gt=0"`
	PricePerKg int64     `json:"price_per_kg" validate:"required,gt=0"`
}

type TopUpRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type WithdrawRequest struct {
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	AccountNumber string `json:"account_number" validate:"required,min=6,max=20"`
	IFSCCode      string `json:"ifsc_code" validate:"required,len=11"`
}

type CreateReportRequest struct {
	ReportedUserID *uuid.UUID `json:"reported_user_id,omitempty"`
	CropID         *uuid.UUID `json:"crop_id,omitempty"`
	Reason         string     `json:"reason" validate:"required,min=5,max=500"`
}

type ResolveReportRequest struct {
	Status         string `json:"status" validate:"required,oneof=RESOLVED DISMISSED"`
	ResolutionNote string `json:"resolution_note" validate:"required,min=2,max=500"`
}

type UpdateUserStatusRequest struct {
	AccountStatus string `json:"account_status" validate:"required,oneof=ACTIVE SUSPENDED"`
}

// Outbox event payloads. PartitionKey is the aggregate id so per-entity
// ordering is preserved on the topic.

type ListingPublishedEvent struct {
	CropID           uuid.UUID             `json:"crop_id"`
	FarmerID         uuid.UUID             `json:"farmer_id"`
	Name             string                `json:"name"`
	BiddingType      constants.BiddingType `json:"bidding_type"`
	MinPrice         int64                 `json:"min_price"`
	BiddingStartTime time.Time             `json:"bidding_start_time"`
	BiddingEndTime   time.Time             `json:"bidding_end_time"`
	Rescheduled      bool                  `json:"rescheduled"`
}

type BidPlacedEvent struct {
	BidID      uuid.UUID `json:"bid_id"`
	CropID     uuid.UUID `json:"crop_id"`
	CropName   string    `json:"crop_name"`
	FarmerID   uuid.UUID `json:"farmer_id"`
	RetailerID uuid.UUID `json:"retailer_id"`
	Quantity   int64     `json:"quantity"`
	PricePerKg int64     `json:"price_per_kg"`
}

type BidAcceptedEvent struct {
	BidID         uuid.UUID `json:"bid_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	CropID        uuid.UUID `json:"crop_id"`
	CropName      string    `json:"crop_name"`
	RetailerID    uuid.UUID `json:"retailer_id"`
	TotalAmount   int64     `json:"total_amount"`
}

type OrderPaidEvent struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	BidID         uuid.UUID `json:"bid_id"`
	FarmerID      uuid.UUID `json:"farmer_id"`
	RetailerID    uuid.UUID `json:"retailer_id"`
	TotalAmount   int64     `json:"total_amount"`
}
