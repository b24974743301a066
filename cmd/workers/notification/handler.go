package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sandesh691/agribid-sub001/internal/kafka"
	"github.com/sandesh691/agribid-sub001/internal/model"
	"github.com/sandesh691/agribid-sub001/internal/notification"
	"github.com/sandesh691/agribid-sub001/pkg/types"
)

// notificationHandler fans marketplace events out into per-user notification
// rows. Delivery is at-least-once: a consumer crash between insert and
// offset commit replays the event and duplicates a row, which the feed
// tolerates, and a failed insert is retried by the consumer before going
// to the DLQ.
func notificationHandler(repo notification.NotificationRepository, log *zerolog.Logger) kafka.Handler {
	return func(ctx context.Context, msg *kafka.Message) error {
		log.Info().Str("topic", msg.Topic).Int64("offset", msg.Offset).Msg("Processing event")

		switch msg.Topic {
		case kafka.TopicListingPublished:
			return handleListingPublished(ctx, repo, msg.Value)
		case kafka.TopicBidPlaced:
			return handleBidPlaced(ctx, repo, msg.Value)
		case kafka.TopicBidAccepted:
			return handleBidAccepted(ctx, repo, msg.Value)
		case kafka.TopicOrderPaid:
			return handleOrderPaid(ctx, repo, msg.Value)
		default:
			log.Warn().Str("topic", msg.Topic).Msg("Unknown topic, skipping")
			return nil
		}
	}
}

func handleListingPublished(ctx context.Context, repo notification.NotificationRepository, payload []byte) error {
	var event types.ListingPublishedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}

	title := "New listing: " + event.Name
	if event.Rescheduled {
		title = "Listing rescheduled: " + event.Name
	}
	message := fmt.Sprintf("%s bidding opens at %s, minimum price %d paise/kg",
		event.BiddingType, event.BiddingStartTime.Format("02 Jan 15:04"), event.MinPrice)

	_, err := repo.BroadcastToActiveRetailers(ctx, "listing.published", title, message)
	return err
}

func handleBidPlaced(ctx context.Context, repo notification.NotificationRepository, payload []byte) error {
	var event types.BidPlacedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}

	return repo.Create(ctx, &model.Notification{
		UserID: event.FarmerID,
		Type:   "bid.placed",
		Title:  "New bid on " + event.CropName,
		Message: fmt.Sprintf("A retailer bid %d paise/kg for %d kg",
			event.PricePerKg, event.Quantity),
	})
}

func handleBidAccepted(ctx context.Context, repo notification.NotificationRepository, payload []byte) error {
	var event types.BidAcceptedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}

	return repo.Create(ctx, &model.Notification{
		UserID: event.RetailerID,
		Type:   "bid.accepted",
		Title:  "Bid accepted for " + event.CropName,
		Message: fmt.Sprintf("Your bid was accepted. Pay %d paise to complete the order.",
			event.TotalAmount),
	})
}

func handleOrderPaid(ctx context.Context, repo notification.NotificationRepository, payload []byte) error {
	var event types.OrderPaidEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}

	return repo.Create(ctx, &model.Notification{
		UserID: event.FarmerID,
		Type:   "order.paid",
		Title:  "Payment received",
		Message: fmt.Sprintf("Order %s settled, %d paise credited to your wallet",
			event.TransactionID, event.TotalAmount),
	})
}
