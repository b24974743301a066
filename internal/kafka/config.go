package kafka

import (
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Topic names for all Kafka topics used in the application
const (
	TopicListingPublished = "agribid.listing.published"
	TopicBidPlaced        = "agribid.bid.placed"
	TopicBidAccepted      = "agribid.bid.accepted"
	TopicOrderPaid        = "agribid.order.paid"

	TopicDLQ = "agribid.dlq"
)

// Event types for outbox
const (
	EventListingPublished = "agribid.listing.published"
	EventBidPlaced        = "agribid.bid.placed"
	EventBidAccepted      = "agribid.bid.accepted"
	EventOrderPaid        = "agribid.order.paid"
)

// ConsumerGroup names for different Kafka consumers
const (
	GroupNotificationWorker = "agribid.notification.worker"
)

type Config struct {
	Brokers           []string
	ProducerTimeout   time.Duration
	RequiredAcks      kgo.Acks
	SessionTimeout    time.Duration
	HeartbeatInterval time.Duration
	MaxPollRecords    int
	MaxRetries        int
	RetryBackoff      time.Duration
}

func DefaultConfig(brokers []string) *Config {
	return &Config{
		Brokers:           brokers,
		ProducerTimeout:   10 * time.Second,
		RequiredAcks:      kgo.AllISRAcks(),
		SessionTimeout:    10 * time.Second,
		HeartbeatInterval: 3 * time.Second,
		MaxPollRecords:    100,
		MaxRetries:        5,
		RetryBackoff:      1 * time.Second,
	}
}
