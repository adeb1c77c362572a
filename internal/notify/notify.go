// Package notify delivers payment notifications over the notifications
// topic. Downstream consumers (notification feed, websocket fanout) are owned
// by other marketplace services; this package only publishes.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/gigmarket-payments/internal/payments"
	"github.com/gigmarket-payments/internal/platform/messaging/producers"
)

// Kind distinguishes the two message shapes sharing the notifications topic
type Kind string

const (
	KindNotification Kind = "notification"
	KindRealtime     Kind = "realtime"
)

// Envelope wraps a notification or realtime event for the wire
type Envelope struct {
	Kind         Kind                   `json:"kind"`
	Notification *payments.Notification `json:"notification,omitempty"`
	Event        *payments.PaymentEvent `json:"event,omitempty"`
	SentAt       time.Time              `json:"sent_at"`
}

// KafkaNotifier implements payments.Notifier and payments.RealtimePublisher
// on top of the notifications topic
type KafkaNotifier struct {
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewKafkaNotifier creates a notifier publishing through the given producer
func NewKafkaNotifier(logger *slog.Logger, producer producers.MessagePublisher) *KafkaNotifier {
	return &KafkaNotifier{
		producer: producer,
		logger:   logger,
	}
}

// CreatePaymentNotification publishes a durable notification keyed by the
// recipient so a user's notifications stay ordered
func (n *KafkaNotifier) CreatePaymentNotification(ctx context.Context, notification payments.Notification) error {
	envelope := Envelope{
		Kind:         KindNotification,
		Notification: &notification,
		SentAt:       time.Now().UTC(),
	}
	return n.producer.Publish(ctx, notification.UserID.String(), envelope)
}

// SendPaymentNotification publishes a realtime payment event keyed by the
// recipient
func (n *KafkaNotifier) SendPaymentNotification(ctx context.Context, event payments.PaymentEvent) error {
	envelope := Envelope{
		Kind:   KindRealtime,
		Event:  &event,
		SentAt: time.Now().UTC(),
	}
	return n.producer.Publish(ctx, event.UserID.String(), envelope)
}
