package payments

import (
	"context"

	"github.com/google/uuid"
)

// Direction tells a notification recipient which side of a payment they were on
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// Notification is a durable message for a user's notification feed
type Notification struct {
	UserID        uuid.UUID `json:"user_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	ActionURL     string    `json:"action_url,omitempty"`
}

// PaymentEvent is a lightweight realtime signal pushed to connected clients
type PaymentEvent struct {
	UserID        uuid.UUID `json:"user_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Amount        int64     `json:"amount"`
	Direction     Direction `json:"direction"`
}

// Notifier delivers durable notifications. Delivery is best effort: the
// orchestrator logs failures and never rolls back a settled payment over one.
type Notifier interface {
	CreatePaymentNotification(ctx context.Context, n Notification) error
}

// RealtimePublisher pushes payment events to connected clients. Best effort,
// same as Notifier.
type RealtimePublisher interface {
	SendPaymentNotification(ctx context.Context, event PaymentEvent) error
}

// NopNotifier discards notifications. Used when the notification pipeline is
// not configured.
type NopNotifier struct{}

func (NopNotifier) CreatePaymentNotification(ctx context.Context, n Notification) error {
	return nil
}

func (NopNotifier) SendPaymentNotification(ctx context.Context, event PaymentEvent) error {
	return nil
}
