package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gigmarket-payments/internal/domain/outbox"
	"github.com/gigmarket-payments/internal/platform/messaging/producers"
)

// EventPublisher pushes one outbox message onto the payment events topic and
// marks it processed
type EventPublisher interface {
	PublishEvent(ctx context.Context, message *outbox.Message) error
}

// EventPublisherImpl implements EventPublisher
type EventPublisherImpl struct {
	outboxRepo outbox.Repository
	producer   producers.MessagePublisher
	logger     *slog.Logger
}

// NewEventPublisher creates a new publisher
func NewEventPublisher(
	outboxRepo outbox.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) EventPublisher {
	return &EventPublisherImpl{
		outboxRepo: outboxRepo,
		producer:   producer,
		logger:     logger,
	}
}

// PublishEvent validates the payload, publishes it keyed by transaction ID
// and marks the outbox row processed. The Kafka write is synchronous; the row
// only leaves pending once the broker acknowledged the event, so a crash
// between the two steps re-publishes rather than loses.
func (p *EventPublisherImpl) PublishEvent(ctx context.Context, message *outbox.Message) error {
	txn, err := message.GetTransaction()
	if err != nil {
		p.logger.Error("Failed to unmarshal transaction from outbox payload",
			"outbox_id", message.ID, "transaction_id", message.TransactionID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	if txn.CorrelationID != "" {
		logger = p.logger.With("correlation_id", txn.CorrelationID)
	}

	logger.Info("Attempting to publish payment event", "outbox_id", message.ID, "transaction_id", message.TransactionID)

	if err := p.producer.Publish(ctx, txn.ID.String(), txn); err != nil {
		logger.Error("Failed to publish payment event", "transaction_id", message.TransactionID, "error", err)
		return fmt.Errorf("failed to publish payment event for transaction %s: %w", message.TransactionID, err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "transaction_id", message.TransactionID, "error", err,
		)
		return fmt.Errorf("event for %s published, but failed to mark outbox %d as PROCESSED: %w", message.TransactionID, message.ID, err)
	}

	logger.Info("Outbox message successfully published and marked as PROCESSED", "outbox_id", message.ID, "transaction_id", message.TransactionID)
	return nil
}
