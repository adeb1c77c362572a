// Package consumer handles payment events arriving from Kafka and feeds them
// into the projection pipeline.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gigmarket-payments/internal/domain/transaction"
	"github.com/gigmarket-payments/internal/platform/messaging/producers"
	"github.com/gigmarket-payments/internal/projector/service"
)

// PaymentEventHandler handles incoming payment event messages from Kafka
type PaymentEventHandler struct {
	projectionService service.ProjectionService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewPaymentEventHandler creates a new handler
func NewPaymentEventHandler(
	logger *slog.Logger,
	projectionService service.ProjectionService,
	producer producers.DeadLetterPublisher,
) *PaymentEventHandler {
	return &PaymentEventHandler{
		projectionService: projectionService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes Kafka messages. Unparseable messages go to the DLQ
// so a poison event cannot wedge the partition; projection failures are
// returned uncommitted for redelivery.
func (h *PaymentEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var txn transaction.Transaction
	if err := json.Unmarshal(value, &txn); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal payment event from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
				// Return original error if DLQ fails
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	// Add correlation ID to logger
	logger := h.logger
	if txn.CorrelationID != "" {
		logger = h.logger.With("correlation_id", txn.CorrelationID)
	}

	logger.Info("Received payment event for projection",
		"transaction_id", txn.ID.String(),
		"type", string(txn.Type),
		"status", string(txn.Status),
		"amount", txn.Amount,
	)

	if err := h.projectionService.ProjectTransaction(ctx, &txn); err != nil {
		logger.Error("Failed to project payment event",
			"transaction_id", txn.ID.String(),
			"error", err,
		)
		return fmt.Errorf("projecting payment event %s failed: %w", txn.ID.String(), err)
	}

	logger.Info("Successfully projected payment event", "transaction_id", txn.ID.String())
	return nil // Success, commit offset
}
