package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gigmarket-payments/internal/domain/history"
	"github.com/gigmarket-payments/internal/domain/transaction"
)

// HistoryProjectionService implements the ProjectionService interface
type HistoryProjectionService struct {
	historyRepo history.Repository
	logger      *slog.Logger
}

// NewHistoryProjectionService creates a new projection service
func NewHistoryProjectionService(logger *slog.Logger, historyRepo history.Repository) *HistoryProjectionService {
	return &HistoryProjectionService{
		historyRepo: historyRepo,
		logger:      logger,
	}
}

// ProjectTransaction upserts the history record for the transaction. The
// upsert is keyed on the transaction ID, so replays and out-of-order retries
// converge on the latest event applied.
func (s *HistoryProjectionService) ProjectTransaction(ctx context.Context, txn *transaction.Transaction) error {
	logger := s.logger
	if txn.CorrelationID != "" {
		logger = s.logger.With("correlation_id", txn.CorrelationID)
	}

	record := history.FromTransaction(txn)
	if err := s.historyRepo.Upsert(ctx, record); err != nil {
		logger.Error("Failed to project transaction into history",
			"transaction_id", txn.ID.String(),
			"status", string(txn.Status),
			"error", err,
		)
		return fmt.Errorf("failed to project transaction %s: %w", txn.ID, err)
	}

	logger.Info("Projected transaction into history",
		"transaction_id", txn.ID.String(),
		"type", string(txn.Type),
		"status", string(txn.Status),
	)
	return nil
}
