package payments

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gigmarket-payments/internal/domain/history"
	"github.com/google/uuid"
)

// HistoryService serves the payment history read model. Records come from the
// Mongo projection, so a just-settled payment may trail the ledger by the
// projector's lag.
type HistoryService struct {
	records history.Repository
	logger  *slog.Logger
}

// NewHistoryService creates a new history service
func NewHistoryService(logger *slog.Logger, records history.Repository) *HistoryService {
	return &HistoryService{
		records: records,
		logger:  logger,
	}
}

// GetByTransactionID retrieves a history record by transaction ID.
// Returns nil if the record has not been projected yet.
func (s *HistoryService) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*history.Record, error) {
	record, err := s.records.GetByTransactionID(ctx, transactionID)
	if err != nil {
		var notFound history.ErrRecordNotFound
		if errors.As(err, &notFound) {
			s.logger.Info("History record not found", "transaction_id", transactionID.String())
			return nil, nil
		}
		s.logger.Error("Failed to get history record", "transaction_id", transactionID.String(), "error", err)
		return nil, err
	}
	return record, nil
}

// GetByUserID retrieves a paginated payment history for a user together with
// the total record count
func (s *HistoryService) GetByUserID(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*history.Record, int64, error) {
	offset := (page - 1) * perPage

	records, err := s.records.GetByUserID(ctx, userID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.records.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
