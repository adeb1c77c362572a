// Package service contains the projection pipeline that turns payment events
// into history records in the read model.
package service

import (
	"context"

	"github.com/gigmarket-payments/internal/domain/transaction"
)

// ProjectionService applies one payment event to the history read model.
// Implementations must be idempotent: the events topic delivers at least
// once, so the same transaction may be projected repeatedly.
type ProjectionService interface {
	ProjectTransaction(ctx context.Context, txn *transaction.Transaction) error
}
