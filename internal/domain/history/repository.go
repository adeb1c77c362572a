package history

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages the payment history projection with pagination support.
// Upsert keyed by transaction ID makes replayed events idempotent.
type Repository interface {
	Upsert(ctx context.Context, record *Record) error
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*Record, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Record, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ErrRecordNotFound indicates missing history record
type ErrRecordNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrRecordNotFound) Error() string {
	return "history record not found: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrRecordNotFound
func (e ErrRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrRecordNotFound)
	if !ok {
		return false
	}
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}
