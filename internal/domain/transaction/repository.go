package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines transaction ledger persistence operations.
// Update persists a status transition conditionally on the expected current
// status; a zero-row update surfaces as ErrAlreadyProcessed. That conditional
// write is the sole gate against double-processing a transaction.
type Repository interface {
	Create(ctx context.Context, txn *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	GetByReference(ctx context.Context, reference string) (*Transaction, error)

	// Update persists the transaction's current state, guarded by the
	// status the row is expected to still hold.
	Update(ctx context.Context, txn *Transaction, expected Status) error

	// ListStalePending returns pending transactions created before the
	// cutoff, oldest first, for the reconciliation sweep.
	ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*Transaction, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrTransactionNotFound indicates missing ledger entry
type ErrTransactionNotFound struct {
	ID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}

// ErrAlreadyProcessed indicates the transaction left the expected status
// before this transition could be applied
type ErrAlreadyProcessed struct {
	ID uuid.UUID
}

func (e ErrAlreadyProcessed) Error() string {
	return "transaction already processed: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrAlreadyProcessed
func (e ErrAlreadyProcessed) Is(target error) bool {
	t, ok := target.(ErrAlreadyProcessed)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}

// ErrInvalidStateTransition indicates an illegal state machine transition
type ErrInvalidStateTransition struct {
	ID   uuid.UUID
	From Status
	To   Status
}

func (e ErrInvalidStateTransition) Error() string {
	return "invalid transition " + string(e.From) + " -> " + string(e.To) + " for transaction: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrInvalidStateTransition
func (e ErrInvalidStateTransition) Is(target error) bool {
	t, ok := target.(ErrInvalidStateTransition)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID && e.From == t.From && e.To == t.To
}
