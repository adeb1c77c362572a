package transaction

import (
	"crypto/rand"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Type defines the payment shape a transaction records
type Type string

const (
	TypePeerPayment      Type = "peer_payment"
	TypeJobPayment       Type = "job_payment"
	TypeMilestonePayment Type = "milestone_payment"
	TypePayroll          Type = "payroll"
	TypeRefund           Type = "refund"
	TypeBonus            Type = "bonus"
	TypeDeposit          Type = "deposit"
	TypeWithdrawal       Type = "withdrawal"
)

// Status defines the lifecycle states of a transaction.
// pending is the only non-terminal state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether no further transition is permitted
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Links carries the optional references a transaction may point at.
// At most one of Job/Milestone/Payroll is set in practice.
type Links struct {
	JobID                 *uuid.UUID `json:"job_id,omitempty"`
	MilestoneID           *uuid.UUID `json:"milestone_id,omitempty"`
	PayrollID             *uuid.UUID `json:"payroll_id,omitempty"`
	OriginalTransactionID *uuid.UUID `json:"original_transaction_id,omitempty"`
}

// Transaction is one entry of the payment ledger. Once the status leaves
// pending the amount and parties are frozen; only ProcessRefund may move a
// completed entry to cancelled, via Reverse.
type Transaction struct {
	ID            uuid.UUID  `json:"id"`
	Type          Type       `json:"type"`
	FromUserID    uuid.UUID  `json:"from_user_id"`
	ToUserID      uuid.UUID  `json:"to_user_id"`
	Amount        int64      `json:"amount"` // Stored in cents/minor units
	Status        Status     `json:"status"`
	Reference     string     `json:"reference"`
	Description   string     `json:"description,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	Links         Links      `json:"links"`
	CorrelationID string     `json:"correlation_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	FailedAt      *time.Time `json:"failed_at,omitempty"`
}

// New creates a pending transaction with a freshly generated reference code
func New(txnType Type, from, to uuid.UUID, amount int64, description string, links Links) (*Transaction, error) {
	switch txnType {
	case TypePeerPayment, TypeJobPayment, TypeMilestonePayment, TypePayroll,
		TypeRefund, TypeBonus, TypeDeposit, TypeWithdrawal:
	default:
		return nil, ErrInvalidType
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return &Transaction{
		ID:          uuid.New(),
		Type:        txnType,
		FromUserID:  from,
		ToUserID:    to,
		Amount:      amount,
		Status:      StatusPending,
		Reference:   NewReference(),
		Description: description,
		Links:       links,
		CreatedAt:   time.Now(),
	}, nil
}

// NewReference generates a collision-resistant, human-distinguishable
// reference code. ULIDs are time-ordered, so references sort by creation.
func NewReference() string {
	return "TXN-" + ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// IsEscrowHold reports whether the transaction represents funds held back
// from an employer before being released to a worker
func (t *Transaction) IsEscrowHold() bool {
	return t.FromUserID == t.ToUserID && t.Links.JobID != nil && t.Type == TypeJobPayment
}

// Complete transitions the transaction from pending to completed
func (t *Transaction) Complete() error {
	if t.Status != StatusPending {
		return ErrInvalidStateTransition{ID: t.ID, From: t.Status, To: StatusCompleted}
	}
	now := time.Now()
	t.Status = StatusCompleted
	t.CompletedAt = &now
	return nil
}

// Fail transitions the transaction from pending to failed, recording the reason
func (t *Transaction) Fail(reason string) error {
	if t.Status != StatusPending {
		return ErrInvalidStateTransition{ID: t.ID, From: t.Status, To: StatusFailed}
	}
	now := time.Now()
	t.Status = StatusFailed
	t.FailureReason = reason
	t.FailedAt = &now
	return nil
}

// Cancel transitions the transaction from pending to cancelled. Any funds the
// caller debited for this transaction must be re-credited by the caller; the
// state machine has no knowledge of whether a debit occurred.
func (t *Transaction) Cancel() error {
	if t.Status != StatusPending {
		return ErrInvalidStateTransition{ID: t.ID, From: t.Status, To: StatusCancelled}
	}
	t.Status = StatusCancelled
	return nil
}

// Reverse marks a completed transaction cancelled after its amount has been
// refunded. This is the only transition out of a terminal state and is
// reserved for the refund path.
func (t *Transaction) Reverse() error {
	if t.Status != StatusCompleted {
		return ErrInvalidStateTransition{ID: t.ID, From: t.Status, To: StatusCancelled}
	}
	t.Status = StatusCancelled
	return nil
}
