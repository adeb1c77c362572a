// Package history models the MongoDB read side of the ledger: a denormalized
// copy of every transaction, projected from payment events for cheap
// per-user history queries.
package history

import (
	"time"

	"github.com/gigmarket-payments/internal/domain/transaction"
	"github.com/google/uuid"
)

// Record mirrors one ledger transaction in the payment history collection
type Record struct {
	TransactionID uuid.UUID          `json:"transaction_id" bson:"transaction_id"`
	Type          transaction.Type   `json:"type" bson:"type"`
	FromUserID    uuid.UUID          `json:"from_user_id" bson:"from_user_id"`
	ToUserID      uuid.UUID          `json:"to_user_id" bson:"to_user_id"`
	Amount        int64              `json:"amount" bson:"amount"` // Stored in cents/minor units
	Status        transaction.Status `json:"status" bson:"status"`
	Reference     string             `json:"reference" bson:"reference"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	FailureReason string             `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	JobID         *uuid.UUID         `json:"job_id,omitempty" bson:"job_id,omitempty"`
	MilestoneID   *uuid.UUID         `json:"milestone_id,omitempty" bson:"milestone_id,omitempty"`
	PayrollID     *uuid.UUID         `json:"payroll_id,omitempty" bson:"payroll_id,omitempty"`
	OriginalID    *uuid.UUID         `json:"original_transaction_id,omitempty" bson:"original_transaction_id,omitempty"`
	CorrelationID string             `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	FailedAt      *time.Time         `json:"failed_at,omitempty" bson:"failed_at,omitempty"`
}

// FromTransaction builds the history record for a ledger transaction
func FromTransaction(txn *transaction.Transaction) *Record {
	return &Record{
		TransactionID: txn.ID,
		Type:          txn.Type,
		FromUserID:    txn.FromUserID,
		ToUserID:      txn.ToUserID,
		Amount:        txn.Amount,
		Status:        txn.Status,
		Reference:     txn.Reference,
		Description:   txn.Description,
		FailureReason: txn.FailureReason,
		JobID:         txn.Links.JobID,
		MilestoneID:   txn.Links.MilestoneID,
		PayrollID:     txn.Links.PayrollID,
		OriginalID:    txn.Links.OriginalTransactionID,
		CorrelationID: txn.CorrelationID,
		CreatedAt:     txn.CreatedAt,
		CompletedAt:   txn.CompletedAt,
		FailedAt:      txn.FailedAt,
	}
}
