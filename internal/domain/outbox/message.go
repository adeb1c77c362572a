package outbox

import (
	"encoding/json"
	"time"

	"github.com/gigmarket-payments/internal/domain/transaction"
	"github.com/google/uuid"
)

// Status defines message publishing states
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusProcessed       Status = "PROCESSED"
	StatusFailedToPublish Status = "FAILED_TO_PUBLISH"
)

// Message stores a committed ledger change for reliable publishing. Rows are
// inserted in the same database transaction as the wallet and transaction
// updates they describe, then drained by the outbox poller.
type Message struct {
	ID            int64           `json:"id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	Payload       json.RawMessage `json:"payload"`
	Status        Status          `json:"status"`
	Attempts      int             `json:"attempts"`
	CreatedAt     time.Time       `json:"created_at"`
	LastAttemptAt *time.Time      `json:"last_attempt_at,omitempty"`
}

func NewMessage(txn *transaction.Transaction) (*Message, error) {
	payload, err := json.Marshal(txn)
	if err != nil {
		return nil, err
	}

	return &Message{
		TransactionID: txn.ID,
		Payload:       payload,
		Status:        StatusPending,
		Attempts:      0,
		CreatedAt:     time.Now(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = StatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = StatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// GetTransaction extracts the ledger transaction from the payload
func (m *Message) GetTransaction() (*transaction.Transaction, error) {
	var txn transaction.Transaction
	if err := json.Unmarshal(m.Payload, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}
