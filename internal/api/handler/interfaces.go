package handler

import (
	"context"

	"github.com/gigmarket-payments/internal/domain/history"
	"github.com/gigmarket-payments/internal/domain/transaction"
	"github.com/gigmarket-payments/internal/domain/wallet"
	"github.com/gigmarket-payments/internal/payments"
	"github.com/google/uuid"
)

// PaymentService is the orchestrator surface the handlers depend on
type PaymentService interface {
	CreateWallet(ctx context.Context, userID uuid.UUID, initialBalance int64) (*wallet.Wallet, error)
	GetWallet(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error)

	Deposit(ctx context.Context, userID uuid.UUID, amount int64, description string) (*transaction.Transaction, error)
	Withdraw(ctx context.Context, userID uuid.UUID, amount int64, description string) (*transaction.Transaction, error)

	ProcessPayment(ctx context.Context, txnType transaction.Type, from, to uuid.UUID, amount int64, description string, links transaction.Links) (*transaction.Transaction, error)
	ProcessJobPayment(ctx context.Context, employerID, jobID, workerID uuid.UUID, amount int64, description string) (*transaction.Transaction, error)
	ProcessMilestonePayment(ctx context.Context, employerID, milestoneID uuid.UUID, amount int64) (*transaction.Transaction, error)
	ProcessPayroll(ctx context.Context, employerID, payrollID uuid.UUID, items []payments.PayrollItem) []payments.PayrollResult
	ProcessRefund(ctx context.Context, originalID uuid.UUID, reason string) (*transaction.Transaction, error)
	CancelTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)

	GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	GetTransactionByReference(ctx context.Context, reference string) (*transaction.Transaction, error)

	CalculateEscrowAmount(ctx context.Context, jobID uuid.UUID) (int64, error)
	HoldEscrow(ctx context.Context, employerID, jobID uuid.UUID) (*transaction.Transaction, error)
	ReleaseEscrow(ctx context.Context, holdID, toUserID uuid.UUID) (*transaction.Transaction, error)
	CancelEscrow(ctx context.Context, holdID uuid.UUID) (*transaction.Transaction, error)
}

// HistoryService is the read model surface the handlers depend on
type HistoryService interface {
	// GetByTransactionID returns nil if the record has not been projected yet
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*history.Record, error)

	// GetByUserID returns the paginated history and total record count
	GetByUserID(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*history.Record, int64, error)
}
