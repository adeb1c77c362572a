package handler_test

import (
	"context"

	"github.com/gigmarket-payments/internal/api/handler"
	"github.com/gigmarket-payments/internal/domain/history"
	"github.com/gigmarket-payments/internal/domain/transaction"
	"github.com/gigmarket-payments/internal/domain/wallet"
	"github.com/gigmarket-payments/internal/payments"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPaymentService mocks the handler.PaymentService interface
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreateWallet(ctx context.Context, userID uuid.UUID, initialBalance int64) (*wallet.Wallet, error) {
	args := m.Called(ctx, userID, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockPaymentService) GetWallet(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockPaymentService) Deposit(ctx context.Context, userID uuid.UUID, amount int64, description string) (*transaction.Transaction, error) {
	args := m.Called(ctx, userID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockPaymentService) Withdraw(ctx context.Context, userID uuid.UUID, amount int64, description string) (*transaction.Transaction, error) {
	args := m.Called(ctx, userID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockPaymentService) ProcessPayment(ctx context.Context, txnType transaction.Type, from, to uuid.UUID, amount int64, description string, links transaction.Links) (*transaction.Transaction, error) {
	args := m.Called(ctx, txnType, from, to, amount, description, links)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockPaymentService) ProcessJobPayment(ctx context.Context, employerID, jobID, workerID uuid.UUID, amount int64, description string) (*transaction.Transaction, error) {
	args := m.Called(ctx, employerID, jobID, workerID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockPaymentService) ProcessMilestonePayment(ctx context.Context, employerID, milestoneID uuid.UUID, amount int64) (*transaction.Transaction, error) {
	args := m.Called(ctx, employerID, milestoneID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockPaymentService) ProcessPayroll(ctx context.Context, employerID, payrollID uuid.UUID, items []payments.PayrollItem) []payments.PayrollResult {
	args := m.Called(ctx, employerID, payrollID, items)
	return args.Get(0).([]payments.PayrollResult)
}

func (m *MockPaymentService) ProcessRefund(ctx context.Context, originalID uuid.UUID, reason string) (*transaction.Transaction, error) {
	args := m.Called(ctx, originalID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockPaymentService) CancelTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockPaymentService) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockPaymentService) GetTransactionByReference(ctx context.Context, reference string) (*transaction.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockPaymentService) CalculateEscrowAmount(ctx context.Context, jobID uuid.UUID) (int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentService) HoldEscrow(ctx context.Context, employerID, jobID uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, employerID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockPaymentService) ReleaseEscrow(ctx context.Context, holdID, toUserID uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, holdID, toUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockPaymentService) CancelEscrow(ctx context.Context, holdID uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, holdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

// MockHistoryService mocks the handler.HistoryService interface
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*history.Record, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*history.Record), args.Error(1)
}

func (m *MockHistoryService) GetByUserID(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*history.Record, int64, error) {
	args := m.Called(ctx, userID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*history.Record), args.Get(1).(int64), args.Error(2)
}

var _ handler.PaymentService = (*MockPaymentService)(nil)
var _ handler.HistoryService = (*MockHistoryService)(nil)
