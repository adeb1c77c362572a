package payments

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gigmarket-payments/internal/domain/history"
	"github.com/gigmarket-payments/internal/domain/job"
	"github.com/gigmarket-payments/internal/domain/outbox"
	"github.com/gigmarket-payments/internal/domain/transaction"
	"github.com/gigmarket-payments/internal/domain/wallet"
	"github.com/gigmarket-payments/internal/gateway"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

func newNopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubTxRunner runs the callback without a real database transaction
type stubTxRunner struct {
	err error
}

func (r *stubTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if r.err != nil {
		return r.err
	}
	return fn(nil)
}

// stubGateway returns a fixed processor outcome
type stubGateway struct {
	result gateway.Result
	err    error
}

func (g *stubGateway) Process(ctx context.Context, amount int64) (gateway.Result, error) {
	return g.result, g.err
}

func approvingGateway() *stubGateway {
	return &stubGateway{result: gateway.Result{Approved: true}}
}

// recordingNotifier captures notifications and realtime events for assertions
type recordingNotifier struct {
	mu            sync.Mutex
	notifications []Notification
	events        []PaymentEvent
}

func (n *recordingNotifier) CreatePaymentNotification(ctx context.Context, notification Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification)
	return nil
}

func (n *recordingNotifier) SendPaymentNotification(ctx context.Context, event PaymentEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) Create(ctx context.Context, w *wallet.Wallet) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletRepo) Credit(ctx context.Context, userID uuid.UUID, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockWalletRepo) Debit(ctx context.Context, userID uuid.UUID, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockWalletRepo) WithTx(tx pgx.Tx) wallet.Repository {
	return m
}

type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, txn *transaction.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepo) GetByReference(ctx context.Context, reference string) (*transaction.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepo) Update(ctx context.Context, txn *transaction.Transaction, expected transaction.Status) error {
	args := m.Called(ctx, txn, expected)
	return args.Error(0)
}

func (m *MockTransactionRepo) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepo) WithTx(tx pgx.Tx) transaction.Repository {
	return m
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) GetJob(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *MockJobRepo) GetMilestone(ctx context.Context, id uuid.UUID) (*job.Milestone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Milestone), args.Error(1)
}

func (m *MockJobRepo) SumMilestoneAmounts(ctx context.Context, jobID uuid.UUID) (int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobRepo) MarkMilestonePaid(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockJobRepo) WithTx(tx pgx.Tx) job.Repository {
	return m
}

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepo) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) UpdateStatus(ctx context.Context, id int64, status outbox.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepo) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepo) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*outbox.Message, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) WithTx(tx pgx.Tx) outbox.Repository {
	return m
}

type MockHistoryRepo struct {
	mock.Mock
}

func (m *MockHistoryRepo) Upsert(ctx context.Context, record *history.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHistoryRepo) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*history.Record, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*history.Record), args.Error(1)
}

func (m *MockHistoryRepo) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*history.Record, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*history.Record), args.Error(1)
}

func (m *MockHistoryRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// testDeps bundles the orchestrator's collaborators for one test
type testDeps struct {
	wallets  *MockWalletRepo
	txns     *MockTransactionRepo
	jobs     *MockJobRepo
	outbox   *MockOutboxRepo
	gateway  *stubGateway
	notifier *recordingNotifier
}

func newTestService() (*Service, *testDeps) {
	deps := &testDeps{
		wallets:  &MockWalletRepo{},
		txns:     &MockTransactionRepo{},
		jobs:     &MockJobRepo{},
		outbox:   &MockOutboxRepo{},
		gateway:  approvingGateway(),
		notifier: &recordingNotifier{},
	}
	svc := NewService(
		newNopLogger(),
		&stubTxRunner{},
		deps.wallets,
		deps.txns,
		deps.jobs,
		deps.outbox,
		deps.gateway,
		deps.notifier,
		deps.notifier,
	)
	return svc, deps
}

func activeWallet(userID uuid.UUID, balance int64) *wallet.Wallet {
	return &wallet.Wallet{
		UserID:    userID,
		Balance:   balance,
		Status:    wallet.StatusActive,
		Version:   1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
