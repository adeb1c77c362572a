// Package payments implements the payment orchestrator: the single entry
// point through which money moves between marketplace wallets. Every path
// follows the same shape: validate, create a pending ledger transaction,
// authorize with the payment processor where applicable, then settle the
// wallet movements, the status transition and the outbox event inside one
// database transaction.
package payments

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gigmarket-payments/internal/domain/job"
	"github.com/gigmarket-payments/internal/domain/outbox"
	"github.com/gigmarket-payments/internal/domain/transaction"
	"github.com/gigmarket-payments/internal/domain/wallet"
	"github.com/gigmarket-payments/internal/gateway"
	"github.com/gigmarket-payments/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Service is the payment orchestrator
type Service struct {
	runner   persistence.TxRunner
	wallets  wallet.Repository
	txns     transaction.Repository
	jobs     job.Repository
	outbox   outbox.Repository
	gateway  gateway.Gateway
	notifier Notifier
	realtime RealtimePublisher
	logger   *slog.Logger
}

// NewService creates the payment orchestrator
func NewService(
	logger *slog.Logger,
	runner persistence.TxRunner,
	wallets wallet.Repository,
	txns transaction.Repository,
	jobs job.Repository,
	outboxRepo outbox.Repository,
	gw gateway.Gateway,
	notifier Notifier,
	realtime RealtimePublisher,
) *Service {
	return &Service{
		runner:   runner,
		wallets:  wallets,
		txns:     txns,
		jobs:     jobs,
		outbox:   outboxRepo,
		gateway:  gw,
		notifier: notifier,
		realtime: realtime,
		logger:   logger,
	}
}

// CreateWallet provisions a wallet for a new marketplace user
func (s *Service) CreateWallet(ctx context.Context, userID uuid.UUID, initialBalance int64) (*wallet.Wallet, error) {
	w, err := wallet.NewWallet(userID, initialBalance)
	if err != nil {
		return nil, err
	}
	if err := s.wallets.Create(ctx, w); err != nil {
		return nil, err
	}

	s.logger.Info("Wallet created", "user_id", userID.String(), "initial_balance", initialBalance)
	return w, nil
}

// GetWallet returns the wallet of the given user
func (s *Service) GetWallet(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	return s.wallets.GetByUserID(ctx, userID)
}

// GetTransaction returns a ledger transaction by its ID
func (s *Service) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	return s.txns.GetByID(ctx, id)
}

// GetTransactionByReference returns a ledger transaction by its reference code
func (s *Service) GetTransactionByReference(ctx context.Context, reference string) (*transaction.Transaction, error) {
	return s.txns.GetByReference(ctx, reference)
}

// ProcessPayment moves funds from one user to another. It serves peer
// payments and bonuses directly and is the settlement engine the job,
// milestone and payroll paths delegate to once their own checks pass.
//
// No transaction record exists until all validations pass. After the pending
// record is created every failure leaves it in failed status with a reason.
func (s *Service) ProcessPayment(ctx context.Context, txnType transaction.Type, from, to uuid.UUID, amount int64, description string, links transaction.Links) (*transaction.Transaction, error) {
	if amount <= 0 {
		return nil, wallet.ErrInvalidAmount
	}
	if from == to {
		return nil, ErrSelfPayment
	}
	if err := s.checkSender(ctx, from, amount); err != nil {
		return nil, err
	}
	if err := s.checkReceiver(ctx, to); err != nil {
		return nil, err
	}

	txn, err := transaction.New(txnType, from, to, amount, description, links)
	if err != nil {
		return nil, err
	}
	txn.CorrelationID = correlationID(ctx)
	if err := s.txns.Create(ctx, txn); err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, txn); err != nil {
		return txn, err
	}

	if err := s.settle(ctx, txn, func(tx pgx.Tx) error {
		if err := s.wallets.WithTx(tx).Debit(ctx, from, amount); err != nil {
			return err
		}
		return s.wallets.WithTx(tx).Credit(ctx, to, amount)
	}); err != nil {
		return txn, err
	}

	s.notifyTransfer(ctx, txn)
	return txn, nil
}

// ProcessJobPayment pays a completed job from the employer to its assigned
// worker. The worker and the amount come from the caller; the worker must be
// the one assigned to the job, the amount may be any positive value (partial
// and split payments are the caller's business).
func (s *Service) ProcessJobPayment(ctx context.Context, employerID, jobID, workerID uuid.UUID, amount int64, description string) (*transaction.Transaction, error) {
	j, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.EmployerID != employerID {
		return nil, ErrAccessDenied
	}
	if j.WorkerID == nil || *j.WorkerID != workerID {
		return nil, ErrNoAssignedWorker
	}
	if j.Status != job.JobStatusCompleted {
		return nil, ErrJobNotCompleted
	}

	if description == "" {
		description = fmt.Sprintf("Payment for job %s", jobID)
	}
	return s.ProcessPayment(ctx, transaction.TypeJobPayment, employerID, workerID, amount, description, transaction.Links{JobID: &jobID})
}

// ProcessMilestonePayment pays a single completed milestone from the employer
// to the assigned worker and marks the milestone paid in the same database
// transaction as the wallet movements. The submitted amount must match the
// milestone amount exactly.
func (s *Service) ProcessMilestonePayment(ctx context.Context, employerID, milestoneID uuid.UUID, amount int64) (*transaction.Transaction, error) {
	m, err := s.jobs.GetMilestone(ctx, milestoneID)
	if err != nil {
		return nil, err
	}
	j, err := s.jobs.GetJob(ctx, m.JobID)
	if err != nil {
		return nil, err
	}
	if j.EmployerID != employerID {
		return nil, ErrAccessDenied
	}
	if j.WorkerID == nil {
		return nil, ErrNoAssignedWorker
	}
	if m.Status != job.MilestoneStatusCompleted {
		return nil, ErrMilestoneNotCompleted
	}
	if amount != m.Amount {
		return nil, ErrAmountMismatch{Expected: m.Amount, Actual: amount}
	}
	if err := s.checkSender(ctx, employerID, amount); err != nil {
		return nil, err
	}
	if err := s.checkReceiver(ctx, *j.WorkerID); err != nil {
		return nil, err
	}

	to := *j.WorkerID
	links := transaction.Links{JobID: &m.JobID, MilestoneID: &milestoneID}
	txn, err := transaction.New(transaction.TypeMilestonePayment, employerID, to, amount,
		fmt.Sprintf("Payment for milestone %s", milestoneID), links)
	if err != nil {
		return nil, err
	}
	txn.CorrelationID = correlationID(ctx)
	if err := s.txns.Create(ctx, txn); err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, txn); err != nil {
		return txn, err
	}

	if err := s.settle(ctx, txn, func(tx pgx.Tx) error {
		if err := s.wallets.WithTx(tx).Debit(ctx, employerID, amount); err != nil {
			return err
		}
		if err := s.wallets.WithTx(tx).Credit(ctx, to, amount); err != nil {
			return err
		}
		return s.jobs.WithTx(tx).MarkMilestonePaid(ctx, milestoneID)
	}); err != nil {
		return txn, err
	}

	s.notifyTransfer(ctx, txn)
	return txn, nil
}

// ProcessRefund reverses a completed transaction: the original receiver pays
// the original sender back in full. The original entry moves to cancelled in
// the same database transaction, so a transaction can be refunded at most
// once. No processor authorization is involved.
func (s *Service) ProcessRefund(ctx context.Context, originalID uuid.UUID, reason string) (*transaction.Transaction, error) {
	orig, err := s.txns.GetByID(ctx, originalID)
	if err != nil {
		return nil, err
	}
	if orig.Status != transaction.StatusCompleted {
		return nil, ErrNotCompleted
	}
	if err := s.checkSender(ctx, orig.ToUserID, orig.Amount); err != nil {
		return nil, err
	}
	if err := s.checkReceiver(ctx, orig.FromUserID); err != nil {
		return nil, err
	}

	description := "Refund of " + orig.Reference
	if reason != "" {
		description += ": " + reason
	}
	links := orig.Links
	links.OriginalTransactionID = &orig.ID

	refund, err := transaction.New(transaction.TypeRefund, orig.ToUserID, orig.FromUserID, orig.Amount, description, links)
	if err != nil {
		return nil, err
	}
	refund.CorrelationID = correlationID(ctx)
	if err := s.txns.Create(ctx, refund); err != nil {
		return nil, err
	}

	if err := s.settle(ctx, refund, func(tx pgx.Tx) error {
		if err := s.wallets.WithTx(tx).Debit(ctx, orig.ToUserID, orig.Amount); err != nil {
			return err
		}
		if err := s.wallets.WithTx(tx).Credit(ctx, orig.FromUserID, orig.Amount); err != nil {
			return err
		}

		reversed := *orig
		if err := reversed.Reverse(); err != nil {
			return err
		}
		if err := s.txns.WithTx(tx).Update(ctx, &reversed, transaction.StatusCompleted); err != nil {
			return err
		}
		msg, err := outbox.NewMessage(&reversed)
		if err != nil {
			return err
		}
		return s.outbox.WithTx(tx).Create(ctx, msg)
	}); err != nil {
		return refund, err
	}

	s.notifyTransfer(ctx, refund)
	return refund, nil
}

// CancelTransaction voids a pending transaction. For an escrow hold the held
// amount is credited back to the employer; other pending transactions have
// moved no funds yet, so only the status changes.
func (s *Service) CancelTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	txn, err := s.txns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn.Status != transaction.StatusPending {
		return nil, transaction.ErrAlreadyProcessed{ID: id}
	}

	err = s.runner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if txn.IsEscrowHold() {
			if err := s.wallets.WithTx(tx).Credit(ctx, txn.FromUserID, txn.Amount); err != nil {
				return err
			}
		}

		cancelled := *txn
		if err := cancelled.Cancel(); err != nil {
			return err
		}
		if err := s.txns.WithTx(tx).Update(ctx, &cancelled, transaction.StatusPending); err != nil {
			return err
		}
		msg, err := outbox.NewMessage(&cancelled)
		if err != nil {
			return err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, msg); err != nil {
			return err
		}
		*txn = cancelled
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to cancel transaction", "transaction_id", id.String(), "error", err)
		return txn, err
	}

	s.logger.Info("Transaction cancelled",
		"transaction_id", txn.ID.String(),
		"reference", txn.Reference)
	return txn, nil
}

// Deposit tops up a wallet from an external funding source. The processor
// authorizes the charge before the wallet is credited.
func (s *Service) Deposit(ctx context.Context, userID uuid.UUID, amount int64, description string) (*transaction.Transaction, error) {
	if amount <= 0 {
		return nil, wallet.ErrInvalidAmount
	}
	if err := s.checkReceiver(ctx, userID); err != nil {
		return nil, err
	}

	if description == "" {
		description = "Wallet top-up"
	}
	txn, err := transaction.New(transaction.TypeDeposit, userID, userID, amount, description, transaction.Links{})
	if err != nil {
		return nil, err
	}
	txn.CorrelationID = correlationID(ctx)
	if err := s.txns.Create(ctx, txn); err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, txn); err != nil {
		return txn, err
	}

	if err := s.settle(ctx, txn, func(tx pgx.Tx) error {
		return s.wallets.WithTx(tx).Credit(ctx, userID, amount)
	}); err != nil {
		return txn, err
	}

	s.notifyOneSided(ctx, txn, userID, DirectionReceived, "Deposit completed")
	return txn, nil
}

// Withdraw pays out wallet funds to an external destination. The processor
// authorizes the payout before the wallet is debited.
func (s *Service) Withdraw(ctx context.Context, userID uuid.UUID, amount int64, description string) (*transaction.Transaction, error) {
	if amount <= 0 {
		return nil, wallet.ErrInvalidAmount
	}
	if err := s.checkSender(ctx, userID, amount); err != nil {
		return nil, err
	}

	if description == "" {
		description = "Wallet withdrawal"
	}
	txn, err := transaction.New(transaction.TypeWithdrawal, userID, userID, amount, description, transaction.Links{})
	if err != nil {
		return nil, err
	}
	txn.CorrelationID = correlationID(ctx)
	if err := s.txns.Create(ctx, txn); err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, txn); err != nil {
		return txn, err
	}

	if err := s.settle(ctx, txn, func(tx pgx.Tx) error {
		return s.wallets.WithTx(tx).Debit(ctx, userID, amount)
	}); err != nil {
		return txn, err
	}

	s.notifyOneSided(ctx, txn, userID, DirectionSent, "Withdrawal completed")
	return txn, nil
}

// PayrollItem is one worker's line in a payroll run
type PayrollItem struct {
	WorkerID    uuid.UUID
	Amount      int64
	Description string
}

// PayrollResult reports the outcome of one payroll item
type PayrollResult struct {
	WorkerID    uuid.UUID
	Transaction *transaction.Transaction
	Err         error
}

// ProcessPayroll pays each item of a payroll run as an independent payroll
// transaction. Items settle one by one; a failed item never blocks the rest,
// its error is reported in the corresponding result.
func (s *Service) ProcessPayroll(ctx context.Context, employerID, payrollID uuid.UUID, items []PayrollItem) []PayrollResult {
	results := make([]PayrollResult, 0, len(items))
	for _, item := range items {
		description := item.Description
		if description == "" {
			description = fmt.Sprintf("Payroll run %s", payrollID)
		}
		txn, err := s.ProcessPayment(ctx, transaction.TypePayroll, employerID, item.WorkerID, item.Amount,
			description, transaction.Links{PayrollID: &payrollID})
		if err != nil {
			s.logger.Warn("Payroll item failed",
				"payroll_id", payrollID.String(),
				"worker_id", item.WorkerID.String(),
				"error", err)
		}
		results = append(results, PayrollResult{WorkerID: item.WorkerID, Transaction: txn, Err: err})
	}
	return results
}

// checkSender validates that the paying wallet exists, is active and covers
// the amount. The check is advisory; the conditional debit at settlement is
// what actually prevents overdraw under concurrency.
func (s *Service) checkSender(ctx context.Context, userID uuid.UUID, amount int64) error {
	w, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !w.IsActive() {
		return wallet.ErrWalletSuspended{UserID: userID}
	}
	if !w.CanDebit(amount) {
		return wallet.ErrInsufficientBalance
	}
	return nil
}

// checkReceiver validates that the receiving wallet exists and is active
func (s *Service) checkReceiver(ctx context.Context, userID uuid.UUID) error {
	w, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !w.IsActive() {
		return wallet.ErrWalletSuspended{UserID: userID}
	}
	return nil
}

// authorize submits the pending transaction to the payment processor. A
// decline or a processor error marks the transaction failed before the error
// is returned.
func (s *Service) authorize(ctx context.Context, txn *transaction.Transaction) error {
	result, err := s.gateway.Process(ctx, txn.Amount)
	if err != nil {
		s.markFailed(ctx, txn, "processor error: "+err.Error())
		return fmt.Errorf("payment processor: %w", err)
	}
	if !result.Approved {
		s.markFailed(ctx, txn, string(result.Reason))
		return ErrPaymentDeclined{Reason: result.Reason}
	}
	return nil
}

// settle commits the wallet movements, the pending to completed transition
// and the outbox event atomically. moveFunds runs first inside the same
// database transaction; any error rolls everything back and marks the
// transaction failed.
func (s *Service) settle(ctx context.Context, txn *transaction.Transaction, moveFunds func(tx pgx.Tx) error) error {
	err := s.runner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := moveFunds(tx); err != nil {
			return err
		}

		completed := *txn
		if err := completed.Complete(); err != nil {
			return err
		}
		if err := s.txns.WithTx(tx).Update(ctx, &completed, transaction.StatusPending); err != nil {
			return err
		}
		msg, err := outbox.NewMessage(&completed)
		if err != nil {
			return err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, msg); err != nil {
			return err
		}
		*txn = completed
		return nil
	})
	if err != nil {
		s.markFailed(ctx, txn, err.Error())
		return err
	}

	s.logger.Info("Transaction completed",
		"transaction_id", txn.ID.String(),
		"reference", txn.Reference,
		"type", string(txn.Type),
		"amount", txn.Amount)
	return nil
}

// markFailed records the failure on the pending transaction together with an
// outbox event. Errors here are logged, not returned; the caller's original
// error is the one that matters.
func (s *Service) markFailed(ctx context.Context, txn *transaction.Transaction, reason string) {
	failed := *txn
	if err := failed.Fail(reason); err != nil {
		s.logger.Error("Cannot mark transaction failed",
			"transaction_id", txn.ID.String(),
			"error", err)
		return
	}

	err := s.runner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.txns.WithTx(tx).Update(ctx, &failed, transaction.StatusPending); err != nil {
			return err
		}
		msg, err := outbox.NewMessage(&failed)
		if err != nil {
			return err
		}
		return s.outbox.WithTx(tx).Create(ctx, msg)
	})
	if err != nil {
		s.logger.Error("Failed to persist transaction failure",
			"transaction_id", txn.ID.String(),
			"reason", reason,
			"error", err)
		return
	}
	*txn = failed

	s.logger.Warn("Transaction failed",
		"transaction_id", txn.ID.String(),
		"reference", txn.Reference,
		"reason", reason)
}

// notifyTransfer sends both parties their notification and realtime event.
// Failures are logged and swallowed; the payment has already settled.
func (s *Service) notifyTransfer(ctx context.Context, txn *transaction.Transaction) {
	amount := FormatAmount(txn.Amount)
	s.notifyOneSided(ctx, txn, txn.FromUserID, DirectionSent,
		fmt.Sprintf("You sent %s", amount))
	s.notifyOneSided(ctx, txn, txn.ToUserID, DirectionReceived,
		fmt.Sprintf("You received %s", amount))
}

func (s *Service) notifyOneSided(ctx context.Context, txn *transaction.Transaction, userID uuid.UUID, direction Direction, title string) {
	n := Notification{
		UserID:        userID,
		TransactionID: txn.ID,
		Title:         title,
		Message:       fmt.Sprintf("%s (%s)", txn.Description, txn.Reference),
		ActionURL:     "/transactions/" + txn.ID.String(),
	}
	if err := s.notifier.CreatePaymentNotification(ctx, n); err != nil {
		s.logger.Warn("Failed to create payment notification",
			"transaction_id", txn.ID.String(),
			"user_id", userID.String(),
			"error", err)
	}

	event := PaymentEvent{
		UserID:        userID,
		TransactionID: txn.ID,
		Amount:        txn.Amount,
		Direction:     direction,
	}
	if err := s.realtime.SendPaymentNotification(ctx, event); err != nil {
		s.logger.Warn("Failed to publish realtime payment event",
			"transaction_id", txn.ID.String(),
			"user_id", userID.String(),
			"error", err)
	}
}
