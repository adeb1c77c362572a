// Package reconciler sweeps the ledger for pending transactions that were
// abandoned mid-flight, for example by an orchestrator crash between creating
// the pending record and settling it. Such entries are failed so balances
// and the ledger stay explainable. Escrow holds are exempt: they stay pending
// until released or cancelled, however long that takes.
package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gigmarket-payments/internal/config"
	"github.com/gigmarket-payments/internal/domain/outbox"
	"github.com/gigmarket-payments/internal/domain/transaction"
	"github.com/gigmarket-payments/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

const failureReason = "expired: no settlement within the allowed window"

// Reconciler periodically fails stale pending transactions
type Reconciler struct {
	runner        persistence.TxRunner
	txns          transaction.Repository
	outboxRepo    outbox.Repository
	logger        *slog.Logger
	sweepInterval time.Duration
	maxPendingAge time.Duration
	batchSize     int
}

func NewReconciler(
	cfg *config.ReconcilerConfig,
	runner persistence.TxRunner,
	txns transaction.Repository,
	outboxRepo outbox.Repository,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		runner:        runner,
		txns:          txns,
		outboxRepo:    outboxRepo,
		logger:        logger,
		sweepInterval: cfg.SweepInterval,
		maxPendingAge: cfg.MaxPendingAge,
		batchSize:     cfg.BatchSize,
	}
}

// Start begins sweeping until context is canceled
func (r *Reconciler) Start(ctx context.Context) {
	r.logger.Info("Starting Reconciler",
		"sweep_interval", r.sweepInterval.String(),
		"max_pending_age", r.maxPendingAge.String(),
		"batch_size", r.batchSize,
	)
	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Reconciler stopping due to context cancellation.")
			return
		case <-ticker.C:
			if err := r.Sweep(ctx); err != nil {
				r.logger.Error("Error during reconciliation sweep", "error", err)
			}
		}
	}
}

// Sweep fails one batch of stale pending transactions
func (r *Reconciler) Sweep(ctx context.Context) error {
	cutoff := time.Now().Add(-r.maxPendingAge)
	stale, err := r.txns.ListStalePending(ctx, cutoff, r.batchSize)
	if err != nil {
		return fmt.Errorf("failed to list stale pending transactions: %w", err)
	}

	if len(stale) == 0 {
		r.logger.Debug("No stale pending transactions found.")
		return nil
	}

	r.logger.Info("Found stale pending transactions", "count", len(stale), "cutoff", cutoff)

	for _, txn := range stale {
		if txn.IsEscrowHold() {
			r.logger.Debug("Skipping escrow hold",
				"transaction_id", txn.ID.String(),
				"created_at", txn.CreatedAt,
			)
			continue
		}

		if err := r.failStale(ctx, txn); err != nil {
			r.logger.Error("Failed to reconcile stale transaction",
				"transaction_id", txn.ID.String(),
				"error", err,
			)
			continue
		}

		r.logger.Warn("Stale pending transaction failed by reconciler",
			"transaction_id", txn.ID.String(),
			"reference", txn.Reference,
			"created_at", txn.CreatedAt,
		)
	}
	return nil
}

func (r *Reconciler) failStale(ctx context.Context, txn *transaction.Transaction) error {
	if err := txn.Fail(failureReason); err != nil {
		return err
	}

	return r.runner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		// The guard on pending status makes concurrent sweeps and a racing
		// settlement safe: whoever transitions first wins.
		if err := r.txns.WithTx(tx).Update(ctx, txn, transaction.StatusPending); err != nil {
			return err
		}
		msg, err := outbox.NewMessage(txn)
		if err != nil {
			return err
		}
		return r.outboxRepo.WithTx(tx).Create(ctx, msg)
	})
}
