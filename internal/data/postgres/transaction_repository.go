package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gigmarket-payments/internal/domain/transaction"
	"github.com/gigmarket-payments/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepository implements the transaction.Repository interface for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) transaction.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so status transitions can
// commit atomically with the wallet updates they describe.
func (r *TransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const transactionColumns = `
	id, type, from_user_id, to_user_id, amount, status, reference,
	description, failure_reason, job_id, milestone_id, payroll_id,
	original_transaction_id, correlation_id, created_at, completed_at, failed_at
`

// Create stores a new ledger transaction
func (r *TransactionRepository) Create(ctx context.Context, txn *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.querier.Exec(ctx, query,
		txn.ID,
		txn.Type,
		txn.FromUserID,
		txn.ToUserID,
		txn.Amount,
		txn.Status,
		txn.Reference,
		txn.Description,
		txn.FailureReason,
		txn.Links.JobID,
		txn.Links.MilestoneID,
		txn.Links.PayrollID,
		txn.Links.OriginalTransactionID,
		txn.CorrelationID,
		txn.CreatedAt,
		txn.CompletedAt,
		txn.FailedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create transaction", "id", txn.ID.String(), "error", err)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

func (r *TransactionRepository) scanOne(row pgx.Row) (*transaction.Transaction, error) {
	var txn transaction.Transaction
	err := row.Scan(
		&txn.ID,
		&txn.Type,
		&txn.FromUserID,
		&txn.ToUserID,
		&txn.Amount,
		&txn.Status,
		&txn.Reference,
		&txn.Description,
		&txn.FailureReason,
		&txn.Links.JobID,
		&txn.Links.MilestoneID,
		&txn.Links.PayrollID,
		&txn.Links.OriginalTransactionID,
		&txn.CorrelationID,
		&txn.CreatedAt,
		&txn.CompletedAt,
		&txn.FailedAt,
	)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1
	`

	txn, err := r.scanOne(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{ID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return txn, nil
}

// GetByReference retrieves a transaction by its reference code
func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE reference = $1
	`

	txn, err := r.scanOne(r.querier.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{}
		}
		r.logger.Error("Failed to get transaction by reference", "reference", reference, "error", err)
		return nil, fmt.Errorf("failed to get transaction by reference: %w", err)
	}

	return txn, nil
}

// Update persists the transaction's mutable fields, guarded by the status the
// row is expected to still hold. A zero-row update means another worker won
// the transition race and surfaces as ErrAlreadyProcessed.
func (r *TransactionRepository) Update(ctx context.Context, txn *transaction.Transaction, expected transaction.Status) error {
	query := `
		UPDATE transactions
		SET status = $1, description = $2, failure_reason = $3, completed_at = $4, failed_at = $5
		WHERE id = $6 AND status = $7
	`

	result, err := r.querier.Exec(ctx, query,
		txn.Status,
		txn.Description,
		txn.FailureReason,
		txn.CompletedAt,
		txn.FailedAt,
		txn.ID,
		expected,
	)
	if err != nil {
		r.logger.Error("Failed to update transaction", "id", txn.ID.String(), "error", err)
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return transaction.ErrAlreadyProcessed{ID: txn.ID}
	}

	return nil
}

// ListStalePending returns pending transactions created before the cutoff,
// oldest first, for the reconciliation sweep.
func (r *TransactionRepository) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at ASC
		LIMIT $3
	`

	rows, err := r.querier.Query(ctx, query, transaction.StatusPending, cutoff, limit)
	if err != nil {
		r.logger.Error("Failed to list stale pending transactions", "error", err)
		return nil, fmt.Errorf("failed to list stale pending transactions: %w", err)
	}
	defer rows.Close()

	var txns []*transaction.Transaction
	for rows.Next() {
		txn, err := r.scanOne(rows)
		if err != nil {
			r.logger.Error("Failed to scan transaction", "error", err)
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over transactions", "error", err)
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}

	return txns, nil
}
