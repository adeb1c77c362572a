// Package postgres provides PostgreSQL implementations of the domain
// repositories. It handles all database operations while maintaining
// transaction safety and proper error handling for the payment engine.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gigmarket-payments/internal/domain/wallet"
	"github.com/gigmarket-payments/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepository implements the wallet.Repository interface for PostgreSQL
type WalletRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewWalletRepository creates a new PostgreSQL wallet repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewWalletRepository(logger *slog.Logger, db *persistence.PostgresDB) wallet.Repository {
	return &WalletRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic
// operations across multiple repository calls.
func (r *WalletRepository) WithTx(tx pgx.Tx) wallet.Repository {
	return &WalletRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new wallet in the database
func (r *WalletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	query := `
		INSERT INTO wallets (user_id, balance, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.querier.Exec(ctx, query,
		w.UserID,
		w.Balance,
		w.Status,
		w.Version,
		w.CreatedAt,
		w.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create wallet", "user_id", w.UserID.String(), "error", err)
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	return nil
}

// GetByUserID retrieves a wallet by its owner's user ID
func (r *WalletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	query := `
		SELECT user_id, balance, status, version, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
	`

	var w wallet.Wallet
	err := r.querier.QueryRow(ctx, query, userID).Scan(
		&w.UserID,
		&w.Balance,
		&w.Status,
		&w.Version,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wallet.ErrWalletNotFound{UserID: userID}
		}
		r.logger.Error("Failed to get wallet", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	return &w, nil
}

// Credit atomically increases the balance of an active wallet
func (r *WalletRepository) Credit(ctx context.Context, userID uuid.UUID, amount int64) error {
	if amount <= 0 {
		return wallet.ErrInvalidAmount
	}

	query := `
		UPDATE wallets
		SET balance = balance + $1, version = version + 1, updated_at = NOW()
		WHERE user_id = $2
	`

	result, err := r.querier.Exec(ctx, query, amount, userID)
	if err != nil {
		r.logger.Error("Failed to credit wallet", "user_id", userID.String(), "error", err)
		return fmt.Errorf("failed to credit wallet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return wallet.ErrWalletNotFound{UserID: userID}
	}

	return nil
}

// Debit decreases the balance if and only if sufficient funds exist. The
// balance check runs inside the UPDATE itself, so two concurrent debits
// against the same wallet cannot both succeed past the available funds.
func (r *WalletRepository) Debit(ctx context.Context, userID uuid.UUID, amount int64) error {
	if amount <= 0 {
		return wallet.ErrInvalidAmount
	}

	query := `
		UPDATE wallets
		SET balance = balance - $1, version = version + 1, updated_at = NOW()
		WHERE user_id = $2 AND status = $3 AND balance >= $1
	`

	result, err := r.querier.Exec(ctx, query, amount, userID, wallet.StatusActive)
	if err != nil {
		r.logger.Error("Failed to debit wallet", "user_id", userID.String(), "error", err)
		return fmt.Errorf("failed to debit wallet: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Zero rows means no wallet, a suspended wallet, or insufficient
		// funds; re-read to report the precise cause.
		w, getErr := r.GetByUserID(ctx, userID)
		if getErr != nil {
			return getErr
		}
		if !w.IsActive() {
			return wallet.ErrWalletSuspended{UserID: userID}
		}
		return wallet.ErrInsufficientBalance
	}

	return nil
}
