package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines wallet persistence operations.
// Credit and Debit are the only mutations of a balance; both are single
// conditional updates so that concurrent debits against the same wallet
// cannot overdraw it.
type Repository interface {
	Create(ctx context.Context, w *Wallet) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Wallet, error)

	// Credit atomically increases the balance of an active wallet
	Credit(ctx context.Context, userID uuid.UUID, amount int64) error

	// Debit atomically decreases the balance if and only if sufficient
	// funds exist. Returns ErrInsufficientBalance otherwise.
	Debit(ctx context.Context, userID uuid.UUID, amount int64) error

	WithTx(tx pgx.Tx) Repository
}

// ErrWalletNotFound indicates missing wallet
type ErrWalletNotFound struct {
	UserID uuid.UUID
}

func (e ErrWalletNotFound) Error() string {
	return "wallet not found for user: " + e.UserID.String()
}

// Is implements the errors.Is interface for ErrWalletNotFound
func (e ErrWalletNotFound) Is(target error) bool {
	t, ok := target.(ErrWalletNotFound)
	if !ok {
		return false
	}
	if t.UserID == uuid.Nil {
		return true
	}
	return e.UserID == t.UserID
}

// ErrWalletSuspended indicates the account may not take part in payments
type ErrWalletSuspended struct {
	UserID uuid.UUID
}

func (e ErrWalletSuspended) Error() string {
	return "wallet is suspended for user: " + e.UserID.String()
}

// Is implements the errors.Is interface for ErrWalletSuspended
func (e ErrWalletSuspended) Is(target error) bool {
	t, ok := target.(ErrWalletSuspended)
	if !ok {
		return false
	}
	if t.UserID == uuid.Nil {
		return true
	}
	return e.UserID == t.UserID
}

// ErrDuplicateWallet indicates the user already owns a wallet
type ErrDuplicateWallet struct {
	UserID uuid.UUID
}

func (e ErrDuplicateWallet) Error() string {
	return "wallet already exists for user: " + e.UserID.String()
}
