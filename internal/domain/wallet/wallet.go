package wallet

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

// Status describes whether a wallet may take part in payments
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Wallet holds the spendable balance of one marketplace user.
// The balance is stored in minor units (cents) and is never negative.
type Wallet struct {
	UserID    uuid.UUID `json:"user_id"`
	Balance   int64     `json:"balance"` // Stored in cents/minor units
	Status    Status    `json:"status"`
	Version   int       `json:"version"` // For optimistic locking
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewWallet creates an active wallet for the given user
func NewWallet(userID uuid.UUID, initialBalance int64) (*Wallet, error) {
	if userID == uuid.Nil {
		return nil, ErrWalletNotFound{UserID: userID}
	}
	if initialBalance < 0 {
		return nil, ErrInvalidAmount
	}

	return &Wallet{
		UserID:    userID,
		Balance:   initialBalance,
		Status:    StatusActive,
		Version:   1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// IsActive reports whether the wallet may send or receive payments
func (w *Wallet) IsActive() bool {
	return w.Status == StatusActive
}

// Credit adds the specified amount to the wallet balance
func (w *Wallet) Credit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	w.Balance += amount
	w.UpdatedAt = time.Now()
	w.Version++
	return nil
}

// Debit subtracts the specified amount from the wallet balance
func (w *Wallet) Debit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if w.Balance < amount {
		return ErrInsufficientBalance
	}

	w.Balance -= amount
	w.UpdatedAt = time.Now()
	w.Version++
	return nil
}

// CanDebit checks if the wallet has sufficient funds for a debit
func (w *Wallet) CanDebit(amount int64) bool {
	return w.Balance >= amount
}
