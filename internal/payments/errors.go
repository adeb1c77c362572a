package payments

import (
	"errors"

	"github.com/gigmarket-payments/internal/gateway"
)

// Validation errors raised before any transaction is created or any wallet
// is touched
var (
	ErrSelfPayment           = errors.New("sender and receiver must differ")
	ErrAccessDenied          = errors.New("job does not belong to this employer")
	ErrNoAssignedWorker      = errors.New("job has no such worker assigned")
	ErrJobNotCompleted       = errors.New("job is not completed")
	ErrMilestoneNotCompleted = errors.New("milestone is not completed")
	ErrNotCompleted          = errors.New("transaction is not completed")
	ErrNotEscrowHold         = errors.New("transaction is not an escrow hold")
)

// ErrPaymentDeclined indicates the payment processor refused the charge.
// The transaction has already been marked failed when this surfaces.
type ErrPaymentDeclined struct {
	Reason gateway.DeclineReason
}

func (e ErrPaymentDeclined) Error() string {
	return "payment declined: " + string(e.Reason)
}

// Is implements the errors.Is interface for ErrPaymentDeclined
func (e ErrPaymentDeclined) Is(target error) bool {
	t, ok := target.(ErrPaymentDeclined)
	if !ok {
		return false
	}
	if t.Reason == "" {
		return true
	}
	return e.Reason == t.Reason
}

// ErrAmountMismatch indicates a milestone payment whose amount does not equal
// the milestone's amount to the cent
type ErrAmountMismatch struct {
	Expected int64
	Actual   int64
}

func (e ErrAmountMismatch) Error() string {
	return "payment amount does not match milestone amount"
}

// Is implements the errors.Is interface for ErrAmountMismatch
func (e ErrAmountMismatch) Is(target error) bool {
	t, ok := target.(ErrAmountMismatch)
	if !ok {
		return false
	}
	if t.Expected == 0 && t.Actual == 0 {
		return true
	}
	return e.Expected == t.Expected && e.Actual == t.Actual
}
