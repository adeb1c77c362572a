package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gigmarket-payments/internal/api/middleware"
	"github.com/gigmarket-payments/internal/domain/job"
	"github.com/gigmarket-payments/internal/domain/transaction"
	"github.com/gigmarket-payments/internal/domain/wallet"
	"github.com/gigmarket-payments/internal/payments"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondPaymentError translates orchestrator errors into HTTP responses.
// Every payment endpoint funnels its service errors through here so the
// status mapping stays consistent across handlers.
func respondPaymentError(c *gin.Context, err error) {
	var (
		walletNotFound   wallet.ErrWalletNotFound
		walletSuspended  wallet.ErrWalletSuspended
		duplicateWallet  wallet.ErrDuplicateWallet
		txnNotFound      transaction.ErrTransactionNotFound
		alreadyProcessed transaction.ErrAlreadyProcessed
		jobNotFound      job.ErrJobNotFound
		mstoneNotFound   job.ErrMilestoneNotFound
		mstoneNotPayable job.ErrMilestoneNotPayable
		declined         payments.ErrPaymentDeclined
		amountMismatch   payments.ErrAmountMismatch
	)

	switch {
	case errors.As(err, &walletNotFound):
		RespondNotFound(c, "Wallet not found")
	case errors.As(err, &txnNotFound):
		RespondNotFound(c, "Transaction not found")
	case errors.As(err, &jobNotFound):
		RespondNotFound(c, "Job not found")
	case errors.As(err, &mstoneNotFound):
		RespondNotFound(c, "Milestone not found")
	case errors.As(err, &walletSuspended):
		RespondForbidden(c, "Wallet is suspended")
	case errors.Is(err, payments.ErrAccessDenied):
		RespondForbidden(c, "Job does not belong to this employer")
	case errors.As(err, &duplicateWallet):
		RespondConflict(c, "Wallet already exists for this user")
	case errors.As(err, &alreadyProcessed):
		RespondConflict(c, "Transaction has already been processed")
	case errors.As(err, &mstoneNotPayable):
		RespondConflict(c, "Milestone is not payable")
	case errors.As(err, &declined):
		RespondPaymentDeclined(c, declined.Error())
	case errors.Is(err, wallet.ErrInsufficientBalance):
		RespondUnprocessable(c, "INSUFFICIENT_BALANCE", "Insufficient wallet balance")
	case errors.As(err, &amountMismatch):
		RespondUnprocessable(c, "AMOUNT_MISMATCH", "Payment amount does not match the milestone amount")
	case errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, transaction.ErrInvalidAmount),
		errors.Is(err, transaction.ErrInvalidType),
		errors.Is(err, payments.ErrSelfPayment),
		errors.Is(err, payments.ErrNoAssignedWorker),
		errors.Is(err, payments.ErrJobNotCompleted),
		errors.Is(err, payments.ErrMilestoneNotCompleted),
		errors.Is(err, payments.ErrNotCompleted),
		errors.Is(err, payments.ErrNotEscrowHold):
		RespondBadRequest(c, err.Error())
	default:
		RespondInternalError(c)
	}
}

// requestContext returns the request context stamped with the correlation ID
// so the orchestrator records it on created transactions
func requestContext(c *gin.Context) context.Context {
	return payments.WithCorrelationID(c.Request.Context(), middleware.GetCorrelationID(c))
}

// parseUUIDParam parses a path parameter as a UUID
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondBadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// mapTransactionToResponse maps a ledger transaction to its response DTO
func mapTransactionToResponse(txn *transaction.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:            txn.ID.String(),
		Type:          string(txn.Type),
		FromUserID:    txn.FromUserID.String(),
		ToUserID:      txn.ToUserID.String(),
		Amount:        txn.Amount,
		Status:        string(txn.Status),
		Reference:     txn.Reference,
		Description:   txn.Description,
		FailureReason: txn.FailureReason,
		CreatedAt:     txn.CreatedAt.Format(time.RFC3339),
	}

	if txn.Links.JobID != nil {
		response.JobID = txn.Links.JobID.String()
	}
	if txn.Links.MilestoneID != nil {
		response.MilestoneID = txn.Links.MilestoneID.String()
	}
	if txn.Links.PayrollID != nil {
		response.PayrollID = txn.Links.PayrollID.String()
	}
	if txn.Links.OriginalTransactionID != nil {
		response.OriginalID = txn.Links.OriginalTransactionID.String()
	}
	if txn.CompletedAt != nil {
		response.CompletedAt = txn.CompletedAt.Format(time.RFC3339)
	}
	if txn.FailedAt != nil {
		response.FailedAt = txn.FailedAt.Format(time.RFC3339)
	}

	return response
}
