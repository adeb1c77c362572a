package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gigmarket-payments/internal/domain/history"
	"github.com/gin-gonic/gin"
)

// TransactionHandler handles HTTP requests for transaction lookups, refunds,
// cancellations and per-user history
type TransactionHandler struct {
	paymentService PaymentService
	historyService HistoryService
	logger         *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, paymentService PaymentService, historyService HistoryService) *TransactionHandler {
	return &TransactionHandler{
		paymentService: paymentService,
		historyService: historyService,
		logger:         logger,
	}
}

// GetByID retrieves a ledger transaction by its ID, returns 404 if not found
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	txn, err := h.paymentService.GetTransaction(requestContext(c), id)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(txn))
}

// GetByReference retrieves a ledger transaction by its reference code
func (h *TransactionHandler) GetByReference(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		RespondBadRequest(c, "Invalid reference")
		return
	}

	txn, err := h.paymentService.GetTransactionByReference(requestContext(c), reference)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(txn))
}

// Refund reverses a completed transaction in full
func (h *TransactionHandler) Refund(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	refund, err := h.paymentService.ProcessRefund(requestContext(c), id, req.Reason)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(refund))
}

// Cancel voids a pending transaction
func (h *TransactionHandler) Cancel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	txn, err := h.paymentService.CancelTransaction(requestContext(c), id)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(txn))
}

// GetHistoryByUserID retrieves the paginated payment history for a user from
// the read model
func (h *TransactionHandler) GetHistoryByUserID(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	records, total, err := h.historyService.GetByUserID(
		c.Request.Context(),
		userID,
		pagination.Page,
		pagination.PerPage,
	)
	if err != nil {
		h.logger.Error("Failed to get payment history", "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	var transactions []TransactionResponse
	for _, record := range records {
		transactions = append(transactions, mapHistoryRecordToResponse(record))
	}

	RespondWithPaginatedData(c, http.StatusOK, transactions, pagination.Page, pagination.PerPage, int(total))
}

// mapHistoryRecordToResponse maps a history record to a transaction response DTO
func mapHistoryRecordToResponse(record *history.Record) TransactionResponse {
	response := TransactionResponse{
		ID:            record.TransactionID.String(),
		Type:          string(record.Type),
		FromUserID:    record.FromUserID.String(),
		ToUserID:      record.ToUserID.String(),
		Amount:        record.Amount,
		Status:        string(record.Status),
		Reference:     record.Reference,
		Description:   record.Description,
		FailureReason: record.FailureReason,
		CreatedAt:     record.CreatedAt.Format(time.RFC3339),
	}

	if record.JobID != nil {
		response.JobID = record.JobID.String()
	}
	if record.MilestoneID != nil {
		response.MilestoneID = record.MilestoneID.String()
	}
	if record.PayrollID != nil {
		response.PayrollID = record.PayrollID.String()
	}
	if record.OriginalID != nil {
		response.OriginalID = record.OriginalID.String()
	}
	if record.CompletedAt != nil {
		response.CompletedAt = record.CompletedAt.Format(time.RFC3339)
	}
	if record.FailedAt != nil {
		response.FailedAt = record.FailedAt.Format(time.RFC3339)
	}

	return response
}
