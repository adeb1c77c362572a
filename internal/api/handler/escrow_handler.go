package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EscrowHandler handles HTTP requests for escrow operations
type EscrowHandler struct {
	paymentService PaymentService
	logger         *slog.Logger
}

// NewEscrowHandler creates a new escrow handler
func NewEscrowHandler(logger *slog.Logger, paymentService PaymentService) *EscrowHandler {
	return &EscrowHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// Quote returns the amount a job requires in escrow without moving funds
func (h *EscrowHandler) Quote(c *gin.Context) {
	jobID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	amount, err := h.paymentService.CalculateEscrowAmount(requestContext(c), jobID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	RespondOK(c, EscrowQuoteResponse{
		JobID:  jobID.String(),
		Amount: amount,
	})
}

// Hold funds the escrow for a job from the employer's wallet
func (h *EscrowHandler) Hold(c *gin.Context) {
	jobID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req HoldEscrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	employerID, err := uuid.Parse(req.EmployerID)
	if err != nil {
		RespondBadRequest(c, "Invalid employer ID")
		return
	}

	hold, err := h.paymentService.HoldEscrow(requestContext(c), employerID, jobID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(hold))
}

// Release pays a pending escrow hold out to the given payee
func (h *EscrowHandler) Release(c *gin.Context) {
	holdID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req ReleaseEscrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	toUserID, err := uuid.Parse(req.ToUserID)
	if err != nil {
		RespondBadRequest(c, "Invalid payee user ID")
		return
	}

	release, err := h.paymentService.ReleaseEscrow(requestContext(c), holdID, toUserID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(release))
}

// Cancel voids a pending escrow hold and returns the funds to the employer
func (h *EscrowHandler) Cancel(c *gin.Context) {
	holdID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	txn, err := h.paymentService.CancelEscrow(requestContext(c), holdID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(txn))
}
