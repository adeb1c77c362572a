package handler

import (
	"log/slog"

	"github.com/gigmarket-payments/internal/domain/transaction"
	"github.com/gigmarket-payments/internal/payments"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles HTTP requests for payment operations
type PaymentHandler struct {
	paymentService PaymentService
	logger         *slog.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(logger *slog.Logger, paymentService PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// Create settles a direct payment between two users (peer payment or bonus)
func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	from, err := uuid.Parse(req.FromUserID)
	if err != nil {
		RespondBadRequest(c, "Invalid sender user ID")
		return
	}
	to, err := uuid.Parse(req.ToUserID)
	if err != nil {
		RespondBadRequest(c, "Invalid receiver user ID")
		return
	}

	txn, err := h.paymentService.ProcessPayment(requestContext(c),
		transaction.Type(req.Type), from, to, req.Amount, req.Description, transaction.Links{})
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(txn))
}

// PayJob pays a completed job to its assigned worker
func (h *PaymentHandler) PayJob(c *gin.Context) {
	var req JobPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	employerID, err := uuid.Parse(req.EmployerID)
	if err != nil {
		RespondBadRequest(c, "Invalid employer ID")
		return
	}
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		RespondBadRequest(c, "Invalid job ID")
		return
	}
	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		RespondBadRequest(c, "Invalid worker ID")
		return
	}

	txn, err := h.paymentService.ProcessJobPayment(requestContext(c), employerID, jobID, workerID, req.Amount, req.Description)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(txn))
}

// PayMilestone pays a completed milestone to the assigned worker
func (h *PaymentHandler) PayMilestone(c *gin.Context) {
	var req MilestonePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	employerID, err := uuid.Parse(req.EmployerID)
	if err != nil {
		RespondBadRequest(c, "Invalid employer ID")
		return
	}
	milestoneID, err := uuid.Parse(req.MilestoneID)
	if err != nil {
		RespondBadRequest(c, "Invalid milestone ID")
		return
	}

	txn, err := h.paymentService.ProcessMilestonePayment(requestContext(c), employerID, milestoneID, req.Amount)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(txn))
}

// RunPayroll settles a payroll run item by item and reports per-item outcomes
func (h *PaymentHandler) RunPayroll(c *gin.Context) {
	var req PayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	employerID, err := uuid.Parse(req.EmployerID)
	if err != nil {
		RespondBadRequest(c, "Invalid employer ID")
		return
	}
	payrollID, err := uuid.Parse(req.PayrollID)
	if err != nil {
		RespondBadRequest(c, "Invalid payroll ID")
		return
	}

	items := make([]payments.PayrollItem, 0, len(req.Items))
	for _, item := range req.Items {
		workerID, err := uuid.Parse(item.WorkerID)
		if err != nil {
			RespondBadRequest(c, "Invalid worker ID: "+item.WorkerID)
			return
		}
		items = append(items, payments.PayrollItem{
			WorkerID:    workerID,
			Amount:      item.Amount,
			Description: item.Description,
		})
	}

	results := h.paymentService.ProcessPayroll(requestContext(c), employerID, payrollID, items)

	responses := make([]PayrollItemResponse, 0, len(results))
	for _, result := range results {
		item := PayrollItemResponse{WorkerID: result.WorkerID.String()}
		if result.Transaction != nil {
			mapped := mapTransactionToResponse(result.Transaction)
			item.Transaction = &mapped
		}
		if result.Err != nil {
			item.Error = result.Err.Error()
		}
		responses = append(responses, item)
	}

	RespondOK(c, responses)
}

// QuoteFee estimates the platform fee for a payment of the given type and
// amount without moving any funds
func (h *PaymentHandler) QuoteFee(c *gin.Context) {
	var req FeeQuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		RespondBadRequest(c, "Invalid fee quote parameters")
		return
	}

	fee := payments.CalculateTransactionFee(req.Amount, transaction.Type(req.Type))
	RespondOK(c, FeeQuoteResponse{
		Type:   req.Type,
		Amount: req.Amount,
		Fee:    fee,
		Net:    req.Amount - fee,
	})
}
