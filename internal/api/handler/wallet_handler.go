package handler

import (
	"log/slog"
	"time"

	"github.com/gigmarket-payments/internal/domain/wallet"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler handles HTTP requests for wallet operations
type WalletHandler struct {
	paymentService PaymentService
	logger         *slog.Logger
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(logger *slog.Logger, paymentService PaymentService) *WalletHandler {
	return &WalletHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// Create provisions a wallet for a marketplace user
func (h *WalletHandler) Create(c *gin.Context) {
	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		RespondBadRequest(c, "Invalid user ID")
		return
	}

	w, err := h.paymentService.CreateWallet(requestContext(c), userID, req.InitialBalance)
	if err != nil {
		h.logger.Error("Failed to create wallet", "user_id", req.UserID, "error", err)
		respondPaymentError(c, err)
		return
	}

	RespondCreated(c, mapWalletToResponse(w))
}

// GetByUserID retrieves a user's wallet, returning 404 if not found
func (h *WalletHandler) GetByUserID(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	w, err := h.paymentService.GetWallet(requestContext(c), userID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	RespondOK(c, mapWalletToResponse(w))
}

// Deposit tops up a wallet from an external funding source
func (h *WalletHandler) Deposit(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req MoveFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	txn, err := h.paymentService.Deposit(requestContext(c), userID, req.Amount, req.Description)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(txn))
}

// Withdraw pays out wallet funds to an external destination
func (h *WalletHandler) Withdraw(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req MoveFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	txn, err := h.paymentService.Withdraw(requestContext(c), userID, req.Amount, req.Description)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(txn))
}

// mapWalletToResponse maps a wallet entity to a wallet response DTO
func mapWalletToResponse(w *wallet.Wallet) WalletResponse {
	return WalletResponse{
		UserID:    w.UserID.String(),
		Balance:   w.Balance,
		Status:    string(w.Status),
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
		UpdatedAt: w.UpdatedAt.Format(time.RFC3339),
	}
}
