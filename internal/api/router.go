package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gigmarket-payments/internal/api/handler"
	"github.com/gigmarket-payments/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	walletHandler *handler.WalletHandler,
	paymentHandler *handler.PaymentHandler,
	transactionHandler *handler.TransactionHandler,
	escrowHandler *handler.EscrowHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Wallet operations
		wallets := v1.Group("/wallets")
		{
			wallets.POST("", walletHandler.Create)
			wallets.GET("/:id", walletHandler.GetByUserID)
			wallets.POST("/:id/deposit", walletHandler.Deposit)
			wallets.POST("/:id/withdraw", walletHandler.Withdraw)
			wallets.GET("/:id/transactions", transactionHandler.GetHistoryByUserID)
		}

		// Payment operations
		payments := v1.Group("/payments")
		{
			payments.POST("", paymentHandler.Create)
			payments.POST("/job", paymentHandler.PayJob)
			payments.POST("/milestone", paymentHandler.PayMilestone)
			payments.POST("/payroll", paymentHandler.RunPayroll)
			payments.GET("/fees", paymentHandler.QuoteFee)
		}

		// Transaction operations
		transactions := v1.Group("/transactions")
		{
			transactions.GET("/:id", transactionHandler.GetByID)
			transactions.GET("/reference/:reference", transactionHandler.GetByReference)
			transactions.POST("/:id/refund", transactionHandler.Refund)
			transactions.POST("/:id/cancel", transactionHandler.Cancel)
		}

		// Escrow operations
		jobs := v1.Group("/jobs")
		{
			jobs.GET("/:id/escrow/quote", escrowHandler.Quote)
			jobs.POST("/:id/escrow", escrowHandler.Hold)
		}
		escrow := v1.Group("/escrow")
		{
			escrow.POST("/:id/release", escrowHandler.Release)
			escrow.POST("/:id/cancel", escrowHandler.Cancel)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
