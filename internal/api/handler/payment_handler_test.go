package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gigmarket-payments/internal/api/handler"
	"github.com/gigmarket-payments/internal/domain/job"
	"github.com/gigmarket-payments/internal/domain/transaction"
	"github.com/gigmarket-payments/internal/gateway"
	"github.com/gigmarket-payments/internal/payments"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupPaymentRouter(mockService *MockPaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	paymentHandler := handler.NewPaymentHandler(slog.Default(), mockService)

	router := gin.New()
	router.POST("/api/v1/payments", paymentHandler.Create)
	router.POST("/api/v1/payments/job", paymentHandler.PayJob)
	router.POST("/api/v1/payments/milestone", paymentHandler.PayMilestone)
	router.POST("/api/v1/payments/payroll", paymentHandler.RunPayroll)
	router.GET("/api/v1/payments/fees", paymentHandler.QuoteFee)
	return router
}

func TestPaymentHandler_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := &MockPaymentService{}
		router := setupPaymentRouter(mockService)

		from := uuid.New()
		to := uuid.New()
		txn := newCompletedTransaction(t, transaction.TypePeerPayment, 2500)
		mockService.On("ProcessPayment", mock.Anything, transaction.TypePeerPayment, from, to,
			int64(2500), "lunch", transaction.Links{}).Return(txn, nil).Once()

		body, _ := json.Marshal(handler.CreatePaymentRequest{
			Type:        "peer_payment",
			FromUserID:  from.String(),
			ToUserID:    to.String(),
			Amount:      2500,
			Description: "lunch",
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusCreated, resp.Code)

		var txnResponse handler.TransactionResponse
		decodeData(t, resp.Body.Bytes(), &txnResponse)
		assert.Equal(t, txn.ID.String(), txnResponse.ID)
		assert.Equal(t, "peer_payment", txnResponse.Type)
		assert.Equal(t, string(transaction.StatusCompleted), txnResponse.Status)
		mockService.AssertExpectations(t)
	})

	t.Run("UnknownType", func(t *testing.T) {
		mockService := &MockPaymentService{}
		router := setupPaymentRouter(mockService)

		body, _ := json.Marshal(handler.CreatePaymentRequest{
			Type:       "job_payment",
			FromUserID: uuid.NewString(),
			ToUserID:   uuid.NewString(),
			Amount:     2500,
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		mockService.AssertNotCalled(t, "ProcessPayment",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PaymentDeclined", func(t *testing.T) {
		mockService := &MockPaymentService{}
		router := setupPaymentRouter(mockService)

		from := uuid.New()
		to := uuid.New()
		mockService.On("ProcessPayment", mock.Anything, transaction.TypeBonus, from, to,
			int64(5000), "", transaction.Links{}).
			Return(nil, payments.ErrPaymentDeclined{Reason: gateway.DeclineCardDeclined}).Once()

		body, _ := json.Marshal(handler.CreatePaymentRequest{
			Type:       "bonus",
			FromUserID: from.String(),
			ToUserID:   to.String(),
			Amount:     5000,
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusPaymentRequired, resp.Code)
		errInfo := decodeError(t, resp.Body.Bytes())
		assert.Equal(t, "PAYMENT_DECLINED", errInfo.Code)
		assert.Contains(t, errInfo.Message, string(gateway.DeclineCardDeclined))
	})

	t.Run("SelfPayment", func(t *testing.T) {
		mockService := &MockPaymentService{}
		router := setupPaymentRouter(mockService)

		userID := uuid.New()
		mockService.On("ProcessPayment", mock.Anything, transaction.TypePeerPayment, userID, userID,
			int64(100), "", transaction.Links{}).Return(nil, payments.ErrSelfPayment).Once()

		body, _ := json.Marshal(handler.CreatePaymentRequest{
			Type:       "peer_payment",
			FromUserID: userID.String(),
			ToUserID:   userID.String(),
			Amount:     100,
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService := &MockPaymentService{}
		router := setupPaymentRouter(mockService)

		from := uuid.New()
		to := uuid.New()
		mockService.On("ProcessPayment", mock.Anything, transaction.TypePeerPayment, from, to,
			int64(100), "", transaction.Links{}).Return(nil, errors.New("db down")).Once()

		body, _ := json.Marshal(handler.CreatePaymentRequest{
			Type:       "peer_payment",
			FromUserID: from.String(),
			ToUserID:   to.String(),
			Amount:     100,
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
		assert.Equal(t, "INTERNAL_SERVER_ERROR", decodeError(t, resp.Body.Bytes()).Code)
	})
}

func TestPaymentHandler_PayJob(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := &MockPaymentService{}
		router := setupPaymentRouter(mockService)

		employerID := uuid.New()
		jobID := uuid.New()
		workerID := uuid.New()
		txn := newCompletedTransaction(t, transaction.TypeJobPayment, 150000)
		txn.Links.JobID = &jobID
		mockService.On("ProcessJobPayment", mock.Anything, employerID, jobID, workerID, int64(150000), "final delivery").
			Return(txn, nil).Once()

		body, _ := json.Marshal(handler.JobPaymentRequest{
			EmployerID:  employerID.String(),
			JobID:       jobID.String(),
			WorkerID:    workerID.String(),
			Amount:      150000,
			Description: "final delivery",
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments/job", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusCreated, resp.Code)

		var txnResponse handler.TransactionResponse
		decodeData(t, resp.Body.Bytes(), &txnResponse)
		assert.Equal(t, jobID.String(), txnResponse.JobID)
		mockService.AssertExpectations(t)
	})

	t.Run("JobNotFound", func(t *testing.T) {
		mockService := &MockPaymentService{}
		router := setupPaymentRouter(mockService)

		employerID := uuid.New()
		jobID := uuid.New()
		workerID := uuid.New()
		mockService.On("ProcessJobPayment", mock.Anything, employerID, jobID, workerID, int64(50000), "").
			Return(nil, job.ErrJobNotFound{ID: jobID}).Once()

		body, _ := json.Marshal(handler.JobPaymentRequest{
			EmployerID: employerID.String(),
			JobID:      jobID.String(),
			WorkerID:   workerID.String(),
			Amount:     50000,
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments/job", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("AccessDenied", func(t *testing.T) {
		mockService := &MockPaymentService{}
		router := setupPaymentRouter(mockService)

		employerID := uuid.New()
		jobID := uuid.New()
		workerID := uuid.New()
		mockService.On("ProcessJobPayment", mock.Anything, employerID, jobID, workerID, int64(50000), "").
			Return(nil, payments.ErrAccessDenied).Once()

		body, _ := json.Marshal(handler.JobPaymentRequest{
			EmployerID: employerID.String(),
			JobID:      jobID.String(),
			WorkerID:   workerID.String(),
			Amount:     50000,
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments/job", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("JobNotCompleted", func(t *testing.T) {
		mockService := &MockPaymentService{}
		router := setupPaymentRouter(mockService)

		employerID := uuid.New()
		jobID := uuid.New()
		workerID := uuid.New()
		mockService.On("ProcessJobPayment", mock.Anything, employerID, jobID, workerID, int64(50000), "").
			Return(nil, payments.ErrJobNotCompleted).Once()

		body, _ := json.Marshal(handler.JobPaymentRequest{
			EmployerID: employerID.String(),
			JobID:      jobID.String(),
			WorkerID:   workerID.String(),
			Amount:     50000,
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments/job", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("MissingAmount", func(t *testing.T) {
		mockService := &MockPaymentService{}
		router := setupPaymentRouter(mockService)

		body, _ := json.Marshal(handler.JobPaymentRequest{
			EmployerID: uuid.NewString(),
			JobID:      uuid.NewString(),
			WorkerID:   uuid.NewString(),
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments/job", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		mockService.AssertNotCalled(t, "ProcessJobPayment",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPaymentHandler_PayMilestone(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := &MockPaymentService{}
		router := setupPaymentRouter(mockService)

		employerID := uuid.New()
		milestoneID := uuid.New()
		txn := newCompletedTransaction(t, transaction.TypeMilestonePayment, 50000)
		txn.Links.MilestoneID = &milestoneID
		mockService.On("ProcessMilestonePayment", mock.Anything, employerID, milestoneID, int64(50000)).
			Return(txn, nil).Once()

		body, _ := json.Marshal(handler.MilestonePaymentRequest{
			EmployerID:  employerID.String(),
			MilestoneID: milestoneID.String(),
			Amount:      50000,
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments/milestone", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusCreated, resp.Code)

		var txnResponse handler.TransactionResponse
		decodeData(t, resp.Body.Bytes(), &txnResponse)
		assert.Equal(t, milestoneID.String(), txnResponse.MilestoneID)
		mockService.AssertExpectations(t)
	})

	t.Run("AmountMismatch", func(t *testing.T) {
		mockService := &MockPaymentService{}
		router := setupPaymentRouter(mockService)

		employerID := uuid.New()
		milestoneID := uuid.New()
		mockService.On("ProcessMilestonePayment", mock.Anything, employerID, milestoneID, int64(49999)).
			Return(nil, payments.ErrAmountMismatch{Expected: 50000, Actual: 49999}).Once()

		body, _ := json.Marshal(handler.MilestonePaymentRequest{
			EmployerID:  employerID.String(),
			MilestoneID: milestoneID.String(),
			Amount:      49999,
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments/milestone", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
		assert.Equal(t, "AMOUNT_MISMATCH", decodeError(t, resp.Body.Bytes()).Code)
	})

	t.Run("MilestoneNotPayable", func(t *testing.T) {
		mockService := &MockPaymentService{}
		router := setupPaymentRouter(mockService)

		employerID := uuid.New()
		milestoneID := uuid.New()
		mockService.On("ProcessMilestonePayment", mock.Anything, employerID, milestoneID, int64(50000)).
			Return(nil, job.ErrMilestoneNotPayable{ID: milestoneID}).Once()

		body, _ := json.Marshal(handler.MilestonePaymentRequest{
			EmployerID:  employerID.String(),
			MilestoneID: milestoneID.String(),
			Amount:      50000,
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments/milestone", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusConflict, resp.Code)
	})
}

func TestPaymentHandler_RunPayroll(t *testing.T) {
	t.Run("ReportsPerItemOutcomes", func(t *testing.T) {
		mockService := &MockPaymentService{}
		router := setupPaymentRouter(mockService)

		employerID := uuid.New()
		payrollID := uuid.New()
		paidWorker := uuid.New()
		missingWorker := uuid.New()

		txn := newCompletedTransaction(t, transaction.TypePayroll, 80000)
		txn.Links.PayrollID = &payrollID
		results := []payments.PayrollResult{
			{WorkerID: paidWorker, Transaction: txn},
			{WorkerID: missingWorker, Err: errors.New("wallet for user " + missingWorker.String() + " not found")},
		}
		mockService.On("ProcessPayroll", mock.Anything, employerID, payrollID,
			mock.MatchedBy(func(items []payments.PayrollItem) bool {
				return len(items) == 2 && items[0].WorkerID == paidWorker && items[1].WorkerID == missingWorker
			})).Return(results).Once()

		body, _ := json.Marshal(handler.PayrollRequest{
			EmployerID: employerID.String(),
			PayrollID:  payrollID.String(),
			Items: []handler.PayrollItemRequest{
				{WorkerID: paidWorker.String(), Amount: 80000, Description: "august"},
				{WorkerID: missingWorker.String(), Amount: 60000},
			},
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments/payroll", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusOK, resp.Code)

		var items []handler.PayrollItemResponse
		decodeData(t, resp.Body.Bytes(), &items)
		require.Len(t, items, 2)
		assert.Equal(t, paidWorker.String(), items[0].WorkerID)
		require.NotNil(t, items[0].Transaction)
		assert.Equal(t, txn.ID.String(), items[0].Transaction.ID)
		assert.Empty(t, items[0].Error)
		assert.Nil(t, items[1].Transaction)
		assert.Contains(t, items[1].Error, "not found")
		mockService.AssertExpectations(t)
	})

	t.Run("EmptyItems", func(t *testing.T) {
		mockService := &MockPaymentService{}
		router := setupPaymentRouter(mockService)

		body, _ := json.Marshal(handler.PayrollRequest{
			EmployerID: uuid.NewString(),
			PayrollID:  uuid.NewString(),
			Items:      []handler.PayrollItemRequest{},
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/payments/payroll", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		mockService.AssertNotCalled(t, "ProcessPayroll", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPaymentHandler_QuoteFee(t *testing.T) {
	t.Run("JobPayment", func(t *testing.T) {
		router := setupPaymentRouter(&MockPaymentService{})

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/payments/fees?type=job_payment&amount=100000", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusOK, resp.Code)

		var quote handler.FeeQuoteResponse
		decodeData(t, resp.Body.Bytes(), &quote)
		assert.Equal(t, int64(100000), quote.Amount)
		assert.Equal(t, int64(2900), quote.Fee)
		assert.Equal(t, int64(97100), quote.Net)
	})

	t.Run("FeeExemptType", func(t *testing.T) {
		router := setupPaymentRouter(&MockPaymentService{})

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/payments/fees?type=peer_payment&amount=100000", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusOK, resp.Code)

		var quote handler.FeeQuoteResponse
		decodeData(t, resp.Body.Bytes(), &quote)
		assert.Equal(t, int64(0), quote.Fee)
		assert.Equal(t, int64(100000), quote.Net)
	})

	t.Run("MissingAmount", func(t *testing.T) {
		router := setupPaymentRouter(&MockPaymentService{})

		req, _ := http.NewRequest(http.MethodGet, "/api/v1/payments/fees?type=job_payment", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}
