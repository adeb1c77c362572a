package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"log/slog"

	"github.com/gigmarket-payments/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProjectionService mocks the service.ProjectionService interface
type MockProjectionService struct {
	mock.Mock
}

func (m *MockProjectionService) ProjectTransaction(ctx context.Context, txn *transaction.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

// MockDeadLetterPublisher mocks the producers.DeadLetterPublisher interface
type MockDeadLetterPublisher struct {
	mock.Mock
}

func (m *MockDeadLetterPublisher) PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error {
	args := m.Called(ctx, key, originalMessageValue, reason)
	return args.Error(0)
}

func (m *MockDeadLetterPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestPaymentEventHandler_HandleMessage(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	txn, err := transaction.New(transaction.TypePeerPayment, uuid.New(), uuid.New(), 2500, "lunch", transaction.Links{})
	require.NoError(t, err)
	require.NoError(t, txn.Complete())
	txnJSON, err := json.Marshal(txn)
	require.NoError(t, err)

	key := []byte(txn.ID.String())

	t.Run("projects a valid event and commits", func(t *testing.T) {
		mockService := &MockProjectionService{}
		mockDLQ := &MockDeadLetterPublisher{}
		handler := NewPaymentEventHandler(logger, mockService, mockDLQ)

		mockService.On("ProjectTransaction", mock.Anything, mock.MatchedBy(func(projected *transaction.Transaction) bool {
			return projected.ID == txn.ID && projected.Status == transaction.StatusCompleted
		})).Return(nil).Once()

		err := handler.HandleMessage(ctx, key, txnJSON)
		assert.NoError(t, err)
		mockService.AssertExpectations(t)
		mockDLQ.AssertNotCalled(t, "PublishToDLQ", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("projection failure stays uncommitted for redelivery", func(t *testing.T) {
		mockService := &MockProjectionService{}
		mockDLQ := &MockDeadLetterPublisher{}
		handler := NewPaymentEventHandler(logger, mockService, mockDLQ)

		mockService.On("ProjectTransaction", mock.Anything, mock.Anything).Return(errors.New("mongo down")).Once()

		err := handler.HandleMessage(ctx, key, txnJSON)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "projecting payment event")
		mockDLQ.AssertNotCalled(t, "PublishToDLQ", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("poison message goes to the DLQ and commits", func(t *testing.T) {
		mockService := &MockProjectionService{}
		mockDLQ := &MockDeadLetterPublisher{}
		handler := NewPaymentEventHandler(logger, mockService, mockDLQ)

		poison := []byte("not json")
		mockDLQ.On("PublishToDLQ", mock.Anything, "bad-key", poison, mock.Anything).Return(nil).Once()

		err := handler.HandleMessage(ctx, []byte("bad-key"), poison)
		assert.NoError(t, err)
		mockDLQ.AssertExpectations(t)
		mockService.AssertNotCalled(t, "ProjectTransaction", mock.Anything, mock.Anything)
	})

	t.Run("poison message with failing DLQ returns the unmarshal error", func(t *testing.T) {
		mockService := &MockProjectionService{}
		mockDLQ := &MockDeadLetterPublisher{}
		handler := NewPaymentEventHandler(logger, mockService, mockDLQ)

		poison := []byte("not json")
		mockDLQ.On("PublishToDLQ", mock.Anything, "bad-key", poison, mock.Anything).Return(errors.New("kafka down")).Once()

		err := handler.HandleMessage(ctx, []byte("bad-key"), poison)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal")
	})

	t.Run("poison message without a DLQ returns the unmarshal error", func(t *testing.T) {
		mockService := &MockProjectionService{}
		handler := NewPaymentEventHandler(logger, mockService, nil)

		err := handler.HandleMessage(ctx, []byte("bad-key"), []byte("not json"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal")
	})
}
