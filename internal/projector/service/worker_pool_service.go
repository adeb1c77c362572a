package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gigmarket-payments/internal/domain/transaction"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolProjectionService fans projection work out over a bounded worker
// pool while keeping the caller's at-least-once semantics: the caller blocks
// until its event is applied, so the consumer still commits offsets only
// after a successful projection.
type WorkerPoolProjectionService struct {
	baseService ProjectionService
	pool        *ants.Pool
	logger      *slog.Logger
	// Use a mutex to protect access to the results map
	mu      sync.Mutex
	results map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProjectionService(
	baseService ProjectionService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProjectionService, error) {
	// Create a new worker pool with the specified size
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProjectionService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// ProjectTransaction submits the event to the worker pool and waits for the
// outcome
func (s *WorkerPoolProjectionService) ProjectTransaction(ctx context.Context, txn *transaction.Transaction) error {
	logger := s.logger
	if txn.CorrelationID != "" {
		logger = s.logger.With("correlation_id", txn.CorrelationID)
	}

	logger.Debug("Submitting payment event to worker pool",
		"transaction_id", txn.ID.String(),
		"status", string(txn.Status),
	)

	// Create a channel to receive the result of the projection
	resultChan := make(chan error, 1)

	// Store the result channel in the result map
	transactionID := txn.ID.String()
	s.mu.Lock()
	s.results[transactionID] = resultChan
	s.mu.Unlock()

	// Create a copy of the transaction to avoid data races
	txnCopy := *txn

	// Submit the task to the worker pool
	err := s.pool.Submit(func() {
		// Project the transaction using the base service
		err := s.baseService.ProjectTransaction(ctx, &txnCopy)

		// Send the result to the channel
		resultChan <- err

		// Remove the result channel from the map
		s.mu.Lock()
		delete(s.results, transactionID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		// If we couldn't submit the task to the pool, remove the result channel
		s.mu.Lock()
		delete(s.results, transactionID)
		close(resultChan)
		s.mu.Unlock()

		logger.Error("Failed to submit payment event to worker pool",
			"transaction_id", txn.ID.String(),
			"error", err,
		)
		return err
	}

	// Wait for the result from the worker
	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolProjectionService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolProjectionService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolProjectionService) Capacity() int {
	return s.pool.Cap()
}
