package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gigmarket-payments/internal/domain/job"
	"github.com/gigmarket-payments/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// JobRepository implements the job.Repository interface for PostgreSQL.
// The jobs and milestones tables are owned by the marketplace's job
// subsystem; this repository reads them and performs the single write the
// payment engine is allowed: milestone completed -> paid.
type JobRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewJobRepository creates a new PostgreSQL job repository
func NewJobRepository(logger *slog.Logger, db *persistence.PostgresDB) job.Repository {
	return &JobRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so the milestone status
// change commits atomically with the payment that settles it
func (r *JobRepository) WithTx(tx pgx.Tx) job.Repository {
	return &JobRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// GetJob retrieves the payment-relevant view of a job
func (r *JobRepository) GetJob(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	query := `
		SELECT id, employer_id, worker_id, type, status, budget, created_at
		FROM jobs
		WHERE id = $1
	`

	var j job.Job
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&j.ID,
		&j.EmployerID,
		&j.WorkerID,
		&j.Type,
		&j.Status,
		&j.Budget,
		&j.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, job.ErrJobNotFound{ID: id}
		}
		r.logger.Error("Failed to get job", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &j, nil
}

// GetMilestone retrieves the payment-relevant view of a milestone
func (r *JobRepository) GetMilestone(ctx context.Context, id uuid.UUID) (*job.Milestone, error) {
	query := `
		SELECT id, job_id, amount, status, created_at
		FROM milestones
		WHERE id = $1
	`

	var m job.Milestone
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.JobID,
		&m.Amount,
		&m.Status,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, job.ErrMilestoneNotFound{ID: id}
		}
		r.logger.Error("Failed to get milestone", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get milestone: %w", err)
	}

	return &m, nil
}

// SumMilestoneAmounts returns the total of all milestone amounts attached to
// the job, zero if none are defined yet
func (r *JobRepository) SumMilestoneAmounts(ctx context.Context, jobID uuid.UUID) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM milestones
		WHERE job_id = $1
	`

	var total int64
	if err := r.querier.QueryRow(ctx, query, jobID).Scan(&total); err != nil {
		r.logger.Error("Failed to sum milestone amounts", "job_id", jobID.String(), "error", err)
		return 0, fmt.Errorf("failed to sum milestone amounts: %w", err)
	}

	return total, nil
}

// MarkMilestonePaid moves a completed milestone to paid. The status check
// runs inside the UPDATE so a milestone can be paid at most once.
func (r *JobRepository) MarkMilestonePaid(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE milestones
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := r.querier.Exec(ctx, query, job.MilestoneStatusPaid, id, job.MilestoneStatusCompleted)
	if err != nil {
		r.logger.Error("Failed to mark milestone paid", "id", id.String(), "error", err)
		return fmt.Errorf("failed to mark milestone paid: %w", err)
	}

	if result.RowsAffected() == 0 {
		return job.ErrMilestoneNotPayable{ID: id}
	}

	return nil
}
