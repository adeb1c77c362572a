package job

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository is the read-mostly access the payment engine has to jobs and
// milestones. MarkMilestonePaid is the only mutation and is conditional on
// the milestone still being in completed status.
type Repository interface {
	GetJob(ctx context.Context, id uuid.UUID) (*Job, error)
	GetMilestone(ctx context.Context, id uuid.UUID) (*Milestone, error)

	// SumMilestoneAmounts returns the total of all milestone amounts
	// attached to the job, zero if none are defined yet.
	SumMilestoneAmounts(ctx context.Context, jobID uuid.UUID) (int64, error)

	// MarkMilestonePaid moves a completed milestone to paid.
	// Returns ErrMilestoneNotPayable if the milestone is not completed.
	MarkMilestonePaid(ctx context.Context, id uuid.UUID) error

	WithTx(tx pgx.Tx) Repository
}

// ErrJobNotFound indicates missing job
type ErrJobNotFound struct {
	ID uuid.UUID
}

func (e ErrJobNotFound) Error() string {
	return "job not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrJobNotFound
func (e ErrJobNotFound) Is(target error) bool {
	t, ok := target.(ErrJobNotFound)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}

// ErrMilestoneNotFound indicates missing milestone
type ErrMilestoneNotFound struct {
	ID uuid.UUID
}

func (e ErrMilestoneNotFound) Error() string {
	return "milestone not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrMilestoneNotFound
func (e ErrMilestoneNotFound) Is(target error) bool {
	t, ok := target.(ErrMilestoneNotFound)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}

// ErrMilestoneNotPayable indicates the milestone already left completed status
type ErrMilestoneNotPayable struct {
	ID uuid.UUID
}

func (e ErrMilestoneNotPayable) Error() string {
	return "milestone is not payable: " + e.ID.String()
}
