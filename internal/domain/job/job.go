// Package job exposes the payment-relevant view of the marketplace's job and
// milestone entities. The job subsystem owns these records; the payment engine
// only reads them and performs a single write: marking a milestone paid.
package job

import (
	"time"

	"github.com/google/uuid"
)

// JobType determines how the escrow amount for a job is computed
type JobType string

const (
	TypeFreelance JobType = "freelance"
	TypePartTime  JobType = "part-time"
	TypeFullTime  JobType = "full-time"
	TypeContract  JobType = "contract"
)

// JobStatus is the job lifecycle as far as payments care about it
type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
)

// MilestoneStatus is the milestone lifecycle. Only a completed milestone may
// be paid; paid is irreversible.
type MilestoneStatus string

const (
	MilestoneStatusUnpaid     MilestoneStatus = "unpaid"
	MilestoneStatusInProgress MilestoneStatus = "in_progress"
	MilestoneStatusCompleted  MilestoneStatus = "completed"
	MilestoneStatusPaid       MilestoneStatus = "paid"
)

// Job carries the fields the payment engine consumes
type Job struct {
	ID         uuid.UUID  `json:"id"`
	EmployerID uuid.UUID  `json:"employer_id"`
	WorkerID   *uuid.UUID `json:"worker_id,omitempty"`
	Type       JobType    `json:"type"`
	Status     JobStatus  `json:"status"`
	Budget     int64      `json:"budget"` // Stored in cents/minor units
	CreatedAt  time.Time  `json:"created_at"`
}

// Milestone carries the fields the payment engine consumes
type Milestone struct {
	ID        uuid.UUID       `json:"id"`
	JobID     uuid.UUID       `json:"job_id"`
	Amount    int64           `json:"amount"` // Stored in cents/minor units
	Status    MilestoneStatus `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}
