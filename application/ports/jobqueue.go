package ports

import (
	"context"
	"time"

	"ontologykg/domain/core/valueobjects"
)

// JobStatus is a position in the job state machine (spec.md §4.7).
type JobStatus string

const (
	JobPending          JobStatus = "pending"
	JobAwaitingApproval JobStatus = "awaiting_approval"
	JobApproved         JobStatus = "approved"
	JobRunning          JobStatus = "running"
	JobCompleted        JobStatus = "completed"
	JobFailed           JobStatus = "failed"
	JobCancelled        JobStatus = "cancelled"
)

// Job is the job-queue's persisted record.
type Job struct {
	ID           valueobjects.JobID
	Type         string
	Data         map[string]any
	Status       JobStatus
	IsSystemJob  bool
	AutoApprove  bool
	RetryCount   int
	Result       map[string]any
	Error        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  time.Time
}

// JobDelta is a partial update merged onto an existing Job by
// update_job (spec.md §4.7) — fields left nil are left unchanged.
type JobDelta struct {
	Status      *JobStatus
	RetryCount  *int
	Result      map[string]any
	Error       *string
	AutoApprove *bool
}

// JobQueue is the persisted job state machine every launcher and worker
// dispatches through.
type JobQueue interface {
	Enqueue(ctx context.Context, jobType string, data map[string]any, isSystemJob, autoApprove bool) (valueobjects.JobID, error)
	UpdateJob(ctx context.Context, id valueobjects.JobID, delta JobDelta) error
	GetJob(ctx context.Context, id valueobjects.JobID) (Job, bool, error)
	ExecuteJobAsync(ctx context.Context, id valueobjects.JobID) error
}

// JobHandler executes one job type. Registered with the worker dispatch
// loop in cmd/worker.
type JobHandler interface {
	JobType() string
	Execute(ctx context.Context, job Job) (result map[string]any, err error)
}
