package ports

import "context"

// Launcher is the scheduler's condition-checker contract (spec.md §4.6).
// The three-outcome semantics are strict: a non-empty job_id is success,
// an empty job_id with nil error means conditions weren't met, and a
// non-nil error is a failure that increments the launcher's retry count.
type Launcher interface {
	JobType() string
	Interval() string // cron expression the scheduler registers this launcher under
	CheckConditions(ctx context.Context) (bool, error)
	PrepareJobData(ctx context.Context) (map[string]any, error)
	Launch(ctx context.Context) (jobID string, err error)
}
