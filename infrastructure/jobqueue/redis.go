// Package jobqueue implements ports.JobQueue against Redis, backing the
// same pending/awaiting_approval/running/completed/failed state machine
// spec.md §4.7 describes, generalized from the teacher's DynamoDB-backed
// job table to Redis sorted sets (pending/awaiting_approval queues) and
// hashes (job records).
package jobqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ontologykg/application/ports"
	"ontologykg/domain/core/valueobjects"
	"ontologykg/pkg/kgerrors"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	keyPending          = "kg:jobs:pending"
	keyAwaitingApproval = "kg:jobs:awaiting_approval"
	keyJobPrefix        = "kg:job:"
)

const maxRetries = 5

// Queue is the Redis-backed ports.JobQueue. Handlers are registered per
// job type and invoked by the dispatch loop started with Run.
type Queue struct {
	client   *redis.Client
	handlers map[string]ports.JobHandler
	breaker  *gobreaker.CircuitBreaker
	logger   *zap.Logger
}

func New(client *redis.Client, logger *zap.Logger) *Queue {
	return &Queue{
		client:   client,
		handlers: make(map[string]ports.JobHandler),
		logger:   logger,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "jobqueue-redis",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 5
			},
		}),
	}
}

// RegisterHandler wires a job type to the function that executes it.
// Called while infrastructure/di builds the worker, once per job type the
// worker executes (the launchers' job types plus annealing execution and
// ingestion).
func (q *Queue) RegisterHandler(h ports.JobHandler) {
	q.handlers[h.JobType()] = h
}

func jobKey(id valueobjects.JobID) string { return keyJobPrefix + id.String() }

func (q *Queue) Enqueue(ctx context.Context, jobType string, data map[string]any, isSystemJob, autoApprove bool) (valueobjects.JobID, error) {
	id := valueobjects.NewJobID()
	now := time.Now()
	status := ports.JobPending
	if !autoApprove {
		status = ports.JobAwaitingApproval
	}
	job := ports.Job{
		ID: id, Type: jobType, Data: data, Status: status,
		IsSystemJob: isSystemJob, AutoApprove: autoApprove,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := q.putJob(ctx, job); err != nil {
		return "", err
	}

	queue := keyPending
	if status == ports.JobAwaitingApproval {
		queue = keyAwaitingApproval
	}
	if _, err := q.client.ZAdd(ctx, queue, redis.Z{Score: float64(now.UnixNano()), Member: id.String()}).Result(); err != nil {
		return "", kgerrors.NewTransientIO(fmt.Sprintf("enqueuing job %s onto %s", id, queue), err)
	}
	return id, nil
}

func (q *Queue) putJob(ctx context.Context, job ports.Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshalling job %s: %w", job.ID, err)
	}
	if err := q.client.Set(ctx, jobKey(job.ID), encoded, 0).Err(); err != nil {
		return kgerrors.NewTransientIO(fmt.Sprintf("storing job %s", job.ID), err)
	}
	return nil
}

func (q *Queue) GetJob(ctx context.Context, id valueobjects.JobID) (ports.Job, bool, error) {
	raw, err := q.client.Get(ctx, jobKey(id)).Result()
	if err == redis.Nil {
		return ports.Job{}, false, nil
	}
	if err != nil {
		return ports.Job{}, false, kgerrors.NewTransientIO(fmt.Sprintf("fetching job %s", id), err)
	}
	var job ports.Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return ports.Job{}, false, fmt.Errorf("decoding job %s: %w", id, err)
	}
	return job, true, nil
}

// UpdateJob merges delta onto the stored job record via an
// optimistic-concurrency Redis transaction (WATCH the job key, retry the
// read-modify-write if another dispatcher mutated it first).
func (q *Queue) UpdateJob(ctx context.Context, id valueobjects.JobID, delta ports.JobDelta) error {
	key := jobKey(id)
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return kgerrors.NewResource(fmt.Sprintf("job %s not found", id))
		}
		if err != nil {
			return kgerrors.NewTransientIO(fmt.Sprintf("reading job %s for update", id), err)
		}
		var job ports.Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			return fmt.Errorf("decoding job %s for update: %w", id, err)
		}
		applyDelta(&job, delta)

		encoded, err := json.Marshal(job)
		if err != nil {
			return fmt.Errorf("marshalling job %s update: %w", id, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)
			return nil
		})
		return err
	}

	err := q.client.Watch(ctx, txf, key)
	if err == redis.TxFailedErr {
		return kgerrors.NewConflictf("job %s updated concurrently", id)
	}
	if err != nil {
		return kgerrors.NewTransientIO(fmt.Sprintf("updating job %s", id), err)
	}
	return nil
}

func applyDelta(job *ports.Job, delta ports.JobDelta) {
	job.UpdatedAt = time.Now()
	if delta.Status != nil {
		job.Status = *delta.Status
		if *delta.Status == ports.JobCompleted || *delta.Status == ports.JobFailed || *delta.Status == ports.JobCancelled {
			job.CompletedAt = job.UpdatedAt
		}
	}
	if delta.RetryCount != nil {
		job.RetryCount = *delta.RetryCount
	}
	if delta.Result != nil {
		job.Result = delta.Result
	}
	if delta.Error != nil {
		job.Error = *delta.Error
	}
	if delta.AutoApprove != nil {
		job.AutoApprove = *delta.AutoApprove
	}
}

// ExecuteJobAsync looks up the registered handler for the job's type and
// runs it in its own goroutine, retrying transient failures with
// exponential backoff up to maxRetries before marking the job failed.
func (q *Queue) ExecuteJobAsync(ctx context.Context, id valueobjects.JobID) error {
	job, found, err := q.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return kgerrors.NewResource(fmt.Sprintf("job %s not found", id))
	}
	handler, ok := q.handlers[job.Type]
	if !ok {
		return kgerrors.NewFatal(fmt.Sprintf("no handler registered for job type %q", job.Type), nil)
	}

	running := ports.JobRunning
	if err := q.UpdateJob(ctx, id, ports.JobDelta{Status: &running}); err != nil {
		return err
	}

	go q.runWithRetry(ctx, job, handler)
	return nil
}

func (q *Queue) runWithRetry(ctx context.Context, job ports.Job, handler ports.JobHandler) {
	op := func() (map[string]any, error) {
		v, err := q.breaker.Execute(func() (any, error) {
			return handler.Execute(ctx, job)
		})
		if err != nil {
			if !kgerrors.Retryable(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return v.(map[string]any), nil
	}

	result, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxRetries),
	)

	if err != nil {
		q.logFailure(job, err)
		errMsg := err.Error()
		failed := ports.JobFailed
		_ = q.UpdateJob(ctx, job.ID, ports.JobDelta{Status: &failed, Error: &errMsg})
		return
	}

	completed := ports.JobCompleted
	_ = q.UpdateJob(ctx, job.ID, ports.JobDelta{Status: &completed, Result: result})
}

// logFailure follows spec.md §4.7's expected-conflict logging split:
// conflicts a caller can reasonably hit in normal operation (another
// worker already created the same vertex/edge) log at Debug; anything
// else is an operational concern and logs at Error.
func (q *Queue) logFailure(job ports.Job, err error) {
	if kgerrors.Is(err, kgerrors.Conflict) {
		q.logger.Debug("job failed on expected conflict", zap.String("job_id", job.ID.String()), zap.String("job_type", job.Type), zap.Error(err))
		return
	}
	q.logger.Error("job failed", zap.String("job_id", job.ID.String()), zap.String("job_type", job.Type), zap.Error(err))
}

// Run is the dispatch loop: block-pop the pending queue and hand each
// job to ExecuteJobAsync until ctx is cancelled.
func (q *Queue) Run(ctx context.Context) error {
	for {
		result, err := q.client.BZPopMin(ctx, 5*time.Second, keyPending).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			q.logger.Error("dispatch loop poll failed", zap.Error(err))
			continue
		}
		id := valueobjects.JobID(fmt.Sprint(result.Member))
		if err := q.ExecuteJobAsync(ctx, id); err != nil {
			q.logger.Error("dispatching job", zap.String("job_id", id.String()), zap.Error(err))
		}
	}
}

var _ ports.JobQueue = (*Queue)(nil)
