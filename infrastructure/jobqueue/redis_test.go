package jobqueue

import (
	"context"
	"testing"
	"time"

	"ontologykg/application/ports"
	"ontologykg/domain/core/valueobjects"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestQueue(t *testing.T) (*Queue, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client, zap.NewNop()), client
}

func TestEnqueue_AutoApproveGoesToPendingQueue(t *testing.T) {
	q, client := newTestQueue(t)
	ctx := context.Background()

	id, err := q.Enqueue(ctx, "category_refresh", map[string]any{"ontology": "default"}, true, true)
	require.NoError(t, err)

	job, found, err := q.GetJob(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, ports.JobPending, job.Status)

	count, err := client.ZCard(ctx, keyPending).Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestEnqueue_NoAutoApproveGoesToAwaitingApprovalQueue(t *testing.T) {
	q, client := newTestQueue(t)
	ctx := context.Background()

	id, err := q.Enqueue(ctx, "breathing", map[string]any{"epoch": int64(5)}, true, false)
	require.NoError(t, err)

	job, found, err := q.GetJob(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, ports.JobAwaitingApproval, job.Status)

	count, err := client.ZCard(ctx, keyAwaitingApproval).Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestGetJob_NotFound(t *testing.T) {
	q, _ := newTestQueue(t)
	_, found, err := q.GetJob(context.Background(), valueobjects.NewJobID())
	require.NoError(t, err)
	require.False(t, found)
}

func TestUpdateJob_MergesDeltaAndStampsCompletedAt(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	id, err := q.Enqueue(ctx, "epistemic_remeasurement", nil, true, true)
	require.NoError(t, err)

	completed := ports.JobCompleted
	result := map[string]any{"remeasured": float64(12)}
	err = q.UpdateJob(ctx, id, ports.JobDelta{Status: &completed, Result: result})
	require.NoError(t, err)

	job, found, err := q.GetJob(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, ports.JobCompleted, job.Status)
	require.Equal(t, result, job.Result)
	require.False(t, job.CompletedAt.IsZero())
}

func TestUpdateJob_UnknownJobReturnsResourceError(t *testing.T) {
	q, _ := newTestQueue(t)
	status := ports.JobFailed
	err := q.UpdateJob(context.Background(), valueobjects.NewJobID(), ports.JobDelta{Status: &status})
	require.Error(t, err)
}

type fakeHandler struct {
	jobType string
	calls   int
	result  map[string]any
	err     error
}

func (h *fakeHandler) JobType() string { return h.jobType }
func (h *fakeHandler) Execute(ctx context.Context, job ports.Job) (map[string]any, error) {
	h.calls++
	return h.result, h.err
}

func TestExecuteJobAsync_RunsHandlerAndMarksCompleted(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	handler := &fakeHandler{jobType: "category_refresh", result: map[string]any{"refreshed": float64(3)}}
	q.RegisterHandler(handler)

	id, err := q.Enqueue(ctx, "category_refresh", nil, true, true)
	require.NoError(t, err)
	require.NoError(t, q.ExecuteJobAsync(ctx, id))

	require.Eventually(t, func() bool {
		job, _, _ := q.GetJob(ctx, id)
		return job.Status == ports.JobCompleted
	}, 2*time.Second, 10*time.Millisecond)

	job, _, err := q.GetJob(ctx, id)
	require.NoError(t, err)
	require.Equal(t, handler.result, job.Result)
	require.Equal(t, 1, handler.calls)
}

func TestExecuteJobAsync_NoHandlerRegisteredFailsImmediately(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	id, err := q.Enqueue(ctx, "unregistered_type", nil, true, true)
	require.NoError(t, err)
	err = q.ExecuteJobAsync(ctx, id)
	require.Error(t, err)
}
