package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLauncher struct {
	jobType    string
	conditions bool
	condErr    error
	jobID      string
	launchErr  error
	checks     int
	launches   int
}

func (f *fakeLauncher) JobType() string    { return f.jobType }
func (f *fakeLauncher) Interval() string   { return "@every 1m" }
func (f *fakeLauncher) CheckConditions(ctx context.Context) (bool, error) {
	f.checks++
	return f.conditions, f.condErr
}
func (f *fakeLauncher) PrepareJobData(ctx context.Context) (map[string]any, error) { return nil, nil }
func (f *fakeLauncher) Launch(ctx context.Context) (string, error) {
	f.launches++
	return f.jobID, f.launchErr
}

func TestTick_ConditionsNotMetResetsRetriesWithoutLaunching(t *testing.T) {
	l := NewLoop(zap.NewNop(), 3)
	l.retries["breathing"] = 2
	launcher := &fakeLauncher{jobType: "breathing", conditions: false}

	l.tick(launcher)

	require.Equal(t, 0, launcher.launches)
	require.Equal(t, 0, l.retries["breathing"])
}

func TestTick_SuccessfulLaunchResetsRetries(t *testing.T) {
	l := NewLoop(zap.NewNop(), 3)
	l.retries["category_refresh"] = 1
	launcher := &fakeLauncher{jobType: "category_refresh", conditions: true, jobID: "job-123"}

	l.tick(launcher)

	require.Equal(t, 1, launcher.launches)
	require.Equal(t, 0, l.retries["category_refresh"])
}

func TestTick_CheckConditionsErrorIncrementsRetries(t *testing.T) {
	l := NewLoop(zap.NewNop(), 3)
	launcher := &fakeLauncher{jobType: "epistemic_remeasurement", condErr: errors.New("db unreachable")}

	l.tick(launcher)
	l.tick(launcher)

	require.Equal(t, 0, launcher.launches)
	require.Equal(t, 2, l.retries["epistemic_remeasurement"])
}

func TestTick_LaunchErrorIncrementsRetries(t *testing.T) {
	l := NewLoop(zap.NewNop(), 3)
	launcher := &fakeLauncher{jobType: "breathing", conditions: true, launchErr: errors.New("enqueue failed")}

	l.tick(launcher)

	require.Equal(t, 1, l.retries["breathing"])
}

func TestTick_SkipsOnceRetryCeilingExceeded(t *testing.T) {
	l := NewLoop(zap.NewNop(), 2)
	launcher := &fakeLauncher{jobType: "breathing", conditions: true}
	l.retries["breathing"] = 2

	l.tick(launcher)

	require.Equal(t, 0, launcher.checks, "ceiling-exceeded launcher should be skipped before CheckConditions runs")
}

func TestNewLoop_NonPositiveMaxRetriesDefaultsToFive(t *testing.T) {
	l := NewLoop(zap.NewNop(), 0)
	require.Equal(t, 5, l.maxRetries)
}
