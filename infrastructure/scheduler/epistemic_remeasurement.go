package scheduler

import (
	"context"

	"ontologykg/application/ports"
	appservices "ontologykg/application/services"
)

const JobTypeEpistemicRemeasurement = "epistemic_remeasurement"

// DefaultVocabularyChangeThreshold is the vocabulary_change_counter
// delta that triggers a remeasurement pass when no operator override is
// configured (spec.md §4.6).
const DefaultVocabularyChangeThreshold = 10

// EpistemicRemeasurement launches hourly once enough vocabulary usage
// has accumulated since the last pass to make re-measuring worthwhile.
type EpistemicRemeasurement struct {
	store     ports.RelationalStore
	jobs      ports.JobQueue
	threshold int64
}

func NewEpistemicRemeasurement(store ports.RelationalStore, jobs ports.JobQueue, threshold int64) *EpistemicRemeasurement {
	if threshold <= 0 {
		threshold = DefaultVocabularyChangeThreshold
	}
	return &EpistemicRemeasurement{store: store, jobs: jobs, threshold: threshold}
}

func (l *EpistemicRemeasurement) JobType() string  { return JobTypeEpistemicRemeasurement }
func (l *EpistemicRemeasurement) Interval() string { return "0 * * * *" }

// CheckConditions peeks at vocabulary_change_counter by incrementing it
// by zero — IncrementVocabularyChangeCounter's ON CONFLICT DO UPDATE
// always RETURNING value, so a zero delta reads the counter without
// mutating it.
func (l *EpistemicRemeasurement) CheckConditions(ctx context.Context) (bool, error) {
	delta, err := l.store.IncrementVocabularyChangeCounter(ctx, 0)
	if err != nil {
		return false, err
	}
	return delta >= l.threshold, nil
}

func (l *EpistemicRemeasurement) PrepareJobData(ctx context.Context) (map[string]any, error) {
	return map[string]any{}, nil
}

func (l *EpistemicRemeasurement) Launch(ctx context.Context) (string, error) {
	data, err := l.PrepareJobData(ctx)
	if err != nil {
		return "", err
	}
	id, err := l.jobs.Enqueue(ctx, JobTypeEpistemicRemeasurement, data, true, true)
	if err != nil {
		return "", err
	}
	if err := l.jobs.ExecuteJobAsync(ctx, id); err != nil {
		return "", err
	}
	return id.String(), nil
}

var _ ports.Launcher = (*EpistemicRemeasurement)(nil)

// EpistemicRemeasurementHandler runs the actual remeasurement pass;
// EpistemicService.RemeasureAll resets the change counter that triggered
// it once the pass completes.
type EpistemicRemeasurementHandler struct {
	epistemic *appservices.EpistemicService
}

func NewEpistemicRemeasurementHandler(epistemic *appservices.EpistemicService) *EpistemicRemeasurementHandler {
	return &EpistemicRemeasurementHandler{epistemic: epistemic}
}

func (h *EpistemicRemeasurementHandler) JobType() string { return JobTypeEpistemicRemeasurement }

func (h *EpistemicRemeasurementHandler) Execute(ctx context.Context, job ports.Job) (map[string]any, error) {
	result, err := h.epistemic.RemeasureAll(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"measured":     result.Measured,
		"reclassified": result.Reclassified,
	}, nil
}

var _ ports.JobHandler = (*EpistemicRemeasurementHandler)(nil)
