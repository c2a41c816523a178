package scheduler

import (
	"context"
	"fmt"

	"ontologykg/application/ports"
	appservices "ontologykg/application/services"
)

const JobTypeBreathing = "breathing"

// Breathing launches on its 6h cron schedule; nothing in this module
// triggers it after ingestion. Its condition check and claim are one
// atomic database statement (ClaimBreathingWindow) so concurrent
// triggers — two workers' cron ticks, or a tick and a Loop.TriggerNow
// call — never double-dispatch the same epoch window (spec.md §4.6).
type Breathing struct {
	store     ports.RelationalStore
	jobs      ports.JobQueue
	options   *OptionsWatcher
	ontology  string
	claimedEpoch int64
}

func NewBreathing(store ports.RelationalStore, jobs ports.JobQueue, options *OptionsWatcher, ontology string) *Breathing {
	return &Breathing{store: store, jobs: jobs, options: options, ontology: ontology}
}

func (l *Breathing) JobType() string  { return JobTypeBreathing }
func (l *Breathing) Interval() string { return "0 */6 * * *" }

func (l *Breathing) CheckConditions(ctx context.Context) (bool, error) {
	claimed, epoch, err := l.store.ClaimBreathingWindow(ctx, l.options.Current().IntervalEpochs)
	if err != nil {
		return false, err
	}
	l.claimedEpoch = epoch
	return claimed, nil
}

func (l *Breathing) PrepareJobData(ctx context.Context) (map[string]any, error) {
	opts := l.options.Current()
	return map[string]any{
		"ontology": l.ontology,
		"epoch":    l.claimedEpoch,
		"mode":     opts.Mode,
	}, nil
}

func (l *Breathing) Launch(ctx context.Context) (string, error) {
	data, err := l.PrepareJobData(ctx)
	if err != nil {
		return "", err
	}
	id, err := l.jobs.Enqueue(ctx, JobTypeBreathing, data, true, true)
	if err != nil {
		return "", err
	}
	if err := l.jobs.ExecuteJobAsync(ctx, id); err != nil {
		return "", err
	}
	return id.String(), nil
}

var _ ports.Launcher = (*Breathing)(nil)

// BreathingHandler runs one breathing/annealing cycle for the job data a
// Breathing launch prepared.
type BreathingHandler struct {
	breathing *appservices.BreathingService
}

func NewBreathingHandler(breathing *appservices.BreathingService) *BreathingHandler {
	return &BreathingHandler{breathing: breathing}
}

func (h *BreathingHandler) JobType() string { return JobTypeBreathing }

func (h *BreathingHandler) Execute(ctx context.Context, job ports.Job) (map[string]any, error) {
	ontology, _ := job.Data["ontology"].(string)
	// job.Data round-trips through JSON on the way to and from Redis, so
	// a number stored as int64 comes back as float64 — assert on that,
	// not on int64.
	epochFloat, _ := job.Data["epoch"].(float64)
	modeStr, _ := job.Data["mode"].(string)
	mode := appservices.BreathingMode(modeStr)
	if mode != appservices.BreathingAutonomous && mode != appservices.BreathingHITL {
		return nil, fmt.Errorf("breathing job carried unknown mode %q", modeStr)
	}

	result, err := h.breathing.Run(ctx, ontology, int64(epochFloat), mode)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"ontology":          result.Ontology,
		"epoch":             result.Epoch,
		"candidates_scored": result.CandidatesScored,
		"proposals_created": result.ProposalsCreated,
		"auto_approved":     result.AutoApproved,
	}, nil
}

var _ ports.JobHandler = (*BreathingHandler)(nil)
