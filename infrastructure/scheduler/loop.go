package scheduler

import (
	"context"
	"time"

	"ontologykg/application/ports"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Loop drives every registered launcher on its own cron schedule, with
// the three-outcome contract spec.md §4.6 names: a returned job ID
// resets the launcher's retry count and logs success; a conditions-not-met
// result also resets the retry count and simply waits for the next tick;
// an error increments the retry count and is logged, with the launcher
// skipped entirely once it exceeds its retry ceiling until an operator
// intervenes.
type Loop struct {
	cron       *cron.Cron
	logger     *zap.Logger
	maxRetries int
	retries    map[string]int
}

func NewLoop(logger *zap.Logger, maxRetries int) *Loop {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &Loop{
		cron:       cron.New(),
		logger:     logger,
		maxRetries: maxRetries,
		retries:    make(map[string]int),
	}
}

// Register schedules a launcher on its own Interval() cron expression.
func (l *Loop) Register(launcher ports.Launcher) error {
	_, err := l.cron.AddFunc(launcher.Interval(), func() {
		l.tick(launcher)
	})
	return err
}

func (l *Loop) tick(launcher ports.Launcher) {
	jobType := launcher.JobType()
	if l.retries[jobType] >= l.maxRetries {
		l.logger.Warn("launcher exceeded retry ceiling, skipping tick", zap.String("job_type", jobType))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ok, err := launcher.CheckConditions(ctx)
	if err != nil {
		l.fail(jobType, "checking conditions", err)
		return
	}
	if !ok {
		l.retries[jobType] = 0
		return
	}

	jobID, err := launcher.Launch(ctx)
	if err != nil {
		l.fail(jobType, "launching", err)
		return
	}
	l.retries[jobType] = 0
	l.logger.Info("launcher dispatched job", zap.String("job_type", jobType), zap.String("job_id", jobID))
}

func (l *Loop) fail(jobType, stage string, err error) {
	l.retries[jobType]++
	l.logger.Error("launcher tick failed",
		zap.String("job_type", jobType), zap.String("stage", stage),
		zap.Int("retry_count", l.retries[jobType]), zap.Error(err))
}

// TriggerNow runs a launcher immediately outside its cron schedule.
// Nothing in this module calls it; Breathing in particular is not fired
// after ingestion.
func (l *Loop) TriggerNow(launcher ports.Launcher) {
	go l.tick(launcher)
}

func (l *Loop) Start() { l.cron.Start() }
func (l *Loop) Stop()  { <-l.cron.Stop().Done() }
