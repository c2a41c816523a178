// Package sagas implements the saga pattern for multi-step operations
// that touch the graph store, relational store, and LLM/embedding
// providers and must leave a consistent partial result on failure
// (spec.md §4.4 "Atomicity"). Grounded on the teacher's
// application/sagas/create_node_saga.go step/compensation shape.
package sagas

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// StepFunc runs one saga step against the shared data pointer.
type StepFunc func(ctx context.Context, data any) (any, error)

// CompensateFunc reverses a step's effect. It is only invoked for steps
// that actually ran.
type CompensateFunc func(ctx context.Context, data any) error

type step struct {
	name       string
	run        StepFunc
	compensate CompensateFunc
	retries    int
	retryDelay time.Duration
}

// Saga runs a fixed ordered list of steps, compensating completed steps
// in reverse order if any step fails.
type Saga struct {
	name   string
	steps  []step
	logger *zap.Logger
}

// SagaBuilder assembles a Saga's step list.
type SagaBuilder struct {
	saga *Saga
}

func NewSagaBuilder(name string, logger *zap.Logger) *SagaBuilder {
	return &SagaBuilder{saga: &Saga{name: name, logger: logger}}
}

// WithStep adds a non-compensable step — used for operations that are
// either trivially safe to leave as-is on later failure (pure
// validation) or whose compensation is handled by an enclosing
// transaction.
func (b *SagaBuilder) WithStep(name string, run StepFunc) *SagaBuilder {
	b.saga.steps = append(b.saga.steps, step{name: name, run: run})
	return b
}

// WithCompensableStep adds a step with an explicit undo action.
func (b *SagaBuilder) WithCompensableStep(name string, run StepFunc, compensate CompensateFunc) *SagaBuilder {
	b.saga.steps = append(b.saga.steps, step{name: name, run: run, compensate: compensate})
	return b
}

// WithRetryableStep runs a transient-IO-prone step (LLM/embedding calls)
// up to retries attempts in all, with a fixed delay between attempts,
// before surfacing failure.
func (b *SagaBuilder) WithRetryableStep(name string, run StepFunc, retries int, delay time.Duration) *SagaBuilder {
	b.saga.steps = append(b.saga.steps, step{name: name, run: run, retries: retries, retryDelay: delay})
	return b
}

func (b *SagaBuilder) Build() *Saga { return b.saga }

// Execute runs every step in order, compensating completed steps in
// reverse order if a step ultimately fails.
func (s *Saga) Execute(ctx context.Context, data any) (any, error) {
	completed := make([]step, 0, len(s.steps))
	current := data

	for _, st := range s.steps {
		result, err := s.runWithRetry(ctx, st, current)
		if err != nil {
			s.logger.Error("saga step failed", zap.String("saga", s.name), zap.String("step", st.name), zap.Error(err))
			s.compensate(ctx, completed, current)
			return nil, fmt.Errorf("saga %s step %s: %w", s.name, st.name, err)
		}
		current = result
		completed = append(completed, st)
	}
	return current, nil
}

func (s *Saga) runWithRetry(ctx context.Context, st step, data any) (any, error) {
	attempts := st.retries
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		result, err := st.run(ctx, data)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i < attempts-1 && st.retryDelay > 0 {
			select {
			case <-time.After(st.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

func (s *Saga) compensate(ctx context.Context, completed []step, data any) {
	for i := len(completed) - 1; i >= 0; i-- {
		st := completed[i]
		if st.compensate == nil {
			continue
		}
		if err := st.compensate(ctx, data); err != nil {
			s.logger.Error("saga compensation failed", zap.String("saga", s.name), zap.String("step", st.name), zap.Error(err))
		}
	}
}
