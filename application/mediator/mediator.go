// Package mediator provides a single entry point for commands and
// queries, decoupling callers (job handlers, launchers, future HTTP/FUSE
// surfaces) from the application layer — grounded on the teacher's
// application/mediator/mediator.go.
package mediator

import (
	"context"
	"fmt"
	"time"

	"ontologykg/application/commands"
	"ontologykg/application/queries"

	"go.uber.org/zap"
)

// IMediator is the interface callers outside the application layer
// depend on. Commands only act; queries only read.
type IMediator interface {
	Send(ctx context.Context, command commands.Command) error
	Query(ctx context.Context, query queries.Query) (any, error)
}

type Mediator struct {
	commandBus *commands.Bus
	queryBus   *queries.Bus
	logger     *zap.Logger
	behaviors  []Behavior
}

func NewMediator(commandBus *commands.Bus, queryBus *queries.Bus, logger *zap.Logger) *Mediator {
	return &Mediator{commandBus: commandBus, queryBus: queryBus, logger: logger, behaviors: []Behavior{}}
}

func (m *Mediator) AddBehavior(behavior Behavior) {
	m.behaviors = append(m.behaviors, behavior)
}

func (m *Mediator) Send(ctx context.Context, command commands.Command) error {
	start := time.Now()
	for _, b := range m.behaviors {
		if err := b.PreProcess(ctx, command); err != nil {
			m.logger.Error("command pre-processing failed", zap.String("command", fmt.Sprintf("%T", command)), zap.Error(err))
			return err
		}
	}

	err := m.commandBus.Send(ctx, command)

	for _, b := range m.behaviors {
		b.PostProcess(ctx, command, err)
	}

	if err != nil {
		m.logger.Error("command execution failed",
			zap.String("command", fmt.Sprintf("%T", command)),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return err
	}
	m.logger.Debug("command executed",
		zap.String("command", fmt.Sprintf("%T", command)),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (m *Mediator) Query(ctx context.Context, query queries.Query) (any, error) {
	start := time.Now()
	for _, b := range m.behaviors {
		if err := b.PreProcessQuery(ctx, query); err != nil {
			m.logger.Error("query pre-processing failed", zap.String("query", fmt.Sprintf("%T", query)), zap.Error(err))
			return nil, err
		}
	}

	result, err := m.queryBus.Ask(ctx, query)

	for _, b := range m.behaviors {
		b.PostProcessQuery(ctx, query, result, err)
	}

	if err != nil {
		m.logger.Error("query execution failed",
			zap.String("query", fmt.Sprintf("%T", query)),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, err
	}
	m.logger.Debug("query executed",
		zap.String("query", fmt.Sprintf("%T", query)),
		zap.Duration("duration", time.Since(start)))
	return result, nil
}
