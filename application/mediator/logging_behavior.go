package mediator

import (
	"context"
	"fmt"

	"ontologykg/application/commands"
	"ontologykg/application/queries"

	"go.uber.org/zap"
)

// LoggingBehavior adds structured debug logging around every command and
// query beyond what the Mediator itself logs, grounded on the teacher's
// behaviors.go LoggingBehavior.
type LoggingBehavior struct {
	NoopBehavior
	logger *zap.Logger
}

func NewLoggingBehavior(logger *zap.Logger) *LoggingBehavior {
	return &LoggingBehavior{logger: logger}
}

func (l *LoggingBehavior) PreProcess(ctx context.Context, command commands.Command) error {
	l.logger.Debug("dispatching command", zap.String("type", fmt.Sprintf("%T", command)))
	return nil
}

func (l *LoggingBehavior) PreProcessQuery(ctx context.Context, query queries.Query) error {
	l.logger.Debug("dispatching query", zap.String("type", fmt.Sprintf("%T", query)))
	return nil
}
