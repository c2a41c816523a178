package mediator

import (
	"context"

	"ontologykg/application/commands"
	"ontologykg/application/queries"
)

// Behavior is pipeline middleware the Mediator runs around every command
// and query, grounded on the teacher's application/mediator/behaviors.go.
type Behavior interface {
	PreProcess(ctx context.Context, command commands.Command) error
	PostProcess(ctx context.Context, command commands.Command, err error)
	PreProcessQuery(ctx context.Context, query queries.Query) error
	PostProcessQuery(ctx context.Context, query queries.Query, result any, err error)
}

// NoopBehavior is embedded by behaviors that only care about one of the
// four hooks, so they don't have to implement all of them.
type NoopBehavior struct{}

func (NoopBehavior) PreProcess(context.Context, commands.Command) error   { return nil }
func (NoopBehavior) PostProcess(context.Context, commands.Command, error) {}
func (NoopBehavior) PreProcessQuery(context.Context, queries.Query) error  { return nil }
func (NoopBehavior) PostProcessQuery(context.Context, queries.Query, any, error) {}
