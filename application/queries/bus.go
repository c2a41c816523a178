// Package queries holds CQRS query DTOs and the bus that answers them,
// grounded on the teacher's application/mediator query-bus half.
package queries

import (
	"context"
	"fmt"
	"reflect"
)

// Query is the marker interface every read-only query DTO implements.
type Query interface {
	QueryName() string
}

// Handler answers exactly one query type.
type Handler interface {
	Handle(ctx context.Context, query Query) (any, error)
}

type Bus struct {
	handlers map[reflect.Type]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[reflect.Type]Handler)}
}

func Register[Q Query](bus *Bus, handler Handler) {
	var zero Q
	bus.handlers[reflect.TypeOf(zero)] = handler
}

func (b *Bus) Ask(ctx context.Context, query Query) (any, error) {
	handler, ok := b.handlers[reflect.TypeOf(query)]
	if !ok {
		return nil, fmt.Errorf("no handler registered for query %T", query)
	}
	return handler.Handle(ctx, query)
}
