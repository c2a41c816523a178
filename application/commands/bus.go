// Package commands holds CQRS command DTOs and the bus that dispatches
// them to a registered handler by concrete type, grounded on the
// teacher's application/mediator + application/commands pattern.
package commands

import (
	"context"
	"fmt"
	"reflect"
)

// Command is the marker interface every command DTO implements.
type Command interface {
	CommandName() string
}

// Handler executes exactly one command type.
type Handler interface {
	Handle(ctx context.Context, command Command) error
}

// Bus routes a Command to its registered Handler by reflect.TypeOf,
// mirroring the teacher's command bus without needing the teacher's
// separate bus subpackage (not present in the retrieved example set).
type Bus struct {
	handlers map[reflect.Type]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[reflect.Type]Handler)}
}

// Register binds a command type to its handler. Registering the same
// type twice overwrites the previous handler.
func Register[C Command](bus *Bus, handler Handler) {
	var zero C
	bus.handlers[reflect.TypeOf(zero)] = handler
}

func (b *Bus) Send(ctx context.Context, command Command) error {
	handler, ok := b.handlers[reflect.TypeOf(command)]
	if !ok {
		return fmt.Errorf("no handler registered for command %T", command)
	}
	return handler.Handle(ctx, command)
}
