// Package events dispatches domain events raised by entities to
// application-level handlers — external publishing, projections — once a
// saga or service has persisted the aggregate that raised them. Grounded
// on the teacher's application/events/handler_registry.go.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ontologykg/domain/events"

	"go.uber.org/zap"
)

// EventHandler processes one domain event type.
type EventHandler interface {
	Handle(ctx context.Context, event events.DomainEvent) error
	SupportsEvent(eventName string) bool
	Priority() int
	Name() string
}

// HandlerRegistry routes dispatched events to every handler that declares
// support for them, in priority order.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
	logger   *zap.Logger
}

func NewHandlerRegistry(logger *zap.Logger) *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string][]EventHandler), logger: logger}
}

// Register attaches handler to each named event type, keeping handlers for
// a type sorted by ascending priority.
func (r *HandlerRegistry) Register(eventNames []string, handler EventHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}
	for _, name := range eventNames {
		if !handler.SupportsEvent(name) {
			return fmt.Errorf("handler %s does not support event %s", handler.Name(), name)
		}
		r.handlers[name] = append(r.handlers[name], handler)
		handlers := r.handlers[name]
		for i := 1; i < len(handlers); i++ {
			for j := i; j > 0 && handlers[j-1].Priority() > handlers[j].Priority(); j-- {
				handlers[j-1], handlers[j] = handlers[j], handlers[j-1]
			}
		}
	}
	return nil
}

// Dispatch runs every handler registered for event's name. A handler
// failure is logged and does not stop the remaining handlers from running
// — event side effects (publishing, projections) are best-effort relative
// to the write that already committed.
func (r *HandlerRegistry) Dispatch(ctx context.Context, event events.DomainEvent) error {
	r.mu.RLock()
	handlers := append([]EventHandler(nil), r.handlers[event.EventName()]...)
	r.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	var failed int
	for _, h := range handlers {
		start := time.Now()
		if err := h.Handle(ctx, event); err != nil {
			failed++
			r.logger.Error("event handler failed",
				zap.String("handler", h.Name()), zap.String("event", event.EventName()), zap.Error(err))
			continue
		}
		r.logger.Debug("event handler succeeded",
			zap.String("handler", h.Name()), zap.String("event", event.EventName()), zap.Duration("duration", time.Since(start)))
	}
	if failed == len(handlers) {
		return fmt.Errorf("all %d handlers failed for event %s", failed, event.EventName())
	}
	return nil
}

// DispatchAll drains and dispatches every event in order, continuing past
// individual dispatch failures.
func (r *HandlerRegistry) DispatchAll(ctx context.Context, pending []events.DomainEvent) {
	for _, e := range pending {
		if err := r.Dispatch(ctx, e); err != nil {
			r.logger.Warn("event dispatch incomplete", zap.String("event", e.EventName()), zap.Error(err))
		}
	}
}

// BaseEventHandler gives concrete handlers Name/Priority/SupportsEvent for
// free, matching the teacher's BaseEventHandler embedding pattern.
type BaseEventHandler struct {
	name           string
	priority       int
	supportedNames []string
}

func NewBaseEventHandler(name string, priority int, supportedNames []string) BaseEventHandler {
	return BaseEventHandler{name: name, priority: priority, supportedNames: supportedNames}
}

func (h BaseEventHandler) Name() string     { return h.name }
func (h BaseEventHandler) Priority() int    { return h.priority }

// SupportedEvents exposes the names a handler was constructed with, so
// callers wiring it into a HandlerRegistry don't need to repeat the list
// the handler already carries.
func (h BaseEventHandler) SupportedEvents() []string { return h.supportedNames }

func (h BaseEventHandler) SupportsEvent(name string) bool {
	for _, s := range h.supportedNames {
		if s == name || s == "*" {
			return true
		}
	}
	return false
}
