package commands

import (
	"context"

	appevents "ontologykg/application/events"
	"ontologykg/application/ports"
	"ontologykg/domain/core/entities"
	"ontologykg/pkg/kgerrors"
)

// TransitionOntologyLifecycleCommand moves an Ontology between
// active/pinned/frozen (spec.md §3).
type TransitionOntologyLifecycleCommand struct {
	Ontology string `validate:"required"`
	Next     entities.LifecycleState `validate:"required"`
}

func (TransitionOntologyLifecycleCommand) CommandName() string { return "transition_ontology_lifecycle" }

type TransitionOntologyLifecycleHandler struct {
	store    ports.Store
	registry *appevents.HandlerRegistry
}

func NewTransitionOntologyLifecycleHandler(store ports.Store, registry *appevents.HandlerRegistry) *TransitionOntologyLifecycleHandler {
	return &TransitionOntologyLifecycleHandler{store: store, registry: registry}
}

func (h *TransitionOntologyLifecycleHandler) Handle(ctx context.Context, c Command) error {
	cmd := c.(TransitionOntologyLifecycleCommand)

	ont, found, err := h.store.GetOntology(ctx, cmd.Ontology)
	if err != nil {
		return err
	}
	if !found {
		return kgerrors.NewSemanticConsistencyf("ontology %q does not exist", cmd.Ontology)
	}
	if err := ont.TransitionTo(cmd.Next); err != nil {
		return err
	}
	if err := h.store.SaveOntology(ctx, ont); err != nil {
		return err
	}
	h.registry.DispatchAll(ctx, ont.Events())
	return nil
}
