package events

import (
	"context"

	"ontologykg/application/ports"
	"ontologykg/domain/events"
)

// externallyPublishedEvents is the subset of domain events the outside
// world is allowed to observe — provenance and maintenance milestones,
// not every internal concept-match or usage-count bump (spec.md §4.6/§6
// never describe publishing concept/instance churn externally).
var externallyPublishedEvents = []string{
	"document.ingested",
	"vocab_type.merged",
	"vocab_type.deprecated",
	"ontology.lifecycle_changed",
	"annealing.proposal_created",
	"annealing.proposal_reviewed",
}

// ExternalPublisherHandler forwards a fixed subset of domain events to the
// EventPublisher port (AWS EventBridge in infrastructure).
type ExternalPublisherHandler struct {
	BaseEventHandler
	publisher ports.EventPublisher
}

func NewExternalPublisherHandler(publisher ports.EventPublisher) *ExternalPublisherHandler {
	return &ExternalPublisherHandler{
		BaseEventHandler: NewBaseEventHandler("ExternalPublisherHandler", 10, externallyPublishedEvents),
		publisher:        publisher,
	}
}

func (h *ExternalPublisherHandler) Handle(ctx context.Context, event events.DomainEvent) error {
	return h.publisher.Publish(ctx, event)
}
