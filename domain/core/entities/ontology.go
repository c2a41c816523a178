package entities

import (
	"time"

	"ontologykg/domain/core/valueobjects"
	"ontologykg/domain/events"
	"ontologykg/pkg/kgerrors"
)

// LifecycleState is an Ontology's ingestion/maintenance posture.
type LifecycleState string

const (
	LifecycleActive LifecycleState = "active"
	LifecyclePinned LifecycleState = "pinned"
	LifecycleFrozen LifecycleState = "frozen"
)

// Ontology is a named knowledge domain.
type Ontology struct {
	id             valueobjects.OntologyID
	name           string
	description    string
	embedding      valueobjects.Embedding
	searchTerms    []string
	lifecycleState LifecycleState
	creationEpoch  int64
	createdBy      string

	events []events.DomainEvent
}

// NewOntology creates a new Ontology in the active lifecycle state.
func NewOntology(name, description, createdBy string, epoch int64) (*Ontology, error) {
	if name == "" {
		return nil, kgerrors.NewValidation("ontology name cannot be empty")
	}
	return &Ontology{
		id:             valueobjects.NewOntologyID(),
		name:           name,
		description:    description,
		lifecycleState: LifecycleActive,
		creationEpoch:  epoch,
		createdBy:      createdBy,
		events:         []events.DomainEvent{},
	}, nil
}

func ReconstructOntology(id valueobjects.OntologyID, name, description string, embedding valueobjects.Embedding, searchTerms []string, state LifecycleState, creationEpoch int64, createdBy string) *Ontology {
	return &Ontology{
		id: id, name: name, description: description, embedding: embedding,
		searchTerms: searchTerms, lifecycleState: state, creationEpoch: creationEpoch, createdBy: createdBy,
		events: []events.DomainEvent{},
	}
}

func (o *Ontology) ID() valueobjects.OntologyID          { return o.id }
func (o *Ontology) Name() string                          { return o.name }
func (o *Ontology) Description() string                   { return o.description }
func (o *Ontology) LifecycleState() LifecycleState         { return o.lifecycleState }
func (o *Ontology) CreationEpoch() int64                   { return o.creationEpoch }
func (o *Ontology) CreatedBy() string                      { return o.createdBy }
func (o *Ontology) Embedding() valueobjects.Embedding       { return o.embedding }

// AcceptsIngestion reports whether documents may currently be ingested
// into this ontology. Frozen rejects ingestion; pinned allows it
// (spec.md §3/§8).
func (o *Ontology) AcceptsIngestion() bool { return o.lifecycleState != LifecycleFrozen }

// allowedTransitions encodes "active -> pinned|frozen; pinned <-> active;
// frozen -> active (admin-gated)" from spec.md §3.
var allowedTransitions = map[LifecycleState]map[LifecycleState]bool{
	LifecycleActive: {LifecyclePinned: true, LifecycleFrozen: true},
	LifecyclePinned: {LifecycleActive: true},
	LifecycleFrozen: {LifecycleActive: true},
}

// TransitionTo moves the ontology to a new lifecycle state, rejecting
// transitions the state machine doesn't allow. Frozen -> active is
// admin-gated by the caller (this method only enforces reachability).
func (o *Ontology) TransitionTo(next LifecycleState) error {
	if next == o.lifecycleState {
		return nil
	}
	if !allowedTransitions[o.lifecycleState][next] {
		return kgerrors.NewSemanticConsistencyf("cannot transition ontology %q from %s to %s", o.name, o.lifecycleState, next)
	}
	prev := o.lifecycleState
	o.lifecycleState = next
	o.addEvent(events.NewOntologyLifecycleChanged(o.id, string(prev), string(next), time.Now()))
	return nil
}

func (o *Ontology) addEvent(e events.DomainEvent) { o.events = append(o.events, e) }

func (o *Ontology) Events() []events.DomainEvent {
	pending := o.events
	o.events = nil
	return pending
}
