package entities

import (
	"time"

	"ontologykg/domain/core/valueobjects"
	"ontologykg/domain/events"
	"ontologykg/pkg/kgerrors"
)

// EdgeSource records how a relationship edge came to exist.
type EdgeSource string

const (
	EdgeSourceLLMExtraction EdgeSource = "llm_extraction"
	EdgeSourceHumanCuration EdgeSource = "human_curation"
)

// RelationshipEdge is a directed Concept->Concept edge labeled with a
// VocabType. Creating one requires the named VocabType to already exist
// and be active (spec.md §3/§4.2 invariant).
type RelationshipEdge struct {
	fromConcept valueobjects.ConceptID
	toConcept   valueobjects.ConceptID
	vocabType   valueobjects.VocabTypeName
	confidence  valueobjects.Confidence
	source      EdgeSource
	createdAt   time.Time
	createdBy   string
	jobID       valueobjects.JobID
	documentID  valueobjects.DocumentID

	events []events.DomainEvent
}

// NewRelationshipEdge creates an edge. isVocabActive must reflect the
// current state of the named VocabType at call time — the caller passes
// the IsActive() value it just read; no lock is held, so a type
// deactivated between that read and this call is not caught here.
func NewRelationshipEdge(from, to valueobjects.ConceptID, vocabType valueobjects.VocabTypeName, isVocabActive bool, confidence valueobjects.Confidence, source EdgeSource, jobID valueobjects.JobID, documentID valueobjects.DocumentID) (*RelationshipEdge, error) {
	if from.IsZero() || to.IsZero() {
		return nil, kgerrors.NewValidation("relationship edge requires both endpoints")
	}
	if from == to {
		return nil, kgerrors.NewValidation("relationship edge cannot be reflexive")
	}
	if !isVocabActive {
		return nil, kgerrors.NewSemanticConsistencyf("vocabulary type %q is not active", vocabType)
	}
	e := &RelationshipEdge{
		fromConcept: from, toConcept: to, vocabType: vocabType, confidence: confidence,
		source: source, createdAt: time.Now(), jobID: jobID, documentID: documentID,
		events: []events.DomainEvent{},
	}
	e.addEvent(events.NewRelationshipCreated(from, to, vocabType, confidence.Value(), jobID, documentID, time.Now()))
	return e, nil
}

func ReconstructRelationshipEdge(from, to valueobjects.ConceptID, vocabType valueobjects.VocabTypeName, confidence valueobjects.Confidence, source EdgeSource, createdAt time.Time, createdBy string, jobID valueobjects.JobID, documentID valueobjects.DocumentID) *RelationshipEdge {
	return &RelationshipEdge{
		fromConcept: from, toConcept: to, vocabType: vocabType, confidence: confidence,
		source: source, createdAt: createdAt, createdBy: createdBy, jobID: jobID, documentID: documentID,
		events: []events.DomainEvent{},
	}
}

func (e *RelationshipEdge) FromConcept() valueobjects.ConceptID    { return e.fromConcept }
func (e *RelationshipEdge) ToConcept() valueobjects.ConceptID      { return e.toConcept }
func (e *RelationshipEdge) VocabType() valueobjects.VocabTypeName  { return e.vocabType }
func (e *RelationshipEdge) Confidence() valueobjects.Confidence    { return e.confidence }
func (e *RelationshipEdge) Source() EdgeSource                     { return e.source }
func (e *RelationshipEdge) CreatedAt() time.Time                   { return e.createdAt }
func (e *RelationshipEdge) JobID() valueobjects.JobID              { return e.jobID }
func (e *RelationshipEdge) DocumentID() valueobjects.DocumentID    { return e.documentID }

func (e *RelationshipEdge) addEvent(ev events.DomainEvent) { e.events = append(e.events, ev) }

func (e *RelationshipEdge) Events() []events.DomainEvent {
	pending := e.events
	e.events = nil
	return pending
}
