// Package entities holds the rich domain models of the ontology graph:
// Concept, Source, Instance, Ontology, DocumentMeta, VocabType, and
// VocabCategory. Each follows the same shape as the teacher's Node
// entity — private fields, a New*/Reconstruct* constructor pair, and an
// accumulated slice of domain events drained by the repository on save.
package entities

import (
	"time"

	"ontologykg/domain/core/valueobjects"
	"ontologykg/domain/events"
	"ontologykg/pkg/kgerrors"
)

// CreationMethod records how a Concept came to exist.
type CreationMethod string

const (
	CreationLLMExtraction CreationMethod = "llm_extraction"
	CreationHumanCuration CreationMethod = "human_curation"
	CreationSynthetic     CreationMethod = "synthetic"
)

// Concept is a semantic entity abstracted from one or more quotes.
type Concept struct {
	id              valueobjects.ConceptID
	ontology        string
	label           string
	description     string
	embedding       valueobjects.Embedding
	searchTerms     []string
	creationMethod  CreationMethod
	createdAtEpoch  int64
	lastSeenEpoch   int64
	seenCount       int

	events []events.DomainEvent
}

// NewConcept creates a brand-new Concept. Used when ingestion finds no
// existing concept above the match threshold.
func NewConcept(ontology, label, description string, embedding valueobjects.Embedding, searchTerms []string, method CreationMethod, epoch int64) (*Concept, error) {
	if ontology == "" {
		return nil, kgerrors.NewValidation("ontology cannot be empty")
	}
	if label == "" {
		return nil, kgerrors.NewValidation("concept label cannot be empty")
	}

	c := &Concept{
		id:             valueobjects.NewConceptID(),
		ontology:       ontology,
		label:          label,
		description:    description,
		embedding:      embedding,
		searchTerms:    append([]string(nil), searchTerms...),
		creationMethod: method,
		createdAtEpoch: epoch,
		lastSeenEpoch:  epoch,
		seenCount:      1,
		events:         []events.DomainEvent{},
	}
	c.addEvent(events.NewConceptCreated(c.id, ontology, label, time.Now()))
	return c, nil
}

// ReconstructConcept rehydrates a Concept from stored state without
// raising creation events.
func ReconstructConcept(
	id valueobjects.ConceptID,
	ontology, label, description string,
	embedding valueobjects.Embedding,
	searchTerms []string,
	method CreationMethod,
	createdAtEpoch, lastSeenEpoch int64,
	seenCount int,
) *Concept {
	return &Concept{
		id:             id,
		ontology:       ontology,
		label:          label,
		description:    description,
		embedding:      embedding,
		searchTerms:    searchTerms,
		creationMethod: method,
		createdAtEpoch: createdAtEpoch,
		lastSeenEpoch:  lastSeenEpoch,
		seenCount:      seenCount,
		events:         []events.DomainEvent{},
	}
}

func (c *Concept) ID() valueobjects.ConceptID       { return c.id }
func (c *Concept) Ontology() string                 { return c.ontology }
func (c *Concept) Label() string                    { return c.label }
func (c *Concept) Description() string              { return c.description }
func (c *Concept) Embedding() valueobjects.Embedding { return c.embedding }
func (c *Concept) SearchTerms() []string             { return append([]string(nil), c.searchTerms...) }
func (c *Concept) CreationMethod() CreationMethod    { return c.creationMethod }
func (c *Concept) CreatedAtEpoch() int64             { return c.createdAtEpoch }
func (c *Concept) LastSeenEpoch() int64              { return c.lastSeenEpoch }
func (c *Concept) SeenCount() int                    { return c.seenCount }

// RecordSeen bumps last_seen_epoch and seen_count when ingestion matches
// this concept again in a later document (spec.md §4.4 concept matching).
func (c *Concept) RecordSeen(similarity float64, epoch int64) {
	c.lastSeenEpoch = epoch
	c.seenCount++
	c.addEvent(events.NewConceptMatched(c.id, similarity, c.seenCount, time.Now()))
}

// UpdateEmbedding replaces the stored embedding, used by
// regenerate-embeddings admin flows and profile swaps.
func (c *Concept) UpdateEmbedding(e valueobjects.Embedding) {
	c.embedding = e
}

func (c *Concept) addEvent(e events.DomainEvent) { c.events = append(c.events, e) }

// Events returns and clears the concept's pending domain events.
func (c *Concept) Events() []events.DomainEvent {
	pending := c.events
	c.events = nil
	return pending
}
