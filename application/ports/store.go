// Package ports declares the interfaces application services and sagas
// depend on, implemented by infrastructure — the hexagonal boundary
// grounded on the teacher's application/ports/repositories.go.
package ports

import (
	"context"

	"ontologykg/domain/core/entities"
	"ontologykg/domain/core/valueobjects"
)

// Store is the single owner of graph and relational state. Cypher-style
// query execution and plain relational access are exposed as separate
// capability groups on one interface, mirroring the teacher's AGEClient
// mixin split without inheritance (spec.md §9).
type Store interface {
	GraphStore
	RelationalStore
}

// GraphStore executes parameterized Cypher-style queries against the
// property graph. Relationship labels are never parameters — callers
// must validate them with valueobjects.IsValidIdentifier before
// interpolating into a query template (spec.md §9).
type GraphStore interface {
	ExecuteCypher(ctx context.Context, ontology string, query string, params map[string]any) ([]map[string]any, error)
	UpsertConceptNode(ctx context.Context, c *entities.Concept) error
	UpsertSourceNode(ctx context.Context, s *entities.Source) error
	UpsertInstanceNode(ctx context.Context, i *entities.Instance) error
	CreateRelationshipEdge(ctx context.Context, e *entities.RelationshipEdge) error
	RewriteRelationshipLabel(ctx context.Context, fromType, toType valueobjects.VocabTypeName) (edgesMoved int, err error)
	FindConceptsByOntology(ctx context.Context, ontology string) ([]*entities.Concept, error)
	GetConceptNode(ctx context.Context, id valueobjects.ConceptID) (*entities.Concept, bool, error)
	// DeleteConceptNode removes a concept and the instances/edges that
	// reference it — an annealing demotion proposal's execution
	// (spec.md §9 "Sources, Instances, Concepts ... live until an
	// admin/annealing job removes them").
	DeleteConceptNode(ctx context.Context, id valueobjects.ConceptID) error
	FindIncomingEdges(ctx context.Context, conceptID valueobjects.ConceptID) ([]Edge, error)
	SampleEdgesByVocabType(ctx context.Context, vocabType valueobjects.VocabTypeName, limit int) ([]Edge, error)
	ListDistinctEdgeLabels(ctx context.Context) ([]valueobjects.VocabTypeName, error)
}

// Edge is the minimal shape the grounding and vocabulary services need
// about a graph edge, independent of the graph engine's own row shape.
type Edge struct {
	From       valueobjects.ConceptID
	To         valueobjects.ConceptID
	VocabType  valueobjects.VocabTypeName
	Confidence float64
}

// RelationalStore is the `kg_api` schema: document provenance, ontologies,
// vocabulary metadata, and the process-wide counters that must survive a
// restart (spec.md §9 "Global state").
type RelationalStore interface {
	GetDocumentMeta(ctx context.Context, contentHash, ontology string) (*entities.DocumentMeta, bool, error)
	SaveDocumentMeta(ctx context.Context, d *entities.DocumentMeta) error

	GetOntology(ctx context.Context, name string) (*entities.Ontology, bool, error)
	CreateOntologyIfNotExists(ctx context.Context, o *entities.Ontology) (*entities.Ontology, error)
	SaveOntology(ctx context.Context, o *entities.Ontology) error

	GetVocabType(ctx context.Context, name valueobjects.VocabTypeName) (*entities.VocabType, bool, error)
	ListVocabTypes(ctx context.Context) ([]*entities.VocabType, error)
	ListVocabTypesByCategory(ctx context.Context, category entities.VocabCategory) ([]*entities.VocabType, error)
	CreateVocabTypeIfNotExists(ctx context.Context, v *entities.VocabType) (*entities.VocabType, error)
	SaveVocabType(ctx context.Context, v *entities.VocabType) error
	RecordVocabularyHistory(ctx context.Context, deprecated, target valueobjects.VocabTypeName, edgesMoved int) error

	// GetCurrentDocumentEpoch peeks document_ingestion_epoch without
	// advancing it — ingestion stamps concepts with the epoch in effect
	// when extraction ran, not the one its own completion will produce.
	GetCurrentDocumentEpoch(ctx context.Context) (epoch int64, err error)
	IncrementDocumentIngestionCounter(ctx context.Context) (epoch int64, err error)
	IncrementVocabularyChangeCounter(ctx context.Context, delta int) (total int64, err error)
	ResetVocabularyChangeCounter(ctx context.Context) error

	// ClaimBreathingWindow atomically checks current_epoch -
	// last_breathing_epoch >= interval and, if so, advances
	// last_breathing_epoch in the same statement, returning claimed=true
	// only for the single caller that won the race (spec.md §4.6).
	ClaimBreathingWindow(ctx context.Context, interval int64) (claimed bool, currentEpoch int64, err error)

	GetEmbeddingProfile(ctx context.Context) (name string, dimensions int, err error)
	SetEmbeddingProfile(ctx context.Context, name string, dimensions int) error
	IsInitialized(ctx context.Context) (bool, error)
	SetInitialized(ctx context.Context) error

	MarkEmbeddingsStale(ctx context.Context, previousModel string) error

	SaveAnnealingProposal(ctx context.Context, p *entities.AnnealingProposal) error
	ListPendingAnnealingProposals(ctx context.Context) ([]*entities.AnnealingProposal, error)

	// ListStaleConcepts returns concepts in ontology whose last_seen_epoch
	// trails currentEpoch by at least minEpochsSinceSeen — the breathing
	// cycle's demotion candidate pool (spec.md §4.6 annealing).
	ListStaleConcepts(ctx context.Context, ontology string, minEpochsSinceSeen, currentEpoch int64) ([]*entities.Concept, error)
}
