// Package events defines the domain events emitted by entities and
// aggregates as their lifecycle methods run. Application-layer listeners
// (application/events) subscribe to these; infrastructure publishes a
// subset of them externally via the EventPublisher port.
package events

import (
	"time"

	"ontologykg/domain/core/valueobjects"
)

// DomainEvent is implemented by every event an entity can raise.
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

type base struct {
	Name string    `json:"event"`
	At   time.Time `json:"occurred_at"`
}

func (b base) EventName() string    { return b.Name }
func (b base) OccurredAt() time.Time { return b.At }

// ConceptCreated fires when a brand-new Concept node is created (cosine
// similarity against existing concepts was below the match threshold).
type ConceptCreated struct {
	base
	ConceptID valueobjects.ConceptID
	Ontology  string
	Label     string
}

func NewConceptCreated(id valueobjects.ConceptID, ontology, label string, at time.Time) ConceptCreated {
	return ConceptCreated{base: base{Name: "concept.created", At: at}, ConceptID: id, Ontology: ontology, Label: label}
}

// ConceptMatched fires when ingestion reuses an existing Concept instead
// of creating a new one.
type ConceptMatched struct {
	base
	ConceptID  valueobjects.ConceptID
	Similarity float64
	SeenCount  int
}

func NewConceptMatched(id valueobjects.ConceptID, similarity float64, seenCount int, at time.Time) ConceptMatched {
	return ConceptMatched{base: base{Name: "concept.matched", At: at}, ConceptID: id, Similarity: similarity, SeenCount: seenCount}
}

// InstanceCreated fires when a new verbatim quote is linked to a concept.
type InstanceCreated struct {
	base
	InstanceID valueobjects.InstanceID
	ConceptID  valueobjects.ConceptID
	SourceID   valueobjects.SourceID
}

func NewInstanceCreated(id valueobjects.InstanceID, conceptID valueobjects.ConceptID, sourceID valueobjects.SourceID, at time.Time) InstanceCreated {
	return InstanceCreated{base: base{Name: "instance.created", At: at}, InstanceID: id, ConceptID: conceptID, SourceID: sourceID}
}

// RelationshipCreated fires when a Concept->Concept edge is written.
type RelationshipCreated struct {
	base
	From       valueobjects.ConceptID
	To         valueobjects.ConceptID
	VocabType  valueobjects.VocabTypeName
	Confidence float64
	JobID      valueobjects.JobID
	DocumentID valueobjects.DocumentID
}

func NewRelationshipCreated(from, to valueobjects.ConceptID, vt valueobjects.VocabTypeName, confidence float64, jobID valueobjects.JobID, docID valueobjects.DocumentID, at time.Time) RelationshipCreated {
	return RelationshipCreated{base: base{Name: "relationship.created", At: at}, From: from, To: to, VocabType: vt, Confidence: confidence, JobID: jobID, DocumentID: docID}
}

// VocabTypeCreated fires when a new relationship vocabulary entry is
// registered, either from a built-in seed or an LLM-generated label.
type VocabTypeCreated struct {
	base
	Name     valueobjects.VocabTypeName
	IsBuiltin bool
}

func NewVocabTypeCreated(name valueobjects.VocabTypeName, isBuiltin bool, at time.Time) VocabTypeCreated {
	return VocabTypeCreated{base: base{Name: "vocab_type.created", At: at}, Name: name, IsBuiltin: isBuiltin}
}

// VocabTypeCategorized fires once a VocabType's category has been
// assigned by seed-similarity scoring.
type VocabTypeCategorized struct {
	base
	Name       valueobjects.VocabTypeName
	Category   string
	Confidence float64
	Ambiguous  bool
}

func NewVocabTypeCategorized(name valueobjects.VocabTypeName, category string, confidence float64, ambiguous bool, at time.Time) VocabTypeCategorized {
	return VocabTypeCategorized{base: base{Name: "vocab_type.categorized", At: at}, Name: name, Category: category, Confidence: confidence, Ambiguous: ambiguous}
}

// VocabTypeMerged fires when one vocabulary type is merged into another.
type VocabTypeMerged struct {
	base
	Deprecated valueobjects.VocabTypeName
	Target     valueobjects.VocabTypeName
	EdgesMoved int
}

func NewVocabTypeMerged(deprecated, target valueobjects.VocabTypeName, edgesMoved int, at time.Time) VocabTypeMerged {
	return VocabTypeMerged{base: base{Name: "vocab_type.merged", At: at}, Deprecated: deprecated, Target: target, EdgesMoved: edgesMoved}
}

// VocabTypeDeprecated fires when is_active is flipped to false.
type VocabTypeDeprecated struct {
	base
	Name   valueobjects.VocabTypeName
	Reason string
}

func NewVocabTypeDeprecated(name valueobjects.VocabTypeName, reason string, at time.Time) VocabTypeDeprecated {
	return VocabTypeDeprecated{base: base{Name: "vocab_type.deprecated", At: at}, Name: name, Reason: reason}
}

// OntologyLifecycleChanged fires on active/pinned/frozen transitions.
type OntologyLifecycleChanged struct {
	base
	OntologyID valueobjects.OntologyID
	From       string
	To         string
}

func NewOntologyLifecycleChanged(id valueobjects.OntologyID, from, to string, at time.Time) OntologyLifecycleChanged {
	return OntologyLifecycleChanged{base: base{Name: "ontology.lifecycle_changed", At: at}, OntologyID: id, From: from, To: to}
}

// DocumentIngested fires exactly once per successfully-ingested document,
// the moment DocumentMeta is committed — the single place the global
// epoch counter advances.
type DocumentIngested struct {
	base
	DocumentID   valueobjects.DocumentID
	Ontology     string
	SourceCount  int
	Epoch        int64
	JobID        valueobjects.JobID
}

func NewDocumentIngested(docID valueobjects.DocumentID, ontology string, sourceCount int, epoch int64, jobID valueobjects.JobID, at time.Time) DocumentIngested {
	return DocumentIngested{base: base{Name: "document.ingested", At: at}, DocumentID: docID, Ontology: ontology, SourceCount: sourceCount, Epoch: epoch, JobID: jobID}
}

// EpistemicStatusMeasured fires when a VocabType's epistemic status is
// (re)computed by the sampled classifier.
type EpistemicStatusMeasured struct {
	base
	Name      valueobjects.VocabTypeName
	Status    string
	Mean      float64
	SampleN   int
}

func NewEpistemicStatusMeasured(name valueobjects.VocabTypeName, status string, mean float64, sampleN int, at time.Time) EpistemicStatusMeasured {
	return EpistemicStatusMeasured{base: base{Name: "vocab_type.epistemic_measured", At: at}, Name: name, Status: status, Mean: mean, SampleN: sampleN}
}

// AnnealingProposalCreated fires when the breathing cycle records a
// promote/demote/merge/deprecate proposal, either for human review or
// autonomous-mode auto-approval.
type AnnealingProposalCreated struct {
	base
	ProposalID string
	Action     string
	TargetID   string
	Score      float64
}

func NewAnnealingProposalCreated(proposalID, action, targetID string, score float64, at time.Time) AnnealingProposalCreated {
	return AnnealingProposalCreated{base: base{Name: "annealing.proposal_created", At: at}, ProposalID: proposalID, Action: action, TargetID: targetID, Score: score}
}

// AnnealingProposalReviewed fires when a proposal is approved or rejected,
// whether by a human reviewer or the autonomous-mode cycle itself.
type AnnealingProposalReviewed struct {
	base
	ProposalID string
	Status     string
	ReviewedBy string
}

func NewAnnealingProposalReviewed(proposalID, status, reviewedBy string, at time.Time) AnnealingProposalReviewed {
	return AnnealingProposalReviewed{base: base{Name: "annealing.proposal_reviewed", At: at}, ProposalID: proposalID, Status: status, ReviewedBy: reviewedBy}
}
