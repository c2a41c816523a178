package valueobjects

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ConceptID uniquely identifies a Concept node. It is content-addressed in
// the sense that the domain never holds an owning reference to a Concept,
// only this identifier, and resolves through the Store on demand.
type ConceptID string

// NewConceptID mints a fresh identifier in the "ont_<uuid>" shape the
// ingestion pipeline uses for freshly-created concepts.
func NewConceptID() ConceptID {
	return ConceptID(fmt.Sprintf("ont_%s", uuid.NewString()))
}

func (id ConceptID) String() string     { return string(id) }
func (id ConceptID) IsZero() bool       { return id == "" }
func (id ConceptID) Equals(o ConceptID) bool { return id == o }

// SourceID uniquely identifies a Source (document chunk) node.
type SourceID string

func NewSourceID() SourceID            { return SourceID(fmt.Sprintf("src_%s", uuid.NewString())) }
func (id SourceID) String() string     { return string(id) }
func (id SourceID) IsZero() bool       { return id == "" }
func (id SourceID) Equals(o SourceID) bool { return id == o }

// InstanceID uniquely identifies an Instance (verbatim quote) node.
type InstanceID string

func NewInstanceID() InstanceID          { return InstanceID(fmt.Sprintf("inst_%s", uuid.NewString())) }
func (id InstanceID) String() string     { return string(id) }
func (id InstanceID) IsZero() bool       { return id == "" }
func (id InstanceID) Equals(o InstanceID) bool { return id == o }

// OntologyID uniquely identifies an Ontology (knowledge domain) node.
type OntologyID string

func NewOntologyID() OntologyID            { return OntologyID(fmt.Sprintf("ont_%s", uuid.NewString())) }
func (id OntologyID) String() string       { return string(id) }
func (id OntologyID) IsZero() bool         { return id == "" }
func (id OntologyID) Equals(o OntologyID) bool { return id == o }

// DocumentID is the content_hash of the ingested document, so it is never
// minted directly — see NewDocumentID.
type DocumentID string

func NewDocumentID(contentHash string) DocumentID { return DocumentID(contentHash) }
func (id DocumentID) String() string              { return string(id) }
func (id DocumentID) IsZero() bool                { return id == "" }

// JobID uniquely identifies a queued background job.
type JobID string

func NewJobID() JobID        { return JobID(fmt.Sprintf("job_%s", uuid.NewString())) }
func (id JobID) String() string { return string(id) }
func (id JobID) IsZero() bool   { return id == "" }

// ProposalID uniquely identifies an annealing proposal.
type ProposalID string

func NewProposalID() ProposalID        { return ProposalID(fmt.Sprintf("prop_%s", uuid.NewString())) }
func (id ProposalID) String() string   { return string(id) }
func (id ProposalID) IsZero() bool     { return id == "" }

// VocabTypeName is a validated relationship-type identifier: uppercase
// snake-case, e.g. "SUPPORTS". Only values accepted by NewVocabTypeName
// may ever be interpolated into a Cypher-style query template.
type VocabTypeName string

func (n VocabTypeName) String() string { return string(n) }

// IsValidIdentifier reports whether s satisfies the ^[A-Z][A-Z0-9_]*$
// relationship-type grammar required before any query-template
// interpolation (spec.md §4.1/§9).
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	first := s[0]
	if first < 'A' || first > 'Z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') && c != '_' {
			return false
		}
	}
	return true
}

// NewVocabTypeName validates s and returns it as a VocabTypeName, or an
// error if it doesn't match the identifier grammar.
func NewVocabTypeName(s string) (VocabTypeName, error) {
	s = strings.TrimSpace(s)
	if !IsValidIdentifier(s) {
		return "", fmt.Errorf("invalid vocabulary type identifier %q: must match ^[A-Z][A-Z0-9_]*$", s)
	}
	return VocabTypeName(s), nil
}
