package entities

import (
	"ontologykg/domain/core/valueobjects"
	"ontologykg/pkg/kgerrors"
)

// Instance is a verbatim quote tying a Concept to a Source. Instances are
// deduplicated on (quote, source_id) — spec.md §3.
type Instance struct {
	id       valueobjects.InstanceID
	conceptID valueobjects.ConceptID
	sourceID valueobjects.SourceID
	quote    string
}

// NewInstance creates a new Instance linking conceptID to sourceID via a
// verbatim quote.
func NewInstance(conceptID valueobjects.ConceptID, sourceID valueobjects.SourceID, quote string) (*Instance, error) {
	if quote == "" {
		return nil, kgerrors.NewValidation("instance quote cannot be empty")
	}
	if conceptID.IsZero() || sourceID.IsZero() {
		return nil, kgerrors.NewValidation("instance requires both concept and source ids")
	}
	return &Instance{
		id:        valueobjects.NewInstanceID(),
		conceptID: conceptID,
		sourceID:  sourceID,
		quote:     quote,
	}, nil
}

func ReconstructInstance(id valueobjects.InstanceID, conceptID valueobjects.ConceptID, sourceID valueobjects.SourceID, quote string) *Instance {
	return &Instance{id: id, conceptID: conceptID, sourceID: sourceID, quote: quote}
}

func (i *Instance) ID() valueobjects.InstanceID    { return i.id }
func (i *Instance) ConceptID() valueobjects.ConceptID { return i.conceptID }
func (i *Instance) SourceID() valueobjects.SourceID   { return i.sourceID }
func (i *Instance) Quote() string                  { return i.quote }

// DedupeKey is the (quote, source_id) pair Instance uniqueness is keyed
// on — the Store uses this to implement MERGE-style upserts.
func (i *Instance) DedupeKey() (string, valueobjects.SourceID) { return i.quote, i.sourceID }
