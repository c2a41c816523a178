package entities

import (
	"time"

	"ontologykg/domain/core/valueobjects"
	"ontologykg/domain/events"
	"ontologykg/pkg/kgerrors"
)

// DirectionSemantics describes how a relationship type's direction should
// be read.
type DirectionSemantics string

const (
	DirectionOutward      DirectionSemantics = "outward"
	DirectionInward       DirectionSemantics = "inward"
	DirectionBidirectional DirectionSemantics = "bidirectional"
)

// CategorySource records how a VocabType's category was assigned.
type CategorySource string

const (
	CategorySourceAssignedAtCreation CategorySource = "assigned_at_creation"
	CategorySourceComputed           CategorySource = "computed"
	CategorySourceLLMGenerated       CategorySource = "llm_generated"
)

// EpistemicStatus is the sampled classifier's verdict on a VocabType's
// measured grounding distribution (spec.md §4.5).
type EpistemicStatus string

const (
	EpistemicWellGrounded     EpistemicStatus = "WELL_GROUNDED"
	EpistemicMixedGrounding   EpistemicStatus = "MIXED_GROUNDING"
	EpistemicWeakGrounding    EpistemicStatus = "WEAK_GROUNDING"
	EpistemicPoorlyGrounded   EpistemicStatus = "POORLY_GROUNDED"
	EpistemicContradicted     EpistemicStatus = "CONTRADICTED"
	EpistemicHistorical       EpistemicStatus = "HISTORICAL"
	EpistemicInsufficientData EpistemicStatus = "INSUFFICIENT_DATA"
)

// EpistemicStats is the sampled classifier's raw measurement, stored
// alongside the derived EpistemicStatus.
type EpistemicStats struct {
	SampleSize     int
	MeanProjection float64
	MeasuredAt     time.Time
}

// CategoryScores is the per-category similarity score map produced by
// seed-similarity categorization — kept on the VocabType so repeated
// computation with unchanged embeddings is checkably idempotent
// (spec.md §8).
type CategoryScores map[VocabCategory]float64

// VocabType is a relationship label usable on a Concept->Concept edge.
type VocabType struct {
	name                 valueobjects.VocabTypeName
	description          string
	isActive             bool
	isBuiltin            bool
	usageCount           int
	directionSemantics   DirectionSemantics
	embedding            valueobjects.Embedding
	category             VocabCategory
	categorySource       CategorySource
	categoryConfidence   float64
	categoryScores       CategoryScores
	categoryAmbiguous    bool
	deprecationReason    string
	epistemicStatus      EpistemicStatus
	epistemicRationale   string
	epistemicStats       EpistemicStats

	events []events.DomainEvent
}

// NewBuiltinVocabType creates one of the 30 seed relationship types with
// its category assigned at creation time (not computed).
func NewBuiltinVocabType(name valueobjects.VocabTypeName, description string, category VocabCategory, direction DirectionSemantics) (*VocabType, error) {
	if !category.IsValid() {
		return nil, kgerrors.NewValidationf("unknown vocabulary category %q", category)
	}
	vt := &VocabType{
		name: name, description: description, isActive: true, isBuiltin: true,
		directionSemantics: direction, category: category,
		categorySource: CategorySourceAssignedAtCreation, categoryConfidence: 1.0,
		events: []events.DomainEvent{},
	}
	vt.addEvent(events.NewVocabTypeCreated(name, true, time.Now()))
	return vt, nil
}

// NewGeneratedVocabType creates a relationship type discovered during
// ingestion or vocabulary sync, with no category yet assigned — a
// categorization pass assigns one immediately after (spec.md §4.3/§4.4).
func NewGeneratedVocabType(name valueobjects.VocabTypeName, description string, direction DirectionSemantics) *VocabType {
	vt := &VocabType{
		name: name, description: description, isActive: true, isBuiltin: false,
		directionSemantics: direction, categorySource: CategorySourceLLMGenerated,
		events: []events.DomainEvent{},
	}
	vt.addEvent(events.NewVocabTypeCreated(name, false, time.Now()))
	return vt
}

func ReconstructVocabType(
	name valueobjects.VocabTypeName, description string, isActive, isBuiltin bool, usageCount int,
	direction DirectionSemantics, embedding valueobjects.Embedding,
	category VocabCategory, categorySource CategorySource, categoryConfidence float64, categoryScores CategoryScores, ambiguous bool,
	deprecationReason string, epistemicStatus EpistemicStatus, epistemicRationale string, epistemicStats EpistemicStats,
) *VocabType {
	return &VocabType{
		name: name, description: description, isActive: isActive, isBuiltin: isBuiltin, usageCount: usageCount,
		directionSemantics: direction, embedding: embedding,
		category: category, categorySource: categorySource, categoryConfidence: categoryConfidence,
		categoryScores: categoryScores, categoryAmbiguous: ambiguous,
		deprecationReason: deprecationReason, epistemicStatus: epistemicStatus, epistemicRationale: epistemicRationale,
		epistemicStats: epistemicStats,
		events:          []events.DomainEvent{},
	}
}

func (v *VocabType) Name() valueobjects.VocabTypeName     { return v.name }
func (v *VocabType) Description() string                  { return v.description }
func (v *VocabType) IsActive() bool                        { return v.isActive }
func (v *VocabType) IsBuiltin() bool                        { return v.isBuiltin }
func (v *VocabType) UsageCount() int                        { return v.usageCount }
func (v *VocabType) DirectionSemantics() DirectionSemantics { return v.directionSemantics }
func (v *VocabType) Embedding() valueobjects.Embedding      { return v.embedding }
func (v *VocabType) Category() VocabCategory                { return v.category }
func (v *VocabType) CategorySource() CategorySource         { return v.categorySource }
func (v *VocabType) CategoryConfidence() float64            { return v.categoryConfidence }
func (v *VocabType) CategoryScores() CategoryScores         { return v.categoryScores }
func (v *VocabType) CategoryAmbiguous() bool                { return v.categoryAmbiguous }
func (v *VocabType) DeprecationReason() string              { return v.deprecationReason }
func (v *VocabType) EpistemicStatus() EpistemicStatus       { return v.epistemicStatus }
func (v *VocabType) EpistemicRationale() string              { return v.epistemicRationale }
func (v *VocabType) EpistemicStats() EpistemicStats         { return v.epistemicStats }

// SetEmbedding attaches the embedding the categorization algorithm needs;
// a VocabType with no embedding cannot be categorized (spec.md §8).
func (v *VocabType) SetEmbedding(e valueobjects.Embedding) { v.embedding = e }

// RecordUsage increments the usage counter when an edge of this type is
// created.
func (v *VocabType) RecordUsage() { v.usageCount++ }

// AssignCategory records the outcome of seed-similarity categorization.
// Thresholds (spec.md §4.3): >=0.70 confident, 0.50-0.69 warn, <0.50 flag
// for review — the threshold interpretation lives in the categorization
// domain service; this method only records the verdict.
func (v *VocabType) AssignCategory(category VocabCategory, confidence float64, scores CategoryScores, ambiguous bool) error {
	if v.embedding.IsZero() {
		return kgerrors.NewValidationf("vocabulary type %q has no embedding; cannot categorize", v.name)
	}
	v.category = category
	v.categorySource = CategorySourceComputed
	v.categoryConfidence = confidence
	v.categoryScores = scores
	v.categoryAmbiguous = ambiguous
	v.addEvent(events.NewVocabTypeCategorized(v.name, string(category), confidence, ambiguous, time.Now()))
	return nil
}

// Deprecate flips is_active false with a reason, used by Merge.
func (v *VocabType) Deprecate(reason string) {
	v.isActive = false
	v.deprecationReason = reason
	v.addEvent(events.NewVocabTypeDeprecated(v.name, reason, time.Now()))
}

// RecordEpistemicMeasurement stores the sampled classifier's verdict.
func (v *VocabType) RecordEpistemicMeasurement(status EpistemicStatus, rationale string, stats EpistemicStats) {
	v.epistemicStatus = status
	v.epistemicRationale = rationale
	v.epistemicStats = stats
	v.addEvent(events.NewEpistemicStatusMeasured(v.name, string(status), stats.MeanProjection, stats.SampleSize, time.Now()))
}

func (v *VocabType) addEvent(e events.DomainEvent) { v.events = append(v.events, e) }

func (v *VocabType) Events() []events.DomainEvent {
	pending := v.events
	v.events = nil
	return pending
}
