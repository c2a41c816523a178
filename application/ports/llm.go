package ports

import "context"

// ExtractedConcept is one concept candidate returned by the LLM's
// structured extraction response (spec.md §4.4).
type ExtractedConcept struct {
	Label       string
	Description string
	SearchTerms []string
}

// ExtractedInstance is one evidence quote tying a concept label to the
// chunk being processed.
type ExtractedInstance struct {
	ConceptLabel string
	Quote        string
}

// ExtractedRelationship is one candidate Concept->Concept edge.
type ExtractedRelationship struct {
	FromLabel  string
	ToLabel    string
	VocabLabel string
	Confidence float64
}

// ExtractionResult is the strict JSON payload the LLM must return for a
// single chunk: `{ concepts, instances, relationships }`.
type ExtractionResult struct {
	Concepts      []ExtractedConcept
	Instances     []ExtractedInstance
	Relationships []ExtractedRelationship
}

// ExtractionContext supplies the LLM with the categories prompt and the
// concepts already seen earlier in the document, so matching stays
// coherent across chunks (spec.md §4.4 step 3).
type ExtractionContext struct {
	Ontology      string
	ChunkText     string
	SeenConcepts  []string
	VocabCategories []string
}

// LLMProvider is the shared capability trait every provider variant
// implements — a closed sum type (Mock/Anthropic/Ollama/Local), not a
// class hierarchy (spec.md §9).
type LLMProvider interface {
	ExtractConcepts(ctx context.Context, ec ExtractionContext) (ExtractionResult, error)
	DescribeImage(ctx context.Context, imageBytes []byte, mimeType string) (prose string, err error)
	// JudgeProposal asks whether a breathing-cycle promotion/demotion
	// rationale should be acted on — the optional LLM judgment step
	// the annealing cycle runs before recording a proposal (spec.md §4.6).
	JudgeProposal(ctx context.Context, rationale string) (approve bool, err error)
	Validate(ctx context.Context) error
	Name() string
}
