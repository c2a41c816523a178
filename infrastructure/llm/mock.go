package llm

import (
	"context"
	"strings"

	"ontologykg/application/ports"
)

// Mock returns deterministic, content-derived extractions with no
// network call — the provider used when none is configured, for an
// operator running the pipeline against a Postgres instance without an
// LLM credential on hand.
type Mock struct{}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) ExtractConcepts(ctx context.Context, ec ports.ExtractionContext) (ports.ExtractionResult, error) {
	words := strings.Fields(ec.ChunkText)
	if len(words) == 0 {
		return ports.ExtractionResult{}, nil
	}
	label := strings.Trim(strings.ToUpper(words[0]), ".,;:!?\"'")
	if label == "" {
		return ports.ExtractionResult{}, nil
	}
	result := ports.ExtractionResult{
		Concepts: []ports.ExtractedConcept{{
			Label:       label,
			Description: ec.ChunkText,
			SearchTerms: []string{strings.ToLower(label)},
		}},
		Instances: []ports.ExtractedInstance{{ConceptLabel: label, Quote: ec.ChunkText}},
	}
	if len(ec.SeenConcepts) > 0 {
		result.Relationships = []ports.ExtractedRelationship{{
			FromLabel:  ec.SeenConcepts[len(ec.SeenConcepts)-1],
			ToLabel:    label,
			VocabLabel: "RELATED_TO",
			Confidence: 0.5,
		}}
	}
	return result, nil
}

func (m *Mock) DescribeImage(ctx context.Context, imageBytes []byte, mimeType string) (string, error) {
	return "an image", nil
}

func (m *Mock) JudgeProposal(ctx context.Context, rationale string) (bool, error) {
	return true, nil
}

func (m *Mock) Validate(ctx context.Context) error { return nil }
func (m *Mock) Name() string                        { return "mock" }

var _ ports.LLMProvider = (*Mock)(nil)
