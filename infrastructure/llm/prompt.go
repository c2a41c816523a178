// Package llm implements ports.LLMProvider as a closed sum type —
// Mock, Anthropic, Ollama, and Local — selected at startup by
// infrastructure/config.LLMConfig.Provider rather than a class
// hierarchy (spec.md §9).
package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"ontologykg/application/ports"
)

const extractionSystemPrompt = `You extract a knowledge graph from a single document chunk.
Return strict JSON matching this shape and nothing else:
{"concepts":[{"label":"","description":"","search_terms":[""]}],
 "instances":[{"concept_label":"","quote":""}],
 "relationships":[{"from_label":"","to_label":"","vocab_label":"","confidence":0.0}]}
Reuse a label already in "already seen concepts" when the chunk refers to the same entity.
Prefer a vocabulary label from the supplied categories when the relationship fits one; invent a new
all-caps label only when none fits.`

func buildExtractionPrompt(ec ports.ExtractionContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ontology: %s\n\n", ec.Ontology)
	if len(ec.SeenConcepts) > 0 {
		fmt.Fprintf(&b, "Already seen concepts: %s\n\n", strings.Join(ec.SeenConcepts, ", "))
	}
	if len(ec.VocabCategories) > 0 {
		fmt.Fprintf(&b, "Known vocabulary categories: %s\n\n", strings.Join(ec.VocabCategories, ", "))
	}
	fmt.Fprintf(&b, "Chunk:\n%s\n", ec.ChunkText)
	return b.String()
}

const judgeSystemPrompt = `You review a single proposed promotion or demotion of a concept's grounding
status in a knowledge graph's breathing/annealing cycle. Reply with strict JSON: {"approve": true|false}.
Approve only when the stated rationale is internally consistent and proportionate to the proposed change.`

// extractionWire is the LLM's raw JSON response shape; field names
// follow extractionSystemPrompt's schema rather than ports.ExtractionResult's
// Go-idiomatic names.
type extractionWire struct {
	Concepts []struct {
		Label       string   `json:"label"`
		Description string   `json:"description"`
		SearchTerms []string `json:"search_terms"`
	} `json:"concepts"`
	Instances []struct {
		ConceptLabel string `json:"concept_label"`
		Quote        string `json:"quote"`
	} `json:"instances"`
	Relationships []struct {
		FromLabel  string  `json:"from_label"`
		ToLabel    string  `json:"to_label"`
		VocabLabel string  `json:"vocab_label"`
		Confidence float64 `json:"confidence"`
	} `json:"relationships"`
}

func parseExtractionResponse(raw string) (ports.ExtractionResult, error) {
	raw = stripCodeFence(raw)
	var wire extractionWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return ports.ExtractionResult{}, fmt.Errorf("parsing extraction response: %w", err)
	}
	result := ports.ExtractionResult{
		Concepts:      make([]ports.ExtractedConcept, len(wire.Concepts)),
		Instances:     make([]ports.ExtractedInstance, len(wire.Instances)),
		Relationships: make([]ports.ExtractedRelationship, len(wire.Relationships)),
	}
	for i, c := range wire.Concepts {
		result.Concepts[i] = ports.ExtractedConcept{Label: c.Label, Description: c.Description, SearchTerms: c.SearchTerms}
	}
	for i, inst := range wire.Instances {
		result.Instances[i] = ports.ExtractedInstance{ConceptLabel: inst.ConceptLabel, Quote: inst.Quote}
	}
	for i, r := range wire.Relationships {
		result.Relationships[i] = ports.ExtractedRelationship{FromLabel: r.FromLabel, ToLabel: r.ToLabel, VocabLabel: r.VocabLabel, Confidence: r.Confidence}
	}
	return result, nil
}

type judgeWire struct {
	Approve bool `json:"approve"`
}

func parseJudgeResponse(raw string) (bool, error) {
	raw = stripCodeFence(raw)
	var wire judgeWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return false, fmt.Errorf("parsing judgment response: %w", err)
	}
	return wire.Approve, nil
}

// stripCodeFence strips a ```json ... ``` wrapper some providers add
// despite being asked for bare JSON.
func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}
