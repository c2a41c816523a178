package services

import (
	"ontologykg/domain/core/entities"
	"ontologykg/domain/core/valueobjects"
)

// ConceptMatchThreshold is the cosine similarity above which a candidate
// concept is merged into an existing one rather than created fresh
// (spec.md §4.4).
const ConceptMatchThreshold = 0.85

// MatchResult is the outcome of comparing a candidate embedding against
// one existing concept.
type MatchResult struct {
	Concept    *entities.Concept
	Similarity float64
}

// BestMatch scans existing concepts in the same ontology and returns the
// highest-similarity match at or above ConceptMatchThreshold, or ok=false
// if every candidate scored below it (a new concept should be created).
func BestMatch(candidate valueobjects.Embedding, existing []*entities.Concept) (result MatchResult, ok bool) {
	var best MatchResult
	found := false
	for _, c := range existing {
		sim, err := valueobjects.CosineSimilarity(candidate, c.Embedding())
		if err != nil {
			continue
		}
		if sim >= ConceptMatchThreshold && (!found || sim > best.Similarity) {
			best = MatchResult{Concept: c, Similarity: sim}
			found = true
		}
	}
	return best, found
}
