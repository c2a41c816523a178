// Package services holds stateless domain algorithms that operate purely
// on entities and value objects — no repository or transport
// dependencies. Application services (application/services) orchestrate
// these against the Store and other ports.
package services

import (
	"ontologykg/domain/core/entities"
	"ontologykg/domain/core/valueobjects"
)

// PolarityPairs is the fixed list of opposing relationship types whose
// embedding difference defines the grounding axis (spec.md §4.5).
var PolarityPairs = [...][2]valueobjects.VocabTypeName{
	{"SUPPORTS", "CONTRADICTS"},
	{"VALIDATES", "REFUTES"},
	{"CONFIRMS", "DISPROVES"},
	{"REINFORCES", "OPPOSES"},
	{"ENABLES", "PREVENTS"},
}

// IncomingEdge is the minimal shape the grounding algorithm needs about
// an edge pointing at the concept being measured.
type IncomingEdge struct {
	VocabType  valueobjects.VocabTypeName
	Confidence float64
}

// PolarityAxis computes the unit vector obtained by averaging the
// embedding differences of every polarity pair whose both members have
// an embedding. ok is false when no pair is embeddable, distinguishing
// "no axis available" from a legitimately zero axis.
func PolarityAxis(embeddingOf func(valueobjects.VocabTypeName) (valueobjects.Embedding, bool)) (axis valueobjects.Embedding, ok bool) {
	var diffs []valueobjects.Embedding
	for _, pair := range PolarityPairs {
		pos, posOK := embeddingOf(pair[0])
		neg, negOK := embeddingOf(pair[1])
		if !posOK || !negOK || pos.IsZero() || neg.IsZero() {
			continue
		}
		diff, err := valueobjects.Subtract(pos, neg)
		if err != nil {
			continue
		}
		diffs = append(diffs, diff)
	}
	if len(diffs) == 0 {
		return valueobjects.Embedding{}, false
	}
	mean, err := valueobjects.Mean(diffs)
	if err != nil {
		return valueobjects.Embedding{}, false
	}
	return valueobjects.Normalize(mean), true
}

// Grounding computes a concept's grounding score: the confidence-weighted
// mean projection of its incoming edges' vocabulary types onto the
// polarity axis. The second return distinguishes "unknown" (no axis, or
// no edge type is embeddable against it) from "neutral" (zero incoming
// edges, or a genuinely zero-weighted projection) — spec.md §9's open
// question on Option<f64>.
func Grounding(edges []IncomingEdge, axis valueobjects.Embedding, axisKnown bool, embeddingOf func(valueobjects.VocabTypeName) (valueobjects.Embedding, bool)) (value float64, known bool) {
	if len(edges) == 0 {
		return 0.0, true
	}
	if !axisKnown {
		return 0, false
	}
	var numerator, denominator float64
	var contributed bool
	for _, e := range edges {
		emb, ok := embeddingOf(e.VocabType)
		if !ok || emb.IsZero() {
			continue
		}
		projection, err := valueobjects.Dot(emb, axis)
		if err != nil {
			continue
		}
		numerator += e.Confidence * projection
		denominator += e.Confidence
		contributed = true
	}
	if !contributed || denominator == 0 {
		return 0, false
	}
	g := numerator / denominator
	if g > 1 {
		g = 1
	} else if g < -1 {
		g = -1
	}
	return g, true
}

// EpistemicSample is one measured grounding value contributing to a
// VocabType's epistemic classification.
type EpistemicSample struct {
	Grounding float64
	Known     bool
}

// historicalMarkers short-circuits grounding for relationship types whose
// name signals they describe a past/superseded relation.
var historicalMarkers = []string{"WAS", "FORMER", "ANCIENT", "OBSOLETE", "DEPRECATED", "HISTORICAL"}

// IsHistoricalName reports whether name contains a temporal marker token,
// matched on underscore-delimited segments so "WASTE" does not match
// "WAS".
func IsHistoricalName(name valueobjects.VocabTypeName) bool {
	segments := splitUnderscore(string(name))
	for _, seg := range segments {
		for _, marker := range historicalMarkers {
			if seg == marker {
				return true
			}
		}
	}
	return false
}

func splitUnderscore(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '_' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

// ClassifyEpistemicStatus implements spec.md §4.5's mean/count
// classification. name is checked first since the historical heuristic
// short-circuits grounding entirely.
func ClassifyEpistemicStatus(name valueobjects.VocabTypeName, samples []EpistemicSample) (entities.EpistemicStatus, entities.EpistemicStats) {
	if IsHistoricalName(name) {
		return entities.EpistemicHistorical, entities.EpistemicStats{SampleSize: len(samples)}
	}
	var sum float64
	var n int
	for _, s := range samples {
		if !s.Known {
			continue
		}
		sum += s.Grounding
		n++
	}
	if n < 3 {
		return entities.EpistemicInsufficientData, entities.EpistemicStats{SampleSize: n}
	}
	mean := sum / float64(n)
	stats := entities.EpistemicStats{SampleSize: n, MeanProjection: mean}
	switch {
	case mean > 0.8:
		return entities.EpistemicWellGrounded, stats
	case mean >= 0.15:
		return entities.EpistemicMixedGrounding, stats
	case mean > 0:
		return entities.EpistemicWeakGrounding, stats
	case mean >= -0.5:
		return entities.EpistemicPoorlyGrounded, stats
	default:
		return entities.EpistemicContradicted, stats
	}
}
