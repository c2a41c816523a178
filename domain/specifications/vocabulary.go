package specifications

import "ontologykg/domain/core/entities"

// ActiveVocabType is satisfied by VocabTypes usable on new edges.
func ActiveVocabType() Specification[*entities.VocabType] {
	return New(func(v *entities.VocabType) bool { return v.IsActive() })
}

// CategorizedVocabType is satisfied once a VocabType has passed through
// seed-similarity categorization (computed or assigned at creation, never
// the llm_generated placeholder).
func CategorizedVocabType() Specification[*entities.VocabType] {
	return New(func(v *entities.VocabType) bool {
		return v.CategorySource() != entities.CategorySourceLLMGenerated
	})
}

// AmbiguousCategorization is satisfied when categorization flagged the
// VocabType as ambiguous: the runner-up category also scored above the
// ambiguity threshold (spec.md §4.3).
func AmbiguousCategorization() Specification[*entities.VocabType] {
	return New(func(v *entities.VocabType) bool { return v.CategoryAmbiguous() })
}

// NeedsEpistemicRemeasurement is satisfied by any VocabType whose
// epistemic status is empty, i.e. has never been measured.
func NeedsEpistemicRemeasurement() Specification[*entities.VocabType] {
	return New(func(v *entities.VocabType) bool { return v.EpistemicStatus() == "" })
}
