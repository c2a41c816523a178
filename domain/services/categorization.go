package services

import (
	"ontologykg/domain/core/entities"
	"ontologykg/domain/core/valueobjects"
)

// CategorizeConfidentThreshold and friends are spec.md §4.3's fixed
// categorization thresholds.
const (
	CategorizeConfidentThreshold = 0.70
	CategorizeWarnThreshold      = 0.50
	AmbiguousRunnerUpThreshold   = 0.70
)

// SeedType is one of the 30 built-in relationship types used as a
// reference point for categorizing a new VocabType by embedding
// similarity.
type SeedType struct {
	Name      valueobjects.VocabTypeName
	Category  entities.VocabCategory
	Embedding valueobjects.Embedding
}

// CategorizationResult is the outcome of scoring a candidate embedding
// against every seed type.
type CategorizationResult struct {
	Category   entities.VocabCategory
	Confidence float64
	Scores     entities.CategoryScores
	Ambiguous  bool
	NeedsReview bool
}

// Categorize implements spec.md §4.3's probabilistic categorization: for
// each category, the score is the maximum cosine similarity between the
// candidate embedding and any seed in that category; the assigned
// category is the argmax; a runner-up score above 0.70 flags ambiguous.
func Categorize(candidate valueobjects.Embedding, seeds []SeedType) (CategorizationResult, error) {
	scores := make(entities.CategoryScores)
	for _, seed := range seeds {
		sim, err := valueobjects.CosineSimilarity(candidate, seed.Embedding)
		if err != nil {
			return CategorizationResult{}, err
		}
		if existing, ok := scores[seed.Category]; !ok || sim > existing {
			scores[seed.Category] = sim
		}
	}

	var best, runnerUp entities.VocabCategory
	var bestScore, runnerUpScore float64 = -2, -2
	for _, cat := range entities.AllVocabCategories {
		score, ok := scores[cat]
		if !ok {
			continue
		}
		if score > bestScore {
			runnerUp, runnerUpScore = best, bestScore
			best, bestScore = cat, score
		} else if score > runnerUpScore {
			runnerUp, runnerUpScore = cat, score
		}
	}
	_ = runnerUp

	return CategorizationResult{
		Category:    best,
		Confidence:  bestScore,
		Scores:      scores,
		Ambiguous:   runnerUpScore > AmbiguousRunnerUpThreshold,
		NeedsReview: bestScore < CategorizeWarnThreshold,
	}, nil
}

// BuiltinSeedDescriptors lists the 30 built-in relationship types grouped
// under their 11 categories, used both to seed VocabType rows on first
// boot and as the reference set for Categorize. Embeddings are populated
// by the embedding service during cold-start initialization.
var BuiltinSeedDescriptors = []struct {
	Name        valueobjects.VocabTypeName
	Description string
	Category    entities.VocabCategory
	Direction   entities.DirectionSemantics
}{
	{"CAUSES", "X causes Y to occur", entities.CategoryCausation, entities.DirectionOutward},
	{"PREVENTS", "X prevents Y from occurring", entities.CategoryCausation, entities.DirectionOutward},
	{"ENABLES", "X makes Y possible", entities.CategoryCausation, entities.DirectionOutward},
	{"TRIGGERS", "X initiates Y", entities.CategoryCausation, entities.DirectionOutward},

	{"CONTAINS", "X is composed of Y", entities.CategoryComposition, entities.DirectionOutward},
	{"PART_OF", "X is a constituent of Y", entities.CategoryComposition, entities.DirectionOutward},

	{"IMPLIES", "X logically entails Y", entities.CategoryLogical, entities.DirectionOutward},
	{"CONTRADICTS", "X is logically inconsistent with Y", entities.CategoryLogical, entities.DirectionBidirectional},

	{"SUPPORTS", "X provides evidence for Y", entities.CategoryEvidential, entities.DirectionOutward},
	{"VALIDATES", "X confirms the correctness of Y", entities.CategoryEvidential, entities.DirectionOutward},
	{"REFUTES", "X disproves Y", entities.CategoryEvidential, entities.DirectionOutward},
	{"CONFIRMS", "X verifies Y holds", entities.CategoryEvidential, entities.DirectionOutward},
	{"DISPROVES", "X demonstrates Y is false", entities.CategoryEvidential, entities.DirectionOutward},
	{"REINFORCES", "X strengthens the case for Y", entities.CategoryEvidential, entities.DirectionOutward},
	{"OPPOSES", "X weakens the case for Y", entities.CategoryEvidential, entities.DirectionOutward},

	{"SIMILAR_TO", "X shares meaning with Y", entities.CategorySemantic, entities.DirectionBidirectional},
	{"RELATED_TO", "X is topically associated with Y", entities.CategorySemantic, entities.DirectionBidirectional},
	{"SYNONYM_OF", "X and Y denote the same concept", entities.CategorySemantic, entities.DirectionBidirectional},

	{"PRECEDES", "X occurs before Y", entities.CategoryTemporal, entities.DirectionOutward},
	{"FOLLOWS", "X occurs after Y", entities.CategoryTemporal, entities.DirectionOutward},

	{"DEPENDS_ON", "X requires Y to function", entities.CategoryDependency, entities.DirectionOutward},
	{"REQUIRES", "X cannot proceed without Y", entities.CategoryDependency, entities.DirectionOutward},

	{"DERIVED_FROM", "X is obtained from Y", entities.CategoryDerivation, entities.DirectionOutward},
	{"EXTENDS", "X builds upon Y", entities.CategoryDerivation, entities.DirectionOutward},

	{"TRANSFORMS_INTO", "X becomes Y", entities.CategoryOperation, entities.DirectionOutward},
	{"PRODUCES", "X generates Y as an output", entities.CategoryOperation, entities.DirectionOutward},

	{"INTERACTS_WITH", "X and Y influence each other", entities.CategoryInteraction, entities.DirectionBidirectional},
	{"COMMUNICATES_WITH", "X exchanges information with Y", entities.CategoryInteraction, entities.DirectionBidirectional},

	{"MODIFIES", "X alters Y", entities.CategoryModification, entities.DirectionOutward},
	{"REPLACES", "X supersedes Y", entities.CategoryModification, entities.DirectionOutward},
}
