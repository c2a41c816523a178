// Package services holds application-level orchestration that composes
// domain services against ports — the layer above domain/services, which
// touches no repository or transport.
package services

import (
	"context"
	"time"

	appevents "ontologykg/application/events"
	"ontologykg/application/ports"
	"ontologykg/domain/core/entities"
	"ontologykg/domain/core/valueobjects"
	"ontologykg/domain/events"
	"ontologykg/domain/services"
	"ontologykg/pkg/kgerrors"

	"go.uber.org/zap"
)

// VocabularyService resolves relationship labels to VocabTypes, creating
// and categorizing new ones on demand (spec.md §4.3/§4.4).
type VocabularyService struct {
	store     ports.Store
	embedding ports.EmbeddingService
	registry  *appevents.HandlerRegistry
	logger    *zap.Logger
}

func NewVocabularyService(store ports.Store, embedding ports.EmbeddingService, registry *appevents.HandlerRegistry, logger *zap.Logger) *VocabularyService {
	return &VocabularyService{store: store, embedding: embedding, registry: registry, logger: logger}
}

// ResolveOrCreate normalizes an LLM-produced relationship label,
// stem-matches it against existing VocabTypes, and creates+categorizes a
// new one if no match exists. The race-safe create pattern is uniform
// with concept/ontology creation: attempt create, re-read the winner on
// conflict (spec.md §9).
func (s *VocabularyService) ResolveOrCreate(ctx context.Context, rawLabel string) (*entities.VocabType, error) {
	existing, err := s.store.ListVocabTypes(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(existing))
	byName := make(map[string]*entities.VocabType, len(existing))
	for _, v := range existing {
		names = append(names, v.Name().String())
		byName[v.Name().String()] = v
	}

	if matched, ok := services.StemMatches(rawLabel, names); ok {
		return byName[matched], nil
	}

	name, err := valueobjects.NewVocabTypeName(services.NormalizeVocabLabel(rawLabel))
	if err != nil {
		return nil, kgerrors.Wrap(kgerrors.NewValidation(err.Error()), "new vocabulary label")
	}

	candidate := entities.NewGeneratedVocabType(name, "", entities.DirectionOutward)
	created, err := s.store.CreateVocabTypeIfNotExists(ctx, candidate)
	if err != nil {
		return nil, err
	}

	if created.Embedding().IsZero() {
		result, err := s.embedding.Embed(ctx, name.String())
		if err != nil {
			s.logger.Warn("failed to embed new vocabulary type; leaving uncategorized", zap.String("vocab_type", name.String()), zap.Error(err))
			return created, nil
		}
		created.SetEmbedding(valueobjects.NewEmbedding(result.Vector, result.Model))
		if err := s.store.SaveVocabType(ctx, created); err != nil {
			return nil, err
		}
	}

	if err := s.categorize(ctx, created); err != nil {
		s.logger.Warn("categorization failed for new vocabulary type", zap.String("vocab_type", name.String()), zap.Error(err))
	}
	return created, nil
}

// categorize scores a VocabType's embedding against the built-in seeds
// and records the verdict.
func (s *VocabularyService) categorize(ctx context.Context, v *entities.VocabType) error {
	seeds, err := s.seedTypesWithEmbeddings(ctx)
	if err != nil {
		return err
	}
	result, err := services.Categorize(v.Embedding(), seeds)
	if err != nil {
		return err
	}
	if err := v.AssignCategory(result.Category, result.Confidence, result.Scores, result.Ambiguous); err != nil {
		return err
	}
	if _, err := s.store.IncrementVocabularyChangeCounter(ctx, 1); err != nil {
		return err
	}
	if err := s.store.SaveVocabType(ctx, v); err != nil {
		return err
	}
	s.registry.DispatchAll(ctx, v.Events())
	return nil
}

func (s *VocabularyService) seedTypesWithEmbeddings(ctx context.Context) ([]services.SeedType, error) {
	all, err := s.store.ListVocabTypes(ctx)
	if err != nil {
		return nil, err
	}
	var seeds []services.SeedType
	for _, v := range all {
		if !v.IsBuiltin() || v.Embedding().IsZero() {
			continue
		}
		seeds = append(seeds, services.SeedType{Name: v.Name(), Category: v.Category(), Embedding: v.Embedding()})
	}
	return seeds, nil
}

// Sync scans the graph's distinct edge labels against registered
// VocabTypes and registers any that were used but never formally
// created, per spec.md §4.3 "Sync".
func (s *VocabularyService) Sync(ctx context.Context) (registered int, err error) {
	labels, err := s.store.ListDistinctEdgeLabels(ctx)
	if err != nil {
		return 0, err
	}
	for _, label := range labels {
		_, found, err := s.store.GetVocabType(ctx, label)
		if err != nil {
			return registered, err
		}
		if found {
			continue
		}
		candidate := entities.NewGeneratedVocabType(label, "", entities.DirectionOutward)
		created, err := s.store.CreateVocabTypeIfNotExists(ctx, candidate)
		if err != nil {
			return registered, err
		}
		if s.embedding != nil {
			result, embedErr := s.embedding.Embed(ctx, label.String())
			if embedErr == nil {
				created.SetEmbedding(valueobjects.NewEmbedding(result.Vector, result.Model))
				if err := s.categorize(ctx, created); err != nil {
					s.logger.Warn("sync categorization failed", zap.String("vocab_type", label.String()), zap.Error(err))
				}
			}
		}
		registered++
	}
	return registered, nil
}

// RefreshCategories scores every non-builtin VocabType that still has the
// llm_generated category source and an embedding against the current
// seed embeddings, for the periodic CategoryRefresh launcher (spec.md
// §4.6). Types that were already categorized (source computed) are not
// re-scored.
func (s *VocabularyService) RefreshCategories(ctx context.Context) (refreshed int, err error) {
	all, err := s.store.ListVocabTypes(ctx)
	if err != nil {
		return 0, err
	}
	for _, v := range all {
		if v.IsBuiltin() || v.CategorySource() != entities.CategorySourceLLMGenerated || v.Embedding().IsZero() {
			continue
		}
		if err := s.categorize(ctx, v); err != nil {
			s.logger.Warn("category refresh failed", zap.String("vocab_type", v.Name().String()), zap.Error(err))
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

// Merge rewrites every edge of deprecated onto target and deactivates
// deprecated, mirroring commands.MergeVocabTypeHandler's logic for callers
// inside the breathing cycle that don't go through the command bus.
func (s *VocabularyService) Merge(ctx context.Context, deprecated, target valueobjects.VocabTypeName, reason string) error {
	deprecatedType, found, err := s.store.GetVocabType(ctx, deprecated)
	if err != nil {
		return err
	}
	if !found {
		return kgerrors.NewSemanticConsistencyf("vocabulary type %q does not exist", deprecated)
	}
	if _, targetFound, err := s.store.GetVocabType(ctx, target); err != nil {
		return err
	} else if !targetFound {
		return kgerrors.NewSemanticConsistencyf("merge target %q does not exist", target)
	}
	edgesMoved, err := s.store.RewriteRelationshipLabel(ctx, deprecated, target)
	if err != nil {
		return err
	}
	deprecatedType.Deprecate(reason)
	if err := s.store.SaveVocabType(ctx, deprecatedType); err != nil {
		return err
	}
	if err := s.store.RecordVocabularyHistory(ctx, deprecated, target, edgesMoved); err != nil {
		return err
	}
	pending := append(deprecatedType.Events(), events.NewVocabTypeMerged(deprecated, target, edgesMoved, time.Now()))
	s.registry.DispatchAll(ctx, pending)
	return nil
}
