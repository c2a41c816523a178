package services

import (
	"context"
	"fmt"

	appevents "ontologykg/application/events"
	"ontologykg/application/ports"
	"ontologykg/domain/core/entities"
	"ontologykg/domain/core/valueobjects"
	"ontologykg/domain/services"

	"go.uber.org/zap"
)

// EpistemicSampleSize bounds how many edges are sampled per VocabType when
// remeasuring grounding — spec.md §4.5 caps this at 100 so the cycle stays
// bounded regardless of how popular a relationship type becomes.
const EpistemicSampleSize = 100

// EpistemicService recomputes the epistemic status of every active
// VocabType by sampling its edges and classifying the grounding
// distribution of their target concepts (spec.md §4.5).
type EpistemicService struct {
	store    ports.Store
	grounder *GroundingService
	registry *appevents.HandlerRegistry
	logger   *zap.Logger
}

func NewEpistemicService(store ports.Store, grounder *GroundingService, registry *appevents.HandlerRegistry, logger *zap.Logger) *EpistemicService {
	return &EpistemicService{store: store, grounder: grounder, registry: registry, logger: logger}
}

// RemeasureResult reports how many VocabTypes were reclassified, for the
// breathing cycle's audit trail and launcher logging.
type RemeasureResult struct {
	Measured     int
	Reclassified int
}

// RemeasureAll samples and reclassifies every active VocabType, then
// resets the change counter the launcher used to decide this run was due
// (spec.md §4.6 "category_refresh_needed").
func (s *EpistemicService) RemeasureAll(ctx context.Context) (RemeasureResult, error) {
	vocabTypes, err := s.store.ListVocabTypes(ctx)
	if err != nil {
		return RemeasureResult{}, err
	}

	var result RemeasureResult
	for _, v := range vocabTypes {
		if !v.IsActive() {
			continue
		}
		before := v.EpistemicStatus()
		if err := s.remeasureOne(ctx, v); err != nil {
			s.logger.Warn("epistemic remeasurement failed", zap.String("vocab_type", v.Name().String()), zap.Error(err))
			continue
		}
		result.Measured++
		if v.EpistemicStatus() != before {
			result.Reclassified++
		}
	}
	return result, s.store.ResetVocabularyChangeCounter(ctx)
}

func (s *EpistemicService) remeasureOne(ctx context.Context, v *entities.VocabType) error {
	edges, err := s.store.SampleEdgesByVocabType(ctx, v.Name(), EpistemicSampleSize)
	if err != nil {
		return err
	}
	if len(edges) == 0 {
		status, stats := services.ClassifyEpistemicStatus(v.Name(), nil)
		v.RecordEpistemicMeasurement(status, rationale(status, stats), stats)
		if err := s.store.SaveVocabType(ctx, v); err != nil {
			return err
		}
		s.registry.DispatchAll(ctx, v.Events())
		return nil
	}

	targets := make([]valueobjects.ConceptID, 0, len(edges))
	seen := make(map[valueobjects.ConceptID]bool, len(edges))
	for _, e := range edges {
		if !seen[e.To] {
			seen[e.To] = true
			targets = append(targets, e.To)
		}
	}
	groundingByConcept, err := s.grounder.Batch(ctx, targets)
	if err != nil {
		return err
	}

	samples := make([]services.EpistemicSample, 0, len(edges))
	for _, e := range edges {
		answer, ok := groundingByConcept[e.To]
		if !ok {
			continue
		}
		samples = append(samples, services.EpistemicSample{Grounding: answer.Value, Known: answer.Known})
	}

	status, stats := services.ClassifyEpistemicStatus(v.Name(), samples)
	v.RecordEpistemicMeasurement(status, rationale(status, stats), stats)
	if err := s.store.SaveVocabType(ctx, v); err != nil {
		return err
	}
	s.registry.DispatchAll(ctx, v.Events())
	return nil
}

func rationale(status entities.EpistemicStatus, stats entities.EpistemicStats) string {
	return fmt.Sprintf("%s over %d sampled edges (mean projection %.3f)", status, stats.SampleSize, stats.MeanProjection)
}
