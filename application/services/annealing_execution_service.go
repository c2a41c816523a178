package services

import (
	"context"
	"fmt"

	appevents "ontologykg/application/events"
	"ontologykg/application/ports"
	"ontologykg/domain/core/entities"
	"ontologykg/domain/core/valueobjects"
	"ontologykg/pkg/kgerrors"

	"go.uber.org/zap"
)

// AnnealingExecutionService applies an approved annealing proposal to the
// graph — the step BreathingService.approveAndDispatch enqueues as an
// "annealing_execution" job rather than performing inline, so a slow
// concept deletion never blocks the breathing cycle that found it.
type AnnealingExecutionService struct {
	store    ports.Store
	registry *appevents.HandlerRegistry
	logger   *zap.Logger
}

func NewAnnealingExecutionService(store ports.Store, registry *appevents.HandlerRegistry, logger *zap.Logger) *AnnealingExecutionService {
	return &AnnealingExecutionService{store: store, registry: registry, logger: logger}
}

// ExecutionResult summarizes what Execute did, for the job's result
// payload.
type ExecutionResult struct {
	Action   entities.ProposalAction
	TargetID string
	Applied  bool
}

// Execute applies the action an auto-approved or reviewer-approved
// proposal names. Only the two actions the breathing cycle's classify()
// actually produces — promote_concept, demote_concept — are implemented;
// merge_vocab_type and deprecate_vocab_type exist on ProposalAction for a
// human-curated proposal path this cycle does not yet generate.
func (s *AnnealingExecutionService) Execute(ctx context.Context, action entities.ProposalAction, targetID string) (ExecutionResult, error) {
	result := ExecutionResult{Action: action, TargetID: targetID}

	switch action {
	case entities.ActionDemoteConcept:
		if err := s.demoteConcept(ctx, targetID); err != nil {
			return result, err
		}
	case entities.ActionPromoteConcept:
		if err := s.promoteConcept(ctx, targetID); err != nil {
			return result, err
		}
	default:
		return result, kgerrors.NewFatal(fmt.Sprintf("annealing execution of action %q is not supported", action), nil)
	}

	result.Applied = true
	return result, nil
}

// demoteConcept removes a concept whose grounding has fallen below
// DemoteGroundingThreshold — spec.md §9's "live until an admin/annealing
// job removes them" lifecycle.
func (s *AnnealingExecutionService) demoteConcept(ctx context.Context, targetID string) error {
	id := valueobjects.ConceptID(targetID)
	concept, found, err := s.store.GetConceptNode(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		s.logger.Warn("demote proposal target already gone", zap.String("concept_id", targetID))
		return nil
	}
	if err := s.store.DeleteConceptNode(ctx, id); err != nil {
		return err
	}
	s.logger.Info("annealing demoted concept", zap.String("concept_id", targetID), zap.String("label", concept.Label()))
	return nil
}

// promoteConcept reinforces a concept whose grounding cleared
// PromoteGroundingThreshold by re-recording it as seen at the current
// epoch, pulling it out of the next cycle's stale-concept pool.
func (s *AnnealingExecutionService) promoteConcept(ctx context.Context, targetID string) error {
	id := valueobjects.ConceptID(targetID)
	concept, found, err := s.store.GetConceptNode(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		s.logger.Warn("promote proposal target already gone", zap.String("concept_id", targetID))
		return nil
	}
	epoch, err := s.store.GetCurrentDocumentEpoch(ctx)
	if err != nil {
		return err
	}
	concept.RecordSeen(1.0, epoch)
	if err := s.store.UpsertConceptNode(ctx, concept); err != nil {
		return err
	}
	s.registry.DispatchAll(ctx, concept.Events())
	s.logger.Info("annealing promoted concept", zap.String("concept_id", targetID), zap.String("label", concept.Label()))
	return nil
}
