package services

import (
	"context"
	"fmt"

	appevents "ontologykg/application/events"
	"ontologykg/application/ports"
	"ontologykg/domain/core/entities"
	"ontologykg/domain/core/valueobjects"

	"go.uber.org/zap"
)

// StaleEpochThreshold is how many epochs a concept may go unseen before it
// becomes a demotion candidate in the annealing cycle (spec.md §4.6).
const StaleEpochThreshold = 20

// PromoteGroundingThreshold and DemoteGroundingThreshold bound the
// grounding score an annealing candidate must clear to be proposed for
// promotion, or fall below to be proposed for demotion.
const (
	PromoteGroundingThreshold = 0.8
	DemoteGroundingThreshold  = -0.5
)

// BreathingMode controls what happens to proposals once scored.
type BreathingMode string

const (
	BreathingAutonomous BreathingMode = "autonomous"
	BreathingHITL       BreathingMode = "hitl"
)

// BreathingService runs the annealing cycle: score candidates, identify
// promotion/demotion proposals, optionally have an LLM judge them, record
// them, and in autonomous mode approve and dispatch immediately
// (spec.md §4.6).
type BreathingService struct {
	store    ports.Store
	grounder *GroundingService
	llm      ports.LLMProvider // optional; nil disables LLM judgment
	jobQueue ports.JobQueue
	registry *appevents.HandlerRegistry
	logger   *zap.Logger
}

func NewBreathingService(store ports.Store, grounder *GroundingService, llm ports.LLMProvider, jobQueue ports.JobQueue, registry *appevents.HandlerRegistry, logger *zap.Logger) *BreathingService {
	return &BreathingService{store: store, grounder: grounder, llm: llm, jobQueue: jobQueue, registry: registry, logger: logger}
}

// CycleResult summarizes one breathing cycle for the launcher's log line
// and the job's result payload.
type CycleResult struct {
	Ontology         string
	Epoch            int64
	CandidatesScored int
	ProposalsCreated int
	AutoApproved     int
}

// Run executes one annealing cycle over ontology at the given epoch.
func (s *BreathingService) Run(ctx context.Context, ontology string, epoch int64, mode BreathingMode) (CycleResult, error) {
	result := CycleResult{Ontology: ontology, Epoch: epoch}

	stale, err := s.store.ListStaleConcepts(ctx, ontology, StaleEpochThreshold, epoch)
	if err != nil {
		return result, err
	}
	result.CandidatesScored = len(stale)
	if len(stale) == 0 {
		return result, nil
	}

	ids := make([]valueobjects.ConceptID, 0, len(stale))
	for _, c := range stale {
		ids = append(ids, c.ID())
	}
	groundingByConcept, err := s.grounder.Batch(ctx, ids)
	if err != nil {
		return result, err
	}

	for _, c := range stale {
		answer, ok := groundingByConcept[c.ID()]
		if !ok || !answer.Known {
			continue
		}

		action, rationale, propose := s.classify(c, answer.Value)
		if !propose {
			continue
		}

		if s.llm != nil {
			judged, judgeErr := s.llm.JudgeProposal(ctx, rationale)
			if judgeErr != nil {
				s.logger.Warn("annealing LLM judgment failed; proceeding on heuristic score alone", zap.Error(judgeErr))
			} else if !judged {
				continue
			}
		}

		proposal, err := entities.NewAnnealingProposal(action, c.ID().String(), rationale, answer.Value)
		if err != nil {
			return result, err
		}
		if err := s.store.SaveAnnealingProposal(ctx, proposal); err != nil {
			return result, err
		}
		s.registry.DispatchAll(ctx, proposal.Events())
		result.ProposalsCreated++

		if mode == BreathingAutonomous {
			if err := s.approveAndDispatch(ctx, proposal); err != nil {
				s.logger.Error("failed to auto-approve annealing proposal", zap.String("proposal_id", proposal.ID().String()), zap.Error(err))
				continue
			}
			result.AutoApproved++
		}
	}

	return result, nil
}

// classify turns a grounding score into a proposed action, or reports no
// proposal is warranted.
func (s *BreathingService) classify(c *entities.Concept, grounding float64) (entities.ProposalAction, string, bool) {
	switch {
	case grounding <= DemoteGroundingThreshold:
		return entities.ActionDemoteConcept, fmt.Sprintf("concept %q has grounding %.3f, last seen at epoch %d", c.Label(), grounding, c.LastSeenEpoch()), true
	case grounding >= PromoteGroundingThreshold && c.SeenCount() > 1:
		return entities.ActionPromoteConcept, fmt.Sprintf("concept %q has grounding %.3f across %d occurrences", c.Label(), grounding, c.SeenCount()), true
	default:
		return "", "", false
	}
}

// approveAndDispatch auto-approves a proposal on behalf of the autonomous
// cycle and enqueues its execution job in the same pass.
func (s *BreathingService) approveAndDispatch(ctx context.Context, p *entities.AnnealingProposal) error {
	if err := p.Approve("system", "autonomous breathing cycle"); err != nil {
		return err
	}
	if err := s.store.SaveAnnealingProposal(ctx, p); err != nil {
		return err
	}
	s.registry.DispatchAll(ctx, p.Events())
	jobID, err := s.jobQueue.Enqueue(ctx, "annealing_execution", map[string]any{
		"proposal_id": p.ID().String(),
		"action":      string(p.Action()),
		"target_id":   p.TargetID(),
	}, true, true)
	if err != nil {
		return err
	}
	if err := s.jobQueue.ExecuteJobAsync(ctx, jobID); err != nil {
		return err
	}
	return p.MarkExecuted()
}
