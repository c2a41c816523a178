package entities

import (
	"time"

	"ontologykg/domain/core/valueobjects"
	"ontologykg/domain/events"
	"ontologykg/pkg/kgerrors"
)

// ProposalStatus tracks an annealing proposal through review.
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalApproved ProposalStatus = "approved"
	ProposalRejected ProposalStatus = "rejected"
	ProposalExecuted ProposalStatus = "executed"
)

// ProposalAction is what the annealing cycle wants to do to a concept or
// vocabulary type.
type ProposalAction string

const (
	ActionPromoteConcept   ProposalAction = "promote_concept"
	ActionDemoteConcept    ProposalAction = "demote_concept"
	ActionMergeVocabType   ProposalAction = "merge_vocab_type"
	ActionDeprecateVocab   ProposalAction = "deprecate_vocab_type"
)

// AnnealingProposal is one candidate change surfaced by a breathing cycle:
// a scored, optionally LLM-judged suggestion that either gets
// auto-approved (autonomous mode) or waits for a human reviewer (HITL
// mode) before it is dispatched as an execution job (spec.md §4.6).
type AnnealingProposal struct {
	id           valueobjects.ProposalID
	action       ProposalAction
	targetID     string
	rationale    string
	score        float64
	status       ProposalStatus
	reviewedBy   string
	reviewerNote string
	createdAt    time.Time
	reviewedAt   time.Time

	events []events.DomainEvent
}

func NewAnnealingProposal(action ProposalAction, targetID, rationale string, score float64) (*AnnealingProposal, error) {
	if targetID == "" {
		return nil, kgerrors.NewValidation("annealing proposal requires a target id")
	}
	p := &AnnealingProposal{
		id:        valueobjects.NewProposalID(),
		action:    action,
		targetID:  targetID,
		rationale: rationale,
		score:     score,
		status:    ProposalPending,
		createdAt: time.Now(),
		events:    []events.DomainEvent{},
	}
	p.addEvent(events.NewAnnealingProposalCreated(p.id.String(), string(action), targetID, score, p.createdAt))
	return p, nil
}

func ReconstructAnnealingProposal(id valueobjects.ProposalID, action ProposalAction, targetID, rationale string, score float64, status ProposalStatus, reviewedBy, reviewerNote string, createdAt, reviewedAt time.Time) *AnnealingProposal {
	return &AnnealingProposal{
		id: id, action: action, targetID: targetID, rationale: rationale, score: score,
		status: status, reviewedBy: reviewedBy, reviewerNote: reviewerNote,
		createdAt: createdAt, reviewedAt: reviewedAt,
		events: []events.DomainEvent{},
	}
}

func (p *AnnealingProposal) ID() valueobjects.ProposalID { return p.id }
func (p *AnnealingProposal) Action() ProposalAction      { return p.action }
func (p *AnnealingProposal) TargetID() string            { return p.targetID }
func (p *AnnealingProposal) Rationale() string           { return p.rationale }
func (p *AnnealingProposal) Score() float64              { return p.score }
func (p *AnnealingProposal) Status() ProposalStatus      { return p.status }
func (p *AnnealingProposal) CreatedAt() time.Time        { return p.createdAt }
func (p *AnnealingProposal) ReviewedBy() string          { return p.reviewedBy }
func (p *AnnealingProposal) ReviewerNote() string        { return p.reviewerNote }
func (p *AnnealingProposal) ReviewedAt() time.Time       { return p.reviewedAt }

// Approve marks the proposal approved, either by a reviewer (HITL) or by
// the autonomous-mode breathing cycle itself (reviewedBy = "system").
func (p *AnnealingProposal) Approve(reviewedBy, note string) error {
	if p.status != ProposalPending {
		return kgerrors.NewSemanticConsistencyf("proposal %s is %s, not pending", p.id, p.status)
	}
	p.status = ProposalApproved
	p.reviewedBy = reviewedBy
	p.reviewerNote = note
	p.reviewedAt = time.Now()
	p.addEvent(events.NewAnnealingProposalReviewed(p.id.String(), string(p.status), reviewedBy, p.reviewedAt))
	return nil
}

func (p *AnnealingProposal) Reject(reviewedBy, note string) error {
	if p.status != ProposalPending {
		return kgerrors.NewSemanticConsistencyf("proposal %s is %s, not pending", p.id, p.status)
	}
	p.status = ProposalRejected
	p.reviewedBy = reviewedBy
	p.reviewerNote = note
	p.reviewedAt = time.Now()
	p.addEvent(events.NewAnnealingProposalReviewed(p.id.String(), string(p.status), reviewedBy, p.reviewedAt))
	return nil
}

// MarkExecuted records that an approved proposal's execution job has been
// dispatched.
func (p *AnnealingProposal) MarkExecuted() error {
	if p.status != ProposalApproved {
		return kgerrors.NewSemanticConsistencyf("proposal %s is %s, not approved", p.id, p.status)
	}
	p.status = ProposalExecuted
	return nil
}

func (p *AnnealingProposal) addEvent(e events.DomainEvent) { p.events = append(p.events, e) }

func (p *AnnealingProposal) Events() []events.DomainEvent {
	pending := p.events
	p.events = nil
	return pending
}
