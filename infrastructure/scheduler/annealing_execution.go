package scheduler

import (
	"context"

	"ontologykg/application/ports"
	appservices "ontologykg/application/services"
	"ontologykg/domain/core/entities"
)

const JobTypeAnnealingExecution = "annealing_execution"

// AnnealingExecutionHandler runs the job BreathingService.approveAndDispatch
// enqueues for each auto-approved proposal — there is no Launcher for this
// job type, since it is dispatched reactively from within a breathing
// cycle rather than on its own cron schedule.
type AnnealingExecutionHandler struct {
	execution *appservices.AnnealingExecutionService
}

func NewAnnealingExecutionHandler(execution *appservices.AnnealingExecutionService) *AnnealingExecutionHandler {
	return &AnnealingExecutionHandler{execution: execution}
}

func (h *AnnealingExecutionHandler) JobType() string { return JobTypeAnnealingExecution }

func (h *AnnealingExecutionHandler) Execute(ctx context.Context, job ports.Job) (map[string]any, error) {
	actionStr, _ := job.Data["action"].(string)
	targetID, _ := job.Data["target_id"].(string)

	result, err := h.execution.Execute(ctx, entities.ProposalAction(actionStr), targetID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"action":    string(result.Action),
		"target_id": result.TargetID,
		"applied":   result.Applied,
	}, nil
}

var _ ports.JobHandler = (*AnnealingExecutionHandler)(nil)
