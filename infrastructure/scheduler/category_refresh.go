package scheduler

import (
	"context"

	"ontologykg/application/ports"
	appservices "ontologykg/application/services"
	"ontologykg/domain/core/entities"
)

const JobTypeCategoryRefresh = "category_refresh"

// CategoryRefresh launches when any registered VocabType still carries
// the llm_generated category source, i.e. has not yet been scored
// against the seed categories; the job scores those types, and a scored
// type's source becomes computed so later refreshes skip it (spec.md
// §4.6).
type CategoryRefresh struct {
	store ports.RelationalStore
	jobs  ports.JobQueue
}

func NewCategoryRefresh(store ports.RelationalStore, jobs ports.JobQueue) *CategoryRefresh {
	return &CategoryRefresh{store: store, jobs: jobs}
}

func (l *CategoryRefresh) JobType() string  { return JobTypeCategoryRefresh }
func (l *CategoryRefresh) Interval() string { return "0 */6 * * *" }

func (l *CategoryRefresh) CheckConditions(ctx context.Context) (bool, error) {
	types, err := l.store.ListVocabTypes(ctx)
	if err != nil {
		return false, err
	}
	for _, v := range types {
		if v.CategorySource() == entities.CategorySourceLLMGenerated {
			return true, nil
		}
	}
	return false, nil
}

func (l *CategoryRefresh) PrepareJobData(ctx context.Context) (map[string]any, error) {
	return map[string]any{}, nil
}

func (l *CategoryRefresh) Launch(ctx context.Context) (string, error) {
	data, err := l.PrepareJobData(ctx)
	if err != nil {
		return "", err
	}
	id, err := l.jobs.Enqueue(ctx, JobTypeCategoryRefresh, data, true, true)
	if err != nil {
		return "", err
	}
	if err := l.jobs.ExecuteJobAsync(ctx, id); err != nil {
		return "", err
	}
	return id.String(), nil
}

var _ ports.Launcher = (*CategoryRefresh)(nil)

// CategoryRefreshHandler performs the work category_refresh jobs enqueue.
type CategoryRefreshHandler struct {
	vocabulary *appservices.VocabularyService
}

func NewCategoryRefreshHandler(vocabulary *appservices.VocabularyService) *CategoryRefreshHandler {
	return &CategoryRefreshHandler{vocabulary: vocabulary}
}

func (h *CategoryRefreshHandler) JobType() string { return JobTypeCategoryRefresh }

func (h *CategoryRefreshHandler) Execute(ctx context.Context, job ports.Job) (map[string]any, error) {
	refreshed, err := h.vocabulary.RefreshCategories(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"refreshed": refreshed}, nil
}

var _ ports.JobHandler = (*CategoryRefreshHandler)(nil)
