package queries

import (
	"context"

	"ontologykg/application/ports"
	"ontologykg/domain/core/entities"
	"ontologykg/domain/core/valueobjects"
	"ontologykg/pkg/kgerrors"
)

// GetVocabTypeQuery reads a single relationship type's full state.
type GetVocabTypeQuery struct {
	Name valueobjects.VocabTypeName
}

func (GetVocabTypeQuery) QueryName() string { return "get_vocab_type" }

type GetVocabTypeHandler struct {
	store ports.Store
}

func NewGetVocabTypeHandler(store ports.Store) *GetVocabTypeHandler {
	return &GetVocabTypeHandler{store: store}
}

func (h *GetVocabTypeHandler) Handle(ctx context.Context, q Query) (any, error) {
	query := q.(GetVocabTypeQuery)
	v, found, err := h.store.GetVocabType(ctx, query.Name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, kgerrors.NewValidationf("vocabulary type %q not found", query.Name)
	}
	return v, nil
}

// ListVocabTypesByCategoryQuery lists the relationship types belonging to
// one of the 11 categories.
type ListVocabTypesByCategoryQuery struct {
	Category entities.VocabCategory
}

func (ListVocabTypesByCategoryQuery) QueryName() string { return "list_vocab_types_by_category" }

type ListVocabTypesByCategoryHandler struct {
	store ports.Store
}

func NewListVocabTypesByCategoryHandler(store ports.Store) *ListVocabTypesByCategoryHandler {
	return &ListVocabTypesByCategoryHandler{store: store}
}

func (h *ListVocabTypesByCategoryHandler) Handle(ctx context.Context, q Query) (any, error) {
	query := q.(ListVocabTypesByCategoryQuery)
	return h.store.ListVocabTypesByCategory(ctx, query.Category)
}
