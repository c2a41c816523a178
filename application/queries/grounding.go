package queries

import (
	"context"

	"ontologykg/application/ports"
	"ontologykg/domain/core/valueobjects"
	"ontologykg/domain/services"
)

// GetConceptGroundingQuery computes a concept's grounding in real time
// (spec.md §4.5). Batch ingestion/maintenance paths use
// application/services.GroundingService.Batch instead of this one-off
// query to avoid per-concept round-trips.
type GetConceptGroundingQuery struct {
	ConceptID valueobjects.ConceptID
}

func (GetConceptGroundingQuery) QueryName() string { return "get_concept_grounding" }

// GroundingAnswer carries the (value, known) pair straight through,
// preserving the unknown/neutral distinction at the API boundary.
type GroundingAnswer struct {
	Value float64
	Known bool
}

type GetConceptGroundingHandler struct {
	store ports.Store
}

func NewGetConceptGroundingHandler(store ports.Store) *GetConceptGroundingHandler {
	return &GetConceptGroundingHandler{store: store}
}

func (h *GetConceptGroundingHandler) Handle(ctx context.Context, q Query) (any, error) {
	query := q.(GetConceptGroundingQuery)

	rawEdges, err := h.store.FindIncomingEdges(ctx, query.ConceptID)
	if err != nil {
		return nil, err
	}
	edges := make([]services.IncomingEdge, 0, len(rawEdges))
	for _, e := range rawEdges {
		edges = append(edges, services.IncomingEdge{VocabType: e.VocabType, Confidence: e.Confidence})
	}

	vocabCache := map[valueobjects.VocabTypeName]valueobjects.Embedding{}
	embeddingOf := func(name valueobjects.VocabTypeName) (valueobjects.Embedding, bool) {
		if e, ok := vocabCache[name]; ok {
			return e, !e.IsZero()
		}
		v, found, err := h.store.GetVocabType(ctx, name)
		if err != nil || !found {
			return valueobjects.Embedding{}, false
		}
		vocabCache[name] = v.Embedding()
		return v.Embedding(), !v.Embedding().IsZero()
	}

	axis, axisKnown := services.PolarityAxis(embeddingOf)
	value, known := services.Grounding(edges, axis, axisKnown, embeddingOf)
	return GroundingAnswer{Value: value, Known: known}, nil
}
