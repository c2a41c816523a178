package services

import (
	"context"

	"ontologykg/application/ports"
	"ontologykg/domain/core/valueobjects"
	"ontologykg/domain/services"
)

// GroundingService computes grounding in batch: one ListVocabTypes call
// for the vocabulary embeddings, then one FindIncomingEdges query per
// concept, then local math. Edges are not fetched in a single query.
type GroundingService struct {
	store ports.Store
}

func NewGroundingService(store ports.Store) *GroundingService {
	return &GroundingService{store: store}
}

// GroundingAnswer mirrors queries.GroundingAnswer but lives in the
// application/services layer so non-query callers (the breathing cycle)
// don't depend on the CQRS query package.
type GroundingAnswer struct {
	Value float64
	Known bool
}

// Batch computes grounding for every conceptID in one pass.
func (s *GroundingService) Batch(ctx context.Context, conceptIDs []valueobjects.ConceptID) (map[valueobjects.ConceptID]GroundingAnswer, error) {
	vocabTypes, err := s.store.ListVocabTypes(ctx)
	if err != nil {
		return nil, err
	}
	embeddingByName := make(map[valueobjects.VocabTypeName]valueobjects.Embedding, len(vocabTypes))
	for _, v := range vocabTypes {
		embeddingByName[v.Name()] = v.Embedding()
	}
	embeddingOf := func(name valueobjects.VocabTypeName) (valueobjects.Embedding, bool) {
		e, ok := embeddingByName[name]
		return e, ok && !e.IsZero()
	}
	axis, axisKnown := services.PolarityAxis(embeddingOf)

	out := make(map[valueobjects.ConceptID]GroundingAnswer, len(conceptIDs))
	for _, id := range conceptIDs {
		rawEdges, err := s.store.FindIncomingEdges(ctx, id)
		if err != nil {
			return nil, err
		}
		edges := make([]services.IncomingEdge, 0, len(rawEdges))
		for _, e := range rawEdges {
			edges = append(edges, services.IncomingEdge{VocabType: e.VocabType, Confidence: e.Confidence})
		}
		value, known := services.Grounding(edges, axis, axisKnown, embeddingOf)
		out[id] = GroundingAnswer{Value: value, Known: known}
	}
	return out, nil
}
