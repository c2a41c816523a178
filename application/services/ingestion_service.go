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

	"go.uber.org/zap"
)

// IngestionService resolves extracted concepts/instances/relationships
// against the Store for a single chunk (spec.md §4.4 step 3). The
// ingestion saga drives this once per chunk, in document order, so
// concept matching stays deterministic within a document.
type IngestionService struct {
	store      ports.Store
	embedding  ports.EmbeddingService
	vocabulary *VocabularyService
	registry   *appevents.HandlerRegistry
	logger     *zap.Logger
}

func NewIngestionService(store ports.Store, embedding ports.EmbeddingService, vocabulary *VocabularyService, registry *appevents.HandlerRegistry, logger *zap.Logger) *IngestionService {
	return &IngestionService{store: store, embedding: embedding, vocabulary: vocabulary, registry: registry, logger: logger}
}

// ChunkResult is what one chunk contributes to the document being
// ingested.
type ChunkResult struct {
	Sources       []*entities.Source
	Concepts      []*entities.Concept
	Instances     []*entities.Instance
	Relationships []*entities.RelationshipEdge
}

// ProcessChunk runs concept matching, instance dedup, and relationship
// creation for one extraction result against one Source.
func (s *IngestionService) ProcessChunk(ctx context.Context, ontology string, source *entities.Source, extraction ports.ExtractionResult, epoch int64, jobID valueobjects.JobID, documentID valueobjects.DocumentID) (ChunkResult, error) {
	result := ChunkResult{Sources: []*entities.Source{source}}

	existingConcepts, err := s.store.FindConceptsByOntology(ctx, ontology)
	if err != nil {
		return result, err
	}

	byLabel := make(map[string]*entities.Concept, len(extraction.Concepts))
	for _, candidate := range extraction.Concepts {
		embedResult, err := s.embedding.Embed(ctx, candidate.Label+" "+candidate.Description)
		if err != nil {
			return result, err
		}
		embedding := valueobjects.NewEmbedding(embedResult.Vector, embedResult.Model)

		if match, ok := services.BestMatch(embedding, existingConcepts); ok {
			match.Concept.RecordSeen(match.Similarity, epoch)
			if err := s.store.UpsertConceptNode(ctx, match.Concept); err != nil {
				return result, err
			}
			s.registry.DispatchAll(ctx, match.Concept.Events())
			byLabel[candidate.Label] = match.Concept
			result.Concepts = append(result.Concepts, match.Concept)
			continue
		}

		concept, err := entities.NewConcept(ontology, candidate.Label, candidate.Description, embedding, candidate.SearchTerms, entities.CreationLLMExtraction, epoch)
		if err != nil {
			return result, err
		}
		if err := s.store.UpsertConceptNode(ctx, concept); err != nil {
			return result, err
		}
		s.registry.DispatchAll(ctx, concept.Events())
		existingConcepts = append(existingConcepts, concept)
		byLabel[candidate.Label] = concept
		result.Concepts = append(result.Concepts, concept)
	}

	for _, instance := range extraction.Instances {
		concept, ok := byLabel[instance.ConceptLabel]
		if !ok {
			continue
		}
		inst, err := entities.NewInstance(concept.ID(), source.ID(), instance.Quote)
		if err != nil {
			s.logger.Debug("skipping invalid instance", zap.Error(err))
			continue
		}
		if err := s.store.UpsertInstanceNode(ctx, inst); err != nil {
			return result, err
		}
		s.registry.DispatchAll(ctx, []events.DomainEvent{events.NewInstanceCreated(inst.ID(), inst.ConceptID(), inst.SourceID(), time.Now())})
		result.Instances = append(result.Instances, inst)
	}

	for _, rel := range extraction.Relationships {
		from, fromOK := byLabel[rel.FromLabel]
		to, toOK := byLabel[rel.ToLabel]
		if !fromOK || !toOK {
			continue
		}
		vocabType, err := s.vocabulary.ResolveOrCreate(ctx, rel.VocabLabel)
		if err != nil {
			return result, err
		}
		confidence, err := valueobjects.NewConfidence(rel.Confidence)
		if err != nil {
			s.logger.Debug("rejecting out-of-range confidence", zap.Float64("confidence", rel.Confidence), zap.Error(err))
			continue
		}
		edge, err := entities.NewRelationshipEdge(from.ID(), to.ID(), vocabType.Name(), vocabType.IsActive(), confidence, entities.EdgeSourceLLMExtraction, jobID, documentID)
		if err != nil {
			s.logger.Debug("skipping invalid relationship edge", zap.Error(err))
			continue
		}
		if err := s.store.CreateRelationshipEdge(ctx, edge); err != nil {
			return result, err
		}
		s.registry.DispatchAll(ctx, edge.Events())
		vocabType.RecordUsage()
		if err := s.store.SaveVocabType(ctx, vocabType); err != nil {
			return result, err
		}
		result.Relationships = append(result.Relationships, edge)
	}

	return result, nil
}
