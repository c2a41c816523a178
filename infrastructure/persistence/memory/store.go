// Package memory implements ports.Store entirely in-process, grounded on
// the teacher's infrastructure/persistence/memory.InMemoryOperationStore
// (sync.RWMutex-guarded maps, no external dependency) for use in tests
// that exercise application services without a live Postgres instance.
package memory

import (
	"context"
	"sort"
	"sync"

	"ontologykg/application/ports"
	"ontologykg/domain/core/entities"
	"ontologykg/domain/core/valueobjects"
	"ontologykg/pkg/kgerrors"
)

// Store is an in-memory ports.Store. All methods are safe for concurrent
// use; the get-create-get race pattern the Postgres store resolves with
// ON CONFLICT is resolved here with a single mutex held across the whole
// check-then-act sequence instead.
type Store struct {
	mu sync.RWMutex

	documents  map[string]*entities.DocumentMeta // key: contentHash+"/"+ontology
	ontologies map[string]*entities.Ontology
	vocabTypes map[valueobjects.VocabTypeName]*entities.VocabType
	history    []vocabHistoryEntry
	proposals  map[valueobjects.ProposalID]*entities.AnnealingProposal

	concepts  map[valueobjects.ConceptID]*entities.Concept
	sources   map[valueobjects.SourceID]*entities.Source
	instances map[string]*entities.Instance // key: quote+"/"+sourceID
	edges     []*entities.RelationshipEdge

	documentIngestionEpoch int64
	lastBreathingEpoch     int64
	vocabularyChangeCount  int64
	embeddingProfileName   string
	embeddingDimensions    int
	initialized            bool
}

type vocabHistoryEntry struct {
	deprecated, target valueobjects.VocabTypeName
	edgesMoved         int
}

// New creates an empty in-memory Store.
func New() *Store {
	return &Store{
		documents:  map[string]*entities.DocumentMeta{},
		ontologies: map[string]*entities.Ontology{},
		vocabTypes: map[valueobjects.VocabTypeName]*entities.VocabType{},
		proposals:  map[valueobjects.ProposalID]*entities.AnnealingProposal{},
		concepts:   map[valueobjects.ConceptID]*entities.Concept{},
		sources:    map[valueobjects.SourceID]*entities.Source{},
		instances:  map[string]*entities.Instance{},
	}
}

func docKey(contentHash, ontology string) string { return contentHash + "/" + ontology }
func instKey(quote string, sourceID valueobjects.SourceID) string {
	return quote + "/" + sourceID.String()
}

func (s *Store) GetDocumentMeta(ctx context.Context, contentHash, ontology string) (*entities.DocumentMeta, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documents[docKey(contentHash, ontology)]
	return d, ok, nil
}

func (s *Store) SaveDocumentMeta(ctx context.Context, d *entities.DocumentMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[docKey(d.ID().String(), d.Ontology())] = d
	return nil
}

func (s *Store) GetOntology(ctx context.Context, name string) (*entities.Ontology, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.ontologies[name]
	return o, ok, nil
}

func (s *Store) CreateOntologyIfNotExists(ctx context.Context, o *entities.Ontology) (*entities.Ontology, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.ontologies[o.Name()]; ok {
		return existing, nil
	}
	s.ontologies[o.Name()] = o
	return o, nil
}

func (s *Store) SaveOntology(ctx context.Context, o *entities.Ontology) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ontologies[o.Name()] = o
	return nil
}

func (s *Store) GetVocabType(ctx context.Context, name valueobjects.VocabTypeName) (*entities.VocabType, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vocabTypes[name]
	return v, ok, nil
}

func (s *Store) ListVocabTypes(ctx context.Context) ([]*entities.VocabType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entities.VocabType, 0, len(s.vocabTypes))
	for _, v := range s.vocabTypes {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (s *Store) ListVocabTypesByCategory(ctx context.Context, category entities.VocabCategory) ([]*entities.VocabType, error) {
	all, _ := s.ListVocabTypes(ctx)
	out := make([]*entities.VocabType, 0, len(all))
	for _, v := range all {
		if v.Category() == category {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Store) CreateVocabTypeIfNotExists(ctx context.Context, v *entities.VocabType) (*entities.VocabType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.vocabTypes[v.Name()]; ok {
		return existing, nil
	}
	s.vocabTypes[v.Name()] = v
	return v, nil
}

func (s *Store) SaveVocabType(ctx context.Context, v *entities.VocabType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vocabTypes[v.Name()] = v
	return nil
}

func (s *Store) RecordVocabularyHistory(ctx context.Context, deprecated, target valueobjects.VocabTypeName, edgesMoved int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, vocabHistoryEntry{deprecated: deprecated, target: target, edgesMoved: edgesMoved})
	return nil
}

func (s *Store) GetCurrentDocumentEpoch(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.documentIngestionEpoch, nil
}

func (s *Store) IncrementDocumentIngestionCounter(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documentIngestionEpoch++
	return s.documentIngestionEpoch, nil
}

func (s *Store) IncrementVocabularyChangeCounter(ctx context.Context, delta int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vocabularyChangeCount += int64(delta)
	return s.vocabularyChangeCount, nil
}

func (s *Store) ResetVocabularyChangeCounter(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vocabularyChangeCount = 0
	return nil
}

func (s *Store) ClaimBreathingWindow(ctx context.Context, interval int64) (bool, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.documentIngestionEpoch-s.lastBreathingEpoch < interval {
		return false, s.documentIngestionEpoch, nil
	}
	s.lastBreathingEpoch = s.documentIngestionEpoch
	return true, s.documentIngestionEpoch, nil
}

func (s *Store) GetEmbeddingProfile(ctx context.Context) (string, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.embeddingProfileName, s.embeddingDimensions, nil
}

func (s *Store) SetEmbeddingProfile(ctx context.Context, name string, dimensions int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embeddingProfileName = name
	s.embeddingDimensions = dimensions
	return nil
}

func (s *Store) IsInitialized(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized, nil
}

func (s *Store) SetInitialized(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	return nil
}

func (s *Store) MarkEmbeddingsStale(ctx context.Context, previousModel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.concepts {
		if c.Embedding().Model == previousModel {
			c.UpdateEmbedding(c.Embedding().MarkStale())
		}
	}
	for _, src := range s.sources {
		if src.Embedding().Model == previousModel {
			src.SetEmbedding(src.Embedding().MarkStale())
		}
	}
	for _, vt := range s.vocabTypes {
		if vt.Embedding().Model == previousModel {
			vt.SetEmbedding(vt.Embedding().MarkStale())
		}
	}
	return nil
}

func (s *Store) SaveAnnealingProposal(ctx context.Context, p *entities.AnnealingProposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[p.ID()] = p
	return nil
}

func (s *Store) ListPendingAnnealingProposals(ctx context.Context) ([]*entities.AnnealingProposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entities.AnnealingProposal, 0)
	for _, p := range s.proposals {
		if p.Status() == entities.ProposalPending {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out, nil
}

func (s *Store) ListStaleConcepts(ctx context.Context, ontology string, minEpochsSinceSeen, currentEpoch int64) ([]*entities.Concept, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entities.Concept, 0)
	for _, c := range s.concepts {
		if c.Ontology() == ontology && currentEpoch-c.LastSeenEpoch() >= minEpochsSinceSeen {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// ExecuteCypher is not supported by the in-memory store; tests that need
// arbitrary graph-query execution belong against the Postgres store.
func (s *Store) ExecuteCypher(ctx context.Context, ontology string, query string, params map[string]any) ([]map[string]any, error) {
	return nil, kgerrors.NewFatal("in-memory store does not support ExecuteCypher", nil)
}

func (s *Store) UpsertConceptNode(ctx context.Context, c *entities.Concept) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.concepts[c.ID()] = c
	return nil
}

func (s *Store) UpsertSourceNode(ctx context.Context, src *entities.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[src.ID()] = src
	return nil
}

func (s *Store) UpsertInstanceNode(ctx context.Context, i *entities.Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := instKey(i.Quote(), i.SourceID())
	if _, exists := s.instances[key]; exists {
		return nil
	}
	s.instances[key] = i
	return nil
}

func (s *Store) CreateRelationshipEdge(ctx context.Context, e *entities.RelationshipEdge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges = append(s.edges, e)
	return nil
}

func (s *Store) RewriteRelationshipLabel(ctx context.Context, fromType, toType valueobjects.VocabTypeName) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	moved := 0
	for _, e := range s.edges {
		if e.VocabType() == fromType {
			*e = *entities.ReconstructRelationshipEdge(e.FromConcept(), e.ToConcept(), toType, e.Confidence(), e.Source(), e.CreatedAt(), "", e.JobID(), e.DocumentID())
			moved++
		}
	}
	return moved, nil
}

func (s *Store) FindConceptsByOntology(ctx context.Context, ontology string) ([]*entities.Concept, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entities.Concept, 0)
	for _, c := range s.concepts {
		if c.Ontology() == ontology {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) GetConceptNode(ctx context.Context, id valueobjects.ConceptID) (*entities.Concept, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.concepts[id]
	return c, ok, nil
}

func (s *Store) DeleteConceptNode(ctx context.Context, id valueobjects.ConceptID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.concepts, id)
	remainingEdges := s.edges[:0]
	for _, e := range s.edges {
		if e.FromConcept() == id || e.ToConcept() == id {
			continue
		}
		remainingEdges = append(remainingEdges, e)
	}
	s.edges = remainingEdges
	for key, i := range s.instances {
		if i.ConceptID() == id {
			delete(s.instances, key)
		}
	}
	return nil
}

func (s *Store) FindIncomingEdges(ctx context.Context, conceptID valueobjects.ConceptID) ([]ports.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ports.Edge, 0)
	for _, e := range s.edges {
		if e.ToConcept() == conceptID {
			out = append(out, ports.Edge{From: e.FromConcept(), To: e.ToConcept(), VocabType: e.VocabType(), Confidence: e.Confidence().Value()})
		}
	}
	return out, nil
}

func (s *Store) SampleEdgesByVocabType(ctx context.Context, vocabType valueobjects.VocabTypeName, limit int) ([]ports.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ports.Edge, 0)
	for _, e := range s.edges {
		if e.VocabType() == vocabType {
			out = append(out, ports.Edge{From: e.FromConcept(), To: e.ToConcept(), VocabType: e.VocabType(), Confidence: e.Confidence().Value()})
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (s *Store) ListDistinctEdgeLabels(ctx context.Context) ([]valueobjects.VocabTypeName, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[valueobjects.VocabTypeName]bool{}
	out := make([]valueobjects.VocabTypeName, 0)
	for _, e := range s.edges {
		if !seen[e.VocabType()] {
			seen[e.VocabType()] = true
			out = append(out, e.VocabType())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

var _ ports.Store = (*Store)(nil)
