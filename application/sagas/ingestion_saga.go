package sagas

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	appevents "ontologykg/application/events"
	"ontologykg/application/ports"
	appservices "ontologykg/application/services"
	"ontologykg/domain/core/entities"
	"ontologykg/domain/core/valueobjects"
	"ontologykg/domain/events"
	"ontologykg/domain/services"

	"go.uber.org/zap"
)

// IngestionSagaData carries input and accumulated state between steps,
// grounded on the teacher's CreateNodeSagaData shape: input fields,
// state produced by earlier steps, and compensation-tracking flags.
type IngestionSagaData struct {
	// Input
	Ontology   string
	Content    []byte
	Filename   string
	SourceType string
	FilePath   string
	Hostname   string
	IngestedBy string
	Force      bool
	JobID      valueobjects.JobID

	// State between steps
	ContentHash   string
	ExistingMeta  *entities.DocumentMeta
	AlreadyExists bool
	Chunks        []string
	Epoch         int64
	Sources       []*entities.Source
	Concepts      []*entities.Concept
	Instances     []*entities.Instance
	Relationships []*entities.RelationshipEdge
	DocumentMeta  *entities.DocumentMeta

	// Compensation tracking
	MetaWritten     bool
	EpochIncremented bool
}

// IngestionSaga orchestrates spec.md §4.4's ingestion pipeline: dedupe,
// chunk, per-chunk extraction and graph writes, then DocumentMeta on full
// success. Chunk failures are isolated deliberately — the saga does not
// compensate already-written chunk state, since a partial but consistent
// graph is the documented behavior (spec.md §4.4 "Atomicity"); only the
// final DocumentMeta write is gated on every chunk succeeding.
type IngestionSaga struct {
	store     ports.Store
	llm       ports.LLMProvider
	ingestion *appservices.IngestionService
	registry  *appevents.HandlerRegistry
	logger    *zap.Logger
	chunkCfg  services.ChunkConfig
}

func NewIngestionSaga(store ports.Store, llm ports.LLMProvider, ingestion *appservices.IngestionService, registry *appevents.HandlerRegistry, chunkCfg services.ChunkConfig, logger *zap.Logger) *IngestionSaga {
	return &IngestionSaga{store: store, llm: llm, ingestion: ingestion, registry: registry, chunkCfg: chunkCfg, logger: logger}
}

func (s *IngestionSaga) build() *Saga {
	return NewSagaBuilder("IngestDocument", s.logger).
		WithStep("Deduplicate", s.deduplicate).
		WithStep("CheckOntologyAcceptsIngestion", s.checkOntology).
		WithStep("Chunk", s.chunk).
		WithStep("ReadEpoch", s.readEpoch).
		WithStep("ProcessChunks", s.processChunks).
		WithCompensableStep("WriteDocumentMeta", s.writeDocumentMeta, s.compensateDocumentMeta).
		WithStep("IncrementEpoch", s.incrementEpoch).
		Build()
}

// Execute runs the saga. If AlreadyExists is set on return with a nil
// error, the caller should respond with the existing job rather than a
// freshly created one (spec.md §4.4 step 1).
func (s *IngestionSaga) Execute(ctx context.Context, data *IngestionSagaData) (*IngestionSagaData, error) {
	result, err := s.build().Execute(ctx, data)
	if err != nil {
		return data, err
	}
	return result.(*IngestionSagaData), nil
}

func (s *IngestionSaga) deduplicate(ctx context.Context, raw any) (any, error) {
	d := raw.(*IngestionSagaData)
	sum := sha256.Sum256(d.Content)
	d.ContentHash = hex.EncodeToString(sum[:])

	meta, found, err := s.store.GetDocumentMeta(ctx, d.ContentHash, d.Ontology)
	if err != nil {
		return nil, err
	}
	if found && !d.Force {
		d.ExistingMeta = meta
		d.AlreadyExists = true
	}
	return d, nil
}

func (s *IngestionSaga) checkOntology(ctx context.Context, raw any) (any, error) {
	d := raw.(*IngestionSagaData)
	if d.AlreadyExists {
		return d, nil
	}
	ont, found, err := s.store.GetOntology(ctx, d.Ontology)
	if err != nil {
		return nil, err
	}
	if !found {
		newOnt, err := entities.NewOntology(d.Ontology, "", d.IngestedBy, 0)
		if err != nil {
			return nil, err
		}
		ont, err = s.store.CreateOntologyIfNotExists(ctx, newOnt)
		if err != nil {
			return nil, err
		}
	}
	if !ont.AcceptsIngestion() {
		return nil, fmt.Errorf("ontology %q is frozen and refuses ingestion", d.Ontology)
	}
	return d, nil
}

func (s *IngestionSaga) chunk(ctx context.Context, raw any) (any, error) {
	d := raw.(*IngestionSagaData)
	if d.AlreadyExists {
		return d, nil
	}
	d.Chunks = services.Chunk(string(d.Content), s.chunkCfg)
	return d, nil
}

// readEpoch stamps d.Epoch with the epoch in effect right now, mirroring
// the original's get_current_epoch() call at concept-creation time. The
// counter itself only advances once this document's graph writes commit,
// in incrementEpoch below.
func (s *IngestionSaga) readEpoch(ctx context.Context, raw any) (any, error) {
	d := raw.(*IngestionSagaData)
	if d.AlreadyExists {
		return d, nil
	}
	epoch, err := s.store.GetCurrentDocumentEpoch(ctx)
	if err != nil {
		return nil, err
	}
	d.Epoch = epoch
	return d, nil
}

func (s *IngestionSaga) processChunks(ctx context.Context, raw any) (any, error) {
	d := raw.(*IngestionSagaData)
	if d.AlreadyExists {
		return d, nil
	}

	var seenConcepts []string
	for i, chunkText := range d.Chunks {
		source, err := entities.NewSource(d.Ontology, i, chunkText, entities.ContentDocument, 0, len(chunkText))
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		if err := s.store.UpsertSourceNode(ctx, source); err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}

		extraction, err := s.llm.ExtractConcepts(ctx, ports.ExtractionContext{
			Ontology:     d.Ontology,
			ChunkText:    chunkText,
			SeenConcepts: seenConcepts,
		})
		if err != nil {
			return nil, fmt.Errorf("chunk %d extraction: %w", i, err)
		}

		chunkResult, err := s.ingestion.ProcessChunk(ctx, d.Ontology, source, extraction, d.Epoch, d.JobID, valueobjects.NewDocumentID(d.ContentHash))
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}

		d.Sources = append(d.Sources, chunkResult.Sources...)
		d.Concepts = append(d.Concepts, chunkResult.Concepts...)
		d.Instances = append(d.Instances, chunkResult.Instances...)
		d.Relationships = append(d.Relationships, chunkResult.Relationships...)
		for _, c := range chunkResult.Concepts {
			seenConcepts = append(seenConcepts, c.Label())
		}
	}
	return d, nil
}

func (s *IngestionSaga) writeDocumentMeta(ctx context.Context, raw any) (any, error) {
	d := raw.(*IngestionSagaData)
	if d.AlreadyExists {
		return d, nil
	}
	meta, err := entities.NewDocumentMeta(d.ContentHash, d.Ontology, d.Filename, d.SourceType, d.FilePath, d.Hostname, d.IngestedBy, d.JobID, len(d.Sources))
	if err != nil {
		return nil, err
	}
	if d.Force && d.ExistingMeta != nil {
		d.ExistingMeta.ReIngest(d.JobID, len(d.Sources))
		meta = d.ExistingMeta
	}
	if err := s.store.SaveDocumentMeta(ctx, meta); err != nil {
		return nil, err
	}
	d.DocumentMeta = meta
	d.MetaWritten = true
	return d, nil
}

func (s *IngestionSaga) compensateDocumentMeta(ctx context.Context, raw any) error {
	// DocumentMeta is only ever written after every chunk succeeded; if a
	// later step fails there is nothing to undo for correctness, since
	// the partial graph it now describes is itself the documented
	// behavior (spec.md §4.4 "Atomicity"). Nothing to do.
	return nil
}

func (s *IngestionSaga) incrementEpoch(ctx context.Context, raw any) (any, error) {
	d := raw.(*IngestionSagaData)
	if d.AlreadyExists {
		return d, nil
	}
	epoch, err := s.store.IncrementDocumentIngestionCounter(ctx)
	if err != nil {
		return nil, err
	}
	d.Epoch = epoch
	d.EpochIncremented = true
	s.registry.DispatchAll(ctx, []events.DomainEvent{
		events.NewDocumentIngested(valueobjects.NewDocumentID(d.ContentHash), d.Ontology, len(d.Sources), epoch, d.JobID, time.Now()),
	})
	return d, nil
}
