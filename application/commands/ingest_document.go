package commands

import (
	"context"

	"ontologykg/application/ports"
	"ontologykg/domain/core/valueobjects"
)

// IngestDocumentCommand submits a document's raw bytes for ingestion into
// an ontology (spec.md §4.4).
type IngestDocumentCommand struct {
	Ontology   string `validate:"required"`
	Content    []byte `validate:"required"`
	Filename   string
	SourceType string
	FilePath   string
	Hostname   string
	IngestedBy string
	Force      bool
	Mode       string // "serial" (default) or "parallel"; stored in the job data only, the ingestion handler always runs serially
}

func (IngestDocumentCommand) CommandName() string { return "ingest_document" }

// IngestDocumentHandler enqueues an ingestion job and lets the ingestion
// worker run the pipeline asynchronously — ingestion always goes through
// the job queue so the Dedupe/force contract in spec.md §4.4 step 1 can
// return an existing job_id without blocking the caller.
type IngestDocumentHandler struct {
	jobQueue ports.JobQueue
	blobs    ports.BlobStore
}

func NewIngestDocumentHandler(jobQueue ports.JobQueue, blobs ports.BlobStore) *IngestDocumentHandler {
	return &IngestDocumentHandler{jobQueue: jobQueue, blobs: blobs}
}

func (h *IngestDocumentHandler) Handle(ctx context.Context, c Command) error {
	cmd := c.(IngestDocumentCommand)

	key := "ingestion/" + cmd.Ontology + "/" + valueobjects.NewJobID().String()
	if err := h.blobs.Put(ctx, key, cmd.Content, "application/octet-stream"); err != nil {
		return err
	}

	mode := cmd.Mode
	if mode == "" {
		mode = "serial"
	}

	jobID, err := h.jobQueue.Enqueue(ctx, "ingestion", map[string]any{
		"ontology":    cmd.Ontology,
		"blob_key":    key,
		"filename":    cmd.Filename,
		"source_type": cmd.SourceType,
		"file_path":   cmd.FilePath,
		"hostname":    cmd.Hostname,
		"ingested_by": cmd.IngestedBy,
		"force":       cmd.Force,
		"mode":        mode,
	}, false, true)
	if err != nil {
		return err
	}
	return h.jobQueue.ExecuteJobAsync(ctx, jobID)
}
