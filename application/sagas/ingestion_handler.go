package sagas

import (
	"context"
	"fmt"

	"ontologykg/application/ports"
)

const JobTypeIngestion = "ingestion"

// IngestionHandler is the worker-side counterpart to
// commands.IngestDocumentHandler: it fetches the blob the command staged
// and drives the saga the command only enqueued.
type IngestionHandler struct {
	saga  *IngestionSaga
	blobs ports.BlobStore
}

func NewIngestionHandler(saga *IngestionSaga, blobs ports.BlobStore) *IngestionHandler {
	return &IngestionHandler{saga: saga, blobs: blobs}
}

func (h *IngestionHandler) JobType() string { return JobTypeIngestion }

func (h *IngestionHandler) Execute(ctx context.Context, job ports.Job) (map[string]any, error) {
	ontology, _ := job.Data["ontology"].(string)
	blobKey, _ := job.Data["blob_key"].(string)
	if ontology == "" || blobKey == "" {
		return nil, fmt.Errorf("ingestion job %s missing ontology or blob_key", job.ID)
	}

	content, err := h.blobs.Get(ctx, blobKey)
	if err != nil {
		return nil, fmt.Errorf("fetching staged document: %w", err)
	}

	filename, _ := job.Data["filename"].(string)
	sourceType, _ := job.Data["source_type"].(string)
	filePath, _ := job.Data["file_path"].(string)
	hostname, _ := job.Data["hostname"].(string)
	ingestedBy, _ := job.Data["ingested_by"].(string)
	force, _ := job.Data["force"].(bool)

	result, err := h.saga.Execute(ctx, &IngestionSagaData{
		Ontology:   ontology,
		Content:    content,
		Filename:   filename,
		SourceType: sourceType,
		FilePath:   filePath,
		Hostname:   hostname,
		IngestedBy: ingestedBy,
		Force:      force,
		JobID:      job.ID,
	})
	if err != nil {
		return nil, err
	}

	_ = h.blobs.Delete(ctx, blobKey)

	return map[string]any{
		"ontology":       result.Ontology,
		"already_exists": result.AlreadyExists,
		"content_hash":   result.ContentHash,
		"epoch":          result.Epoch,
		"chunks":         len(result.Chunks),
		"concepts":       len(result.Concepts),
		"instances":      len(result.Instances),
		"relationships":  len(result.Relationships),
	}, nil
}

var _ ports.JobHandler = (*IngestionHandler)(nil)
