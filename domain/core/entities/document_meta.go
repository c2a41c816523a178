package entities

import (
	"time"

	"ontologykg/domain/core/valueobjects"
	"ontologykg/pkg/kgerrors"
)

// DocumentMeta records ingestion provenance for a document. Its ID is the
// document's content_hash, so re-ingesting identical bytes naturally
// MERGEs onto the same node (spec.md §3/§5).
type DocumentMeta struct {
	id          valueobjects.DocumentID
	ontology    string
	filename    string
	sourceType  string
	filePath    string
	hostname    string
	ingestedAt  time.Time
	ingestedBy  string
	jobID       valueobjects.JobID
	sourceCount int
	garageKey   string
}

// NewDocumentMeta creates the provenance record written once ingestion of
// a document fully succeeds.
func NewDocumentMeta(contentHash, ontology, filename, sourceType, filePath, hostname, ingestedBy string, jobID valueobjects.JobID, sourceCount int) (*DocumentMeta, error) {
	if contentHash == "" {
		return nil, kgerrors.NewValidation("document content hash cannot be empty")
	}
	if ontology == "" {
		return nil, kgerrors.NewValidation("document ontology cannot be empty")
	}
	return &DocumentMeta{
		id:          valueobjects.NewDocumentID(contentHash),
		ontology:    ontology,
		filename:    filename,
		sourceType:  sourceType,
		filePath:    filePath,
		hostname:    hostname,
		ingestedAt:  time.Now(),
		ingestedBy:  ingestedBy,
		jobID:       jobID,
		sourceCount: sourceCount,
	}, nil
}

func ReconstructDocumentMeta(id valueobjects.DocumentID, ontology, filename, sourceType, filePath, hostname string, ingestedAt time.Time, ingestedBy string, jobID valueobjects.JobID, sourceCount int, garageKey string) *DocumentMeta {
	return &DocumentMeta{
		id: id, ontology: ontology, filename: filename, sourceType: sourceType, filePath: filePath,
		hostname: hostname, ingestedAt: ingestedAt, ingestedBy: ingestedBy, jobID: jobID,
		sourceCount: sourceCount, garageKey: garageKey,
	}
}

func (d *DocumentMeta) ID() valueobjects.DocumentID { return d.id }
func (d *DocumentMeta) Ontology() string            { return d.ontology }
func (d *DocumentMeta) Filename() string            { return d.filename }
func (d *DocumentMeta) SourceCount() int            { return d.sourceCount }
func (d *DocumentMeta) JobID() valueobjects.JobID   { return d.jobID }
func (d *DocumentMeta) IngestedAt() time.Time       { return d.ingestedAt }
func (d *DocumentMeta) GarageKey() string           { return d.garageKey }

// ReIngest updates an existing DocumentMeta's provenance in place when
// force=true re-ingestion is requested (spec.md §3: "re-ingest ... returns
// the existing DocumentMeta unless force=true"; with force, it updates
// but does not duplicate).
func (d *DocumentMeta) ReIngest(jobID valueobjects.JobID, sourceCount int) {
	d.jobID = jobID
	d.sourceCount = sourceCount
	d.ingestedAt = time.Now()
}

// SetGarageKey records the blob-store key for the archived source bytes.
func (d *DocumentMeta) SetGarageKey(key string) { d.garageKey = key }
