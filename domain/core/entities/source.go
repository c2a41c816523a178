package entities

import (
	"time"

	"ontologykg/domain/core/valueobjects"
	"ontologykg/pkg/kgerrors"
)

// ContentType distinguishes how a Source's full_text came to exist.
type ContentType string

const (
	ContentDocument  ContentType = "document"
	ContentImage     ContentType = "image"
	ContentSynthetic ContentType = "synthetic"
)

// Source is one chunk of an ingested document (or a synthetic
// provenance record for a programmatically-created Concept).
type Source struct {
	id               valueobjects.SourceID
	document         string
	chunkIndex       int
	fullText         string
	contentType      ContentType
	embedding        valueobjects.Embedding
	visualEmbedding  valueobjects.Embedding
	storageKey       string
	contentHash      string
	charOffsetStart  int
	charOffsetEnd    int
	garageKey        string
}

// NewSource creates a new Source for a document chunk.
func NewSource(document string, chunkIndex int, fullText string, contentType ContentType, charStart, charEnd int) (*Source, error) {
	if document == "" {
		return nil, kgerrors.NewValidation("source document cannot be empty")
	}
	if fullText == "" {
		return nil, kgerrors.NewValidation("source full_text cannot be empty")
	}
	return &Source{
		id:              valueobjects.NewSourceID(),
		document:        document,
		chunkIndex:      chunkIndex,
		fullText:        fullText,
		contentType:     contentType,
		charOffsetStart: charStart,
		charOffsetEnd:   charEnd,
	}, nil
}

// NewSyntheticSource builds the provenance Source written when a Concept
// is created programmatically outside ingestion (spec.md §6 Concept CRUD).
func NewSyntheticSource(ontology, label string, at time.Time) *Source {
	return &Source{
		id:          valueobjects.NewSourceID(),
		document:    ontology,
		fullText:    label,
		contentType: ContentSynthetic,
	}
}

func ReconstructSource(
	id valueobjects.SourceID,
	document string,
	chunkIndex int,
	fullText string,
	contentType ContentType,
	embedding, visualEmbedding valueobjects.Embedding,
	storageKey, contentHash string,
	charStart, charEnd int,
	garageKey string,
) *Source {
	return &Source{
		id: id, document: document, chunkIndex: chunkIndex, fullText: fullText,
		contentType: contentType, embedding: embedding, visualEmbedding: visualEmbedding,
		storageKey: storageKey, contentHash: contentHash,
		charOffsetStart: charStart, charOffsetEnd: charEnd, garageKey: garageKey,
	}
}

func (s *Source) ID() valueobjects.SourceID        { return s.id }
func (s *Source) Document() string                 { return s.document }
func (s *Source) ChunkIndex() int                  { return s.chunkIndex }
func (s *Source) FullText() string                 { return s.fullText }
func (s *Source) ContentType() ContentType          { return s.contentType }
func (s *Source) Embedding() valueobjects.Embedding { return s.embedding }
func (s *Source) VisualEmbedding() valueobjects.Embedding { return s.visualEmbedding }
func (s *Source) StorageKey() string                { return s.storageKey }
func (s *Source) ContentHash() string               { return s.contentHash }
func (s *Source) GarageKey() string                 { return s.garageKey }
func (s *Source) CharOffsets() (int, int)           { return s.charOffsetStart, s.charOffsetEnd }

// SetEmbedding attaches a text embedding computed during ingestion.
func (s *Source) SetEmbedding(e valueobjects.Embedding) { s.embedding = e }

// SetVisualStorage records the image bytes' blob key and vision embedding
// for an image-content Source (spec.md §4.4 image chunks).
func (s *Source) SetVisualStorage(storageKey string, visual valueobjects.Embedding) {
	s.storageKey = storageKey
	s.visualEmbedding = visual
}

// SetContentHash records the sha256 used for document-level dedup.
func (s *Source) SetContentHash(hash string) { s.contentHash = hash }

// SetGarageKey records the blob-store key for the source's backing bytes.
func (s *Source) SetGarageKey(key string) { s.garageKey = key }
