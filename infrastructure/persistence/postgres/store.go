package postgres

import (
	"encoding/json"
	"fmt"

	"ontologykg/domain/core/valueobjects"

	"go.uber.org/zap"
)

// Store implements ports.Store (GraphStore + RelationalStore) against the
// kg_api/graph Postgres schema.
type Store struct {
	pool      *Pool
	retryCfg  RetryConfig
	logger    *zap.Logger
}

// New wraps pool as a ports.Store implementation.
func New(pool *Pool, logger *zap.Logger) *Store {
	return &Store{pool: pool, retryCfg: DefaultRetryConfig(), logger: logger}
}

// embeddingJSON is the jsonb shape an Embedding round-trips through, kept
// separate from valueobjects.Embedding so the domain layer stays free of
// db/json struct tags.
type embeddingJSON struct {
	Vector []float64 `json:"vector"`
	Model  string    `json:"model"`
	Stale  bool      `json:"stale"`
}

func marshalEmbedding(e valueobjects.Embedding) ([]byte, error) {
	if e.IsZero() {
		return nil, nil
	}
	return json.Marshal(embeddingJSON{Vector: e.Vector, Model: e.Model, Stale: e.Stale})
}

func unmarshalEmbedding(raw []byte) (valueobjects.Embedding, error) {
	if len(raw) == 0 {
		return valueobjects.Embedding{}, nil
	}
	var ej embeddingJSON
	if err := json.Unmarshal(raw, &ej); err != nil {
		return valueobjects.Embedding{}, fmt.Errorf("unmarshalling embedding: %w", err)
	}
	e := valueobjects.NewEmbedding(ej.Vector, ej.Model)
	if ej.Stale {
		e = e.MarkStale()
	}
	return e, nil
}

