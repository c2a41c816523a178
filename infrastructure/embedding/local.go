// Package embedding implements ports.EmbeddingService under the two
// scheduling regimes spec.md §4.2 distinguishes: Local (a single
// in-process worker serializes requests so a CPU-bound model never runs
// concurrently with itself) and Remote (a direct passthrough call, the
// provider's own service does the queuing). The request/response
// channel shape is grounded on the teacher's application/loaders.Batcher
// pending-request pattern, simplified from batching to strict FIFO.
package embedding

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"

	"ontologykg/application/ports"

	"go.uber.org/zap"
)

type localRequest struct {
	ctx    context.Context
	text   string
	result chan localResult
}

type localResult struct {
	value ports.EmbeddingResult
	err   error
}

// Local runs a single worker goroutine pulling from a bounded request
// channel, guaranteeing the embedding model is never invoked from two
// goroutines at once.
type Local struct {
	model      string
	dimensions int
	requests   chan localRequest
	logger     *zap.Logger
}

// NewLocal starts the worker goroutine. queueDepth bounds how many
// pending Embed calls may queue before callers block.
func NewLocal(model string, dimensions, queueDepth int, logger *zap.Logger) *Local {
	l := &Local{
		model:      model,
		dimensions: dimensions,
		requests:   make(chan localRequest, queueDepth),
		logger:     logger,
	}
	go l.run()
	return l
}

func (l *Local) run() {
	for req := range l.requests {
		vec := hashEmbed(req.text, l.dimensions)
		select {
		case req.result <- localResult{value: ports.EmbeddingResult{Vector: vec, Model: l.model, Dimensions: l.dimensions, Tokens: len(req.text) / 4}}:
		case <-req.ctx.Done():
		}
	}
}

func (l *Local) Embed(ctx context.Context, text string) (ports.EmbeddingResult, error) {
	resultChan := make(chan localResult, 1)
	select {
	case l.requests <- localRequest{ctx: ctx, text: text, result: resultChan}:
	case <-ctx.Done():
		return ports.EmbeddingResult{}, ctx.Err()
	}
	select {
	case r := <-resultChan:
		return r.value, r.err
	case <-ctx.Done():
		return ports.EmbeddingResult{}, ctx.Err()
	}
}

func (l *Local) EmbedBatch(ctx context.Context, texts []string) ([]ports.EmbeddingResult, error) {
	out := make([]ports.EmbeddingResult, len(texts))
	for i, t := range texts {
		r, err := l.Embed(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("embedding batch item %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}

func (l *Local) ActiveModel() string    { return l.model }
func (l *Local) ActiveDimensions() int  { return l.dimensions }

// hashEmbed deterministically derives a unit vector from text's sha256
// digest. It stands in for an actual local model (e.g. ONNX MiniLM)
// behind the same interface; swapping in a real model touches only this
// function.
func hashEmbed(text string, dimensions int) []float64 {
	sum := sha256.Sum256([]byte(text))
	vec := make([]float64, dimensions)
	var norm float64
	for i := 0; i < dimensions; i++ {
		b := sum[i%len(sum)]
		v := float64(int(b)-128) / 128.0
		vec[i] = v
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

var _ ports.EmbeddingService = (*Local)(nil)
