package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ontologykg/application/ports"
)

// Remote calls an out-of-process embedding endpoint directly per request
// — no local queuing, since the remote service owns its own concurrency
// (spec.md §4.2).
type Remote struct {
	endpoint   string
	apiKey     string
	model      string
	dimensions int
	client     *http.Client
}

func NewRemote(endpoint, apiKey, model string, dimensions int) *Remote {
	return &Remote{
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      model,
		dimensions: dimensions,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

type remoteEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type remoteEmbedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

func (r *Remote) Embed(ctx context.Context, text string) (ports.EmbeddingResult, error) {
	results, err := r.EmbedBatch(ctx, []string{text})
	if err != nil {
		return ports.EmbeddingResult{}, err
	}
	return results[0], nil
}

func (r *Remote) EmbedBatch(ctx context.Context, texts []string) ([]ports.EmbeddingResult, error) {
	body, err := json.Marshal(remoteEmbedRequest{Model: r.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshalling embedding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling embedding endpoint: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding endpoint returned status %d", resp.StatusCode)
	}

	var decoded remoteEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding embedding response: %w", err)
	}
	if len(decoded.Data) != len(texts) {
		return nil, fmt.Errorf("embedding endpoint returned %d vectors for %d inputs", len(decoded.Data), len(texts))
	}

	out := make([]ports.EmbeddingResult, len(texts))
	for i, d := range decoded.Data {
		out[i] = ports.EmbeddingResult{Vector: d.Embedding, Model: r.model, Dimensions: len(d.Embedding), Tokens: decoded.Usage.TotalTokens / len(texts)}
	}
	return out, nil
}

func (r *Remote) ActiveModel() string   { return r.model }
func (r *Remote) ActiveDimensions() int { return r.dimensions }

var _ ports.EmbeddingService = (*Remote)(nil)
