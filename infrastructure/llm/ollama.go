package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ontologykg/application/ports"
)

// Ollama talks to a local Ollama daemon's /api/generate endpoint.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllama(baseURL, model string) *Ollama {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &Ollama{baseURL: baseURL, model: model, client: &http.Client{Timeout: 2 * time.Minute}}
}

type ollamaGenerateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	System string   `json:"system,omitempty"`
	Images []string `json:"images,omitempty"`
	Stream bool     `json:"stream"`
	Format string   `json:"format,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

func (o *Ollama) generate(ctx context.Context, req ollamaGenerateRequest) (string, error) {
	req.Stream = false
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshalling ollama request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling ollama: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	var decoded ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding ollama response: %w", err)
	}
	return decoded.Response, nil
}

func (o *Ollama) ExtractConcepts(ctx context.Context, ec ports.ExtractionContext) (ports.ExtractionResult, error) {
	raw, err := o.generate(ctx, ollamaGenerateRequest{
		Model:  o.model,
		System: extractionSystemPrompt,
		Prompt: buildExtractionPrompt(ec),
		Format: "json",
	})
	if err != nil {
		return ports.ExtractionResult{}, err
	}
	return parseExtractionResponse(raw)
}

func (o *Ollama) DescribeImage(ctx context.Context, imageBytes []byte, mimeType string) (string, error) {
	return o.generate(ctx, ollamaGenerateRequest{
		Model:  o.model,
		Prompt: "Describe this image in a few sentences for use as a document source's content.",
		Images: []string{base64.StdEncoding.EncodeToString(imageBytes)},
	})
}

func (o *Ollama) JudgeProposal(ctx context.Context, rationale string) (bool, error) {
	raw, err := o.generate(ctx, ollamaGenerateRequest{
		Model:  o.model,
		System: judgeSystemPrompt,
		Prompt: rationale,
		Format: "json",
	})
	if err != nil {
		return false, err
	}
	return parseJudgeResponse(raw)
}

func (o *Ollama) Validate(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("building ollama health check: %w", err)
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("reaching ollama daemon: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama daemon returned status %d", resp.StatusCode)
	}
	return nil
}

func (o *Ollama) Name() string { return "ollama" }

var _ ports.LLMProvider = (*Ollama)(nil)
