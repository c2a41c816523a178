package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ontologykg/application/ports"
)

// Local talks to an OpenAI-chat-compatible local inference server
// (llama.cpp's server, vLLM, LM Studio) rather than Ollama's native API
// — the fourth provider variant spec.md §9's closed sum type names
// distinctly from "ollama".
type Local struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewLocal(baseURL, model string) *Local {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Local{baseURL: baseURL, model: model, client: &http.Client{Timeout: 2 * time.Minute}}
}

type localChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type localChatRequest struct {
	Model    string              `json:"model"`
	Messages []localChatMessage  `json:"messages"`
}

type localChatResponse struct {
	Choices []struct {
		Message localChatMessage `json:"message"`
	} `json:"choices"`
}

func (l *Local) chat(ctx context.Context, system, user string) (string, error) {
	messages := []localChatMessage{}
	if system != "" {
		messages = append(messages, localChatMessage{Role: "system", Content: system})
	}
	messages = append(messages, localChatMessage{Role: "user", Content: user})

	body, err := json.Marshal(localChatRequest{Model: l.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshalling local chat request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building local chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling local inference server: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("local inference server returned status %d", resp.StatusCode)
	}
	var decoded localChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding local chat response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("local inference server returned no choices")
	}
	return decoded.Choices[0].Message.Content, nil
}

func (l *Local) ExtractConcepts(ctx context.Context, ec ports.ExtractionContext) (ports.ExtractionResult, error) {
	raw, err := l.chat(ctx, extractionSystemPrompt, buildExtractionPrompt(ec))
	if err != nil {
		return ports.ExtractionResult{}, err
	}
	return parseExtractionResponse(raw)
}

func (l *Local) DescribeImage(ctx context.Context, imageBytes []byte, mimeType string) (string, error) {
	return "", fmt.Errorf("local provider %q does not support image description", l.model)
}

func (l *Local) JudgeProposal(ctx context.Context, rationale string) (bool, error) {
	raw, err := l.chat(ctx, judgeSystemPrompt, rationale)
	if err != nil {
		return false, err
	}
	return parseJudgeResponse(raw)
}

func (l *Local) Validate(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/v1/models", nil)
	if err != nil {
		return fmt.Errorf("building local server health check: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("reaching local inference server: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("local inference server returned status %d", resp.StatusCode)
	}
	return nil
}

func (l *Local) Name() string { return "local" }

var _ ports.LLMProvider = (*Local)(nil)
