package llm

import (
	"context"
	"encoding/base64"
	"fmt"

	"ontologykg/application/ports"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic calls the Claude messages API directly for extraction,
// image description, and proposal judgment.
type Anthropic struct {
	client anthropic.Client
	model  string
}

func NewAnthropic(apiKey, model string) *Anthropic {
	if model == "" {
		model = string(anthropic.ModelClaude3_5SonnetLatest)
	}
	return &Anthropic{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (a *Anthropic) complete(ctx context.Context, system, user string) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 2048,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(user))},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages.new: %w", err)
	}
	var out string
	for _, block := range message.Content {
		if text := block.Text; text != "" {
			out += text
		}
	}
	return out, nil
}

func (a *Anthropic) ExtractConcepts(ctx context.Context, ec ports.ExtractionContext) (ports.ExtractionResult, error) {
	raw, err := a.complete(ctx, extractionSystemPrompt, buildExtractionPrompt(ec))
	if err != nil {
		return ports.ExtractionResult{}, err
	}
	return parseExtractionResponse(raw)
}

func (a *Anthropic) DescribeImage(ctx context.Context, imageBytes []byte, mimeType string) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(imageBytes)
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mimeType, encoded),
				anthropic.NewTextBlock("Describe this image in a few sentences for use as a document source's content."),
			),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic image description: %w", err)
	}
	var out string
	for _, block := range message.Content {
		if text := block.Text; text != "" {
			out += text
		}
	}
	return out, nil
}

func (a *Anthropic) JudgeProposal(ctx context.Context, rationale string) (bool, error) {
	raw, err := a.complete(ctx, judgeSystemPrompt, rationale)
	if err != nil {
		return false, err
	}
	return parseJudgeResponse(raw)
}

func (a *Anthropic) Validate(ctx context.Context) error {
	_, err := a.complete(ctx, "Reply with the single word: ok.", "ping")
	if err != nil {
		return fmt.Errorf("validating anthropic credentials: %w", err)
	}
	return nil
}

func (a *Anthropic) Name() string { return "anthropic" }

var _ ports.LLMProvider = (*Anthropic)(nil)
