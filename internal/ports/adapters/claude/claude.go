// Package claude judges candidates through the Anthropic Messages API.
package claude

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/srinivastejavt/podcast-clipper/internal/ports/adapters/prompt"
	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

type Adapter struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func New(apiKey, model string, maxTokens int) (*Adapter, error) {
	if apiKey == "" {
		return nil, errors.New("claude: ANTHROPIC_API_KEY is required")
	}
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Adapter{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: int64(maxTokens),
	}, nil
}

func (a *Adapter) Name() string { return "claude" }

func (a *Adapter) Judge(ctx context.Context, req types.OracleRequest) (types.OracleResponse, error) {
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   a.maxTokens,
		Temperature: anthropic.Float(0.2),
		System: []anthropic.TextBlockParam{
			{Text: prompt.System()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.User(req))),
		},
	})
	if err != nil {
		return types.OracleResponse{}, fmt.Errorf("claude: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return types.OracleResponse{}, errors.New("claude: empty response")
	}
	return prompt.Parse(b.String())
}
