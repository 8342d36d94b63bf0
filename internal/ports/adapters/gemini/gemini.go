// Package gemini judges candidates through the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/srinivastejavt/podcast-clipper/internal/ports/adapters/prompt"
	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

type Adapter struct {
	client *genai.Client
	model  string
	retry  retryConfig
}

func New(ctx context.Context, apiKey, model string) (*Adapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: GEMINI_API_KEY is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Adapter{client: client, model: model, retry: defaultRetryConfig()}, nil
}

func (a *Adapter) Name() string { return "gemini" }

// Judge handles quota errors itself: the free-tier quota window resets
// on a timescale the generic retry loop upstream knows nothing about,
// and the API tells us how long to wait.
func (a *Adapter) Judge(ctx context.Context, req types.OracleRequest) (types.OracleResponse, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(0.2)),
		SystemInstruction: genai.NewContentFromText(prompt.System(), genai.RoleUser),
	}
	contents := []*genai.Content{
		genai.NewContentFromText(prompt.User(req), genai.RoleUser),
	}

	var lastErr error
	for attempt := 0; attempt <= a.retry.maxRetries; attempt++ {
		resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, cfg)
		if err != nil {
			lastErr = err
			if !isRateLimitError(err) {
				return types.OracleResponse{}, fmt.Errorf("gemini: %w", err)
			}
			if waitErr := a.retry.wait(ctx, attempt, extractRetryDelay(err)); waitErr != nil {
				return types.OracleResponse{}, waitErr
			}
			continue
		}
		text := collectText(resp)
		if text == "" {
			return types.OracleResponse{}, errors.New("gemini: empty response")
		}
		return prompt.Parse(text)
	}
	return types.OracleResponse{}, fmt.Errorf("gemini: quota exhausted after %d retries: %w", a.retry.maxRetries, lastErr)
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			b.WriteString(part.Text)
		}
		if b.Len() > 0 {
			break
		}
	}
	return b.String()
}
