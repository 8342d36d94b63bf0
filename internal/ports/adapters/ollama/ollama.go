// Package ollama talks to a local Ollama server over its /api/chat
// endpoint. It is the default oracle: no API key, no egress.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/srinivastejavt/podcast-clipper/internal/ports/adapters/prompt"
	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

type Adapter struct {
	host      string
	model     string
	maxTokens int
	client    *http.Client
}

func New(host, model string, maxTokens int) *Adapter {
	if host == "" {
		host = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.1:8b"
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Adapter{
		host:      strings.TrimRight(host, "/"),
		model:     model,
		maxTokens: maxTokens,
		// Per-call deadlines come from the caller's context.
		client: &http.Client{},
	}
}

func (a *Adapter) Name() string { return "ollama" }

func (a *Adapter) Judge(ctx context.Context, req types.OracleRequest) (types.OracleResponse, error) {
	payload := map[string]any{
		"model":  a.model,
		"stream": false,
		"format": "json",
		"options": map[string]any{
			"temperature": 0.2,
			"num_predict": a.maxTokens,
		},
		"messages": []map[string]string{
			{"role": "system", "content": prompt.System()},
			{"role": "user", "content": prompt.User(req)},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return types.OracleResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return types.OracleResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return types.OracleResponse{}, fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return types.OracleResponse{}, fmt.Errorf("ollama status %d: %s", resp.StatusCode, strings.TrimSpace(string(rb)))
	}

	var raw struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return types.OracleResponse{}, fmt.Errorf("decode ollama response: %w", err)
	}
	return prompt.Parse(raw.Message.Content)
}
