package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/srinivastejavt/podcast-clipper/internal/common"
)

func TestNewOracle_DefaultsToOllama(t *testing.T) {
	for _, provider := range []string{"", "ollama"} {
		oracle, err := newOracle(context.Background(), common.OracleConfig{
			Provider: provider,
			Model:    "llama3.1:8b",
		})
		if err != nil {
			t.Fatalf("provider %q: %v", provider, err)
		}
		if got := oracle.Name(); got != "ollama" {
			t.Fatalf("provider %q: Name() = %q, want ollama", provider, got)
		}
	}
}

func TestNewOracle_ClaudeRequiresKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := newOracle(context.Background(), common.OracleConfig{
		Provider: "claude",
		Model:    "claude-sonnet-4-20250514",
	})
	if err == nil {
		t.Fatal("expected an error when no API key is set")
	}
}

func TestNewOracle_UnknownProvider(t *testing.T) {
	_, err := newOracle(context.Background(), common.OracleConfig{Provider: "openai"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "openai") {
		t.Fatalf("error should name the provider: %v", err)
	}
}
