package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.MaxClipSeconds != 90 || cfg.Selector.MaxPerVideo != 2 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadConfig_MergesOverDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "clipper.toml")
	doc := `
[engine]
max_clip_seconds = 75.0

[oracle]
provider = "claude"
model = "claude-sonnet-4-20250514"

[selector]
max_per_video = 3

[[channels]]
name = "DeepChips"
tier = "C"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.MaxClipSeconds != 75 {
		t.Fatalf("override lost: %v", cfg.Engine.MaxClipSeconds)
	}
	if cfg.Engine.MinClipSeconds != 20 {
		t.Fatalf("untouched default lost: %v", cfg.Engine.MinClipSeconds)
	}
	if cfg.Oracle.Provider != "claude" || cfg.Selector.MaxPerVideo != 3 {
		t.Fatalf("overrides lost: %+v", cfg)
	}
	if len(cfg.Channels) != 1 || cfg.Channels[0].Tier != "C" {
		t.Fatalf("channels lost: %+v", cfg.Channels)
	}
}

func TestLoadConfig_BadToml(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "clipper.toml")
	if err := os.WriteFile(path, []byte("[engine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"min above max", func(c *Config) { c.Engine.MinClipSeconds = 100 }},
		{"zero max per video", func(c *Config) { c.Selector.MaxPerVideo = 0 }},
		{"unknown provider", func(c *Config) { c.Oracle.Provider = "gpt9" }},
		{"zero attempts", func(c *Config) { c.Oracle.MaxAttempts = 0 }},
		{"zero weights", func(c *Config) { c.Scoring.Weights = types.DimensionWeights{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestTierLookup(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.Channels = []ChannelConfig{
		{Name: "MacroVoices", Handle: "@macrovoices", Tier: "A"},
		{Name: "DeepChips", Tier: "c"},
	}

	if got := cfg.Tier("MacroVoices"); got != "A" {
		t.Fatalf("exact match: got %s", got)
	}
	if got := cfg.Tier("macrovoices"); got != "A" {
		t.Fatalf("handle match: got %s", got)
	}
	if got := cfg.Tier("DeepChips Podcast"); got != "C" {
		t.Fatalf("substring match: got %s", got)
	}
	if got := cfg.Tier("Unknown Show"); got != "B" {
		t.Fatalf("default tier: got %s", got)
	}

	if rule := cfg.TierRule("C"); rule.MaxClips != 1 || rule.MinComposite != 6.0 {
		t.Fatalf("tier C rule: %+v", rule)
	}
	if rule := cfg.TierRule("nonsense"); rule.MaxClips != 2 {
		t.Fatalf("unknown tier should fall back to B: %+v", rule)
	}
}
