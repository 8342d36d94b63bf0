package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

// Config carries every tunable of the engine. All weight tables live
// here explicitly so a run is reproducible from its config alone.
type Config struct {
	Engine    EngineConfig    `toml:"engine"`
	Scoring   ScoringConfig   `toml:"scoring"`
	Oracle    OracleConfig    `toml:"oracle"`
	Selector  SelectorConfig  `toml:"selector"`
	Emitter   EmitterConfig   `toml:"emitter"`
	Storage   StorageConfig   `toml:"storage"`
	Logging   LoggingConfig   `toml:"logging"`
	Watch     WatchConfig     `toml:"watch"`
	Channels  []ChannelConfig `toml:"channels"`
	TierRules TierRules       `toml:"tiers"`
}

type EngineConfig struct {
	// Segmenter
	TargetWindowSeconds float64 `toml:"target_window_seconds"` // merge short sentences up to this
	MaxMissingFraction  float64 `toml:"max_missing_fraction"`  // tolerated fraction of untimed sentences

	// Video map
	ChapterWindow    int     `toml:"chapter_window"`    // segments per similarity window
	ChapterThreshold float64 `toml:"chapter_threshold"` // similarity drop below this starts a chapter

	// Candidate generation
	MinClipSeconds   float64 `toml:"min_clip_seconds"`
	MaxClipSeconds   float64 `toml:"max_clip_seconds"`
	IdealMinSeconds  float64 `toml:"ideal_min_seconds"`
	IdealMaxSeconds  float64 `toml:"ideal_max_seconds"`
	SkipIntroSeconds float64 `toml:"skip_intro_seconds"`
	MinQuotableChars int     `toml:"min_quotable_chars"`
	MaxCandidates    int     `toml:"max_candidates"`
}

type ScoringConfig struct {
	Weights types.DimensionWeights `toml:"weights"`

	// Stage-1 bonus table, shared verbatim with client-side estimators.
	PatternBonus  map[string]float64 `toml:"pattern_bonus"`
	BaseScore     float64            `toml:"base_score"`
	LengthBonus   float64            `toml:"length_bonus"`
	DurationBonus float64            `toml:"duration_bonus"`
}

type OracleConfig struct {
	Provider          string  `toml:"provider"` // "ollama", "claude" or "gemini"
	Model             string  `toml:"model"`
	Timeout           string  `toml:"timeout"` // per-call bound, e.g. "90s"
	MaxAttempts       int     `toml:"max_attempts"`
	Concurrency       int64   `toml:"concurrency"`
	RequestsPerMinute float64 `toml:"requests_per_minute"`
	OllamaHost        string  `toml:"ollama_host"`
	MaxTokens         int     `toml:"max_tokens"`
}

type SelectorConfig struct {
	MaxPerVideo       int     `toml:"max_per_video"`
	MinSeparationSecs float64 `toml:"min_separation_seconds"`
	TopicThreshold    float64 `toml:"topic_threshold"` // lexical overlap at or above this is a near-duplicate
}

type EmitterConfig struct {
	OutputPath    string `toml:"output_path"`
	CallToAction  string `toml:"call_to_action"`
	RetentionDays int    `toml:"retention_days"`
}

type StorageConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // "debug", "info", "warn", "error"
	Format string `toml:"format"` // "console" or "json"
}

type WatchConfig struct {
	Schedule string `toml:"schedule"` // cron expression
	InputDir string `toml:"input_dir"`
}

type ChannelConfig struct {
	Name    string `toml:"name"`
	Handle  string `toml:"handle"`
	XHandle string `toml:"x_handle"`
	Tier    string `toml:"tier"` // "A", "B" or "C"
	Notes   string `toml:"notes"`
}

// TierRules override how many clips a channel may contribute and the
// minimum composite score required. Tier C exists for technical
// channels where only exceptional moments are worth a clip.
type TierRules struct {
	A TierRule `toml:"a"`
	B TierRule `toml:"b"`
	C TierRule `toml:"c"`
}

type TierRule struct {
	MaxClips     int     `toml:"max_clips"`
	MinComposite float64 `toml:"min_composite"`
}

// DefaultConfig returns the published defaults. Every weight that feeds
// a score is listed here, not hidden in package state.
func DefaultConfig() Config {
	return Config{
		Engine: EngineConfig{
			TargetWindowSeconds: 20,
			MaxMissingFraction:  0.10,
			ChapterWindow:       6,
			ChapterThreshold:    0.12,
			MinClipSeconds:      20,
			MaxClipSeconds:      90,
			IdealMinSeconds:     30,
			IdealMaxSeconds:     60,
			SkipIntroSeconds:    30,
			MinQuotableChars:    20,
			MaxCandidates:       40,
		},
		Scoring: ScoringConfig{
			Weights: types.DimensionWeights{
				Hook:                0.20,
				Novelty:             0.15,
				Opinion:             0.15,
				ValueDensity:        0.15,
				Shareability:        0.15,
				ContextCompleteness: 0.10,
				PersonaFit:          0.10,
			},
			PatternBonus: map[string]float64{
				string(types.PatternPrediction): 1.5,
				string(types.PatternHotTake):    1.5,
				string(types.PatternInsight):    1.0,
				string(types.PatternData):       1.0,
				string(types.PatternHumor):      0.5,
			},
			BaseScore:     5.0,
			LengthBonus:   0.5,
			DurationBonus: 0.5,
		},
		Oracle: OracleConfig{
			Provider:          "ollama",
			Model:             "llama3.1:8b",
			Timeout:           "90s",
			MaxAttempts:       3,
			Concurrency:       4,
			RequestsPerMinute: 30,
			OllamaHost:        "http://localhost:11434",
			MaxTokens:         4096,
		},
		Selector: SelectorConfig{
			MaxPerVideo:       2,
			MinSeparationSecs: 480,
			TopicThreshold:    0.5,
		},
		Emitter: EmitterConfig{
			OutputPath:    "docs/clips.json",
			CallToAction:  "full episode linked below",
			RetentionDays: 14,
		},
		Storage: StorageConfig{Path: "data/clipper.db"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Watch:   WatchConfig{Schedule: "@every 1h", InputDir: "data/transcripts"},
		TierRules: TierRules{
			A: TierRule{MaxClips: 3},
			B: TierRule{MaxClips: 2},
			C: TierRule{MaxClips: 1, MinComposite: 6.0},
		},
	}
}

// LoadConfig merges the toml file at path over the defaults. A missing
// file is fine: the defaults are a complete configuration.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Engine.MinClipSeconds <= 0 || c.Engine.MaxClipSeconds <= 0 {
		return fmt.Errorf("clip duration bounds must be > 0")
	}
	if c.Engine.MinClipSeconds > c.Engine.MaxClipSeconds {
		return fmt.Errorf("min clip duration must be <= max")
	}
	if c.Selector.MaxPerVideo <= 0 {
		return fmt.Errorf("selector max_per_video must be > 0")
	}
	if c.Oracle.MaxAttempts <= 0 {
		return fmt.Errorf("oracle max_attempts must be > 0")
	}
	switch c.Oracle.Provider {
	case "ollama", "claude", "gemini":
	default:
		return fmt.Errorf("unknown oracle provider %q", c.Oracle.Provider)
	}
	w := c.Scoring.Weights
	sum := w.Hook + w.Novelty + w.Opinion + w.ValueDensity + w.Shareability + w.ContextCompleteness + w.PersonaFit
	if sum <= 0 {
		return fmt.Errorf("dimension weights must sum to > 0")
	}
	return nil
}

// Tier returns the configured tier for a channel name, defaulting to B.
// Matching mirrors the channel list semantics: exact name or handle
// first, then substring.
func (c Config) Tier(channelName string) string {
	name := strings.ToLower(strings.TrimSpace(channelName))
	for _, ch := range c.Channels {
		if strings.ToLower(ch.Name) == name || strings.ToLower(strings.TrimPrefix(ch.Handle, "@")) == name {
			return normalizeTier(ch.Tier)
		}
	}
	for _, ch := range c.Channels {
		lower := strings.ToLower(ch.Name)
		if lower != "" && (strings.Contains(name, lower) || strings.Contains(lower, name)) {
			return normalizeTier(ch.Tier)
		}
	}
	return "B"
}

// TierRule resolves the rule for a tier letter.
func (c Config) TierRule(tier string) TierRule {
	switch normalizeTier(tier) {
	case "A":
		return c.TierRules.A
	case "C":
		return c.TierRules.C
	default:
		return c.TierRules.B
	}
}

func normalizeTier(t string) string {
	switch strings.ToUpper(strings.TrimSpace(t)) {
	case "A":
		return "A"
	case "C":
		return "C"
	default:
		return "B"
	}
}
