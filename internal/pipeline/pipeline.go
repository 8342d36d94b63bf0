// Package pipeline wires configuration to a runnable engine: storage,
// oracle provider, scorer, emitter. Everything above this package
// depends on interfaces; everything below is an adapter.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/phuslu/log"

	"github.com/srinivastejavt/podcast-clipper/internal/common"
	"github.com/srinivastejavt/podcast-clipper/internal/emitter"
	"github.com/srinivastejavt/podcast-clipper/internal/ports"
	"github.com/srinivastejavt/podcast-clipper/internal/ports/adapters/claude"
	"github.com/srinivastejavt/podcast-clipper/internal/ports/adapters/gemini"
	"github.com/srinivastejavt/podcast-clipper/internal/ports/adapters/ollama"
	"github.com/srinivastejavt/podcast-clipper/internal/scoring"
	badgerstore "github.com/srinivastejavt/podcast-clipper/internal/storage/badger"
	"github.com/srinivastejavt/podcast-clipper/internal/usecase"
)

var (
	_ ports.Oracle = (*ollama.Adapter)(nil)
	_ ports.Oracle = (*claude.Adapter)(nil)
	_ ports.Oracle = (*gemini.Adapter)(nil)
)

type Pipeline struct {
	Engine *usecase.Engine
	Config common.Config

	store  *badgerstore.Store
	logger log.Logger
}

func New(ctx context.Context, cfg common.Config, logger log.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := badgerstore.Open(cfg.Storage.Path, logger)
	if err != nil {
		return nil, err
	}

	oracle, err := newOracle(ctx, cfg.Oracle)
	if err != nil {
		store.Close()
		return nil, err
	}
	logger.Info().
		Str("provider", oracle.Name()).
		Str("model", cfg.Oracle.Model).
		Msg("oracle configured")

	timeout, err := time.ParseDuration(cfg.Oracle.Timeout)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("invalid oracle timeout %q: %w", cfg.Oracle.Timeout, err)
	}

	scorer := scoring.NewScorer(oracle, scoring.Config{
		Weights:           cfg.Scoring.Weights,
		MaxAttempts:       cfg.Oracle.MaxAttempts,
		Timeout:           timeout,
		Concurrency:       cfg.Oracle.Concurrency,
		RequestsPerMinute: cfg.Oracle.RequestsPerMinute,
	}, logger)

	em := emitter.New(store, cfg.Emitter, logger)
	engine := usecase.New(usecase.Deps{
		Config:  cfg,
		Store:   store,
		Scorer:  scorer,
		Emitter: em,
		Logger:  logger,
	})

	return &Pipeline{Engine: engine, Config: cfg, store: store, logger: logger}, nil
}

func (p *Pipeline) Close() error {
	return p.store.Close()
}

// newOracle picks the judgment provider. Ollama is the default: it
// needs no key and keeps transcripts on the local machine.
func newOracle(ctx context.Context, cfg common.OracleConfig) (ports.Oracle, error) {
	switch cfg.Provider {
	case "", "ollama":
		return ollama.New(cfg.OllamaHost, cfg.Model, cfg.MaxTokens), nil
	case "claude":
		return claude.New(os.Getenv("ANTHROPIC_API_KEY"), cfg.Model, cfg.MaxTokens)
	case "gemini":
		return gemini.New(ctx, os.Getenv("GEMINI_API_KEY"), cfg.Model)
	default:
		return nil, fmt.Errorf("unknown oracle provider %q (want ollama, claude or gemini)", cfg.Provider)
	}
}
