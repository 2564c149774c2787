// ABOUTME: Shared pipeline assembly for CLI commands
// ABOUTME: Builds config, storage, LLM client and orchestrator in one place
package commands

import (
	"fmt"

	"github.com/joho/godotenv"

	"github.com/fperez/normativa/internal/answer"
	"github.com/fperez/normativa/internal/config"
	"github.com/fperez/normativa/internal/gate"
	"github.com/fperez/normativa/internal/llm"
	"github.com/fperez/normativa/internal/retrieval"
	"github.com/fperez/normativa/internal/session"
	"github.com/fperez/normativa/internal/sources"
	"github.com/fperez/normativa/internal/storage/sqlite"
)

// pipeline bundles the wired components a command needs.
type pipeline struct {
	cfg          *config.Config
	store        *sqlite.Store
	orchestrator *session.Orchestrator
}

func (p *pipeline) Close() error {
	return p.store.Close()
}

// buildPipeline loads configuration and wires the full consultation
// pipeline against the configured sqlite corpus.
func buildPipeline() (*pipeline, error) {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening corpus database: %w", err)
	}
	store := sqlite.NewStore(db, cfg.VectorDimension)

	client, err := llm.NewOpenAIClient(cfg)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("initializing OpenAI client: %w", err)
	}

	engine := retrieval.NewEngine(client, store,
		retrieval.NewValidator(cfg.MinFragmentLen), cfg.RetryMultiplier)
	relevance := gate.New(gate.Config{
		ScoreThreshold: cfg.ScoreThreshold,
		KeywordGate:    cfg.KeywordGate,
	})
	synth := answer.New(client, answer.Config{
		ContextFragments: cfg.ContextFragments,
		MaxTokens:        cfg.AnswerMaxTokens,
		FallbackChars:    cfg.FallbackChars,
	})
	agg := sources.New(sources.Config{
		ScoreFloor:      cfg.DedupScoreFloor,
		HighConfidence:  cfg.HighConfidence,
		MaxPerGroup:     cfg.MaxVisiblePerGroup,
		MaxTotal:        cfg.MaxVisibleTotal,
		TopGroupVisible: cfg.TopGroupVisible,
		SignatureChars:  cfg.SignatureChars,
	})

	return &pipeline{
		cfg:          cfg,
		store:        store,
		orchestrator: session.NewOrchestrator(engine, relevance, synth, agg),
	}, nil
}
