// ABOUTME: Main entry point for the standalone HTTP consultation server
// ABOUTME: Wires config, sqlite corpus, OpenAI client and the pipeline
package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/fperez/normativa/internal/answer"
	"github.com/fperez/normativa/internal/config"
	"github.com/fperez/normativa/internal/gate"
	"github.com/fperez/normativa/internal/llm"
	"github.com/fperez/normativa/internal/retrieval"
	"github.com/fperez/normativa/internal/server"
	"github.com/fperez/normativa/internal/session"
	"github.com/fperez/normativa/internal/sources"
	"github.com/fperez/normativa/internal/storage/sqlite"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - embeddings and answer generation will not work")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open corpus database: %v", err)
	}
	store := sqlite.NewStore(db, cfg.VectorDimension)
	defer store.Close()

	client, err := llm.NewOpenAIClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize OpenAI client: %v", err)
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
	orchestrator := session.NewOrchestrator(engine, relevance, synth, agg)

	timeout := cfg.SearchTimeout + cfg.OpenAITimeout
	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      server.New(orchestrator, store, cfg.DefaultK, timeout).Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * timeout,
	}

	log.Printf("Consulta normativa API listening on %s", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
