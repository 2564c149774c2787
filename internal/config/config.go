// ABOUTME: Centralized configuration for the consulta-normativa service
// ABOUTME: Loads from an optional TOML file and environment variables with validation
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all tunable policy and collaborator settings.
//
// The retrieval thresholds are policy knobs, not algorithmic constants:
// the right values depend on the corpus and the embedding model, so they
// are loaded rather than hardcoded.
type Config struct {
	// OpenAI settings
	OpenAIKey      string        `toml:"-"`
	ChatModel      string        `toml:"chat_model"`
	EmbeddingModel string        `toml:"embedding_model"`
	OpenAITimeout  time.Duration `toml:"openai_timeout"`
	MaxRetries     int           `toml:"max_retries"`
	RetryDelay     time.Duration `toml:"retry_delay"`

	// Corpus settings
	DatabasePath    string        `toml:"database_path"`
	VectorDimension int           `toml:"vector_dimension"`
	SearchTimeout   time.Duration `toml:"search_timeout"`

	// Retrieval policy
	DefaultK        int `toml:"default_k"`
	RetryMultiplier int `toml:"retry_multiplier"`
	MinFragmentLen  int `toml:"min_fragment_len"`

	// Relevance gate policy
	ScoreThreshold float64 `toml:"score_threshold"`
	KeywordGate    bool    `toml:"keyword_gate"`

	// Synthesis policy
	ContextFragments int `toml:"context_fragments"`
	AnswerMaxTokens  int `toml:"answer_max_tokens"`
	FallbackChars    int `toml:"fallback_chars"`

	// Source disclosure policy
	DedupScoreFloor    float64 `toml:"dedup_score_floor"`
	HighConfidence     float64 `toml:"high_confidence"`
	MaxVisiblePerGroup int     `toml:"max_visible_per_group"`
	MaxVisibleTotal    int     `toml:"max_visible_total"`
	TopGroupVisible    int     `toml:"top_group_visible"`
	SignatureChars     int     `toml:"signature_chars"`

	// HTTP server
	ListenAddr string `toml:"listen_addr"`
}

// Default returns the documented default configuration.
func Default() *Config {
	return &Config{
		ChatModel:          "gpt-4o-mini",
		EmbeddingModel:     "text-embedding-3-small",
		OpenAITimeout:      30 * time.Second,
		MaxRetries:         3,
		RetryDelay:         2 * time.Second,
		DatabasePath:       "normativa.db",
		VectorDimension:    1536,
		SearchTimeout:      15 * time.Second,
		DefaultK:           8,
		RetryMultiplier:    3,
		MinFragmentLen:     80,
		ScoreThreshold:     0.60,
		KeywordGate:        true,
		ContextFragments:   6,
		AnswerMaxTokens:    300,
		FallbackChars:      500,
		DedupScoreFloor:    0.55,
		HighConfidence:     0.70,
		MaxVisiblePerGroup: 2,
		MaxVisibleTotal:    4,
		TopGroupVisible:    2,
		SignatureChars:     40,
		ListenAddr:         ":8080",
	}
}

// Load builds the configuration in three layers: defaults, then the TOML
// file named by NORMATIVA_CONFIG (if any), then environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("NORMATIVA_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.loadEnv()

	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() {
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	c.ChatModel = getEnv("NORMATIVA_CHAT_MODEL", c.ChatModel)
	c.EmbeddingModel = getEnv("NORMATIVA_EMBEDDING_MODEL", c.EmbeddingModel)
	c.OpenAITimeout = getEnvDuration("OPENAI_TIMEOUT", c.OpenAITimeout)
	c.MaxRetries = getEnvInt("OPENAI_MAX_RETRIES", c.MaxRetries)
	c.RetryDelay = getEnvDuration("OPENAI_RETRY_DELAY", c.RetryDelay)
	c.DatabasePath = getEnv("NORMATIVA_DB", c.DatabasePath)
	c.SearchTimeout = getEnvDuration("NORMATIVA_SEARCH_TIMEOUT", c.SearchTimeout)
	c.DefaultK = getEnvInt("NORMATIVA_DEFAULT_K", c.DefaultK)
	c.ScoreThreshold = getEnvFloat("NORMATIVA_SCORE_THRESHOLD", c.ScoreThreshold)
	c.KeywordGate = getEnvBool("NORMATIVA_KEYWORD_GATE", c.KeywordGate)
	c.DedupScoreFloor = getEnvFloat("NORMATIVA_DEDUP_FLOOR", c.DedupScoreFloor)
	c.HighConfidence = getEnvFloat("NORMATIVA_HIGH_CONFIDENCE", c.HighConfidence)
	c.ListenAddr = getEnv("NORMATIVA_LISTEN_ADDR", c.ListenAddr)
}

// Validate checks that thresholds and limits are inside sensible ranges.
func (c *Config) Validate() error {
	if c.ScoreThreshold < 0 || c.ScoreThreshold > 1 {
		return fmt.Errorf("score_threshold must be 0-1, got %f", c.ScoreThreshold)
	}
	if c.DedupScoreFloor < 0 || c.DedupScoreFloor > 1 {
		return fmt.Errorf("dedup_score_floor must be 0-1, got %f", c.DedupScoreFloor)
	}
	if c.HighConfidence < 0 || c.HighConfidence > 1 {
		return fmt.Errorf("high_confidence must be 0-1, got %f", c.HighConfidence)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("max_retries must be 0-10, got %d", c.MaxRetries)
	}
	if c.DefaultK <= 0 {
		return fmt.Errorf("default_k must be positive, got %d", c.DefaultK)
	}
	if c.RetryMultiplier < 1 {
		return fmt.Errorf("retry_multiplier must be at least 1, got %d", c.RetryMultiplier)
	}
	if c.VectorDimension <= 0 {
		return fmt.Errorf("vector_dimension must be positive, got %d", c.VectorDimension)
	}
	if c.ContextFragments <= 0 {
		return fmt.Errorf("context_fragments must be positive, got %d", c.ContextFragments)
	}
	if c.SignatureChars <= 0 {
		return fmt.Errorf("signature_chars must be positive, got %d", c.SignatureChars)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
