// ABOUTME: OpenAI client for query embeddings and grounded answer generation
// ABOUTME: Uses text-embedding-3-small (1536-d) and gpt-4o-mini with deterministic output
package llm

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/fperez/normativa/internal/config"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for answer generation
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for query embeddings
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)
)

// OpenAIClient wraps the OpenAI API client with retry logic and timeouts
type OpenAIClient struct {
	client     *openai.Client
	chatModel  string
	embedModel openai.EmbeddingModel
	dimension  int
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewOpenAIClient creates a client from the service configuration
func NewOpenAIClient(cfg *config.Config) (*OpenAIClient, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	return &OpenAIClient{
		client:     openai.NewClient(cfg.OpenAIKey),
		chatModel:  cfg.ChatModel,
		embedModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		dimension:  cfg.VectorDimension,
		timeout:    cfg.OpenAITimeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// GenerateEmbedding generates the query embedding vector, pinned to the
// configured dimensionality so it matches the vectors stored in the corpus.
func (c *OpenAIClient) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff(c.retryDelay, attempt)):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)

		resp, err := c.client.CreateEmbeddings(callCtx, openai.EmbeddingRequest{
			Input:      []string{text},
			Model:      c.embedModel,
			Dimensions: c.dimension,
		})

		if err != nil {
			cancel()
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Data) == 0 {
			cancel()
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		// Convert []float32 to []float64
		embedding32 := resp.Data[0].Embedding
		embedding64 := make([]float64, len(embedding32))
		for i, v := range embedding32 {
			embedding64[i] = float64(v)
		}

		cancel()
		return embedding64, nil
	}

	return nil, fmt.Errorf("failed to generate embedding after %d attempts: %w", c.maxRetries+1, lastErr)
}

// GenerateAnswer runs a chat completion constrained to the supplied
// grounding context. Temperature 0 keeps the output deterministic; the
// caller caps the output length via maxTokens.
func (c *OpenAIClient) GenerateAnswer(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		MaxTokens: maxTokens,
		// omitempty drops a literal 0, which would fall back to the API
		// default of 1. The smallest nonzero float survives serialization
		// and still yields deterministic output.
		Temperature: math.SmallestNonzeroFloat32,
	})

	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
