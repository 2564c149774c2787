// ABOUTME: Retrieval engine orchestrating embedding, search, and backfill retry
// ABOUTME: Guarantees enough valid fragments or degrades gracefully
package retrieval

import (
	"context"
	"fmt"
	"log"

	"github.com/fperez/normativa/internal/models"
	"github.com/fperez/normativa/internal/storage"
)

// Embedder computes the query embedding vector.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// Engine retrieves validated fragments for a question.
type Engine struct {
	embedder        Embedder
	searcher        storage.Searcher
	validator       *Validator
	retryMultiplier int
}

// NewEngine creates a retrieval engine.
func NewEngine(embedder Embedder, searcher storage.Searcher, validator *Validator, retryMultiplier int) *Engine {
	return &Engine{
		embedder:        embedder,
		searcher:        searcher,
		validator:       validator,
		retryMultiplier: retryMultiplier,
	}
}

// Retrieve embeds the question, searches for k candidates (scoped to a
// norma when normaID is non-nil), and filters them through the validator.
//
// When fewer than k valid fragments survive filtering, one retry asks the
// backend for k*multiplier candidates and its filtered result REPLACES
// the first set entirely; merging two differently sized result sets would
// reintroduce duplicates and break the backend's ordering. A failed retry
// is swallowed and the original valid set stands.
func (e *Engine) Retrieve(ctx context.Context, question string, normaID *int64, k int) ([]models.Fragment, error) {
	vector, err := e.Embed(ctx, question)
	if err != nil {
		return nil, err
	}
	return e.RetrieveWithVector(ctx, vector, question, normaID, k)
}

// Embed computes the query embedding. Failure here is fatal for the
// whole pipeline.
func (e *Engine) Embed(ctx context.Context, question string) ([]float64, error) {
	vector, err := e.embedder.GenerateEmbedding(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}
	return vector, nil
}

// RetrieveWithVector runs the search and backfill steps for an already
// computed query vector.
func (e *Engine) RetrieveWithVector(ctx context.Context, vector []float64, question string, normaID *int64, k int) ([]models.Fragment, error) {
	raws, err := e.searcher.Search(ctx, vector, normaID, k, question)
	if err != nil {
		return nil, fmt.Errorf("searching fragments: %w", err)
	}

	valid := e.filterValid(raws)

	if len(valid) < k {
		kRetry := k * e.retryMultiplier
		retryRaws, retryErr := e.searcher.Search(ctx, vector, normaID, kRetry, question)
		if retryErr != nil {
			log.Printf("Warning: backfill search with k=%d failed, keeping %d fragments: %v", kRetry, len(valid), retryErr)
		} else {
			valid = e.filterValid(retryRaws)
		}
	}

	return valid, nil
}

// filterValid normalizes rows and drops structurally invalid fragments,
// preserving the backend's similarity-descending order.
func (e *Engine) filterValid(raws []models.RawFragment) []models.Fragment {
	valid := make([]models.Fragment, 0, len(raws))
	for _, frag := range NormalizeAll(raws) {
		if e.validator.IsValid(frag.Texto) {
			valid = append(valid, frag)
		}
	}
	return valid
}
