// ABOUTME: Collaborator interfaces for the corpus search backend
// ABOUTME: Retrieval and the server consume these, never a concrete store
package storage

import (
	"context"

	"github.com/fperez/normativa/internal/models"
)

// Searcher performs similarity search over norma fragments. Results are
// raw backend rows ranked by similarity descending; normalization into
// the canonical Fragment shape happens at the retrieval boundary.
type Searcher interface {
	// Search returns up to k fragments for the query vector, scoped to a
	// single norma when normaID is non-nil. queryText is passed through
	// for backends that blend lexical signals into the ranking.
	Search(ctx context.Context, vector []float64, normaID *int64, k int, queryText string) ([]models.RawFragment, error)
}

// Catalog lists the normas available for scoped consultation.
type Catalog interface {
	// ListNormas returns all normas ordered by id ascending.
	ListNormas(ctx context.Context) ([]models.Norma, error)
}
