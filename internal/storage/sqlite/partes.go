// ABOUTME: Fragment storage and cosine similarity search for SQLite
// ABOUTME: Embeddings live as BLOBs; ranking happens in Go over decoded vectors
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/fperez/normativa/internal/models"
)

// Store implements storage.Searcher and storage.Catalog over SQLite
type Store struct {
	db        *DB
	dimension int
}

// NewStore creates a Store expecting vectors of the given dimension
func NewStore(db *DB, dimension int) *Store {
	return &Store{db: db, dimension: dimension}
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveParte stores a fragment with its embedding vector
func (s *Store) SaveParte(frag models.Fragment, vector []float64) error {
	if len(vector) != s.dimension {
		return fmt.Errorf("invalid embedding dimension: expected %d, got %d", s.dimension, len(vector))
	}

	var normaID sql.NullInt64
	if frag.NormaID != nil {
		normaID = sql.NullInt64{Int64: *frag.NormaID, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO norma_partes (id, norma_id, seccion, articulo, tipo, texto, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			norma_id = excluded.norma_id,
			seccion = excluded.seccion,
			articulo = excluded.articulo,
			tipo = excluded.tipo,
			texto = excluded.texto,
			embedding = excluded.embedding
	`, frag.ID, normaID, nullString(frag.Seccion), nullString(frag.Articulo),
		nullString(frag.Tipo), frag.Texto, vectorToBlob(vector))
	if err != nil {
		return fmt.Errorf("saving parte %s: %w", frag.ID, err)
	}
	return nil
}

// Search performs cosine similarity search over stored fragments,
// optionally scoped to one norma. Results are ranked descending and
// capped at k. queryText is unused by this backend.
func (s *Store) Search(ctx context.Context, vector []float64, normaID *int64, k int, queryText string) ([]models.RawFragment, error) {
	query := `
		SELECT p.id, p.norma_id, COALESCE(p.seccion, ''), COALESCE(p.articulo, ''),
		       COALESCE(p.tipo, ''), p.texto, p.embedding,
		       COALESCE(n.titulo, ''), COALESCE(n.codigo, '')
		FROM norma_partes p
		LEFT JOIN normas n ON n.id = p.norma_id
	`
	var args []interface{}
	if normaID != nil {
		query += " WHERE p.norma_id = ?"
		args = append(args, *normaID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching partes: %w", err)
	}
	defer rows.Close()

	type scored struct {
		raw   models.RawFragment
		score float64
	}
	var results []scored

	for rows.Next() {
		var (
			raw     models.RawFragment
			rowID   sql.NullInt64
			blob    []byte
			titulo  string
			codigo  string
			seccion string
			artic   string
			tipo    string
		)
		if err := rows.Scan(&raw.ID, &rowID, &seccion, &artic, &tipo, &raw.Texto, &blob, &titulo, &codigo); err != nil {
			return nil, fmt.Errorf("scanning parte: %w", err)
		}

		if rowID.Valid {
			id := rowID.Int64
			raw.NormaID = &id
		}
		raw.Seccion = seccion
		raw.Articulo = artic
		raw.Tipo = tipo
		raw.NormaTitulo = titulo
		raw.Codigo = codigo

		score := cosineSimilarity(vector, blobToVector(blob))
		raw.Score = &score
		results = append(results, scored{raw: raw, score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating partes: %w", err)
	}

	// Rank by similarity descending
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}

	out := make([]models.RawFragment, len(results))
	for i, r := range results {
		out[i] = r.raw
	}
	return out, nil
}

// vectorToBlob encodes a float64 vector as a little-endian byte blob
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector decodes a little-endian byte blob into a float64 vector
func blobToVector(blob []byte) []float64 {
	vector := make([]float64, len(blob)/8)
	for i := range vector {
		vector[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return vector
}

// cosineSimilarity calculates cosine similarity between two vectors
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
