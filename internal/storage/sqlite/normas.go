// ABOUTME: Norma catalog operations for SQLite
// ABOUTME: Implements the storage.Catalog interface
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fperez/normativa/internal/models"
)

// SaveNorma inserts or updates a norma in the catalog
func (s *Store) SaveNorma(norma models.Norma) error {
	_, err := s.db.Exec(`
		INSERT INTO normas (id, titulo, codigo)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			titulo = excluded.titulo,
			codigo = excluded.codigo
	`, norma.ID, norma.Titulo, nullString(norma.Codigo))
	if err != nil {
		return fmt.Errorf("saving norma %d: %w", norma.ID, err)
	}
	return nil
}

// ListNormas returns all normas ordered by id ascending
func (s *Store) ListNormas(ctx context.Context) ([]models.Norma, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, titulo, COALESCE(codigo, '')
		FROM normas
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing normas: %w", err)
	}
	defer rows.Close()

	var normas []models.Norma
	for rows.Next() {
		var n models.Norma
		if err := rows.Scan(&n.ID, &n.Titulo, &n.Codigo); err != nil {
			return nil, fmt.Errorf("scanning norma: %w", err)
		}
		normas = append(normas, n)
	}
	return normas, rows.Err()
}

// nullString converts an empty string to a NULL-able value
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
