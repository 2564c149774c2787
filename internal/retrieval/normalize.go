// ABOUTME: Normalizes raw search-backend rows into canonical Fragments
// ABOUTME: Resolves every optional fallback chain exactly once, at the boundary
package retrieval

import "github.com/fperez/normativa/internal/models"

// Normalize maps a raw backend row into the canonical Fragment shape.
//
// Precedence per field:
//   - text:  texto, then content
//   - score: score, then similarity, else 0 (untrusted input)
//   - title: norma_titulo, then titulo, then codigo
func Normalize(raw models.RawFragment) models.Fragment {
	text := raw.Texto
	if text == "" {
		text = raw.Content
	}

	var score float64
	switch {
	case raw.Score != nil:
		score = *raw.Score
	case raw.Similarity != nil:
		score = *raw.Similarity
	}

	title := raw.NormaTitulo
	if title == "" {
		title = raw.Titulo
	}
	if title == "" {
		title = raw.Codigo
	}

	return models.Fragment{
		ID:          raw.ID,
		NormaID:     raw.NormaID,
		NormaTitulo: title,
		Codigo:      raw.Codigo,
		Seccion:     raw.Seccion,
		Articulo:    raw.Articulo,
		Tipo:        raw.Tipo,
		Texto:       text,
		Score:       score,
	}
}

// NormalizeAll maps a slice of raw rows, preserving order.
func NormalizeAll(raws []models.RawFragment) []models.Fragment {
	frags := make([]models.Fragment, len(raws))
	for i, raw := range raws {
		frags[i] = Normalize(raw)
	}
	return frags
}
