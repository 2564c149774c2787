// ABOUTME: Fragment is the canonical unit of retrieved norma text
// ABOUTME: RawFragment is the loose search-backend payload before normalization
package models

// Fragment is an immutable chunk of norma text with a similarity score.
// Downstream stages filter and regroup fragments but never mutate them.
type Fragment struct {
	ID          string  `json:"id"`
	NormaID     *int64  `json:"norma_id,omitempty"`
	NormaTitulo string  `json:"norma_titulo,omitempty"`
	Codigo      string  `json:"codigo,omitempty"`
	Seccion     string  `json:"seccion,omitempty"`
	Articulo    string  `json:"articulo,omitempty"`
	Tipo        string  `json:"tipo,omitempty"`
	Texto       string  `json:"texto"`
	Score       float64 `json:"score"`
}

// Titulo returns the best available display title for the owning norma.
// Precedence: norma title, then code.
func (f Fragment) Titulo() string {
	if f.NormaTitulo != "" {
		return f.NormaTitulo
	}
	return f.Codigo
}

// RawFragment mirrors the search backend's row shape, where several
// alternative fields may carry the same value. It is mapped into a
// Fragment exactly once, at the retrieval boundary.
type RawFragment struct {
	ID          string   `json:"id"`
	NormaID     *int64   `json:"norma_id"`
	Texto       string   `json:"texto"`
	Content     string   `json:"content"`
	Score       *float64 `json:"score"`
	Similarity  *float64 `json:"similarity"`
	Seccion     string   `json:"seccion"`
	Articulo    string   `json:"articulo"`
	Tipo        string   `json:"tipo"`
	NormaTitulo string   `json:"norma_titulo"`
	Titulo      string   `json:"titulo"`
	Codigo      string   `json:"codigo"`
}
