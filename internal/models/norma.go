// ABOUTME: Norma represents a legal/regulatory document in the corpus
// ABOUTME: Top-level grouping unit for retrieved fragments
package models

// Norma is a regulatory document available for scoped consultation.
type Norma struct {
	ID     int64  `json:"id"`
	Titulo string `json:"titulo"`
	Codigo string `json:"codigo,omitempty"`
}
