// ABOUTME: Answer is the synthesized response for an accepted consultation
// ABOUTME: Carries the generated text and the fragments it is grounded in
package models

// Answer is the synthesized response text together with the fragments
// that were supplied to the generator as grounding context.
type Answer struct {
	Texto        string     `json:"texto"`
	GroundedIn   []Fragment `json:"grounded_in,omitempty"`
	FromFallback bool       `json:"from_fallback,omitempty"`
}
