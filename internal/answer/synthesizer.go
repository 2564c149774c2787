// ABOUTME: Answer synthesizer building grounded responses from accepted fragments
// ABOUTME: Falls back deterministically to the best fragment when generation fails
package answer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/fperez/normativa/internal/models"
)

// SystemPrompt constrains the generator to the supplied context only.
const SystemPrompt = "Eres un asistente técnico-jurídico. Responde únicamente usando la información del contexto. Si la respuesta no aparece en el contexto, indícalo."

// Generator produces a completion from a system and user prompt with a
// capped output length. Implementations must be deterministic.
type Generator interface {
	GenerateAnswer(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// Config holds the synthesis policy knobs.
type Config struct {
	// ContextFragments caps how many fragments feed the grounding context.
	ContextFragments int
	// MaxTokens caps generation output (~300 tokens is roughly 1200 chars).
	MaxTokens int
	// FallbackChars is the truncation length of the degraded answer.
	FallbackChars int
}

// Synthesizer turns accepted fragments into a natural-language answer.
type Synthesizer struct {
	generator Generator
	config    Config
}

// New creates a synthesizer.
func New(generator Generator, config Config) *Synthesizer {
	return &Synthesizer{generator: generator, config: config}
}

// Synthesize builds the grounding context and invokes the generator.
// Any generation failure degrades to the first fragment's text truncated
// with an ellipsis marker; this path cannot fail, so an accepted query
// always yields a usable answer.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, fragments []models.Fragment) models.Answer {
	grounding := fragments
	if len(grounding) > s.config.ContextFragments {
		grounding = grounding[:s.config.ContextFragments]
	}

	userPrompt := fmt.Sprintf("PREGUNTA: %s\n\nCONTEXTO:\n%s", question, buildContext(grounding))

	text, err := s.generator.GenerateAnswer(ctx, SystemPrompt, userPrompt, s.config.MaxTokens)
	if err != nil || text == "" {
		if err != nil {
			log.Printf("Warning: answer generation failed, using fragment fallback: %v", err)
		}
		return models.Answer{
			Texto:        s.fallback(fragments),
			GroundedIn:   grounding,
			FromFallback: true,
		}
	}

	return models.Answer{
		Texto:      text,
		GroundedIn: grounding,
	}
}

// buildContext renders fragments as numbered, labeled entries.
func buildContext(fragments []models.Fragment) string {
	parts := make([]string, len(fragments))
	for i, f := range fragments {
		label := f.Seccion
		if label == "" {
			label = "Fragmento"
		}
		parts[i] = fmt.Sprintf("[%d] %s: %s", i+1, label, f.Texto)
	}
	return strings.Join(parts, "\n\n")
}

// fallback truncates the best fragment's text with an ellipsis marker.
func (s *Synthesizer) fallback(fragments []models.Fragment) string {
	if len(fragments) == 0 {
		return ""
	}
	text := fragments[0].Texto
	runes := []rune(text)
	if len(runes) > s.config.FallbackChars {
		runes = runes[:s.config.FallbackChars]
	}
	return string(runes) + "..."
}
