// ABOUTME: Tests for answer synthesis and the deterministic fallback
// ABOUTME: Uses a fake generator to exercise success and failure paths
package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fperez/normativa/internal/models"
)

type fakeGenerator struct {
	answer     string
	err        error
	lastSystem string
	lastUser   string
	lastTokens int
}

func (f *fakeGenerator) GenerateAnswer(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	f.lastTokens = maxTokens
	return f.answer, f.err
}

func testConfig() Config {
	return Config{ContextFragments: 6, MaxTokens: 300, FallbackChars: 500}
}

func fragments(n int) []models.Fragment {
	frags := make([]models.Fragment, n)
	for i := range frags {
		frags[i] = models.Fragment{
			ID:      string(rune('a' + i)),
			Seccion: "Artículo",
			Texto:   strings.Repeat("texto normativo ", 10),
		}
	}
	return frags
}

func TestSynthesize_BuildsNumberedContext(t *testing.T) {
	gen := &fakeGenerator{answer: "Respuesta generada."}
	s := New(gen, testConfig())

	frags := []models.Fragment{
		{Seccion: "Artículo 12", Texto: "Los plazos serán de cinco años."},
		{Texto: "Texto sin sección."},
	}

	ans := s.Synthesize(context.Background(), "¿Qué plazos aplican?", frags)

	if ans.Texto != "Respuesta generada." {
		t.Errorf("Texto = %q, want generator output", ans.Texto)
	}
	if ans.FromFallback {
		t.Error("FromFallback should be false on success")
	}
	if gen.lastSystem != SystemPrompt {
		t.Error("system prompt not passed through")
	}
	if !strings.Contains(gen.lastUser, "PREGUNTA: ¿Qué plazos aplican?") {
		t.Errorf("user prompt missing question: %q", gen.lastUser)
	}
	if !strings.Contains(gen.lastUser, "[1] Artículo 12: Los plazos serán de cinco años.") {
		t.Errorf("context missing labeled first fragment: %q", gen.lastUser)
	}
	if !strings.Contains(gen.lastUser, "[2] Fragmento: Texto sin sección.") {
		t.Errorf("context missing Fragmento label fallback: %q", gen.lastUser)
	}
	if gen.lastTokens != 300 {
		t.Errorf("maxTokens = %d, want 300", gen.lastTokens)
	}
}

func TestSynthesize_CapsContextAtSixFragments(t *testing.T) {
	gen := &fakeGenerator{answer: "ok"}
	s := New(gen, testConfig())

	ans := s.Synthesize(context.Background(), "pregunta", fragments(9))

	if len(ans.GroundedIn) != 6 {
		t.Errorf("GroundedIn has %d fragments, want 6", len(ans.GroundedIn))
	}
	if strings.Contains(gen.lastUser, "[7]") {
		t.Error("context must not include a seventh fragment")
	}
}

func TestSynthesize_FallbackOnGenerationFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model unavailable")}
	s := New(gen, testConfig())

	long := strings.Repeat("x", 600)
	frags := []models.Fragment{{Texto: long}, {Texto: "segundo"}}

	ans := s.Synthesize(context.Background(), "pregunta", frags)

	want := strings.Repeat("x", 500) + "..."
	if ans.Texto != want {
		t.Errorf("fallback = %d chars ending %q, want 500 chars plus ellipsis", len(ans.Texto), ans.Texto[len(ans.Texto)-5:])
	}
	if !ans.FromFallback {
		t.Error("FromFallback should be true")
	}
}

func TestSynthesize_FallbackShortFragment(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("down")}
	s := New(gen, testConfig())

	ans := s.Synthesize(context.Background(), "pregunta", []models.Fragment{{Texto: "breve"}})

	if ans.Texto != "breve..." {
		t.Errorf("Texto = %q, want %q", ans.Texto, "breve...")
	}
}

func TestSynthesize_EmptyGenerationUsesFallback(t *testing.T) {
	gen := &fakeGenerator{answer: ""}
	s := New(gen, testConfig())

	ans := s.Synthesize(context.Background(), "pregunta", []models.Fragment{{Texto: "texto base"}})

	if ans.Texto != "texto base..." {
		t.Errorf("Texto = %q, want fallback on empty generation", ans.Texto)
	}
}
