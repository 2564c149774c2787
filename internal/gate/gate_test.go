// ABOUTME: Tests for the relevance gate score and keyword checks
// ABOUTME: Covers empty sets, thresholds, stopword-only questions, and overlap
package gate

import (
	"testing"

	"github.com/fperez/normativa/internal/models"
)

func strictGate() *Gate {
	return New(Config{ScoreThreshold: 0.60, KeywordGate: true})
}

func frag(text string, score float64) models.Fragment {
	return models.Fragment{Texto: text, Score: score}
}

func TestDecide_EmptyFragmentsAlwaysRejects(t *testing.T) {
	g := strictGate()

	d := g.Decide("¿Cuáles son los plazos de conservación?", nil)
	if d.Accepted {
		t.Error("empty fragment set must be rejected")
	}
	if d.BestScore != 0 {
		t.Errorf("BestScore = %f, want 0", d.BestScore)
	}
	if d.Message != RejectionMessage {
		t.Errorf("Message = %q, want rejection message", d.Message)
	}
}

func TestDecide_ScoreBelowThreshold(t *testing.T) {
	g := strictGate()
	frags := []models.Fragment{
		frag("texto sobre conservación de documentos", 0.30),
		frag("texto sobre plazos administrativos", 0.59),
	}

	d := g.Decide("plazos de conservación", frags)
	if d.Accepted {
		t.Error("best score 0.59 below threshold 0.60 must reject")
	}
	if d.BestScore != 0.59 {
		t.Errorf("BestScore = %f, want 0.59", d.BestScore)
	}
}

func TestDecide_AcceptsWithScoreAndKeyword(t *testing.T) {
	g := strictGate()
	frags := []models.Fragment{
		frag("Los plazos de conservación de los datos serán de cinco años.", 0.82),
		frag("Disposición adicional sobre registros.", 0.40),
	}

	d := g.Decide("¿Cuáles son los plazos de conservación?", frags)
	if !d.Accepted {
		t.Fatalf("expected acceptance, got rejection: %s", d.Message)
	}
	if len(d.Fragments) != 2 {
		t.Errorf("got %d fragments, want all 2 passed through", len(d.Fragments))
	}
}

func TestDecide_KeywordGateRejectsWithoutOverlap(t *testing.T) {
	g := strictGate()
	frags := []models.Fragment{
		frag("Regulación del silencio administrativo en procedimientos sancionadores.", 0.75),
	}

	d := g.Decide("¿Cuáles son los plazos de conservación?", frags)
	if d.Accepted {
		t.Error("no keyword overlap must reject despite high score")
	}
}

func TestDecide_StopwordOnlyQuestionSkipsKeywordGate(t *testing.T) {
	g := strictGate()
	frags := []models.Fragment{
		frag("Texto cualquiera sin relación con la pregunta.", 0.80),
	}

	// Every token is a stopword or too short: judged by score alone.
	d := g.Decide("qué es esto", frags)
	if !d.Accepted {
		t.Error("stopword-only question must skip the keyword gate")
	}
}

func TestDecide_KeywordGateDisabled(t *testing.T) {
	g := New(Config{ScoreThreshold: 0.45, KeywordGate: false})
	frags := []models.Fragment{
		frag("Texto sin ninguna palabra de la pregunta original.", 0.50),
	}

	d := g.Decide("plazos conservación expedientes", frags)
	if !d.Accepted {
		t.Error("lenient variant must accept on score alone")
	}
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     []string
	}{
		{
			"strips punctuation and stopwords",
			"¿Cuáles son los plazos de conservación?",
			[]string{"plazos", "conservación"},
		},
		{
			"drops short and numeric tokens",
			"ley 2015 del año 39",
			[]string{},
		},
		{
			"stopwords only",
			"qué es esto",
			[]string{},
		},
		{
			"dedupes preserving order",
			"plazos, plazos y más plazos de registro",
			[]string{"plazos", "registro"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.question)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractKeywords(%q) = %v, want %v", tt.question, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("keyword %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
