// ABOUTME: Relevance gate deciding whether a question is answerable from the corpus
// ABOUTME: Combines a similarity score threshold with a keyword-overlap backstop
package gate

import (
	"strings"

	"github.com/fperez/normativa/internal/models"
)

// RejectionMessage is the fixed user-facing message for out-of-corpus questions.
const RejectionMessage = "No aparece en la normativa cargada."

// Decision is the terminal outcome of the gate: either the fragments are
// accepted for synthesis, or the query is rejected with a message. There
// is no partial state.
type Decision struct {
	Accepted  bool
	Fragments []models.Fragment
	Message   string
	BestScore float64
}

// Config holds the gate's policy knobs.
type Config struct {
	// ScoreThreshold is the minimum best similarity score. 0.60 is the
	// strict default; 0.45 is a documented lenient alternative.
	ScoreThreshold float64
	// KeywordGate enables the lexical overlap backstop. Score alone can
	// be high for topically adjacent but substantively unrelated text.
	KeywordGate bool
}

// Gate evaluates relevance decisions.
type Gate struct {
	config Config
}

// New creates a gate with the given configuration.
func New(config Config) *Gate {
	return &Gate{config: config}
}

// Decide gates the question against the valid fragment set.
//
// The score gate rejects when no fragments survived validation or the
// best score sits below the threshold. The keyword gate then requires at
// least one substantive question keyword to appear literally in the
// concatenated fragment text; a question with no substantive keywords
// skips that check so short generic questions are judged by score alone.
func (g *Gate) Decide(question string, fragments []models.Fragment) Decision {
	best := bestScore(fragments)

	if len(fragments) == 0 || best < g.config.ScoreThreshold {
		return Decision{
			Accepted:  false,
			Message:   RejectionMessage,
			BestScore: best,
		}
	}

	if g.config.KeywordGate && !keywordsOverlap(question, fragments) {
		return Decision{
			Accepted:  false,
			Message:   RejectionMessage,
			BestScore: best,
		}
	}

	return Decision{
		Accepted:  true,
		Fragments: fragments,
		BestScore: best,
	}
}

// bestScore returns the maximum fragment score, 0 when empty.
func bestScore(fragments []models.Fragment) float64 {
	var best float64
	for _, f := range fragments {
		if f.Score > best {
			best = f.Score
		}
	}
	return best
}

// keywordsOverlap reports whether any question keyword appears as a
// case-insensitive substring of the combined fragment text. An empty
// keyword set passes.
func keywordsOverlap(question string, fragments []models.Fragment) bool {
	keywords := ExtractKeywords(question)
	if len(keywords) == 0 {
		return true
	}

	var sb strings.Builder
	for _, f := range fragments {
		sb.WriteString(strings.ToLower(f.Texto))
		sb.WriteByte(' ')
	}
	combined := sb.String()

	for _, kw := range keywords {
		if strings.Contains(combined, kw) {
			return true
		}
	}
	return false
}
