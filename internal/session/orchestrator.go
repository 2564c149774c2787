// ABOUTME: Query orchestrator sequencing the full consultation pipeline
// ABOUTME: Explicit phase state machine with an owned, append-only history
package session

import (
	"context"
	"sync"

	"github.com/fperez/normativa/internal/answer"
	"github.com/fperez/normativa/internal/gate"
	"github.com/fperez/normativa/internal/models"
	"github.com/fperez/normativa/internal/retrieval"
	"github.com/fperez/normativa/internal/sources"
)

// Phase is the orchestrator's position in the pipeline state machine.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseEmbedding   Phase = "embedding"
	PhaseSearching   Phase = "searching"
	PhaseGating      Phase = "gating"
	PhaseGenerating  Phase = "generating"
	PhaseAggregating Phase = "aggregating"
	PhaseDone        Phase = "done"
	PhaseFailed      Phase = "failed"
)

// Resultado is the terminal outcome of one consultation pipeline.
type Resultado struct {
	Pregunta  string                `json:"pregunta"`
	Rejected  bool                  `json:"rejected"`
	Message   string                `json:"message,omitempty"`
	Answer    models.Answer         `json:"answer"`
	Fragments []models.Fragment     `json:"fragments"`
	Groups    []sources.SourceGroup `json:"groups"`
	BestScore float64               `json:"best_score"`
}

// Orchestrator runs the strict sequential chain for each query:
// embed, search, validate, gate, generate, aggregate. Each collaborator
// call blocks until it resolves; ordering between stages is a hard
// dependency.
type Orchestrator struct {
	engine      *retrieval.Engine
	gate        *gate.Gate
	synthesizer *answer.Synthesizer
	aggregator  *sources.Aggregator

	mu    sync.Mutex
	phase Phase
}

// NewOrchestrator wires the pipeline stages together.
func NewOrchestrator(engine *retrieval.Engine, g *gate.Gate, synth *answer.Synthesizer, agg *sources.Aggregator) *Orchestrator {
	return &Orchestrator{
		engine:      engine,
		gate:        g,
		synthesizer: synth,
		aggregator:  agg,
		phase:       PhaseIdle,
	}
}

// Phase returns the current pipeline phase; a read-only projection for
// presentation layers.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

func (o *Orchestrator) setPhase(p Phase) {
	o.mu.Lock()
	o.phase = p
	o.mu.Unlock()
}

// Consultar runs one complete pipeline instance. A relevance rejection
// is a normal terminal outcome, not an error; only unrecoverable
// upstream failures (embedding, first search) return a non-nil error.
// expanded carries the caller's per-group disclosure toggles.
func (o *Orchestrator) Consultar(ctx context.Context, question string, normaID *int64, k int, expanded map[string]bool) (*Resultado, error) {
	o.setPhase(PhaseEmbedding)
	vector, err := o.engine.Embed(ctx, question)
	if err != nil {
		o.setPhase(PhaseFailed)
		return nil, err
	}

	o.setPhase(PhaseSearching)
	fragments, err := o.engine.RetrieveWithVector(ctx, vector, question, normaID, k)
	if err != nil {
		o.setPhase(PhaseFailed)
		return nil, err
	}

	o.setPhase(PhaseGating)
	decision := o.gate.Decide(question, fragments)
	if !decision.Accepted {
		o.setPhase(PhaseDone)
		return &Resultado{
			Pregunta:  question,
			Rejected:  true,
			Message:   decision.Message,
			BestScore: decision.BestScore,
		}, nil
	}

	o.setPhase(PhaseGenerating)
	ans := o.synthesizer.Synthesize(ctx, question, decision.Fragments)

	o.setPhase(PhaseAggregating)
	groups := o.aggregator.Aggregate(decision.Fragments, expanded)

	o.setPhase(PhaseDone)
	return &Resultado{
		Pregunta:  question,
		Answer:    ans,
		Fragments: decision.Fragments,
		Groups:    groups,
		BestScore: decision.BestScore,
	}, nil
}

// Reagrupar recomputes the source grouping for an already-retrieved
// fragment set under new disclosure toggles. Pure presentation: no
// embedding, search or generation happens here.
func (o *Orchestrator) Reagrupar(fragments []models.Fragment, expanded map[string]bool) []sources.SourceGroup {
	return o.aggregator.Aggregate(fragments, expanded)
}
