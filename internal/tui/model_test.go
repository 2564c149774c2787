// ABOUTME: Tests for the consultation console model
// ABOUTME: Verifies toggles regroup locally and pipeline runs are bounded

package tui

import (
	"context"
	"testing"
	"time"

	"github.com/fperez/normativa/internal/models"
	"github.com/fperez/normativa/internal/session"
	"github.com/fperez/normativa/internal/sources"
)

type fakePort struct {
	consultas    int
	regroups     int
	hadDeadline  bool
	lastExpanded map[string]bool
	result       *session.Resultado
}

func (f *fakePort) Consultar(ctx context.Context, question string, normaID *int64, k int, expanded map[string]bool) (*session.Resultado, error) {
	f.consultas++
	_, f.hadDeadline = ctx.Deadline()
	return f.result, nil
}

func (f *fakePort) Reagrupar(fragments []models.Fragment, expanded map[string]bool) []sources.SourceGroup {
	f.regroups++
	f.lastExpanded = expanded
	groups := make([]sources.SourceGroup, len(f.result.Groups))
	copy(groups, f.result.Groups)
	for i := range groups {
		if expanded[groups[i].Key] {
			groups[i].Expanded = true
			groups[i].Visible = groups[i].Items
		}
	}
	return groups
}

func testResultado() *session.Resultado {
	frags := []models.Fragment{
		{ID: "f1", NormaTitulo: "CTE DB-SUA", Seccion: "1.1", Texto: "texto uno", Score: 0.81},
		{ID: "f2", NormaTitulo: "CTE DB-SUA", Seccion: "1.2", Texto: "texto dos", Score: 0.74},
		{ID: "f3", NormaTitulo: "CTE DB-SUA", Seccion: "1.3", Texto: "texto tres", Score: 0.68},
	}
	return &session.Resultado{
		Pregunta:  "¿pendiente máxima de rampa?",
		Answer:    models.Answer{Texto: "La pendiente máxima es del 10%."},
		Fragments: frags,
		Groups: []sources.SourceGroup{
			{Key: "1", Titulo: "CTE DB-SUA", Items: frags, Visible: frags[:2]},
		},
		BestScore: 0.81,
	}
}

func TestToggleSelected_DoesNotRerunPipeline(t *testing.T) {
	port := &fakePort{result: testResultado()}
	m := New(port, nil, 8, time.Second)

	m.ask("¿pendiente máxima de rampa?")
	if port.consultas != 1 {
		t.Fatalf("after ask: pipeline ran %d times, want 1", port.consultas)
	}

	m.toggleSelected()
	if port.consultas != 1 {
		t.Errorf("after toggle: pipeline ran %d times, want still 1", port.consultas)
	}
	if port.regroups != 1 {
		t.Errorf("after toggle: regroup ran %d times, want 1", port.regroups)
	}
	if !port.lastExpanded["1"] {
		t.Error("toggle should pass the selected group's key as expanded")
	}
	if got := len(m.result.Groups[0].Visible); got != 3 {
		t.Errorf("expanded group shows %d fragments, want all 3", got)
	}
}

func TestToggleSelected_SecondToggleCollapses(t *testing.T) {
	port := &fakePort{result: testResultado()}
	m := New(port, nil, 8, time.Second)
	m.ask("¿pendiente máxima de rampa?")

	m.toggleSelected()
	m.toggleSelected()
	if port.consultas != 1 {
		t.Errorf("toggles ran the pipeline %d times, want 1", port.consultas)
	}
	if port.lastExpanded["1"] {
		t.Error("second toggle should collapse the group again")
	}
}

func TestAsk_BoundsThePipeline(t *testing.T) {
	port := &fakePort{result: testResultado()}
	m := New(port, nil, 8, time.Second)

	m.ask("¿pendiente máxima de rampa?")
	if !port.hadDeadline {
		t.Error("pipeline context should carry a deadline")
	}
}
