// ABOUTME: Per-session consultation history and source expansion state
// ABOUTME: Append-only records, reset per session, never persisted
package session

import (
	"sync"
	"time"

	"github.com/fperez/normativa/internal/models"
	"github.com/google/uuid"
)

// ConsultaRecord is one completed consultation in the session history.
type ConsultaRecord struct {
	ID        string            `json:"id"`
	Pregunta  string            `json:"pregunta"`
	Respuesta string            `json:"respuesta"`
	Rejected  bool              `json:"rejected"`
	Fragments []models.Fragment `json:"fragments,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Session owns the mutable per-session state: the append-only history
// and the per-group expansion toggles. Both reset with the session;
// nothing here crosses queries except by explicit append.
type Session struct {
	mu       sync.Mutex
	history  []ConsultaRecord
	expanded map[string]bool
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{expanded: make(map[string]bool)}
}

// Record appends a completed pipeline outcome to the history. Callers
// must only record pipelines that reached Done; fatal failures never
// produce a history entry.
func (s *Session) Record(res *Resultado) ConsultaRecord {
	rec := ConsultaRecord{
		ID:        uuid.New().String(),
		Pregunta:  res.Pregunta,
		Respuesta: res.Answer.Texto,
		Rejected:  res.Rejected,
		Fragments: res.Fragments,
		CreatedAt: time.Now(),
	}
	if res.Rejected {
		rec.Respuesta = res.Message
	}

	s.mu.Lock()
	s.history = append(s.history, rec)
	// Expansion toggles apply to the current result only.
	s.expanded = make(map[string]bool)
	s.mu.Unlock()

	return rec
}

// History returns a copy of the session history, oldest first.
func (s *Session) History() []ConsultaRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ConsultaRecord, len(s.history))
	copy(out, s.history)
	return out
}

// ToggleGroup flips the disclosure state of one source group.
func (s *Session) ToggleGroup(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expanded[key] {
		delete(s.expanded, key)
	} else {
		s.expanded[key] = true
	}
}

// Expanded returns a copy of the current expansion toggles.
func (s *Session) Expanded() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.expanded))
	for k, v := range s.expanded {
		out[k] = v
	}
	return out
}
