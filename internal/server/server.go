// ABOUTME: HTTP service boundary exposing the consultation pipeline
// ABOUTME: POST /ask runs a query; GET /normas lists the scoping catalog
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fperez/normativa/internal/models"
	"github.com/fperez/normativa/internal/session"
	"github.com/fperez/normativa/internal/sources"
	"github.com/fperez/normativa/internal/storage"
)

// Consultor runs one consultation pipeline; implemented by the
// session orchestrator.
type Consultor interface {
	Consultar(ctx context.Context, question string, normaID *int64, k int, expanded map[string]bool) (*session.Resultado, error)
}

// Server handles the HTTP API.
type Server struct {
	consultor Consultor
	catalog   storage.Catalog
	defaultK  int
	timeout   time.Duration
}

// New creates a Server.
func New(consultor Consultor, catalog storage.Catalog, defaultK int, timeout time.Duration) *Server {
	return &Server{
		consultor: consultor,
		catalog:   catalog,
		defaultK:  defaultK,
		timeout:   timeout,
	}
}

// Handler returns the route mux for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("GET /normas", s.handleNormas)
	return mux
}

// askRequest is the inbound /ask payload. NormaID arrives as a number,
// a string, or null depending on the client.
type askRequest struct {
	Question string          `json:"question"`
	NormaID  json.RawMessage `json:"normaId"`
	K        int             `json:"k"`
}

// askResponse is the success shape. Data is empty and Message set on
// relevance rejection, which is still a 200.
type askResponse struct {
	OK      bool                  `json:"ok"`
	Data    []models.Fragment     `json:"data"`
	Answer  string                `json:"answer,omitempty"`
	Message string                `json:"message,omitempty"`
	Groups  []sources.SourceGroup `json:"groups,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cuerpo de la petición inválido"})
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Falta question"})
		return
	}

	k := req.K
	if k <= 0 {
		k = s.defaultK
	}

	normaID := ParseNormaID(req.NormaID)

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.consultor.Consultar(ctx, req.Question, normaID, k, nil)
	if err != nil {
		// Short, non-technical message; the detail stays in the log.
		log.Printf("consultation failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "No se pudo completar la consulta."})
		return
	}

	if res.Rejected {
		writeJSON(w, http.StatusOK, askResponse{
			OK:      true,
			Data:    []models.Fragment{},
			Message: res.Message,
		})
		return
	}

	data := res.Fragments
	if len(data) > k {
		data = data[:k]
	}
	writeJSON(w, http.StatusOK, askResponse{
		OK:     true,
		Data:   data,
		Answer: res.Answer.Texto,
		Groups: res.Groups,
	})
}

// normasResponse is the catalog listing shape.
type normasResponse struct {
	OK   bool           `json:"ok"`
	Data []models.Norma `json:"data"`
}

func (s *Server) handleNormas(w http.ResponseWriter, r *http.Request) {
	normas, err := s.catalog.ListNormas(r.Context())
	if err != nil {
		log.Printf("listing normas failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "No se pudo obtener el listado de normas."})
		return
	}
	if normas == nil {
		normas = []models.Norma{}
	}
	writeJSON(w, http.StatusOK, normasResponse{OK: true, Data: normas})
}

// ParseNormaID interprets the loose inbound scope value. Null, empty
// string, the literal "all", and anything non-numeric all mean
// corpus-wide search; parse failures widen the scope rather than error.
func ParseNormaID(raw json.RawMessage) *int64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		id := int64(num)
		return &id
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return nil
	}
	str = strings.TrimSpace(str)
	if str == "" || str == "all" {
		return nil
	}
	if id, err := strconv.ParseInt(str, 10, 64); err == nil {
		return &id
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encoding response: %v", err)
	}
}
