// ABOUTME: Bubble Tea model for interactive corpus consultation
// ABOUTME: Question input on top of a scrolling answer-and-sources viewport
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fperez/normativa/internal/models"
	"github.com/fperez/normativa/internal/session"
	"github.com/fperez/normativa/internal/sources"
)

// ConsultaPort is the TUI-facing subset of the consultation pipeline.
// Reagrupar only reshapes an existing fragment set; it must never
// re-run retrieval or generation.
type ConsultaPort interface {
	Consultar(ctx context.Context, question string, normaID *int64, k int, expanded map[string]bool) (*session.Resultado, error)
	Reagrupar(fragments []models.Fragment, expanded map[string]bool) []sources.SourceGroup
}

// Model is the Bubble Tea model for the consultation screen.
type Model struct {
	consultor ConsultaPort
	sess      *session.Session
	normaID   *int64
	k         int
	timeout   time.Duration

	input    textinput.Model
	viewport viewport.Model
	result   *session.Resultado
	status   string
	cursor   int
	ready    bool
}

// New creates a new TUI model. normaID scopes every question to one
// norma; nil searches the whole corpus. timeout bounds each pipeline
// run.
func New(consultor ConsultaPort, normaID *int64, k int, timeout time.Duration) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Escribe tu pregunta y pulsa Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		consultor: consultor,
		sess:      session.NewSession(),
		normaID:   normaID,
		k:         k,
		timeout:   timeout,
		input:     ti,
		viewport:  vp,
		status:    "Corpus cargado. Escribe para consultar.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header, status, query box, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.ask(q)
				m.viewport.SetContent(m.renderResult())
				return m, nil
			}
		case "down":
			if m.result != nil && len(m.result.Groups) > 0 {
				m.cursor = (m.cursor + 1) % len(m.result.Groups)
				m.viewport.SetContent(m.renderResult())
				return m, nil
			}
		case "up":
			if m.result != nil && len(m.result.Groups) > 0 {
				m.cursor = (m.cursor - 1 + len(m.result.Groups)) % len(m.result.Groups)
				m.viewport.SetContent(m.renderResult())
				return m, nil
			}
		case "tab":
			if m.result != nil && len(m.result.Groups) > 0 {
				m.toggleSelected()
				m.viewport.SetContent(m.renderResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs one pipeline for the typed question and records the outcome.
func (m *Model) ask(question string) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	res, err := m.consultor.Consultar(ctx, question, m.normaID, m.k, m.sess.Expanded())
	if err != nil {
		m.status = "Error: no se pudo completar la consulta."
		m.result = nil
		return
	}
	m.sess.Record(res)
	m.result = res
	m.cursor = 0
	if res.Rejected {
		m.status = res.Message
	} else {
		m.status = fmt.Sprintf("Consulta %d · %d fuentes", len(m.sess.History()), len(res.Groups))
	}
}

// toggleSelected flips disclosure for the group under the cursor and
// regroups the fragments already on hand. No pipeline re-run.
func (m *Model) toggleSelected() {
	key := m.result.Groups[m.cursor].Key
	m.sess.ToggleGroup(key)
	m.result.Groups = m.consultor.Reagrupar(m.result.Fragments, m.sess.Expanded())
	if m.cursor >= len(m.result.Groups) {
		m.cursor = 0
	}
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Cargando..."
	}
	header := headerStyle.Render("Consulta Normativa")
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	body := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + body + "\n" + input + "\n" + status
}

// renderResult lays out the answer and the grouped sources.
func (m Model) renderResult() string {
	if m.result == nil {
		return "Sin resultados todavía."
	}
	if m.result.Rejected {
		return m.result.Message
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Respuesta"))
	sb.WriteString("\n\n")
	sb.WriteString(m.result.Answer.Texto)
	sb.WriteString("\n\n")
	sb.WriteString(titleStyle.Render("Fuentes"))
	sb.WriteString("\n")

	for i, g := range m.result.Groups {
		marker := "  "
		if i == m.cursor {
			marker = "» "
		}
		line := fmt.Sprintf("%s%s (%d/%d fragmentos)", marker, g.Titulo, len(g.Visible), len(g.Items))
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		sb.WriteString("\n")
		sb.WriteString(line)
		for _, f := range g.Visible {
			label := f.Seccion
			if label == "" {
				label = "Fragmento"
			}
			sb.WriteString(fmt.Sprintf("\n    %s · %.0f%% relevante\n    %s", label, f.Score*100, f.Texto))
		}
		if hidden := len(g.Items) - len(g.Visible); hidden > 0 {
			sb.WriteString(fmt.Sprintf("\n    (tab: mostrar %d más)", hidden))
		}
	}
	return sb.String()
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
