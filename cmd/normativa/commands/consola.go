// ABOUTME: CLI command for the interactive consultation console
// ABOUTME: Starts the Bubble Tea TUI wired to the full pipeline
package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fperez/normativa/internal/tui"
)

var (
	consolaNorma string
	consolaK     int
)

// NewConsolaCmd creates the consola command
func NewConsolaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consola",
		Short: "Interactive consultation console",
		Long: `Start an interactive console for consulting the corpus.

Type a question and press Enter to ask. Use the arrow keys to move
between source groups and Tab to expand or collapse one.

Examples:
  normativa consola
  normativa consola --norma 3`,
		Args: cobra.NoArgs,
		RunE: runConsola,
	}

	cmd.Flags().StringVar(&consolaNorma, "norma", "", "Restrict every question to one norma id")
	cmd.Flags().IntVar(&consolaK, "k", 0, "Fragments to retrieve (0 uses the configured default)")

	return cmd
}

func runConsola(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	k := consolaK
	if k == 0 {
		k = p.cfg.DefaultK
	}
	if err := validatePositiveInt(k, "k"); err != nil {
		return err
	}

	model := tui.New(p.orchestrator, parseNormaScope(consolaNorma), k, p.cfg.SearchTimeout+p.cfg.OpenAITimeout)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running console: %w", err)
	}
	return nil
}
