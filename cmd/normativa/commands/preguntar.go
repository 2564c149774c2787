// ABOUTME: CLI command to ask one question against the loaded corpus
// ABOUTME: Runs the full pipeline and prints the answer with its sources
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	preguntarNorma string
	preguntarK     int
)

// NewPreguntarCmd creates the preguntar command
func NewPreguntarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preguntar <pregunta>",
		Short: "Ask a question about the loaded corpus",
		Long: `Ask a question in natural language about the loaded normas.

The answer cites the fragments it is grounded in. Questions the
corpus does not cover are rejected instead of answered.

Examples:
  normativa preguntar "¿Qué pendiente máxima admite una rampa accesible?"
  normativa preguntar --norma 3 "¿Qué exige el artículo 12?"
  normativa preguntar --k 12 --format json "requisitos de ventilación"`,
		Args: cobra.ExactArgs(1),
		RunE: runPreguntar,
	}

	cmd.Flags().StringVar(&preguntarNorma, "norma", "", "Restrict the search to one norma id (empty or 'all' searches everything)")
	cmd.Flags().IntVar(&preguntarK, "k", 0, "Fragments to retrieve (0 uses the configured default)")

	return cmd
}

func runPreguntar(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	k := preguntarK
	if k == 0 {
		k = p.cfg.DefaultK
	}
	if err := validatePositiveInt(k, "k"); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.SearchTimeout+p.cfg.OpenAITimeout)
	defer cancel()

	res, err := p.orchestrator.Consultar(ctx, args[0], parseNormaScope(preguntarNorma), k, nil)
	if err != nil {
		return fmt.Errorf("running consultation: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if res.Rejected {
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Answer.Texto)

	if len(res.Groups) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nFuentes:")
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "NORMA\tSECCIÓN\tSCORE\tTEXTO\n")
		for _, g := range res.Groups {
			for _, f := range g.Visible {
				seccion := f.Seccion
				if seccion == "" {
					seccion = "(sin sección)"
				}
				fmt.Fprintf(w, "%s\t%s\t%.3f\t%s\n",
					truncate(g.Titulo, 30),
					truncate(seccion, 20),
					f.Score,
					truncate(f.Texto, 60))
			}
		}
		w.Flush()
	}

	if !quiet && res.Answer.FromFallback {
		fmt.Fprintln(cmd.OutOrStdout(), "\n(respuesta extraída directamente del fragmento más relevante)")
	}

	return nil
}
