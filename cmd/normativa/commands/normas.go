// ABOUTME: CLI command to list the normas loaded in the corpus
// ABOUTME: Table or JSON output of id, título and código
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fperez/normativa/internal/config"
	"github.com/fperez/normativa/internal/storage/sqlite"
)

// NewNormasCmd creates the normas command
func NewNormasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normas",
		Short: "List the normas in the corpus",
		Long: `List the normas loaded in the corpus, ordered by id.

Examples:
  normativa normas
  normativa normas --format json`,
		Args: cobra.NoArgs,
		RunE: runNormas,
	}

	return cmd
}

func runNormas(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening corpus database: %w", err)
	}
	store := sqlite.NewStore(db, cfg.VectorDimension)
	defer store.Close()

	normas, err := store.ListNormas(context.Background())
	if err != nil {
		return fmt.Errorf("listing normas: %w", err)
	}

	if len(normas) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No hay normas cargadas.")
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(normas, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTÍTULO\tCÓDIGO\n")
	for _, n := range normas {
		codigo := n.Codigo
		if codigo == "" {
			codigo = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", n.ID, truncate(n.Titulo, 60), codigo)
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d norma(s)\n", len(normas))
	}

	return nil
}
