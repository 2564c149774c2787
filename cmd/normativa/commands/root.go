// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Entry point for preguntar, normas, consola, servir, mcp and version
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
███╗   ██╗ ██████╗ ██████╗ ███╗   ███╗ █████╗ ████████╗██╗██╗   ██╗ █████╗
████╗  ██║██╔═══██╗██╔══██╗████╗ ████║██╔══██╗╚══██╔══╝██║██║   ██║██╔══██╗
██╔██╗ ██║██║   ██║██████╔╝██╔████╔██║███████║   ██║   ██║██║   ██║███████║
██║╚██╗██║██║   ██║██╔══██╗██║╚██╔╝██║██╔══██║   ██║   ██║╚██╗ ██╔╝██╔══██║
██║ ╚████║╚██████╔╝██║  ██║██║ ╚═╝ ██║██║  ██║   ██║   ██║ ╚████╔╝ ██║  ██║
╚═╝  ╚═══╝ ╚═════╝ ╚═╝  ╚═╝╚═╝     ╚═╝╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═══╝  ╚═╝  ╚═╝
`

// NewRootCmd creates the root command with global flags and subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normativa",
		Short: "Consulta asistida sobre normativa técnica y jurídica",
		Long: banner + `
Responde preguntas en lenguaje natural sobre un corpus de normas,
citando los fragmentos en que se apoya cada respuesta.

Cuando la normativa cargada no cubre la pregunta, lo dice en lugar
de inventar una respuesta.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format (auto, table, json)")

	cmd.AddCommand(NewPreguntarCmd())
	cmd.AddCommand(NewNormasCmd())
	cmd.AddCommand(NewConsolaCmd())
	cmd.AddCommand(NewServirCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
