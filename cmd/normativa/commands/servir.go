// ABOUTME: CLI command to run the HTTP consultation API
// ABOUTME: Serves POST /ask and GET /normas with graceful shutdown
package commands

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fperez/normativa/internal/server"
)

var servirAddr string

// NewServirCmd creates the servir command
func NewServirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "servir",
		Short: "Run the HTTP consultation API",
		Long: `Run the HTTP API for consulting the corpus.

Endpoints:
  POST /ask     ask a question ({"question": ..., "normaId": ..., "k": ...})
  GET  /normas  list the loaded normas

Examples:
  normativa servir
  normativa servir --addr :9090`,
		Args: cobra.NoArgs,
		RunE: runServir,
	}

	cmd.Flags().StringVar(&servirAddr, "addr", "", "Listen address (overrides configuration)")

	return cmd
}

func runServir(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	addr := p.cfg.ListenAddr
	if servirAddr != "" {
		addr = servirAddr
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      server.New(p.orchestrator, p.store, p.cfg.DefaultK, p.cfg.SearchTimeout+p.cfg.OpenAITimeout).Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * (p.cfg.SearchTimeout + p.cfg.OpenAITimeout),
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	if !quiet {
		log.Printf("Consulta normativa API listening on %s", addr)
	}

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, draining connections...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
