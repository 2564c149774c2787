// ABOUTME: MCP tool definitions and registration for the normativa server
// ABOUTME: Exposes consultation and catalog listing to agent hosts over stdio
package mcp

import (
	"context"

	"github.com/fperez/normativa/internal/session"
	"github.com/fperez/normativa/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Consultor runs one consultation pipeline.
type Consultor interface {
	Consultar(ctx context.Context, question string, normaID *int64, k int, expanded map[string]bool) (*session.Resultado, error)
}

// RegisterTools registers the normativa tools with the MCP server
func RegisterTools(server *mcpserver.MCPServer, consultor Consultor, catalog storage.Catalog, defaultK int) *Handlers {
	handlers := &Handlers{
		consultor: consultor,
		catalog:   catalog,
		defaultK:  defaultK,
	}

	// 1. consultar_normativa - Ask a question against the loaded corpus
	server.AddTool(mcp.Tool{
		Name:        "consultar_normativa",
		Description: "Consulta la normativa cargada con una pregunta en lenguaje natural. Devuelve una respuesta fundamentada y los fragmentos fuente agrupados por norma.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"pregunta": map[string]interface{}{
					"type":        "string",
					"description": "Pregunta en lenguaje natural",
				},
				"norma_id": map[string]interface{}{
					"type":        "number",
					"description": "Limitar la búsqueda a una norma concreta (opcional; omitir para buscar en todo el corpus)",
				},
				"k": map[string]interface{}{
					"type":        "number",
					"description": "Número de fragmentos candidatos a recuperar (por defecto: 8)",
					"default":     8,
				},
			},
			Required: []string{"pregunta"},
		},
	}, handlers.ConsultarNormativa)

	// 2. listar_normas - List the documents available for scoping
	server.AddTool(mcp.Tool{
		Name:        "listar_normas",
		Description: "Lista las normas disponibles para consultas acotadas, ordenadas por id.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListarNormas)

	return handlers
}
