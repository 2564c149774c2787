// ABOUTME: MCP tool handler implementations for the normativa server
// ABOUTME: Wraps the consultation pipeline with tool-result error handling
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/fperez/normativa/internal/models"
	"github.com/fperez/normativa/internal/sources"
	"github.com/fperez/normativa/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for the MCP tools
type Handlers struct {
	consultor Consultor
	catalog   storage.Catalog
	defaultK  int
}

// consultaResult is the JSON payload returned by consultar_normativa.
type consultaResult struct {
	Respuesta string                `json:"respuesta"`
	Rechazada bool                  `json:"rechazada"`
	Mensaje   string                `json:"mensaje,omitempty"`
	Fuentes   []sources.SourceGroup `json:"fuentes,omitempty"`
	Data      []models.Fragment     `json:"data,omitempty"`
}

// ConsultarNormativa handles the consultar_normativa tool
func (h *Handlers) ConsultarNormativa(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pregunta, err := request.RequireString("pregunta")
	if err != nil {
		return mcp.NewToolResultError("pregunta argument is required and must be a string"), nil
	}

	var normaID *int64
	if raw := request.GetInt("norma_id", 0); raw != 0 {
		id := int64(raw)
		normaID = &id
	}

	k := request.GetInt("k", h.defaultK)
	if k <= 0 {
		k = h.defaultK
	}

	res, err := h.consultor.Consultar(ctx, pregunta, normaID, k, nil)
	if err != nil {
		log.Printf("consultation failed: %v", err)
		return mcp.NewToolResultError("No se pudo completar la consulta."), nil
	}

	payload := consultaResult{
		Respuesta: res.Answer.Texto,
		Rechazada: res.Rejected,
		Mensaje:   res.Message,
		Fuentes:   res.Groups,
		Data:      res.Fragments,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshaling result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ListarNormas handles the listar_normas tool
func (h *Handlers) ListarNormas(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	normas, err := h.catalog.ListNormas(ctx)
	if err != nil {
		log.Printf("listing normas failed: %v", err)
		return mcp.NewToolResultError("No se pudo obtener el listado de normas."), nil
	}

	data, err := json.MarshalIndent(normas, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshaling normas: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
