package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/Revicx/russian-anki/internal/config"
	"github.com/Revicx/russian-anki/internal/errors"
	"github.com/Revicx/russian-anki/internal/pipeline"
	"github.com/Revicx/russian-anki/internal/store"
	"github.com/Revicx/russian-anki/internal/vocab"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store store.Store
	cfg   *config.Config
	pipe  *pipeline.Pipeline
	log   zerolog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(st store.Store, cfg *config.Config, pipe *pipeline.Pipeline, log zerolog.Logger) *Handlers {
	return &Handlers{store: st, cfg: cfg, pipe: pipe, log: log}
}

// Request types for each tool

// LookupRequest represents the arguments for lookup.
type LookupRequest struct {
	Word string `json:"word"`
}

// ListRequest represents the arguments for list.
type ListRequest struct {
	Limit            int  `json:"limit,omitempty"`
	Offset           int  `json:"offset,omitempty"`
	UntranslatedOnly bool `json:"untranslated_only,omitempty"`
}

// ProcessRequest represents the arguments for process.
type ProcessRequest struct {
	Paths []string `json:"paths"`
}

// Handler implementations

// HandleLookup handles the vocab_lookup tool call.
func (h *Handlers) HandleLookup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LookupRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Word == "" {
		return errorResult(errors.NewInvalidRequest("word is required")), nil
	}

	rec, err := h.store.Get(input.Word)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(rec)
}

// ListResponse is the vocab_list payload.
type ListResponse struct {
	Words []vocab.Record `json:"words"`
	Total int            `json:"total"`
}

// HandleList handles the vocab_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Limit < 0 || input.Offset < 0 {
		return errorResult(errors.NewInvalidRequest("limit and offset must be non-negative")), nil
	}

	records, err := h.store.All()
	if err != nil {
		return errorResult(err), nil
	}

	if input.UntranslatedOnly {
		filtered := records[:0]
		for _, rec := range records {
			if rec.Translation == "" {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	total := len(records)
	if input.Offset > len(records) {
		records = nil
	} else {
		records = records[input.Offset:]
	}
	if input.Limit > 0 && input.Limit < len(records) {
		records = records[:input.Limit]
	}

	return successResult(ListResponse{Words: records, Total: total})
}

// StatsResponse is the vocab_stats payload.
type StatsResponse struct {
	Words        int    `json:"words"`
	Translated   int    `json:"translated"`
	Untranslated int    `json:"untranslated"`
	Backend      string `json:"backend"`
	StoragePath  string `json:"storage_path"`
}

// HandleStats handles the vocab_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := h.store.All()
	if err != nil {
		return errorResult(err), nil
	}

	translated := 0
	for _, rec := range records {
		if rec.Translation != "" {
			translated++
		}
	}

	return successResult(StatsResponse{
		Words:        len(records),
		Translated:   translated,
		Untranslated: len(records) - translated,
		Backend:      h.cfg.StorageBackend,
		StoragePath:  h.cfg.StoragePath,
	})
}

// HandleProcess handles the vocab_process tool call.
func (h *Handlers) HandleProcess(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProcessRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if len(input.Paths) == 0 {
		return errorResult(errors.NewInvalidRequest("paths is required")), nil
	}

	result, err := h.pipe.Run(ctx, input.Paths)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if e, ok := err.(*errors.Error); ok {
		errorObj := map[string]any{
			"code":    e.Code,
			"message": e.Message,
		}
		if e.Path != "" {
			errorObj["path"] = e.Path
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
