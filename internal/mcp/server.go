// Package mcp exposes the vocabulary store and pipeline over the Model
// Context Protocol, so agent clients can query and extend the word set.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/Revicx/russian-anki/internal/config"
	"github.com/Revicx/russian-anki/internal/pipeline"
	"github.com/Revicx/russian-anki/internal/store"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"vocab_lookup": {
		def:     lookupToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleLookup },
	},
	"vocab_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"vocab_stats": {
		def:     statsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStats },
	},
	"vocab_process": {
		def:     processToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleProcess },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// NewServer creates a new MCP server with all vocabulary tools registered.
func NewServer(st store.Store, cfg *config.Config, version string, log zerolog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"ruvoc",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(st, cfg, pipeline.FromConfig(cfg, st, log), log)

	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(st store.Store, cfg *config.Config, version string, log zerolog.Logger) error {
	s := NewServer(st, cfg, version, log)
	return server.ServeStdio(s)
}
