package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// decode maps a tool call's arguments onto a typed request struct by
// round-tripping through JSON, so handlers never touch raw map[string]any.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var out T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return out, fmt.Errorf("marshal args: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("unmarshal args: %w", err)
	}
	return out, nil
}
