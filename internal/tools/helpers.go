// Package tools provides the MCP tool handlers for Weave.
//
// Each handler follows the same pattern:
//   - A struct with its dependency (store.Store) injected via constructor
//   - Definition() returns the mcp.Tool schema
//   - Handle() processes the request and returns a result
//
// Validation failures and store errors come back as tool error
// results, never as protocol errors — the host always gets a
// well-formed response.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atelier-tools/weave/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// jsonResult marshals v as indented JSON into a tool text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshaling result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// storeErrResult turns a store error into a tool error result with a
// message matched to the error's kind.
func storeErrResult(action string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, store.ErrInvalidArgument):
		return mcp.NewToolResultError(fmt.Sprintf("%s: invalid input: %v", action, err))
	case errors.Is(err, store.ErrConflict):
		return mcp.NewToolResultError(fmt.Sprintf("%s: conflict: %v", action, err))
	case errors.Is(err, store.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("%s: not found: %v", action, err))
	case errors.Is(err, store.ErrUnavailable):
		return mcp.NewToolResultError(fmt.Sprintf("%s: store unavailable, retry shortly: %v", action, err))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", action, err))
	}
}
