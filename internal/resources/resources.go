// Package resources implements MCP resource handlers for Weave.
//
// Resources provide read-only data the host can consume for context.
// They use URI-based addressing (weave://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/atelier-tools/weave/internal/relgraph"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handler manages Weave resource endpoints.
type Handler struct {
	source relgraph.Source
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(source relgraph.Source) *Handler {
	return &Handler{source: source}
}

// GraphResource returns the MCP resource definition for the
// relationship graph.
func (h *Handler) GraphResource() mcp.Resource {
	return mcp.NewResource(
		"weave://graph",
		"Artifact Relationship Graph",
		mcp.WithResourceDescription("Deduplicated nodes, derived relationship edges, projects, and summary statistics"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleGraph returns the current relationship graph as JSON. The
// graph degrades to empty on store failure, so this handler only
// errors on marshaling.
func (h *Handler) HandleGraph(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	graph := relgraph.FromSource(h.source)

	data, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling graph: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
