package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/atelier-tools/weave/internal/relgraph"
	"github.com/atelier-tools/weave/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// ─── RelationshipGraphTool ───────────────────────────────────────────────────

// RelationshipGraphTool handles the relationship_graph MCP tool.
//
// The graph is advisory: when the store misbehaves the handler
// returns an empty-but-well-shaped graph instead of an error, so a
// visualization built on top of it never crashes.
type RelationshipGraphTool struct {
	store *store.Store
}

// NewRelationshipGraphTool creates a RelationshipGraphTool with the given store.
func NewRelationshipGraphTool(s *store.Store) *RelationshipGraphTool {
	return &RelationshipGraphTool{store: s}
}

// Definition returns the MCP tool definition for relationship_graph.
func (t *RelationshipGraphTool) Definition() mcp.Tool {
	return mcp.NewTool("relationship_graph",
		mcp.WithDescription(
			"Build the full artifact relationship graph: deduplicated nodes, one edge per derived relationship "+
				"(specifies, guides, validates, implements, depends_on), the project list, and summary statistics. "+
				"Recomputed from the database on every call.",
		),
	)
}

// Handle processes the relationship_graph tool call.
func (t *RelationshipGraphTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(relgraph.FromSource(t.store))
}

// ─── OverviewTool ────────────────────────────────────────────────────────────

// OverviewTool handles the project_overview MCP tool.
type OverviewTool struct {
	store *store.Store
}

// NewOverviewTool creates an OverviewTool with the given store.
func NewOverviewTool(s *store.Store) *OverviewTool {
	return &OverviewTool{store: s}
}

// Definition returns the MCP tool definition for project_overview.
func (t *OverviewTool) Definition() mcp.Tool {
	return mcp.NewTool("project_overview",
		mcp.WithDescription("Show tracked projects and per-kind artifact totals."),
	)
}

// Handle processes the project_overview tool call.
func (t *OverviewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := t.store.Projects()
	if err != nil {
		return storeErrResult("project_overview", err), nil
	}
	counts, err := t.store.ArtifactCounts()
	if err != nil {
		return storeErrResult("project_overview", err), nil
	}

	var sb strings.Builder
	sb.WriteString("## Weave Overview\n\n")
	sb.WriteString(fmt.Sprintf("- **Projects**: %d\n", counts.Projects))
	sb.WriteString(fmt.Sprintf("- **PRDs**: %d\n", counts.Requirements))
	sb.WriteString(fmt.Sprintf("- **Designs**: %d\n", counts.Designs))
	sb.WriteString(fmt.Sprintf("- **Tasks**: %d\n", counts.Tasks))
	sb.WriteString(fmt.Sprintf("- **Tests**: %d\n", counts.Tests))
	sb.WriteString(fmt.Sprintf("- **Documents**: %d\n", counts.Documents))

	if len(projects) > 0 {
		sb.WriteString("\n### Projects\n")
		for _, p := range projects {
			sb.WriteString(fmt.Sprintf("- **%s** (%s) — %s\n", p.Name, p.Status, p.ID))
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}
