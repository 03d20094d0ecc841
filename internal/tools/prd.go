package tools

import (
	"context"

	"github.com/atelier-tools/weave/internal/relgraph"
	"github.com/atelier-tools/weave/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// ─── PRDTasksTool ────────────────────────────────────────────────────────────

// PRDTasksTool handles the prd_tasks MCP tool.
type PRDTasksTool struct {
	store *store.Store
}

// NewPRDTasksTool creates a PRDTasksTool with the given store.
func NewPRDTasksTool(s *store.Store) *PRDTasksTool {
	return &PRDTasksTool{store: s}
}

// Definition returns the MCP tool definition for prd_tasks.
func (t *PRDTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("prd_tasks",
		mcp.WithDescription(
			"List the tasks related to a PRD, classified as direct (same project) or indirect "+
				"(reachable only through the PRD's design chain), with completion statistics.",
		),
		mcp.WithString("prd_id",
			mcp.Required(),
			mcp.Description("PRD to classify tasks for"),
		),
	)
}

// Handle processes the prd_tasks tool call.
func (t *PRDTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prdID := req.GetString("prd_id", "")
	if prdID == "" {
		return mcp.NewToolResultError("'prd_id' is required"), nil
	}

	if _, err := t.store.GetRequirement(prdID); err != nil {
		return storeErrResult("prd_tasks", err), nil
	}

	tuples, err := t.store.Relationships()
	if err != nil {
		return storeErrResult("prd_tasks", err), nil
	}

	return jsonResult(relgraph.ClassifyTasks(prdID, tuples))
}

// ─── PRDDesignsTool ──────────────────────────────────────────────────────────

// PRDDesignsTool handles the prd_designs MCP tool.
type PRDDesignsTool struct {
	store *store.Store
}

// NewPRDDesignsTool creates a PRDDesignsTool with the given store.
func NewPRDDesignsTool(s *store.Store) *PRDDesignsTool {
	return &PRDDesignsTool{store: s}
}

// Definition returns the MCP tool definition for prd_designs.
func (t *PRDDesignsTool) Definition() mcp.Tool {
	return mcp.NewTool("prd_designs",
		mcp.WithDescription("List the designs that specify a PRD. Designs sit one hop from the PRD, so this is direct-only."),
		mcp.WithString("prd_id",
			mcp.Required(),
			mcp.Description("PRD to list designs for"),
		),
	)
}

// Handle processes the prd_designs tool call.
func (t *PRDDesignsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prdID := req.GetString("prd_id", "")
	if prdID == "" {
		return mcp.NewToolResultError("'prd_id' is required"), nil
	}

	designs, err := t.store.DesignsForPRD(prdID)
	if err != nil {
		return storeErrResult("prd_designs", err), nil
	}

	return jsonResult(designs)
}
