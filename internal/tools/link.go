package tools

import (
	"context"
	"fmt"

	"github.com/atelier-tools/weave/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// ─── LinkEntityTool ──────────────────────────────────────────────────────────

// LinkEntityTool handles the link_entity MCP tool.
type LinkEntityTool struct {
	store *store.Store
}

// NewLinkEntityTool creates a LinkEntityTool with the given store.
func NewLinkEntityTool(s *store.Store) *LinkEntityTool {
	return &LinkEntityTool{store: s}
}

// Definition returns the MCP tool definition for link_entity.
func (t *LinkEntityTool) Definition() mcp.Tool {
	return mcp.NewTool("link_entity",
		mcp.WithDescription(
			"Link an artifact (prd, task, design, document, test) to a project. "+
				"The (project, entity_type, entity_id) triple is unique — linking the same artifact twice is a conflict.",
		),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Project to link the artifact to"),
		),
		mcp.WithString("entity_type",
			mcp.Required(),
			mcp.Description("Artifact kind: prd, task, design, document, test"),
		),
		mcp.WithString("entity_id",
			mcp.Required(),
			mcp.Description("ID of the artifact to link"),
		),
		mcp.WithString("link_type",
			mcp.Description("Free-form link type (default: direct)"),
		),
	)
}

// Handle processes the link_entity tool call.
func (t *LinkEntityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("project_id", "")
	entityType := req.GetString("entity_type", "")
	entityID := req.GetString("entity_id", "")
	linkType := req.GetString("link_type", "")

	id, err := t.store.CreateLink(projectID, entityType, entityID, linkType)
	if err != nil {
		return storeErrResult("link_entity", err), nil
	}

	return mcp.NewToolResultText(
		fmt.Sprintf("Linked %s %s to project %s\nLink ID: %s", entityType, entityID, projectID, id),
	), nil
}

// ─── ProjectLinksTool ────────────────────────────────────────────────────────

// ProjectLinksTool handles the project_links MCP tool.
type ProjectLinksTool struct {
	store *store.Store
}

// NewProjectLinksTool creates a ProjectLinksTool with the given store.
func NewProjectLinksTool(s *store.Store) *ProjectLinksTool {
	return &ProjectLinksTool{store: s}
}

// Definition returns the MCP tool definition for project_links.
func (t *ProjectLinksTool) Definition() mcp.Tool {
	return mcp.NewTool("project_links",
		mcp.WithDescription(
			"List every artifact linked to a project, grouped into prds, tasks, designs, documents, and tests buckets. "+
				"Each entry carries the artifact's title, summary, status, and priority.",
		),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Project to list links for"),
		),
	)
}

// Handle processes the project_links tool call.
func (t *ProjectLinksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("project_id", "")
	if projectID == "" {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}

	buckets, err := t.store.ProjectLinks(projectID)
	if err != nil {
		return storeErrResult("project_links", err), nil
	}
	return jsonResult(buckets)
}

// ─── UnlinkEntityTool ────────────────────────────────────────────────────────

// UnlinkEntityTool handles the unlink_entity MCP tool.
type UnlinkEntityTool struct {
	store *store.Store
}

// NewUnlinkEntityTool creates an UnlinkEntityTool with the given store.
func NewUnlinkEntityTool(s *store.Store) *UnlinkEntityTool {
	return &UnlinkEntityTool{store: s}
}

// Definition returns the MCP tool definition for unlink_entity.
func (t *UnlinkEntityTool) Definition() mcp.Tool {
	return mcp.NewTool("unlink_entity",
		mcp.WithDescription("Remove a single project-artifact link."),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Project the link belongs to"),
		),
		mcp.WithString("entity_type",
			mcp.Required(),
			mcp.Description("Artifact kind: prd, task, design, document, test"),
		),
		mcp.WithString("entity_id",
			mcp.Required(),
			mcp.Description("ID of the linked artifact"),
		),
	)
}

// Handle processes the unlink_entity tool call.
func (t *UnlinkEntityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("project_id", "")
	entityType := req.GetString("entity_type", "")
	entityID := req.GetString("entity_id", "")

	if err := t.store.DeleteLink(projectID, entityType, entityID); err != nil {
		return storeErrResult("unlink_entity", err), nil
	}

	return mcp.NewToolResultText(
		fmt.Sprintf("Unlinked %s %s from project %s", entityType, entityID, projectID),
	), nil
}

// ─── UnlinkAllTool ───────────────────────────────────────────────────────────

// UnlinkAllTool handles the unlink_all MCP tool.
type UnlinkAllTool struct {
	store *store.Store
}

// NewUnlinkAllTool creates an UnlinkAllTool with the given store.
func NewUnlinkAllTool(s *store.Store) *UnlinkAllTool {
	return &UnlinkAllTool{store: s}
}

// Definition returns the MCP tool definition for unlink_all.
func (t *UnlinkAllTool) Definition() mcp.Tool {
	return mcp.NewTool("unlink_all",
		mcp.WithDescription("Remove every artifact link from a project. Returns the number of links removed."),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Project to unlink everything from"),
		),
	)
}

// Handle processes the unlink_all tool call.
func (t *UnlinkAllTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := req.GetString("project_id", "")
	if projectID == "" {
		return mcp.NewToolResultError("'project_id' is required"), nil
	}

	n, err := t.store.DeleteAllLinks(projectID)
	if err != nil {
		return storeErrResult("unlink_all", err), nil
	}

	return mcp.NewToolResultText(
		fmt.Sprintf("Removed %d link(s) from project %s", n, projectID),
	), nil
}

// ─── LinkDocumentTool ────────────────────────────────────────────────────────

// LinkDocumentTool handles the link_document MCP tool.
type LinkDocumentTool struct {
	store *store.Store
}

// NewLinkDocumentTool creates a LinkDocumentTool with the given store.
func NewLinkDocumentTool(s *store.Store) *LinkDocumentTool {
	return &LinkDocumentTool{store: s}
}

// Definition returns the MCP tool definition for link_document.
func (t *LinkDocumentTool) Definition() mcp.Tool {
	return mcp.NewTool("link_document",
		mcp.WithDescription(
			"Link a document to an artifact. Idempotent — repeating the same link is not an error, "+
				"the result says whether a new link was created.",
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("Document to link from"),
		),
		mcp.WithString("entity_type",
			mcp.Required(),
			mcp.Description("Artifact kind: prd, task, design, document, test"),
		),
		mcp.WithString("entity_id",
			mcp.Required(),
			mcp.Description("ID of the artifact to link"),
		),
		mcp.WithString("link_type",
			mcp.Description("Free-form link type (default: notes)"),
		),
	)
}

// Handle processes the link_document tool call.
func (t *LinkDocumentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	documentID := req.GetString("document_id", "")
	entityType := req.GetString("entity_type", "")
	entityID := req.GetString("entity_id", "")
	linkType := req.GetString("link_type", "")

	isNew, err := t.store.CreateDocumentLink(documentID, entityType, entityID, linkType)
	if err != nil {
		return storeErrResult("link_document", err), nil
	}

	if !isNew {
		return mcp.NewToolResultText(
			fmt.Sprintf("Document %s is already linked to %s %s", documentID, entityType, entityID),
		), nil
	}
	return mcp.NewToolResultText(
		fmt.Sprintf("Linked document %s to %s %s", documentID, entityType, entityID),
	), nil
}
