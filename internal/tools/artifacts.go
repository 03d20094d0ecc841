package tools

import (
	"context"
	"fmt"

	"github.com/atelier-tools/weave/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// The create tools are record-shaped: read arguments, insert, return
// the new id. All relationship intelligence lives in the store and
// relgraph packages.

// ─── CreateProjectTool ───────────────────────────────────────────────────────

// CreateProjectTool handles the create_project MCP tool.
type CreateProjectTool struct {
	store *store.Store
}

// NewCreateProjectTool creates a CreateProjectTool with the given store.
func NewCreateProjectTool(s *store.Store) *CreateProjectTool {
	return &CreateProjectTool{store: s}
}

// Definition returns the MCP tool definition for create_project.
func (t *CreateProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("create_project",
		mcp.WithDescription("Create a new project to track artifacts under."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Project name"),
		),
		mcp.WithString("description",
			mcp.Description("Optional project description"),
		),
		mcp.WithString("status",
			mcp.Description("Project status (default: active)"),
		),
	)
}

// Handle processes the create_project tool call.
func (t *CreateProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := t.store.CreateProject(store.CreateProjectParams{
		Name:        req.GetString("name", ""),
		Description: req.GetString("description", ""),
		Status:      req.GetString("status", ""),
	})
	if err != nil {
		return storeErrResult("create_project", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Project created\nID: %s", id)), nil
}

// ─── CreateRequirementTool ───────────────────────────────────────────────────

// CreateRequirementTool handles the create_requirement MCP tool.
type CreateRequirementTool struct {
	store *store.Store
}

// NewCreateRequirementTool creates a CreateRequirementTool with the given store.
func NewCreateRequirementTool(s *store.Store) *CreateRequirementTool {
	return &CreateRequirementTool{store: s}
}

// Definition returns the MCP tool definition for create_requirement.
func (t *CreateRequirementTool) Definition() mcp.Tool {
	return mcp.NewTool("create_requirement",
		mcp.WithDescription("Create a PRD (product requirements document), optionally owned by a project."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("PRD title"),
		),
		mcp.WithString("project_id",
			mcp.Description("Project this PRD belongs to"),
		),
		mcp.WithString("summary",
			mcp.Description("Short summary"),
		),
		mcp.WithString("status",
			mcp.Description("Status (default: draft)"),
		),
		mcp.WithString("priority",
			mcp.Description("Priority label, e.g. high/medium/low"),
		),
	)
}

// Handle processes the create_requirement tool call.
func (t *CreateRequirementTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := t.store.CreateRequirement(store.CreateRequirementParams{
		ProjectID: req.GetString("project_id", ""),
		Title:     req.GetString("title", ""),
		Summary:   req.GetString("summary", ""),
		Status:    req.GetString("status", ""),
		Priority:  req.GetString("priority", ""),
	})
	if err != nil {
		return storeErrResult("create_requirement", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("PRD created\nID: %s", id)), nil
}

// ─── CreateDesignTool ────────────────────────────────────────────────────────

// CreateDesignTool handles the create_design MCP tool.
type CreateDesignTool struct {
	store *store.Store
}

// NewCreateDesignTool creates a CreateDesignTool with the given store.
func NewCreateDesignTool(s *store.Store) *CreateDesignTool {
	return &CreateDesignTool{store: s}
}

// Definition returns the MCP tool definition for create_design.
func (t *CreateDesignTool) Definition() mcp.Tool {
	return mcp.NewTool("create_design",
		mcp.WithDescription("Create a technical design, optionally specifying a PRD (requirement_id drives the implicit PRD→Design relationship)."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Design title"),
		),
		mcp.WithString("requirement_id",
			mcp.Description("PRD this design specifies"),
		),
		mcp.WithString("summary",
			mcp.Description("Short summary"),
		),
		mcp.WithString("status",
			mcp.Description("Status (default: draft)"),
		),
		mcp.WithString("priority",
			mcp.Description("Priority label"),
		),
	)
}

// Handle processes the create_design tool call.
func (t *CreateDesignTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := t.store.CreateDesign(store.CreateDesignParams{
		RequirementID: req.GetString("requirement_id", ""),
		Title:         req.GetString("title", ""),
		Summary:       req.GetString("summary", ""),
		Status:        req.GetString("status", ""),
		Priority:      req.GetString("priority", ""),
	})
	if err != nil {
		return storeErrResult("create_design", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Design created\nID: %s", id)), nil
}

// ─── CreateTaskTool ──────────────────────────────────────────────────────────

// CreateTaskTool handles the create_task MCP tool.
type CreateTaskTool struct {
	store *store.Store
}

// NewCreateTaskTool creates a CreateTaskTool with the given store.
func NewCreateTaskTool(s *store.Store) *CreateTaskTool {
	return &CreateTaskTool{store: s}
}

// Definition returns the MCP tool definition for create_task.
func (t *CreateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("create_task",
		mcp.WithDescription("Create a task. project_id drives the implicit PRD→Task relationship, design_id the Design→Task one."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("project_id",
			mcp.Description("Project this task belongs to"),
		),
		mcp.WithString("design_id",
			mcp.Description("Design guiding this task"),
		),
		mcp.WithString("summary",
			mcp.Description("Short summary"),
		),
		mcp.WithString("status",
			mcp.Description("Status (default: pending)"),
		),
		mcp.WithString("priority",
			mcp.Description("Priority label"),
		),
	)
}

// Handle processes the create_task tool call.
func (t *CreateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := t.store.CreateTask(store.CreateTaskParams{
		ProjectID: req.GetString("project_id", ""),
		DesignID:  req.GetString("design_id", ""),
		Title:     req.GetString("title", ""),
		Summary:   req.GetString("summary", ""),
		Status:    req.GetString("status", ""),
		Priority:  req.GetString("priority", ""),
	})
	if err != nil {
		return storeErrResult("create_task", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task created\nID: %s", id)), nil
}

// ─── CreateTestTool ──────────────────────────────────────────────────────────

// CreateTestTool handles the create_test MCP tool.
type CreateTestTool struct {
	store *store.Store
}

// NewCreateTestTool creates a CreateTestTool with the given store.
func NewCreateTestTool(s *store.Store) *CreateTestTool {
	return &CreateTestTool{store: s}
}

// Definition returns the MCP tool definition for create_test.
func (t *CreateTestTool) Definition() mcp.Tool {
	return mcp.NewTool("create_test",
		mcp.WithDescription("Create a test validating a task (task_id drives the implicit Task→Test relationship)."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Test title"),
		),
		mcp.WithString("task_id",
			mcp.Description("Task this test validates"),
		),
		mcp.WithString("summary",
			mcp.Description("Short summary"),
		),
		mcp.WithString("status",
			mcp.Description("Status (default: pending)"),
		),
		mcp.WithString("priority",
			mcp.Description("Priority label"),
		),
		mcp.WithString("estimated_duration",
			mcp.Description("Estimated run duration, e.g. '5m'"),
		),
	)
}

// Handle processes the create_test tool call.
func (t *CreateTestTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := t.store.CreateTest(store.CreateTestParams{
		TaskID:            req.GetString("task_id", ""),
		Title:             req.GetString("title", ""),
		Summary:           req.GetString("summary", ""),
		Status:            req.GetString("status", ""),
		Priority:          req.GetString("priority", ""),
		EstimatedDuration: req.GetString("estimated_duration", ""),
	})
	if err != nil {
		return storeErrResult("create_test", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Test created\nID: %s", id)), nil
}

// ─── CreateDocumentTool ──────────────────────────────────────────────────────

// CreateDocumentTool handles the create_document MCP tool.
type CreateDocumentTool struct {
	store *store.Store
}

// NewCreateDocumentTool creates a CreateDocumentTool with the given store.
func NewCreateDocumentTool(s *store.Store) *CreateDocumentTool {
	return &CreateDocumentTool{store: s}
}

// Definition returns the MCP tool definition for create_document.
func (t *CreateDocumentTool) Definition() mcp.Tool {
	return mcp.NewTool("create_document",
		mcp.WithDescription("Create a document. Documents attach to artifacts with link_document."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Document title"),
		),
		mcp.WithString("summary",
			mcp.Description("Short summary"),
		),
		mcp.WithString("doc_type",
			mcp.Description("Document type, e.g. spec, notes, runbook (default: general)"),
		),
		mcp.WithString("status",
			mcp.Description("Status (default: draft)"),
		),
	)
}

// Handle processes the create_document tool call.
func (t *CreateDocumentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := t.store.CreateDocument(store.CreateDocumentParams{
		Title:   req.GetString("title", ""),
		Summary: req.GetString("summary", ""),
		DocType: req.GetString("doc_type", ""),
		Status:  req.GetString("status", ""),
	})
	if err != nil {
		return storeErrResult("create_document", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Document created\nID: %s", id)), nil
}

// ─── AddTaskDependencyTool ───────────────────────────────────────────────────

// AddTaskDependencyTool handles the add_task_dependency MCP tool.
type AddTaskDependencyTool struct {
	store *store.Store
}

// NewAddTaskDependencyTool creates an AddTaskDependencyTool with the given store.
func NewAddTaskDependencyTool(s *store.Store) *AddTaskDependencyTool {
	return &AddTaskDependencyTool{store: s}
}

// Definition returns the MCP tool definition for add_task_dependency.
func (t *AddTaskDependencyTool) Definition() mcp.Tool {
	return mcp.NewTool("add_task_dependency",
		mcp.WithDescription("Declare that one task must complete before another. Shows up in the graph as a depends_on edge from the prerequisite."),
		mcp.WithString("prerequisite_task_id",
			mcp.Required(),
			mcp.Description("Task that must finish first"),
		),
		mcp.WithString("dependent_task_id",
			mcp.Required(),
			mcp.Description("Task that waits on the prerequisite"),
		),
	)
}

// Handle processes the add_task_dependency tool call.
func (t *AddTaskDependencyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prereq := req.GetString("prerequisite_task_id", "")
	dependent := req.GetString("dependent_task_id", "")

	if _, err := t.store.AddTaskDependency(prereq, dependent); err != nil {
		return storeErrResult("add_task_dependency", err), nil
	}

	return mcp.NewToolResultText(
		fmt.Sprintf("Dependency recorded: %s must complete before %s", prereq, dependent),
	), nil
}

// ─── UpdateTaskStatusTool ────────────────────────────────────────────────────

// UpdateTaskStatusTool handles the update_task_status MCP tool.
type UpdateTaskStatusTool struct {
	store *store.Store
}

// NewUpdateTaskStatusTool creates an UpdateTaskStatusTool with the given store.
func NewUpdateTaskStatusTool(s *store.Store) *UpdateTaskStatusTool {
	return &UpdateTaskStatusTool{store: s}
}

// Definition returns the MCP tool definition for update_task_status.
func (t *UpdateTaskStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("update_task_status",
		mcp.WithDescription("Move a task to a new status. 'done' and 'completed' count toward PRD progress."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("Task to update"),
		),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("New status, e.g. pending, in_progress, done"),
		),
	)
}

// Handle processes the update_task_status tool call.
func (t *UpdateTaskStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID := req.GetString("task_id", "")
	status := req.GetString("status", "")

	if err := t.store.UpdateTaskStatus(taskID, status); err != nil {
		return storeErrResult("update_task_status", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Task %s moved to %s", taskID, status)), nil
}

// ─── DeleteTaskTool ──────────────────────────────────────────────────────────

// DeleteTaskTool handles the delete_task MCP tool.
type DeleteTaskTool struct {
	store *store.Store
}

// NewDeleteTaskTool creates a DeleteTaskTool with the given store.
func NewDeleteTaskTool(s *store.Store) *DeleteTaskTool {
	return &DeleteTaskTool{store: s}
}

// Definition returns the MCP tool definition for delete_task.
func (t *DeleteTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task and its dependency edges atomically."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("Task to delete"),
		),
	)
}

// Handle processes the delete_task tool call.
func (t *DeleteTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID := req.GetString("task_id", "")

	if err := t.store.DeleteTask(taskID); err != nil {
		return storeErrResult("delete_task", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Task %s deleted", taskID)), nil
}
