// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools/resources that depend on them.
// No business logic lives here — only wiring.
package server

import (
	"fmt"

	"github.com/atelier-tools/weave/internal/resources"
	"github.com/atelier-tools/weave/internal/store"
	"github.com/atelier-tools/weave/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools and
// resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the store's database
// connection and must be called on shutdown (typically via defer).
func New() (*server.MCPServer, func(), error) {
	st, err := store.New(store.DefaultConfig())
	if err != nil {
		return nil, noop, fmt.Errorf("opening store: %w", err)
	}
	cleanup := func() { _ = st.Close() }

	s := server.NewMCPServer(
		"weave",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Artifact write surface ---

	createProject := tools.NewCreateProjectTool(st)
	s.AddTool(createProject.Definition(), createProject.Handle)

	createRequirement := tools.NewCreateRequirementTool(st)
	s.AddTool(createRequirement.Definition(), createRequirement.Handle)

	createDesign := tools.NewCreateDesignTool(st)
	s.AddTool(createDesign.Definition(), createDesign.Handle)

	createTask := tools.NewCreateTaskTool(st)
	s.AddTool(createTask.Definition(), createTask.Handle)

	createTest := tools.NewCreateTestTool(st)
	s.AddTool(createTest.Definition(), createTest.Handle)

	createDocument := tools.NewCreateDocumentTool(st)
	s.AddTool(createDocument.Definition(), createDocument.Handle)

	addDependency := tools.NewAddTaskDependencyTool(st)
	s.AddTool(addDependency.Definition(), addDependency.Handle)

	updateTaskStatus := tools.NewUpdateTaskStatusTool(st)
	s.AddTool(updateTaskStatus.Definition(), updateTaskStatus.Handle)

	deleteTask := tools.NewDeleteTaskTool(st)
	s.AddTool(deleteTask.Definition(), deleteTask.Handle)

	// --- Link management ---

	linkEntity := tools.NewLinkEntityTool(st)
	s.AddTool(linkEntity.Definition(), linkEntity.Handle)

	projectLinks := tools.NewProjectLinksTool(st)
	s.AddTool(projectLinks.Definition(), projectLinks.Handle)

	unlinkEntity := tools.NewUnlinkEntityTool(st)
	s.AddTool(unlinkEntity.Definition(), unlinkEntity.Handle)

	unlinkAll := tools.NewUnlinkAllTool(st)
	s.AddTool(unlinkAll.Definition(), unlinkAll.Handle)

	linkDocument := tools.NewLinkDocumentTool(st)
	s.AddTool(linkDocument.Definition(), linkDocument.Handle)

	// --- Graph and traversal ---

	graphTool := tools.NewRelationshipGraphTool(st)
	s.AddTool(graphTool.Definition(), graphTool.Handle)

	prdTasks := tools.NewPRDTasksTool(st)
	s.AddTool(prdTasks.Definition(), prdTasks.Handle)

	prdDesigns := tools.NewPRDDesignsTool(st)
	s.AddTool(prdDesigns.Definition(), prdDesigns.Handle)

	overview := tools.NewOverviewTool(st)
	s.AddTool(overview.Definition(), overview.Handle)

	// --- Resources ---

	resourceHandler := resources.NewHandler(st)
	s.AddResource(resourceHandler.GraphResource(), resourceHandler.HandleGraph)

	return s, cleanup, nil
}

// noop is the cleanup function returned when there is nothing to clean up.
func noop() {}

// serverInstructions returns the usage guidance sent to MCP hosts.
func serverInstructions() string {
	return `Weave tracks project artifacts (projects, PRDs, designs, tasks, tests, documents) and the relationships between them.

Typical flow:
1. create_project, then create_requirement / create_design / create_task / create_test / create_document to register artifacts. Foreign keys (project_id, requirement_id, design_id, task_id) drive implicit relationships.
2. link_entity / link_document for explicit associations beyond the foreign keys.
3. relationship_graph for the full visualization graph; prd_tasks and prd_designs to trace a PRD's implementation with progress statistics.

The graph is recomputed from the database on every call — there is no cache to invalidate.`
}
