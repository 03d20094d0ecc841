// Package relgraph turns derived relationship tuples into the
// visualization graph and classifies artifact linkage.
//
// Everything here is a pure function over tuples produced by
// internal/store — no database access, no retained state. The graph
// shows connectivity, not inventory: an artifact with zero
// relationships never appears as a node.
package relgraph

import (
	"github.com/atelier-tools/weave/internal/store"
)

// ─── Types ───────────────────────────────────────────────────────────────────

// Node is one deduplicated artifact in the visualization graph,
// keyed by "<type>_<id>".
type Node struct {
	Key    string `json:"key"`
	Type   string `json:"type"`
	ID     string `json:"id"`
	Label  string `json:"label"`
	Status string `json:"status"`
}

// Edge references two node keys and carries the relationship type.
// There is exactly one edge per relationship tuple.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"relationship_type"`
	Label  string `json:"relationship_label"`
}

// ProjectRef is the compact project listing returned alongside the graph.
type ProjectRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Stats summarizes the graph. Totals are straight table counts,
// independent of connectivity; connected counts are distinct artifact
// ids of each kind appearing at either end of any tuple. No derivation
// category produces document endpoints, so connected_documents stays
// zero until one does.
type Stats struct {
	TotalNodes       int `json:"total_nodes"`
	TotalEdges       int `json:"total_edges"`
	TotalProjects    int `json:"total_projects"`
	TotalPRDs        int `json:"total_prds"`
	TotalDesigns     int `json:"total_designs"`
	TotalTasks       int `json:"total_tasks"`
	TotalTests       int `json:"total_tests"`
	TotalDocuments   int `json:"total_documents"`
	ConnectedPRDs      int `json:"connected_prds"`
	ConnectedDesigns   int `json:"connected_designs"`
	ConnectedTasks     int `json:"connected_tasks"`
	ConnectedTests     int `json:"connected_tests"`
	ConnectedDocuments int `json:"connected_documents"`
}

// Graph is the full visualization payload.
type Graph struct {
	Nodes    []Node       `json:"nodes"`
	Edges    []Edge       `json:"edges"`
	Projects []ProjectRef `json:"projects"`
	Stats    Stats        `json:"stats"`
}

// ─── Construction ────────────────────────────────────────────────────────────

// NodeKey builds the graph key for an artifact.
func NodeKey(entityType, id string) string {
	return entityType + "_" + id
}

// Build constructs the deduplicated node set and edge list from the
// concatenated relationship tuples. First-seen wins for a node's
// label and status — every tuple referencing the same artifact
// carries identical metadata, so no reconciliation is needed.
func Build(tuples []store.RelationshipTuple, projects []store.Project, counts store.Counts) Graph {
	g := Empty()

	seen := make(map[string]bool, len(tuples)*2)
	connected := map[string]map[string]bool{
		store.EntityPRD:      {},
		store.EntityDesign:   {},
		store.EntityTask:     {},
		store.EntityTest:     {},
		store.EntityDocument: {},
	}

	addNode := func(entityType, id, label, status string) string {
		key := NodeKey(entityType, id)
		if !seen[key] {
			seen[key] = true
			g.Nodes = append(g.Nodes, Node{
				Key:    key,
				Type:   entityType,
				ID:     id,
				Label:  label,
				Status: status,
			})
		}
		if set, ok := connected[entityType]; ok {
			set[id] = true
		}
		return key
	}

	for _, t := range tuples {
		sourceKey := addNode(t.SourceType, t.SourceID, t.SourceLabel, t.SourceStatus)
		targetKey := addNode(t.TargetType, t.TargetID, t.TargetLabel, t.TargetStatus)
		g.Edges = append(g.Edges, Edge{
			Source: sourceKey,
			Target: targetKey,
			Type:   t.RelationshipType,
			Label:  t.RelationshipLabel,
		})
	}

	for _, p := range projects {
		g.Projects = append(g.Projects, ProjectRef{ID: p.ID, Name: p.Name, Status: p.Status})
	}

	g.Stats = Stats{
		TotalNodes:       len(g.Nodes),
		TotalEdges:       len(g.Edges),
		TotalProjects:    counts.Projects,
		TotalPRDs:        counts.Requirements,
		TotalDesigns:     counts.Designs,
		TotalTasks:       counts.Tasks,
		TotalTests:       counts.Tests,
		TotalDocuments:   counts.Documents,
		ConnectedPRDs:      len(connected[store.EntityPRD]),
		ConnectedDesigns:   len(connected[store.EntityDesign]),
		ConnectedTasks:     len(connected[store.EntityTask]),
		ConnectedTests:     len(connected[store.EntityTest]),
		ConnectedDocuments: len(connected[store.EntityDocument]),
	}

	return g
}

// Empty returns a well-shaped zero graph: empty arrays, zeroed stats.
// The graph view is advisory — when the store is unreachable, callers
// serve this instead of propagating the failure.
func Empty() Graph {
	return Graph{
		Nodes:    []Node{},
		Edges:    []Edge{},
		Projects: []ProjectRef{},
	}
}
