package relgraph_test

import (
	"testing"

	"github.com/atelier-tools/weave/internal/relgraph"
	"github.com/atelier-tools/weave/internal/store"
)

// tuple builds a RelationshipTuple with just the fields the graph cares about.
func tuple(relType, srcType, srcID, srcLabel, tgtType, tgtID, tgtLabel string) store.RelationshipTuple {
	return store.RelationshipTuple{
		SourceType:       srcType,
		SourceID:         srcID,
		SourceLabel:      srcLabel,
		TargetType:       tgtType,
		TargetID:         tgtID,
		TargetLabel:      tgtLabel,
		RelationshipType: relType,
	}
}

func TestNodeKey(t *testing.T) {
	if got := relgraph.NodeKey("prd", "p1"); got != "prd_p1" {
		t.Errorf("NodeKey = %q, want %q", got, "prd_p1")
	}
}

func TestBuild_DeduplicatesNodes(t *testing.T) {
	// The same design appears as target of one tuple and source of
	// another; the task appears twice as a target.
	tuples := []store.RelationshipTuple{
		tuple(store.RelSpecifies, store.EntityPRD, "p1", "PRD", store.EntityDesign, "d1", "Design"),
		tuple(store.RelGuides, store.EntityDesign, "d1", "Design", store.EntityTask, "t1", "Task"),
		tuple(store.RelImplements, store.EntityPRD, "p1", "PRD", store.EntityTask, "t1", "Task"),
	}

	g := relgraph.Build(tuples, nil, store.Counts{})

	if len(g.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3 (p1, d1, t1)", len(g.Nodes))
	}
	seen := map[string]bool{}
	for _, n := range g.Nodes {
		if seen[n.Key] {
			t.Errorf("duplicate node key %q", n.Key)
		}
		seen[n.Key] = true
	}

	// One edge per tuple, always.
	if len(g.Edges) != len(tuples) {
		t.Errorf("edges = %d, want %d", len(g.Edges), len(tuples))
	}
	if g.Edges[0].Source != "prd_p1" || g.Edges[0].Target != "design_d1" {
		t.Errorf("edge[0] = %s → %s", g.Edges[0].Source, g.Edges[0].Target)
	}
}

func TestBuild_FirstSeenWins(t *testing.T) {
	tuples := []store.RelationshipTuple{
		tuple(store.RelSpecifies, store.EntityPRD, "p1", "First label", store.EntityDesign, "d1", "Design"),
		tuple(store.RelImplements, store.EntityPRD, "p1", "Second label", store.EntityTask, "t1", "Task"),
	}

	g := relgraph.Build(tuples, nil, store.Counts{})

	for _, n := range g.Nodes {
		if n.Key == "prd_p1" && n.Label != "First label" {
			t.Errorf("node label = %q, want first-seen %q", n.Label, "First label")
		}
	}
}

func TestBuild_Stats(t *testing.T) {
	tuples := []store.RelationshipTuple{
		tuple(store.RelSpecifies, store.EntityPRD, "p1", "", store.EntityDesign, "d1", ""),
		tuple(store.RelGuides, store.EntityDesign, "d1", "", store.EntityTask, "t1", ""),
		tuple(store.RelGuides, store.EntityDesign, "d1", "", store.EntityTask, "t2", ""),
	}
	counts := store.Counts{Projects: 1, Requirements: 4, Designs: 2, Tasks: 5, Tests: 0, Documents: 3}
	projects := []store.Project{{ID: "pj1", Name: "atlas", Status: "active"}}

	g := relgraph.Build(tuples, projects, counts)

	s := g.Stats
	if s.TotalNodes != 4 || s.TotalEdges != 3 {
		t.Errorf("nodes/edges = %d/%d, want 4/3", s.TotalNodes, s.TotalEdges)
	}
	// Totals are table counts, independent of connectivity.
	if s.TotalPRDs != 4 || s.TotalDesigns != 2 || s.TotalTasks != 5 || s.TotalDocuments != 3 {
		t.Errorf("totals = %+v", s)
	}
	// Connected counts are distinct artifact ids appearing in tuples.
	if s.ConnectedPRDs != 1 || s.ConnectedDesigns != 1 || s.ConnectedTasks != 2 || s.ConnectedTests != 0 {
		t.Errorf("connected = prds:%d designs:%d tasks:%d tests:%d",
			s.ConnectedPRDs, s.ConnectedDesigns, s.ConnectedTasks, s.ConnectedTests)
	}
	// Documents never appear in derivation tuples, so their connected
	// count is zero even when the table is populated.
	if s.ConnectedDocuments != 0 {
		t.Errorf("ConnectedDocuments = %d, want 0", s.ConnectedDocuments)
	}

	if len(g.Projects) != 1 || g.Projects[0].Name != "atlas" {
		t.Errorf("projects = %+v", g.Projects)
	}
}

func TestBuild_NoTuples(t *testing.T) {
	g := relgraph.Build(nil, nil, store.Counts{Tasks: 7})

	// Isolated artifacts are invisible: totals count them, nodes don't.
	if len(g.Nodes) != 0 || len(g.Edges) != 0 {
		t.Errorf("nodes/edges = %d/%d, want 0/0", len(g.Nodes), len(g.Edges))
	}
	if g.Stats.TotalTasks != 7 {
		t.Errorf("TotalTasks = %d, want 7", g.Stats.TotalTasks)
	}
	if g.Stats.ConnectedTasks != 0 {
		t.Errorf("ConnectedTasks = %d, want 0", g.Stats.ConnectedTasks)
	}
}

func TestEmpty_WellShaped(t *testing.T) {
	g := relgraph.Empty()
	if g.Nodes == nil || g.Edges == nil || g.Projects == nil {
		t.Error("empty graph must use empty arrays, not nil")
	}
	if g.Stats != (relgraph.Stats{}) {
		t.Errorf("empty graph stats = %+v, want zero", g.Stats)
	}
}
