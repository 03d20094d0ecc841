package relgraph_test

import (
	"testing"

	"github.com/atelier-tools/weave/internal/relgraph"
	"github.com/atelier-tools/weave/internal/store"
)

// implementsTuple builds a PRD → task tuple via shared project.
func implementsTuple(prdID, taskID, title, status string) store.RelationshipTuple {
	return store.RelationshipTuple{
		SourceType:       store.EntityPRD,
		SourceID:         prdID,
		TargetType:       store.EntityTask,
		TargetID:         taskID,
		TargetLabel:      title,
		TargetStatus:     status,
		RelationshipType: store.RelImplements,
	}
}

func specifiesTuple(prdID, designID string) store.RelationshipTuple {
	return store.RelationshipTuple{
		SourceType:       store.EntityPRD,
		SourceID:         prdID,
		TargetType:       store.EntityDesign,
		TargetID:         designID,
		RelationshipType: store.RelSpecifies,
	}
}

func guidesTuple(designID, taskID, title, status string) store.RelationshipTuple {
	return store.RelationshipTuple{
		SourceType:       store.EntityDesign,
		SourceID:         designID,
		TargetType:       store.EntityTask,
		TargetID:         taskID,
		TargetLabel:      title,
		TargetStatus:     status,
		RelationshipType: store.RelGuides,
	}
}

func TestClassifyTasks_Empty(t *testing.T) {
	c := relgraph.ClassifyTasks("prd-1", nil)

	if c.Direct == nil || c.Indirect == nil || c.All == nil {
		t.Error("task lists must be empty arrays, not nil")
	}
	if c.Stats.Total != 0 {
		t.Errorf("Total = %d, want 0", c.Stats.Total)
	}
	// No division by zero: progress on an empty set is 0.
	if c.Stats.ProgressPercentage != 0 {
		t.Errorf("ProgressPercentage = %d, want 0", c.Stats.ProgressPercentage)
	}
}

func TestClassifyTasks_IndirectOnly(t *testing.T) {
	// The task belongs to a different project than the PRD, so no
	// implements tuple exists; it is reachable only via the design.
	tuples := []store.RelationshipTuple{
		specifiesTuple("prd-1", "design-1"),
		guidesTuple("design-1", "task-1", "wire sessions", "pending"),
	}

	c := relgraph.ClassifyTasks("prd-1", tuples)

	if len(c.Direct) != 0 {
		t.Errorf("direct = %d, want 0", len(c.Direct))
	}
	if len(c.Indirect) != 1 {
		t.Fatalf("indirect = %d, want 1", len(c.Indirect))
	}
	ref := c.Indirect[0]
	if ref.ID != "task-1" || ref.Classification != "indirect" {
		t.Errorf("indirect ref = %+v", ref)
	}
	if len(c.All) != 1 {
		t.Errorf("all = %d, want 1", len(c.All))
	}
}

func TestClassifyTasks_DirectWins(t *testing.T) {
	// task-1 is reachable both ways: same project as the PRD and via
	// the PRD's design. It must be classified direct, exactly once.
	tuples := []store.RelationshipTuple{
		implementsTuple("prd-1", "task-1", "wire sessions", "pending"),
		specifiesTuple("prd-1", "design-1"),
		guidesTuple("design-1", "task-1", "wire sessions", "pending"),
	}

	c := relgraph.ClassifyTasks("prd-1", tuples)

	if len(c.Direct) != 1 || len(c.Indirect) != 0 {
		t.Fatalf("direct/indirect = %d/%d, want 1/0", len(c.Direct), len(c.Indirect))
	}
	if len(c.All) != 1 {
		t.Errorf("all = %d, want 1 (no double counting)", len(c.All))
	}
	if c.Direct[0].Classification != "direct" {
		t.Errorf("classification = %q", c.Direct[0].Classification)
	}
}

func TestClassifyTasks_OtherPRDsIgnored(t *testing.T) {
	tuples := []store.RelationshipTuple{
		implementsTuple("prd-other", "task-1", "unrelated", "pending"),
		specifiesTuple("prd-other", "design-1"),
		guidesTuple("design-1", "task-2", "also unrelated", "pending"),
	}

	c := relgraph.ClassifyTasks("prd-1", tuples)

	if c.Stats.Total != 0 {
		t.Errorf("Total = %d, want 0 — tuples for other PRDs leaked in", c.Stats.Total)
	}
}

func TestClassifyTasks_DuplicateTuplesCollapse(t *testing.T) {
	// Two implements tuples for the same task (as produced when seed
	// data repeats) still yield one task entry.
	tuples := []store.RelationshipTuple{
		implementsTuple("prd-1", "task-1", "wire sessions", "pending"),
		implementsTuple("prd-1", "task-1", "wire sessions", "pending"),
	}

	c := relgraph.ClassifyTasks("prd-1", tuples)

	if len(c.Direct) != 1 || c.Stats.Total != 1 {
		t.Errorf("direct/total = %d/%d, want 1/1", len(c.Direct), c.Stats.Total)
	}
}

func TestClassifyTasks_Progress(t *testing.T) {
	tuples := []store.RelationshipTuple{
		implementsTuple("prd-1", "t1", "a", "done"),
		implementsTuple("prd-1", "t2", "b", "Completed"), // case-insensitive
		implementsTuple("prd-1", "t3", "c", "in_progress"),
	}

	c := relgraph.ClassifyTasks("prd-1", tuples)

	if c.Stats.Completed != 2 {
		t.Errorf("Completed = %d, want 2", c.Stats.Completed)
	}
	// 2/3 rounds to 67, not truncates to 66.
	if c.Stats.ProgressPercentage != 67 {
		t.Errorf("ProgressPercentage = %d, want 67", c.Stats.ProgressPercentage)
	}
	if c.Stats.DirectCount != 3 || c.Stats.IndirectCount != 0 {
		t.Errorf("counts = %d/%d", c.Stats.DirectCount, c.Stats.IndirectCount)
	}
}
