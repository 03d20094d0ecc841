package relgraph

import (
	"math"
	"strings"

	"github.com/atelier-tools/weave/internal/store"
)

// ─── Types ───────────────────────────────────────────────────────────────────

// TaskRef is a task reachable from a PRD, with its classification.
type TaskRef struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Status         string `json:"status"`
	Classification string `json:"classification"` // "direct" or "indirect"
}

// TaskStats aggregates completion over the reachable task set.
type TaskStats struct {
	Total              int `json:"total"`
	DirectCount        int `json:"direct_count"`
	IndirectCount      int `json:"indirect_count"`
	Completed          int `json:"completed"`
	ProgressPercentage int `json:"progress_percentage"`
}

// TaskClassification is the full traversal result for one PRD.
type TaskClassification struct {
	Direct   []TaskRef `json:"direct"`
	Indirect []TaskRef `json:"indirect"`
	All      []TaskRef `json:"all"`
	Stats    TaskStats `json:"stats"`
}

// ─── Classification ──────────────────────────────────────────────────────────

// ClassifyTasks walks the relationship tuples and classifies every
// task reachable from the PRD:
//
//   - direct: the task shares the PRD's project (an "implements" tuple).
//   - indirect: reachable only through the design chain — the PRD
//     specifies a design that guides the task — without sharing the
//     PRD's project.
//
// A task reachable both ways is direct; shared project is the
// stronger ownership signal. Each task appears exactly once.
func ClassifyTasks(prdID string, tuples []store.RelationshipTuple) TaskClassification {
	result := TaskClassification{
		Direct:   []TaskRef{},
		Indirect: []TaskRef{},
		All:      []TaskRef{},
	}

	direct := map[string]bool{}
	for _, t := range tuples {
		if t.RelationshipType != store.RelImplements || t.SourceID != prdID {
			continue
		}
		if direct[t.TargetID] {
			continue
		}
		direct[t.TargetID] = true
		result.Direct = append(result.Direct, TaskRef{
			ID:             t.TargetID,
			Title:          t.TargetLabel,
			Status:         t.TargetStatus,
			Classification: "direct",
		})
	}

	// Designs this PRD specifies, then tasks those designs guide.
	designs := map[string]bool{}
	for _, t := range tuples {
		if t.RelationshipType == store.RelSpecifies && t.SourceID == prdID {
			designs[t.TargetID] = true
		}
	}

	indirect := map[string]bool{}
	for _, t := range tuples {
		if t.RelationshipType != store.RelGuides || !designs[t.SourceID] {
			continue
		}
		if direct[t.TargetID] || indirect[t.TargetID] {
			continue
		}
		indirect[t.TargetID] = true
		result.Indirect = append(result.Indirect, TaskRef{
			ID:             t.TargetID,
			Title:          t.TargetLabel,
			Status:         t.TargetStatus,
			Classification: "indirect",
		})
	}

	result.All = append(result.All, result.Direct...)
	result.All = append(result.All, result.Indirect...)

	completed := 0
	for _, ref := range result.All {
		if isCompletedStatus(ref.Status) {
			completed++
		}
	}

	total := len(result.All)
	result.Stats = TaskStats{
		Total:         total,
		DirectCount:   len(result.Direct),
		IndirectCount: len(result.Indirect),
		Completed:     completed,
	}
	if total > 0 {
		result.Stats.ProgressPercentage = int(math.Round(100 * float64(completed) / float64(total)))
	}

	return result
}

// isCompletedStatus reports whether a task status counts toward progress.
func isCompletedStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "done", "completed":
		return true
	}
	return false
}
