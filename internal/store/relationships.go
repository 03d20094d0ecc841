package store

import (
	"database/sql"
	"fmt"
)

// ─── Types ───────────────────────────────────────────────────────────────────

// Relationship kinds derived from artifact foreign keys. These are
// never persisted — every read recomputes them from the tables.
const (
	RelSpecifies  = "specifies"  // PRD → Design
	RelGuides     = "guides"     // Design → Task
	RelValidates  = "validates"  // Task → Test
	RelImplements = "implements" // PRD → Task via shared project
	RelDependsOn  = "depends_on" // prerequisite Task → dependent Task
)

// relationshipLabels maps machine relationship types to display labels.
var relationshipLabels = map[string]string{
	RelSpecifies:  "specifies",
	RelGuides:     "guides",
	RelValidates:  "validates",
	RelImplements: "implements",
	RelDependsOn:  "depends on",
}

// RelationshipTuple is one derived edge between two artifacts. It
// carries enough metadata (label, status) for graph construction
// without a second lookup. Dangling foreign keys leave the missing
// side's label and status empty rather than dropping the tuple.
type RelationshipTuple struct {
	SourceType        string `json:"source_type"`
	SourceID          string `json:"source_id"`
	SourceLabel       string `json:"source_label"`
	SourceStatus      string `json:"source_status"`
	TargetType        string `json:"target_type"`
	TargetID          string `json:"target_id"`
	TargetLabel       string `json:"target_label"`
	TargetStatus      string `json:"target_status"`
	RelationshipType  string `json:"relationship_type"`
	RelationshipLabel string `json:"relationship_label"`
}

// ─── Derivation ──────────────────────────────────────────────────────────────

// Relationships derives every implicit relationship from the artifact
// tables and returns the five categories concatenated in fixed order:
// specifies, guides, validates, implements, depends_on. The order
// only matters for deterministic graph construction.
//
// Performs no writes and no caching; safe for concurrent readers.
func (s *Store) Relationships() ([]RelationshipTuple, error) {
	var all []RelationshipTuple
	for _, derive := range []func() ([]RelationshipTuple, error){
		s.deriveSpecifies,
		s.deriveGuides,
		s.deriveValidates,
		s.deriveImplements,
		s.deriveDependsOn,
	} {
		tuples, err := derive()
		if err != nil {
			return nil, err
		}
		all = append(all, tuples...)
	}
	return all, nil
}

// deriveSpecifies emits PRD → Design from designs.requirement_id.
// LEFT JOIN so a design pointing at a deleted PRD still yields a
// tuple with empty PRD metadata.
func (s *Store) deriveSpecifies() ([]RelationshipTuple, error) {
	return s.queryTuples(EntityPRD, EntityDesign, RelSpecifies, `
		SELECT d.requirement_id, r.title, r.status, d.id, d.title, d.status
		FROM designs d
		LEFT JOIN requirements r ON r.id = d.requirement_id
		WHERE d.requirement_id IS NOT NULL
		ORDER BY d.created_at, d.id
	`)
}

// deriveGuides emits Design → Task from tasks.design_id.
func (s *Store) deriveGuides() ([]RelationshipTuple, error) {
	return s.queryTuples(EntityDesign, EntityTask, RelGuides, `
		SELECT t.design_id, d.title, d.status, t.id, t.title, t.status
		FROM tasks t
		LEFT JOIN designs d ON d.id = t.design_id
		WHERE t.design_id IS NOT NULL
		ORDER BY t.created_at, t.id
	`)
}

// deriveValidates emits Task → Test from tests.task_id.
func (s *Store) deriveValidates() ([]RelationshipTuple, error) {
	return s.queryTuples(EntityTask, EntityTest, RelValidates, `
		SELECT ts.task_id, t.title, t.status, ts.id, ts.title, ts.status
		FROM tests ts
		LEFT JOIN tasks t ON t.id = ts.task_id
		WHERE ts.task_id IS NOT NULL
		ORDER BY ts.created_at, ts.id
	`)
}

// deriveImplements emits PRD → Task for every PRD/task pair sharing a
// project. This is deliberately N×M — a project with two PRDs and
// three tasks yields six tuples — and is not deduplicated against the
// more specific design chain.
func (s *Store) deriveImplements() ([]RelationshipTuple, error) {
	return s.queryTuples(EntityPRD, EntityTask, RelImplements, `
		SELECT r.id, r.title, r.status, t.id, t.title, t.status
		FROM requirements r
		JOIN tasks t ON t.project_id = r.project_id
		WHERE r.project_id IS NOT NULL AND t.project_id IS NOT NULL
		ORDER BY r.created_at, r.id, t.created_at, t.id
	`)
}

// deriveDependsOn emits prerequisite Task → dependent Task from the
// dependency table. The edge source is the prerequisite, consistent
// with "must finish before".
func (s *Store) deriveDependsOn() ([]RelationshipTuple, error) {
	return s.queryTuples(EntityTask, EntityTask, RelDependsOn, `
		SELECT td.prerequisite_task_id, p.title, p.status, td.dependent_task_id, d.title, d.status
		FROM task_dependencies td
		LEFT JOIN tasks p ON p.id = td.prerequisite_task_id
		LEFT JOIN tasks d ON d.id = td.dependent_task_id
		ORDER BY td.id
	`)
}

// queryTuples runs one derivation query. Every query returns the same
// six columns: source id, source title, source status, target id,
// target title, target status.
func (s *Store) queryTuples(sourceType, targetType, relType, query string) ([]RelationshipTuple, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("store: derive %s: %w", relType, wrapStoreErr(err))
	}
	defer func() { _ = rows.Close() }()

	var tuples []RelationshipTuple
	for rows.Next() {
		var srcID, tgtID string
		var srcLabel, srcStatus, tgtLabel, tgtStatus sql.NullString
		if err := rows.Scan(&srcID, &srcLabel, &srcStatus, &tgtID, &tgtLabel, &tgtStatus); err != nil {
			return nil, err
		}
		tuples = append(tuples, RelationshipTuple{
			SourceType:        sourceType,
			SourceID:          srcID,
			SourceLabel:       srcLabel.String,
			SourceStatus:      srcStatus.String,
			TargetType:        targetType,
			TargetID:          tgtID,
			TargetLabel:       tgtLabel.String,
			TargetStatus:      tgtStatus.String,
			RelationshipType:  relType,
			RelationshipLabel: relationshipLabels[relType],
		})
	}
	return tuples, rows.Err()
}

// ─── Direct lookups ──────────────────────────────────────────────────────────

// DesignsForPRD returns the designs that specify a PRD. Design sits
// one hop from the PRD, so there is no indirect notion here.
func (s *Store) DesignsForPRD(prdID string) ([]Design, error) {
	if _, err := s.GetRequirement(prdID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT id, requirement_id, title, summary, status, priority, created_at
		 FROM designs
		 WHERE requirement_id = ?
		 ORDER BY created_at, id`,
		prdID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: designs for prd: %w", wrapStoreErr(err))
	}
	defer func() { _ = rows.Close() }()

	results := []Design{}
	for rows.Next() {
		var d Design
		if err := rows.Scan(&d.ID, &d.RequirementID, &d.Title, &d.Summary, &d.Status, &d.Priority, &d.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, d)
	}
	return results, rows.Err()
}
