package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// ─── Types ───────────────────────────────────────────────────────────────────

// Entity kinds a project or document link may point at. Polymorphic
// links carry one of these tags plus the target's id; resolution to
// the concrete table goes through entityLookups, never ad hoc
// branching at call sites.
const (
	EntityPRD      = "prd"
	EntityTask     = "task"
	EntityDesign   = "design"
	EntityDocument = "document"
	EntityTest     = "test"
)

// Link is an explicit, user-created association between a project and
// an artifact. The (project_id, entity_type, entity_id) triple is
// unique; link_type is fixed at creation.
type Link struct {
	ID         string `json:"id"`
	ProjectID  string `json:"project_id"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	LinkType   string `json:"link_type"`
	CreatedAt  string `json:"created_at"`
}

// DocumentLink is an explicit association between a document and an
// artifact. Unlike project links, duplicates are tolerated by
// insert-or-ignore semantics rather than rejected.
type DocumentLink struct {
	ID         int64  `json:"id"`
	DocumentID string `json:"document_id"`
	EntityType string `json:"linked_entity_type"`
	EntityID   string `json:"linked_entity_id"`
	LinkType   string `json:"link_type"`
	CreatedAt  string `json:"created_at"`
}

// LinkedEntity is a link row enriched with the target artifact's
// metadata. When the target has been deleted out from under the link,
// the metadata fields stay empty and the row is still returned.
type LinkedEntity struct {
	LinkID            string `json:"link_id"`
	EntityType        string `json:"entity_type"`
	EntityID          string `json:"entity_id"`
	LinkType          string `json:"link_type"`
	LinkedAt          string `json:"linked_at"`
	Title             string `json:"title,omitempty"`
	Summary           string `json:"summary,omitempty"`
	Status            string `json:"status,omitempty"`
	Priority          string `json:"priority,omitempty"`
	DocType           string `json:"doc_type,omitempty"`
	EstimatedDuration string `json:"estimated_duration,omitempty"`
}

// LinkBuckets groups a project's links by entity kind. All five
// buckets are always present; an empty bucket is an empty list,
// never nil.
type LinkBuckets struct {
	PRDs      []LinkedEntity `json:"prds"`
	Tasks     []LinkedEntity `json:"tasks"`
	Designs   []LinkedEntity `json:"designs"`
	Documents []LinkedEntity `json:"documents"`
	Tests     []LinkedEntity `json:"tests"`
}

// entityLookups is the dispatch table resolving a polymorphic
// (entity_type, entity_id) pair to the concrete artifact's metadata.
// Columns: title, summary, status, priority, extra — where extra is
// doc_type for documents and estimated_duration for tests.
var entityLookups = map[string]string{
	EntityPRD:      `SELECT title, summary, status, priority, NULL FROM requirements WHERE id = ?`,
	EntityTask:     `SELECT title, summary, status, priority, NULL FROM tasks WHERE id = ?`,
	EntityDesign:   `SELECT title, summary, status, priority, NULL FROM designs WHERE id = ?`,
	EntityDocument: `SELECT title, summary, status, NULL, doc_type FROM documents WHERE id = ?`,
	EntityTest:     `SELECT title, summary, status, priority, estimated_duration FROM tests WHERE id = ?`,
}

// ─── Project links ───────────────────────────────────────────────────────────

// CreateLink records an explicit association between a project and an
// artifact. Duplicate triples are a conflict, not an upsert — the
// existing link keeps its original link_type. Returns the new link id.
func (s *Store) CreateLink(projectID, entityType, entityID, linkType string) (string, error) {
	if _, ok := entityLookups[entityType]; !ok {
		return "", fmt.Errorf("store: unknown entity type %q: %w", entityType, ErrInvalidArgument)
	}
	if projectID == "" || entityID == "" {
		return "", fmt.Errorf("store: project id and entity id are required: %w", ErrInvalidArgument)
	}
	if _, err := s.GetProject(projectID); err != nil {
		return "", err
	}
	if linkType == "" {
		linkType = "direct"
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO project_links (id, project_id, entity_type, entity_id, link_type) VALUES (?, ?, ?, ?, ?)`,
		id, projectID, entityType, entityID, linkType,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("store: link %s/%s for project %s: %w", entityType, entityID, projectID, ErrConflict)
		}
		return "", fmt.Errorf("store: create link: %w", wrapStoreErr(err))
	}
	return id, nil
}

// ProjectLinks returns every link for a project, grouped by entity
// kind and enriched with the target artifact's metadata. A link whose
// target no longer exists is returned with bare link fields only.
func (s *Store) ProjectLinks(projectID string) (*LinkBuckets, error) {
	rows, err := s.db.Query(
		`SELECT id, entity_type, entity_id, link_type, created_at
		 FROM project_links
		 WHERE project_id = ?
		 ORDER BY created_at, id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list links: %w", wrapStoreErr(err))
	}
	defer func() { _ = rows.Close() }()

	buckets := &LinkBuckets{
		PRDs:      []LinkedEntity{},
		Tasks:     []LinkedEntity{},
		Designs:   []LinkedEntity{},
		Documents: []LinkedEntity{},
		Tests:     []LinkedEntity{},
	}

	var links []LinkedEntity
	for rows.Next() {
		var le LinkedEntity
		if err := rows.Scan(&le.LinkID, &le.EntityType, &le.EntityID, &le.LinkType, &le.LinkedAt); err != nil {
			return nil, err
		}
		links = append(links, le)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, le := range links {
		s.enrichLink(&le)
		switch le.EntityType {
		case EntityPRD:
			buckets.PRDs = append(buckets.PRDs, le)
		case EntityTask:
			buckets.Tasks = append(buckets.Tasks, le)
		case EntityDesign:
			buckets.Designs = append(buckets.Designs, le)
		case EntityDocument:
			buckets.Documents = append(buckets.Documents, le)
		case EntityTest:
			buckets.Tests = append(buckets.Tests, le)
		}
	}

	return buckets, nil
}

// enrichLink fills artifact metadata on a link row via the dispatch
// table. A missing or unreadable target degrades to the bare link —
// the read never aborts for a dangling reference.
func (s *Store) enrichLink(le *LinkedEntity) {
	query, ok := entityLookups[le.EntityType]
	if !ok {
		return
	}

	var title string
	var summary, priority, extra sql.NullString
	var status string
	err := s.db.QueryRow(query, le.EntityID).Scan(&title, &summary, &status, &priority, &extra)
	if err != nil {
		return
	}

	le.Title = title
	le.Summary = summary.String
	le.Status = status
	le.Priority = priority.String
	switch le.EntityType {
	case EntityDocument:
		le.DocType = extra.String
	case EntityTest:
		le.EstimatedDuration = extra.String
	}
}

// DeleteLink removes exactly one link. Absent links are a NotFound.
func (s *Store) DeleteLink(projectID, entityType, entityID string) error {
	res, err := s.db.Exec(
		`DELETE FROM project_links WHERE project_id = ? AND entity_type = ? AND entity_id = ?`,
		projectID, entityType, entityID,
	)
	if err != nil {
		return fmt.Errorf("store: delete link: %w", wrapStoreErr(err))
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("store: link %s/%s for project %s: %w", entityType, entityID, projectID, ErrNotFound)
	}
	return nil
}

// DeleteAllLinks removes every link for the project and returns the
// count removed. Zero is a valid result, not an error.
func (s *Store) DeleteAllLinks(projectID string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM project_links WHERE project_id = ?`, projectID)
	if err != nil {
		return 0, fmt.Errorf("store: delete all links: %w", wrapStoreErr(err))
	}
	return res.RowsAffected()
}

// ─── Document links ──────────────────────────────────────────────────────────

// CreateDocumentLink associates a document with an artifact. Unlike
// project links this is insert-or-ignore: replaying the same link is
// not an error, and the return reports whether a new row was actually
// inserted so callers can tell "created" from "already existed".
func (s *Store) CreateDocumentLink(documentID, entityType, entityID, linkType string) (bool, error) {
	if _, ok := entityLookups[entityType]; !ok {
		return false, fmt.Errorf("store: unknown entity type %q: %w", entityType, ErrInvalidArgument)
	}
	if documentID == "" || entityID == "" {
		return false, fmt.Errorf("store: document id and entity id are required: %w", ErrInvalidArgument)
	}
	if linkType == "" {
		linkType = "notes"
	}

	var exists int
	if err := s.db.QueryRow(`SELECT 1 FROM documents WHERE id = ?`, documentID).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return false, fmt.Errorf("store: document %s: %w", documentID, ErrNotFound)
		}
		return false, fmt.Errorf("store: check document: %w", wrapStoreErr(err))
	}

	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO document_links (document_id, linked_entity_type, linked_entity_id, link_type)
		 VALUES (?, ?, ?, ?)`,
		documentID, entityType, entityID, linkType,
	)
	if err != nil {
		return false, fmt.Errorf("store: create document link: %w", wrapStoreErr(err))
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DocumentLinks returns every link rooted at a document.
func (s *Store) DocumentLinks(documentID string) ([]DocumentLink, error) {
	rows, err := s.db.Query(
		`SELECT id, document_id, linked_entity_type, linked_entity_id, link_type, created_at
		 FROM document_links
		 WHERE document_id = ?
		 ORDER BY created_at, id`,
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list document links: %w", wrapStoreErr(err))
	}
	defer func() { _ = rows.Close() }()

	results := []DocumentLink{}
	for rows.Next() {
		var dl DocumentLink
		if err := rows.Scan(&dl.ID, &dl.DocumentID, &dl.EntityType, &dl.EntityID, &dl.LinkType, &dl.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, dl)
	}
	return results, rows.Err()
}
