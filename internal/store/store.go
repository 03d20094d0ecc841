// Package store implements the relational engine behind Weave.
//
// It uses SQLite (modernc.org/sqlite, pure Go) to persist project
// artifacts — projects, requirements (PRDs), designs, tasks, tests,
// documents — together with the explicit polymorphic links between
// them. Relationship derivation and link management live in this
// package; graph construction and traversal classification are pure
// functions in internal/relgraph and consume this package's output.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ─── Types ───────────────────────────────────────────────────────────────────

// Project is the root artifact every link and requirement hangs off.
type Project struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

// Requirement is a PRD — the top of the specification chain.
type Requirement struct {
	ID        string  `json:"id"`
	ProjectID *string `json:"project_id,omitempty"`
	Title     string  `json:"title"`
	Summary   *string `json:"summary,omitempty"`
	Status    string  `json:"status"`
	Priority  *string `json:"priority,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// Design is a technical design that specifies a requirement.
type Design struct {
	ID            string  `json:"id"`
	RequirementID *string `json:"requirement_id,omitempty"`
	Title         string  `json:"title"`
	Summary       *string `json:"summary,omitempty"`
	Status        string  `json:"status"`
	Priority      *string `json:"priority,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// Task is a unit of work, optionally guided by a design and owned by a project.
type Task struct {
	ID        string  `json:"id"`
	ProjectID *string `json:"project_id,omitempty"`
	DesignID  *string `json:"design_id,omitempty"`
	Title     string  `json:"title"`
	Summary   *string `json:"summary,omitempty"`
	Status    string  `json:"status"`
	Priority  *string `json:"priority,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// Test validates a task.
type Test struct {
	ID                string  `json:"id"`
	TaskID            *string `json:"task_id,omitempty"`
	Title             string  `json:"title"`
	Summary           *string `json:"summary,omitempty"`
	Status            string  `json:"status"`
	Priority          *string `json:"priority,omitempty"`
	EstimatedDuration *string `json:"estimated_duration,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

// Document is free-standing documentation linkable to any artifact.
type Document struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Summary   *string `json:"summary,omitempty"`
	DocType   string  `json:"doc_type"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// TaskDependency is a directed prerequisite → dependent edge between tasks.
type TaskDependency struct {
	ID                 int64  `json:"id"`
	PrerequisiteTaskID string `json:"prerequisite_task_id"`
	DependentTaskID    string `json:"dependent_task_id"`
	CreatedAt          string `json:"created_at"`
}

// Counts holds per-kind artifact totals, straight counts from each table.
type Counts struct {
	Projects     int `json:"projects"`
	Requirements int `json:"requirements"`
	Designs      int `json:"designs"`
	Tasks        int `json:"tasks"`
	Tests        int `json:"tests"`
	Documents    int `json:"documents"`
}

// ─── Params ──────────────────────────────────────────────────────────────────

// CreateProjectParams holds the input for creating a project.
type CreateProjectParams struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// CreateRequirementParams holds the input for creating a PRD.
type CreateRequirementParams struct {
	ProjectID string `json:"project_id,omitempty"`
	Title     string `json:"title"`
	Summary   string `json:"summary,omitempty"`
	Status    string `json:"status,omitempty"`
	Priority  string `json:"priority,omitempty"`
}

// CreateDesignParams holds the input for creating a design.
type CreateDesignParams struct {
	RequirementID string `json:"requirement_id,omitempty"`
	Title         string `json:"title"`
	Summary       string `json:"summary,omitempty"`
	Status        string `json:"status,omitempty"`
	Priority      string `json:"priority,omitempty"`
}

// CreateTaskParams holds the input for creating a task.
type CreateTaskParams struct {
	ProjectID string `json:"project_id,omitempty"`
	DesignID  string `json:"design_id,omitempty"`
	Title     string `json:"title"`
	Summary   string `json:"summary,omitempty"`
	Status    string `json:"status,omitempty"`
	Priority  string `json:"priority,omitempty"`
}

// CreateTestParams holds the input for creating a test.
type CreateTestParams struct {
	TaskID            string `json:"task_id,omitempty"`
	Title             string `json:"title"`
	Summary           string `json:"summary,omitempty"`
	Status            string `json:"status,omitempty"`
	Priority          string `json:"priority,omitempty"`
	EstimatedDuration string `json:"estimated_duration,omitempty"`
}

// CreateDocumentParams holds the input for creating a document.
type CreateDocumentParams struct {
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
	DocType string `json:"doc_type,omitempty"`
	Status  string `json:"status,omitempty"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds store configuration.
type Config struct {
	DataDir string
}

// DefaultConfig returns the default configuration for the store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir: filepath.Join(home, ".weave"),
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the artifact tracker backed by SQLite.
//
// Every read recomputes from the database — the store holds no
// long-lived in-memory state, so concurrent readers are always safe
// and results reflect the store's contents at call time.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New creates a new Store with the given configuration.
// It creates the data directory if needed, opens SQLite with WAL mode,
// and runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "weave.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// SQLite performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("store: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS projects (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT,
			status      TEXT NOT NULL DEFAULT 'active',
			created_at  TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS requirements (
			id         TEXT PRIMARY KEY,
			project_id TEXT,
			title      TEXT NOT NULL,
			summary    TEXT,
			status     TEXT NOT NULL DEFAULT 'draft',
			priority   TEXT,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY (project_id) REFERENCES projects(id)
		);

		CREATE TABLE IF NOT EXISTS designs (
			id             TEXT PRIMARY KEY,
			requirement_id TEXT,
			title          TEXT NOT NULL,
			summary        TEXT,
			status         TEXT NOT NULL DEFAULT 'draft',
			priority       TEXT,
			created_at     TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id         TEXT PRIMARY KEY,
			project_id TEXT,
			design_id  TEXT,
			title      TEXT NOT NULL,
			summary    TEXT,
			status     TEXT NOT NULL DEFAULT 'pending',
			priority   TEXT,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS tests (
			id                 TEXT PRIMARY KEY,
			task_id            TEXT,
			title              TEXT NOT NULL,
			summary            TEXT,
			status             TEXT NOT NULL DEFAULT 'pending',
			priority           TEXT,
			estimated_duration TEXT,
			created_at         TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS documents (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			summary    TEXT,
			doc_type   TEXT NOT NULL DEFAULT 'general',
			status     TEXT NOT NULL DEFAULT 'draft',
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS task_dependencies (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			prerequisite_task_id TEXT NOT NULL,
			dependent_task_id    TEXT NOT NULL,
			created_at           TEXT NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY (prerequisite_task_id) REFERENCES tasks(id) ON DELETE CASCADE,
			FOREIGN KEY (dependent_task_id)    REFERENCES tasks(id) ON DELETE CASCADE
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_dep_unique ON task_dependencies(prerequisite_task_id, dependent_task_id);
		CREATE INDEX IF NOT EXISTS idx_dep_prereq    ON task_dependencies(prerequisite_task_id);
		CREATE INDEX IF NOT EXISTS idx_dep_dependent ON task_dependencies(dependent_task_id);

		CREATE INDEX IF NOT EXISTS idx_req_project  ON requirements(project_id);
		CREATE INDEX IF NOT EXISTS idx_design_req   ON designs(requirement_id);
		CREATE INDEX IF NOT EXISTS idx_task_project ON tasks(project_id);
		CREATE INDEX IF NOT EXISTS idx_task_design  ON tasks(design_id);
		CREATE INDEX IF NOT EXISTS idx_test_task    ON tests(task_id);

		CREATE TABLE IF NOT EXISTS project_links (
			id          TEXT PRIMARY KEY,
			project_id  TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			entity_id   TEXT NOT NULL,
			link_type   TEXT NOT NULL DEFAULT 'direct',
			created_at  TEXT NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_plink_unique ON project_links(project_id, entity_type, entity_id);
		CREATE INDEX IF NOT EXISTS idx_plink_project ON project_links(project_id);

		CREATE TABLE IF NOT EXISTS document_links (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id        TEXT NOT NULL,
			linked_entity_type TEXT NOT NULL,
			linked_entity_id   TEXT NOT NULL,
			link_type          TEXT NOT NULL DEFAULT 'notes',
			created_at         TEXT NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE
		);

		-- Uniqueness here only backs the INSERT OR IGNORE idempotence of
		-- document links; a replayed insert is not an error.
		CREATE UNIQUE INDEX IF NOT EXISTS idx_dlink_unique ON document_links(document_id, linked_entity_type, linked_entity_id);
		CREATE INDEX IF NOT EXISTS idx_dlink_document ON document_links(document_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// ─── Projects ────────────────────────────────────────────────────────────────

// CreateProject registers a new project and returns its id.
func (s *Store) CreateProject(p CreateProjectParams) (string, error) {
	if strings.TrimSpace(p.Name) == "" {
		return "", fmt.Errorf("store: project name is required: %w", ErrInvalidArgument)
	}
	id := uuid.NewString()
	status := p.Status
	if status == "" {
		status = "active"
	}
	_, err := s.db.Exec(
		`INSERT INTO projects (id, name, description, status) VALUES (?, ?, ?, ?)`,
		id, p.Name, nullableString(p.Description), status,
	)
	if err != nil {
		return "", fmt.Errorf("store: create project: %w", wrapStoreErr(err))
	}
	return id, nil
}

// GetProject retrieves a project by ID.
func (s *Store) GetProject(id string) (*Project, error) {
	row := s.db.QueryRow(
		`SELECT id, name, description, status, created_at FROM projects WHERE id = ?`, id,
	)
	var p Project
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("store: project %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("store: get project: %w", wrapStoreErr(err))
	}
	return &p, nil
}

// Projects returns all projects ordered by creation time.
func (s *Store) Projects() ([]Project, error) {
	rows, err := s.db.Query(
		`SELECT id, name, description, status, created_at FROM projects ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list projects: %w", wrapStoreErr(err))
	}
	defer func() { _ = rows.Close() }()

	var results []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// ─── Requirements ────────────────────────────────────────────────────────────

// CreateRequirement registers a new PRD and returns its id.
func (s *Store) CreateRequirement(p CreateRequirementParams) (string, error) {
	if strings.TrimSpace(p.Title) == "" {
		return "", fmt.Errorf("store: requirement title is required: %w", ErrInvalidArgument)
	}
	id := uuid.NewString()
	status := p.Status
	if status == "" {
		status = "draft"
	}
	_, err := s.db.Exec(
		`INSERT INTO requirements (id, project_id, title, summary, status, priority) VALUES (?, ?, ?, ?, ?, ?)`,
		id, nullableString(p.ProjectID), p.Title, nullableString(p.Summary), status, nullableString(p.Priority),
	)
	if err != nil {
		return "", fmt.Errorf("store: create requirement: %w", wrapStoreErr(err))
	}
	return id, nil
}

// GetRequirement retrieves a PRD by ID.
func (s *Store) GetRequirement(id string) (*Requirement, error) {
	row := s.db.QueryRow(
		`SELECT id, project_id, title, summary, status, priority, created_at FROM requirements WHERE id = ?`, id,
	)
	var r Requirement
	if err := row.Scan(&r.ID, &r.ProjectID, &r.Title, &r.Summary, &r.Status, &r.Priority, &r.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("store: requirement %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("store: get requirement: %w", wrapStoreErr(err))
	}
	return &r, nil
}

// ─── Designs ─────────────────────────────────────────────────────────────────

// CreateDesign registers a new design and returns its id.
func (s *Store) CreateDesign(p CreateDesignParams) (string, error) {
	if strings.TrimSpace(p.Title) == "" {
		return "", fmt.Errorf("store: design title is required: %w", ErrInvalidArgument)
	}
	id := uuid.NewString()
	status := p.Status
	if status == "" {
		status = "draft"
	}
	_, err := s.db.Exec(
		`INSERT INTO designs (id, requirement_id, title, summary, status, priority) VALUES (?, ?, ?, ?, ?, ?)`,
		id, nullableString(p.RequirementID), p.Title, nullableString(p.Summary), status, nullableString(p.Priority),
	)
	if err != nil {
		return "", fmt.Errorf("store: create design: %w", wrapStoreErr(err))
	}
	return id, nil
}

// ─── Tasks ───────────────────────────────────────────────────────────────────

// CreateTask registers a new task and returns its id.
func (s *Store) CreateTask(p CreateTaskParams) (string, error) {
	if strings.TrimSpace(p.Title) == "" {
		return "", fmt.Errorf("store: task title is required: %w", ErrInvalidArgument)
	}
	id := uuid.NewString()
	status := p.Status
	if status == "" {
		status = "pending"
	}
	_, err := s.db.Exec(
		`INSERT INTO tasks (id, project_id, design_id, title, summary, status, priority) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, nullableString(p.ProjectID), nullableString(p.DesignID), p.Title, nullableString(p.Summary), status, nullableString(p.Priority),
	)
	if err != nil {
		return "", fmt.Errorf("store: create task: %w", wrapStoreErr(err))
	}
	return id, nil
}

// GetTask retrieves a task by ID.
func (s *Store) GetTask(id string) (*Task, error) {
	row := s.db.QueryRow(
		`SELECT id, project_id, design_id, title, summary, status, priority, created_at FROM tasks WHERE id = ?`, id,
	)
	var t Task
	if err := row.Scan(&t.ID, &t.ProjectID, &t.DesignID, &t.Title, &t.Summary, &t.Status, &t.Priority, &t.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("store: task %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("store: get task: %w", wrapStoreErr(err))
	}
	return &t, nil
}

// UpdateTaskStatus moves a task to a new status.
func (s *Store) UpdateTaskStatus(id, status string) error {
	if strings.TrimSpace(status) == "" {
		return fmt.Errorf("store: status is required: %w", ErrInvalidArgument)
	}
	res, err := s.db.Exec(`UPDATE tasks SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("store: update task status: %w", wrapStoreErr(err))
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("store: task %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteTask removes a task together with its dependency edges.
// Both deletions happen in one transaction — a task is never left
// half-removed with dangling dependency rows.
func (s *Store) DeleteTask(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: delete task: begin tx: %w", wrapStoreErr(err))
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`DELETE FROM task_dependencies WHERE prerequisite_task_id = ? OR dependent_task_id = ?`, id, id,
	); err != nil {
		return fmt.Errorf("store: delete task dependencies: %w", wrapStoreErr(err))
	}

	res, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete task: %w", wrapStoreErr(err))
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("store: task %s: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: delete task: commit: %w", wrapStoreErr(err))
	}
	return nil
}

// AddTaskDependency records that prerequisite must complete before dependent.
func (s *Store) AddTaskDependency(prerequisiteID, dependentID string) (int64, error) {
	if prerequisiteID == "" || dependentID == "" {
		return 0, fmt.Errorf("store: both task ids are required: %w", ErrInvalidArgument)
	}
	if prerequisiteID == dependentID {
		return 0, fmt.Errorf("store: task %s cannot depend on itself: %w", dependentID, ErrInvalidArgument)
	}

	for _, id := range []string{prerequisiteID, dependentID} {
		if _, err := s.GetTask(id); err != nil {
			return 0, err
		}
	}

	res, err := s.db.Exec(
		`INSERT INTO task_dependencies (prerequisite_task_id, dependent_task_id) VALUES (?, ?)`,
		prerequisiteID, dependentID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("store: dependency %s → %s already exists: %w", prerequisiteID, dependentID, ErrConflict)
		}
		return 0, fmt.Errorf("store: add task dependency: %w", wrapStoreErr(err))
	}
	return res.LastInsertId()
}

// ─── Tests ───────────────────────────────────────────────────────────────────

// CreateTest registers a new test and returns its id.
func (s *Store) CreateTest(p CreateTestParams) (string, error) {
	if strings.TrimSpace(p.Title) == "" {
		return "", fmt.Errorf("store: test title is required: %w", ErrInvalidArgument)
	}
	id := uuid.NewString()
	status := p.Status
	if status == "" {
		status = "pending"
	}
	_, err := s.db.Exec(
		`INSERT INTO tests (id, task_id, title, summary, status, priority, estimated_duration) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, nullableString(p.TaskID), p.Title, nullableString(p.Summary), status, nullableString(p.Priority), nullableString(p.EstimatedDuration),
	)
	if err != nil {
		return "", fmt.Errorf("store: create test: %w", wrapStoreErr(err))
	}
	return id, nil
}

// ─── Documents ───────────────────────────────────────────────────────────────

// CreateDocument registers a new document and returns its id.
func (s *Store) CreateDocument(p CreateDocumentParams) (string, error) {
	if strings.TrimSpace(p.Title) == "" {
		return "", fmt.Errorf("store: document title is required: %w", ErrInvalidArgument)
	}
	id := uuid.NewString()
	docType := p.DocType
	if docType == "" {
		docType = "general"
	}
	status := p.Status
	if status == "" {
		status = "draft"
	}
	_, err := s.db.Exec(
		`INSERT INTO documents (id, title, summary, doc_type, status) VALUES (?, ?, ?, ?, ?)`,
		id, p.Title, nullableString(p.Summary), docType, status,
	)
	if err != nil {
		return "", fmt.Errorf("store: create document: %w", wrapStoreErr(err))
	}
	return id, nil
}

// ─── Counts ──────────────────────────────────────────────────────────────────

// ArtifactCounts returns per-kind artifact totals.
func (s *Store) ArtifactCounts() (Counts, error) {
	var c Counts
	for _, q := range []struct {
		table string
		dst   *int
	}{
		{"projects", &c.Projects},
		{"requirements", &c.Requirements},
		{"designs", &c.Designs},
		{"tasks", &c.Tasks},
		{"tests", &c.Tests},
		{"documents", &c.Documents},
	} {
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + q.table).Scan(q.dst); err != nil {
			return Counts{}, fmt.Errorf("store: count %s: %w", q.table, wrapStoreErr(err))
		}
	}
	return c, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// isUniqueViolation checks if an error is a SQLite UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
