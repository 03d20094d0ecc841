package store_test

import (
	"errors"
	"testing"

	"github.com/atelier-tools/weave/internal/store"
)

// ─── CreateLink ─────────────────────────────────────────────────────────────

func TestCreateLink_UnknownEntityType(t *testing.T) {
	s := newTestStore(t)
	pj := mkProject(t, s, "atlas")

	_, err := s.CreateLink(pj, "widget", "some-id", "")
	if !errors.Is(err, store.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestCreateLink_EmptyEntityID(t *testing.T) {
	s := newTestStore(t)
	pj := mkProject(t, s, "atlas")

	_, err := s.CreateLink(pj, store.EntityTask, "", "")
	if !errors.Is(err, store.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestCreateLink_MissingProject(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateLink("ghost", store.EntityTask, "task-1", "")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCreateLink_DuplicateIsConflict(t *testing.T) {
	s := newTestStore(t)
	pj := mkProject(t, s, "atlas")
	taskID := mkTask(t, s, store.CreateTaskParams{Title: "wire auth"})

	if _, err := s.CreateLink(pj, store.EntityTask, taskID, ""); err != nil {
		t.Fatalf("first link: %v", err)
	}

	_, err := s.CreateLink(pj, store.EntityTask, taskID, "related")
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("second link: error = %v, want ErrConflict", err)
	}

	// The store must still hold exactly one row, with the original link_type.
	buckets, err := s.ProjectLinks(pj)
	if err != nil {
		t.Fatal(err)
	}
	if len(buckets.Tasks) != 1 {
		t.Fatalf("tasks bucket len = %d, want 1", len(buckets.Tasks))
	}
	if buckets.Tasks[0].LinkType != "direct" {
		t.Errorf("LinkType = %q, want original %q", buckets.Tasks[0].LinkType, "direct")
	}
}

// ─── ProjectLinks ───────────────────────────────────────────────────────────

func TestProjectLinks_EmptyBucketsAlwaysPresent(t *testing.T) {
	s := newTestStore(t)
	pj := mkProject(t, s, "atlas")

	buckets, err := s.ProjectLinks(pj)
	if err != nil {
		t.Fatalf("ProjectLinks error: %v", err)
	}

	for name, b := range map[string][]store.LinkedEntity{
		"prds":      buckets.PRDs,
		"tasks":     buckets.Tasks,
		"designs":   buckets.Designs,
		"documents": buckets.Documents,
		"tests":     buckets.Tests,
	} {
		if b == nil {
			t.Errorf("bucket %s is nil, want empty list", name)
		}
		if len(b) != 0 {
			t.Errorf("bucket %s len = %d, want 0", name, len(b))
		}
	}
}

func TestProjectLinks_EnrichmentAndGrouping(t *testing.T) {
	s := newTestStore(t)
	pj := mkProject(t, s, "atlas")

	prdID, err := s.CreateRequirement(store.CreateRequirementParams{
		ProjectID: pj, Title: "Auth flows", Summary: "login + sessions", Priority: "high",
	})
	if err != nil {
		t.Fatal(err)
	}
	testID, err := s.CreateTest(store.CreateTestParams{
		Title: "login e2e", EstimatedDuration: "5m",
	})
	if err != nil {
		t.Fatal(err)
	}
	docID, err := s.CreateDocument(store.CreateDocumentParams{
		Title: "Auth runbook", DocType: "runbook",
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, link := range []struct{ typ, id string }{
		{store.EntityPRD, prdID},
		{store.EntityTest, testID},
		{store.EntityDocument, docID},
	} {
		if _, err := s.CreateLink(pj, link.typ, link.id, ""); err != nil {
			t.Fatalf("link %s: %v", link.typ, err)
		}
	}

	buckets, err := s.ProjectLinks(pj)
	if err != nil {
		t.Fatal(err)
	}

	if len(buckets.PRDs) != 1 || len(buckets.Tests) != 1 || len(buckets.Documents) != 1 {
		t.Fatalf("bucket sizes = prds:%d tests:%d documents:%d, want 1 each",
			len(buckets.PRDs), len(buckets.Tests), len(buckets.Documents))
	}

	prd := buckets.PRDs[0]
	if prd.Title != "Auth flows" || prd.Summary != "login + sessions" || prd.Priority != "high" {
		t.Errorf("prd enrichment = %+v", prd)
	}
	if prd.Status != "draft" {
		t.Errorf("prd Status = %q, want %q", prd.Status, "draft")
	}

	if got := buckets.Tests[0].EstimatedDuration; got != "5m" {
		t.Errorf("test EstimatedDuration = %q, want %q", got, "5m")
	}
	if got := buckets.Documents[0].DocType; got != "runbook" {
		t.Errorf("document DocType = %q, want %q", got, "runbook")
	}
}

func TestProjectLinks_DanglingTargetDegrades(t *testing.T) {
	s := newTestStore(t)
	pj := mkProject(t, s, "atlas")

	// Link to a task id that was never created. The read must still
	// return the link row, just without artifact metadata.
	if _, err := s.CreateLink(pj, store.EntityTask, "vanished-task", ""); err != nil {
		t.Fatalf("link: %v", err)
	}

	buckets, err := s.ProjectLinks(pj)
	if err != nil {
		t.Fatalf("ProjectLinks error: %v", err)
	}
	if len(buckets.Tasks) != 1 {
		t.Fatalf("tasks bucket len = %d, want 1", len(buckets.Tasks))
	}
	le := buckets.Tasks[0]
	if le.EntityID != "vanished-task" {
		t.Errorf("EntityID = %q", le.EntityID)
	}
	if le.Title != "" || le.Status != "" {
		t.Errorf("dangling link should carry no metadata, got %+v", le)
	}
}

// ─── DeleteLink / DeleteAllLinks ────────────────────────────────────────────

func TestDeleteLink(t *testing.T) {
	s := newTestStore(t)
	pj := mkProject(t, s, "atlas")
	if _, err := s.CreateLink(pj, store.EntityTask, "task-1", ""); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteLink(pj, store.EntityTask, "task-1"); err != nil {
		t.Fatalf("DeleteLink error: %v", err)
	}

	if err := s.DeleteLink(pj, store.EntityTask, "task-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: error = %v, want ErrNotFound", err)
	}
}

func TestDeleteAllLinks_CountAndEmptyBuckets(t *testing.T) {
	s := newTestStore(t)
	pj := mkProject(t, s, "atlas")
	other := mkProject(t, s, "zephyr")

	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.CreateLink(pj, store.EntityTask, id, ""); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.CreateLink(other, store.EntityTask, "a", ""); err != nil {
		t.Fatal(err)
	}

	n, err := s.DeleteAllLinks(pj)
	if err != nil {
		t.Fatalf("DeleteAllLinks error: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted = %d, want 3", n)
	}

	buckets, err := s.ProjectLinks(pj)
	if err != nil {
		t.Fatal(err)
	}
	total := len(buckets.PRDs) + len(buckets.Tasks) + len(buckets.Designs) + len(buckets.Documents) + len(buckets.Tests)
	if total != 0 {
		t.Errorf("links remain after DeleteAllLinks: %d", total)
	}

	// Other project's links untouched.
	otherBuckets, err := s.ProjectLinks(other)
	if err != nil {
		t.Fatal(err)
	}
	if len(otherBuckets.Tasks) != 1 {
		t.Errorf("other project lost its link")
	}

	// Deleting again is not an error; count is zero.
	n, err = s.DeleteAllLinks(pj)
	if err != nil {
		t.Fatalf("second DeleteAllLinks error: %v", err)
	}
	if n != 0 {
		t.Errorf("second delete count = %d, want 0", n)
	}
}

// ─── Document links ─────────────────────────────────────────────────────────

func TestCreateDocumentLink_Idempotent(t *testing.T) {
	s := newTestStore(t)
	docID, err := s.CreateDocument(store.CreateDocumentParams{Title: "Auth runbook"})
	if err != nil {
		t.Fatal(err)
	}

	isNew, err := s.CreateDocumentLink(docID, store.EntityTask, "task-1", "")
	if err != nil {
		t.Fatalf("first CreateDocumentLink error: %v", err)
	}
	if !isNew {
		t.Error("first link should report isNew = true")
	}

	isNew, err = s.CreateDocumentLink(docID, store.EntityTask, "task-1", "reference")
	if err != nil {
		t.Fatalf("replayed CreateDocumentLink error: %v", err)
	}
	if isNew {
		t.Error("replayed link should report isNew = false")
	}

	links, err := s.DocumentLinks(docID)
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 1 {
		t.Fatalf("document links = %d, want exactly 1", len(links))
	}
	if links[0].LinkType != "notes" {
		t.Errorf("LinkType = %q, want default %q", links[0].LinkType, "notes")
	}
}

func TestCreateDocumentLink_MissingDocument(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateDocumentLink("ghost-doc", store.EntityTask, "task-1", "")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCreateDocumentLink_UnknownEntityType(t *testing.T) {
	s := newTestStore(t)
	docID, err := s.CreateDocument(store.CreateDocumentParams{Title: "notes"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.CreateDocumentLink(docID, "widget", "x", "")
	if !errors.Is(err, store.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}
