// File path: internal/catalog/store_test.go
package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenWithConfig(Config{Path: filepath.Join(t.TempDir(), "catalog.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAnalysisLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.CreateAnalysis(ctx, Analysis{ID: "a1", RepoURL: "https://example.com/repo.git"})
	if err != nil {
		t.Fatalf("create analysis: %v", err)
	}
	if created.Status != StatusPending {
		t.Fatalf("expected pending status, got %q", created.Status)
	}

	if err := store.UpdateStatus(ctx, "a1", StatusRunning, ""); err != nil {
		t.Fatalf("update to running: %v", err)
	}
	if err := store.UpdateStatus(ctx, "a1", StatusFailed, "clone failed"); err != nil {
		t.Fatalf("update to failed: %v", err)
	}

	got, err := store.AnalysisByID(ctx, "a1")
	if err != nil {
		t.Fatalf("lookup analysis: %v", err)
	}
	if got.Status != StatusFailed || got.Error != "clone failed" {
		t.Fatalf("unexpected analysis: %+v", got)
	}

	// Moving back to a non-failed state clears the error message.
	if err := store.UpdateStatus(ctx, "a1", StatusCompleted, "stale"); err != nil {
		t.Fatalf("update to completed: %v", err)
	}
	got, err = store.AnalysisByID(ctx, "a1")
	if err != nil {
		t.Fatalf("lookup analysis: %v", err)
	}
	if got.Error != "" {
		t.Fatalf("error not cleared: %+v", got)
	}

	if err := store.UpdateStatus(ctx, "missing", StatusRunning, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.AnalysisByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAnalyses(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a1", "a2"} {
		if _, err := store.CreateAnalysis(ctx, Analysis{ID: id, RepoURL: "https://example.com/" + id}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	analyses, err := store.ListAnalyses(ctx)
	if err != nil {
		t.Fatalf("list analyses: %v", err)
	}
	if len(analyses) != 2 {
		t.Fatalf("expected 2 analyses, got %d", len(analyses))
	}
}

func TestSaveReportReplaces(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateAnalysis(ctx, Analysis{ID: "a1", RepoURL: "https://example.com/repo.git"}); err != nil {
		t.Fatalf("create analysis: %v", err)
	}
	if err := store.SaveReport(ctx, StoredReport{AnalysisID: "a1", Title: "first", Markdown: "# first"}); err != nil {
		t.Fatalf("save first report: %v", err)
	}
	if err := store.SaveReport(ctx, StoredReport{AnalysisID: "a1", Title: "second", Markdown: "# second", Payload: `{"title":"second"}`}); err != nil {
		t.Fatalf("save second report: %v", err)
	}

	rep, err := store.ReportForAnalysis(ctx, "a1")
	if err != nil {
		t.Fatalf("load report: %v", err)
	}
	if rep.Title != "second" || rep.Markdown != "# second" {
		t.Fatalf("report not replaced: %+v", rep)
	}

	if _, err := store.ReportForAnalysis(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
