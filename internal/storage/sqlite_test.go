//go:build sqlite

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/outbreaklab/epidemic-core/pkg/models"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	want := archivedRun("run-1", 1000)
	if err := store.SaveRun(ctx, want); err != nil {
		t.Fatalf("save run: %v", err)
	}

	got, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got.ID != want.ID || got.Status != want.Status || got.ScenarioYAML != want.ScenarioYAML {
		t.Fatalf("unexpected run: %+v", got)
	}
	if len(got.Results) != 1 || got.Results[0].Name != "uniform" {
		t.Fatalf("unexpected results: %+v", got.Results)
	}
	if got.Results[0].Mean == nil || got.Results[0].Mean.Trials != 2 {
		t.Fatalf("expected decoded mean series, got %+v", got.Results[0].Mean)
	}
}

func TestSQLiteStoreGetRunMissing(t *testing.T) {
	store := newTestSQLiteStore(t)
	if _, err := store.GetRun(context.Background(), "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestSQLiteStoreSaveRunUpserts(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	run := archivedRun("run-1", 1000)
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	run.Status = models.RunStatusCancelled
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run again: %v", err)
	}

	got, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got.Status != models.RunStatusCancelled {
		t.Fatalf("expected cancelled status, got %s", got.Status)
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected upsert to keep a single row, got %d", len(runs))
	}
}

func TestSQLiteStoreListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		if err := store.SaveRun(ctx, archivedRun(id, int64(1000+i))); err != nil {
			t.Fatalf("save run %s: %v", id, err)
		}
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-c" || runs[1].ID != "run-b" {
		t.Fatalf("unexpected listing: %+v", runs)
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	if err := store.SaveRun(context.Background(), archivedRun("run-1", 1000)); err == nil {
		t.Fatal("expected an error before Init")
	}
}
