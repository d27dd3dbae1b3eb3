package epidemicd

import (
	"testing"

	"github.com/outbreaklab/epidemic-core/pkg/models"
)

func TestRunStoreCreateAndGet(t *testing.T) {
	store := NewRunStore()

	rec, err := store.Create("", &models.RunInput{ScenarioYAML: "name: x"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec == nil || rec.Run == nil {
		t.Fatalf("Create returned nil record/run")
	}
	if rec.Run.ID == "" {
		t.Fatalf("expected generated run id")
	}
	if rec.Run.Status != models.RunStatusPending {
		t.Fatalf("expected status pending, got %v", rec.Run.Status)
	}
	if rec.Run.CreatedAtUnixMs == 0 {
		t.Fatalf("expected created_at_unix_ms to be set")
	}

	got, ok := store.Get(rec.Run.ID)
	if !ok {
		t.Fatalf("expected run to exist")
	}
	if got.Run.ID != rec.Run.ID {
		t.Fatalf("expected same run id")
	}
}

func TestRunStoreCreateDuplicate(t *testing.T) {
	store := NewRunStore()
	_, err := store.Create("run-1", &models.RunInput{ScenarioYAML: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = store.Create("run-1", &models.RunInput{ScenarioYAML: "y"})
	if err == nil {
		t.Fatalf("expected duplicate error")
	}
}

func TestRunStoreSetStatusSetsTimestamps(t *testing.T) {
	store := NewRunStore()
	rec, err := store.Create("run-1", &models.RunInput{ScenarioYAML: "x"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if rec.Run.StartedAtUnixMs != 0 || rec.Run.EndedAtUnixMs != 0 {
		t.Fatalf("expected timestamps not set initially")
	}

	rec, err = store.SetStatus("run-1", models.RunStatusRunning, "")
	if err != nil {
		t.Fatalf("SetStatus running error: %v", err)
	}
	if rec.Run.StartedAtUnixMs == 0 {
		t.Fatalf("expected started_at_unix_ms set")
	}
	if rec.Run.EndedAtUnixMs != 0 {
		t.Fatalf("did not expect ended_at_unix_ms set for running")
	}

	rec, err = store.SetStatus("run-1", models.RunStatusCompleted, "")
	if err != nil {
		t.Fatalf("SetStatus completed error: %v", err)
	}
	if rec.Run.EndedAtUnixMs == 0 {
		t.Fatalf("expected ended_at_unix_ms set")
	}
}

func TestRunStoreSetStatusUnknownRun(t *testing.T) {
	store := NewRunStore()
	if _, err := store.SetStatus("ghost", models.RunStatusRunning, ""); err == nil {
		t.Fatalf("expected error for unknown run")
	}
}

func TestRunStoreTerminalStatusSticks(t *testing.T) {
	store := NewRunStore()
	if _, err := store.Create("run-1", &models.RunInput{ScenarioYAML: "x"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := store.SetStatus("run-1", models.RunStatusCancelled, ""); err != nil {
		t.Fatalf("SetStatus cancelled error: %v", err)
	}

	if _, err := store.SetStatus("run-1", models.RunStatusCompleted, ""); err == nil {
		t.Fatalf("expected settled run to refuse a new status")
	}
	rec, _ := store.Get("run-1")
	if rec.Run.Status != models.RunStatusCancelled {
		t.Fatalf("expected cancelled to stick, got %v", rec.Run.Status)
	}
}

func TestRunStoreSetResults(t *testing.T) {
	store := NewRunStore()
	_, err := store.Create("run-1", &models.RunInput{ScenarioYAML: "x"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	results := []models.ExperimentResult{{Name: "baseline"}}
	if err := store.SetResults("run-1", results); err != nil {
		t.Fatalf("SetResults error: %v", err)
	}

	rec, ok := store.Get("run-1")
	if !ok {
		t.Fatalf("expected run to exist")
	}
	if len(rec.Results) != 1 || rec.Results[0].Name != "baseline" {
		t.Fatalf("expected results to be stored, got %+v", rec.Results)
	}
}

func TestRunStoreSetName(t *testing.T) {
	store := NewRunStore()
	_, err := store.Create("run-1", &models.RunInput{ScenarioYAML: "x"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	store.SetName("run-1", "sweep")
	rec, ok := store.Get("run-1")
	if !ok || rec.Run.Name != "sweep" {
		t.Fatalf("expected scenario name to be recorded, got %+v", rec)
	}
}

func TestRunStoreListNewestFirst(t *testing.T) {
	store := NewRunStore()
	for _, id := range []string{"run-a", "run-b", "run-c"} {
		rec, err := store.Create(id, &models.RunInput{ScenarioYAML: "x"})
		if err != nil {
			t.Fatalf("Create error: %v", err)
		}
		if rec.Run.ID != id {
			t.Fatalf("expected id %s, got %s", id, rec.Run.ID)
		}
	}

	recs := store.List(2)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	// Created in the same millisecond the ids break the tie.
	first, second := recs[0].Run, recs[1].Run
	if first.CreatedAtUnixMs < second.CreatedAtUnixMs {
		t.Fatalf("expected newest first, got %d before %d", first.CreatedAtUnixMs, second.CreatedAtUnixMs)
	}
}

func TestRunStoreSnapshotsAreCopies(t *testing.T) {
	store := NewRunStore()
	rec, err := store.Create("run-1", &models.RunInput{ScenarioYAML: "x"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	rec.Run.Status = models.RunStatusFailed

	got, ok := store.Get("run-1")
	if !ok {
		t.Fatalf("expected run to exist")
	}
	if got.Run.Status != models.RunStatusPending {
		t.Fatalf("mutating a snapshot leaked into the store: %v", got.Run.Status)
	}
}
