// Package epidemicd implements the scenario-run daemon: an in-memory
// run registry, an asynchronous executor with per-run cancellation,
// and the HTTP surface that exposes them.
package epidemicd

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/outbreaklab/epidemic-core/pkg/models"
	"github.com/outbreaklab/epidemic-core/pkg/utils"
)

// RunRecord pairs a run's metadata with its submitted input and, once
// the run finishes, its experiment results.
type RunRecord struct {
	Run     *models.Run
	Input   *models.RunInput
	Results []models.ExperimentResult
}

// snapshot copies the record so callers can read it without holding
// the store lock. Input and Results are never mutated after being set,
// so sharing them is safe.
func (r *RunRecord) snapshot() *RunRecord {
	run := *r.Run
	return &RunRecord{Run: &run, Input: r.Input, Results: r.Results}
}

// RunStore is the daemon's live run registry.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*RunRecord
}

func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*RunRecord),
	}
}

func nowUnixMs() int64 {
	return time.Now().UTC().UnixMilli()
}

func (s *RunStore) Create(runID string, input *models.RunInput) (*RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if runID == "" {
		runID = utils.GenerateRunID()
	}
	if _, exists := s.runs[runID]; exists {
		return nil, fmt.Errorf("run already exists: %s", runID)
	}

	rec := &RunRecord{
		Run: &models.Run{
			ID:              runID,
			Status:          models.RunStatusPending,
			CreatedAtUnixMs: nowUnixMs(),
		},
		Input: input,
	}
	s.runs[runID] = rec
	return rec.snapshot(), nil
}

func (s *RunStore) Get(runID string) (*RunRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.runs[runID]
	if !ok {
		return nil, false
	}
	return rec.snapshot(), true
}

// List returns runs newest first. A non-positive limit falls back to 50.
func (s *RunStore) List(limit int) []*RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	out := make([]*RunRecord, 0, len(s.runs))
	for _, rec := range s.runs {
		out = append(out, rec.snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Run.CreatedAtUnixMs != out[j].Run.CreatedAtUnixMs {
			return out[i].Run.CreatedAtUnixMs > out[j].Run.CreatedAtUnixMs
		}
		return out[i].Run.ID > out[j].Run.ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SetName records the scenario name once the input has been parsed.
func (s *RunStore) SetName(runID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.runs[runID]; ok {
		rec.Run.Name = name
	}
}

// SetStatus transitions a run and stamps the matching timestamp.
// Terminal statuses are sticky: a settled run refuses new statuses so
// a late completion cannot overwrite a cancellation, or vice versa.
func (s *RunStore) SetStatus(runID string, status models.RunStatus, errMsg string) (*RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if rec.Run.Status.Terminal() && status != rec.Run.Status {
		return nil, fmt.Errorf("run %s already settled as %s", runID, rec.Run.Status)
	}

	rec.Run.Status = status
	if errMsg != "" {
		rec.Run.Error = errMsg
	}

	switch status {
	case models.RunStatusRunning:
		if rec.Run.StartedAtUnixMs == 0 {
			rec.Run.StartedAtUnixMs = nowUnixMs()
		}
	case models.RunStatusCompleted, models.RunStatusFailed, models.RunStatusCancelled:
		rec.Run.EndedAtUnixMs = nowUnixMs()
	}

	return rec.snapshot(), nil
}

func (s *RunStore) SetResults(runID string, results []models.ExperimentResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return fmt.Errorf("run not found: %s", runID)
	}
	rec.Results = results
	return nil
}
