package epidemicd

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/outbreaklab/epidemic-core/internal/experiment"
	"github.com/outbreaklab/epidemic-core/internal/storage"
	"github.com/outbreaklab/epidemic-core/pkg/config"
	"github.com/outbreaklab/epidemic-core/pkg/logger"
	"github.com/outbreaklab/epidemic-core/pkg/models"
)

var (
	ErrRunNotFound  = errors.New("run not found")
	ErrRunTerminal  = errors.New("run is terminal")
	ErrRunIDMissing = errors.New("run_id is required")
)

// RunExecutor manages asynchronous run execution and per-run
// cancellation. Terminal runs are copied into the archive store when
// one is configured.
type RunExecutor struct {
	store   *RunStore
	archive storage.Store

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewRunExecutor builds an executor over the live registry. archive
// may be nil, in which case finished runs only live in the registry.
func NewRunExecutor(store *RunStore, archive storage.Store) *RunExecutor {
	return &RunExecutor{
		store:   store,
		archive: archive,
		cancels: make(map[string]context.CancelFunc),
	}
}

// Start begins executing a run asynchronously. Returns the updated run
// state (running) or an error.
func (e *RunExecutor) Start(runID string) (*RunRecord, error) {
	if runID == "" {
		return nil, ErrRunIDMissing
	}

	rec, ok := e.store.Get(runID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	switch rec.Run.Status {
	case models.RunStatusRunning:
		return rec, nil
	case models.RunStatusCompleted, models.RunStatusFailed, models.RunStatusCancelled:
		return nil, fmt.Errorf("%w: %s", ErrRunTerminal, runID)
	}

	updated, err := e.store.SetStatus(runID, models.RunStatusRunning, "")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	if old, exists := e.cancels[runID]; exists {
		old()
	}
	e.cancels[runID] = cancel
	e.mu.Unlock()

	go e.runScenario(ctx, runID)
	return updated, nil
}

// Stop requests cancellation for a run and marks it cancelled. Stopping
// a run that already settled returns its record unchanged.
func (e *RunExecutor) Stop(runID string) (*RunRecord, error) {
	if runID == "" {
		return nil, ErrRunIDMissing
	}

	rec, ok := e.store.Get(runID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if rec.Run.Status.Terminal() {
		return rec, nil
	}

	e.mu.Lock()
	cancel, ok := e.cancels[runID]
	e.mu.Unlock()
	if ok {
		cancel()
	}

	updated, err := e.store.SetStatus(runID, models.RunStatusCancelled, "")
	if err != nil {
		// The run settled between the terminal check and here.
		if rec, ok := e.store.Get(runID); ok {
			return rec, nil
		}
		return nil, err
	}
	logger.Info("run cancelled", "run_id", runID)
	e.archiveRun(runID)
	return updated, nil
}

func (e *RunExecutor) cleanup(runID string) {
	e.mu.Lock()
	if cancel, ok := e.cancels[runID]; ok {
		cancel()
		delete(e.cancels, runID)
	}
	e.mu.Unlock()
}

func (e *RunExecutor) runScenario(ctx context.Context, runID string) {
	defer e.cleanup(runID)

	rec, ok := e.store.Get(runID)
	if !ok {
		logger.Error("run not found", "run_id", runID)
		return
	}
	if rec.Input == nil {
		e.fail(runID, "run input is missing")
		return
	}

	scenario, err := config.ParseScenarioYAMLString(rec.Input.ScenarioYAML)
	if err != nil {
		e.fail(runID, fmt.Sprintf("invalid scenario: %v", err))
		return
	}
	e.store.SetName(runID, scenario.Name)

	experiments, err := experiment.FromScenario(scenario)
	if err != nil {
		e.fail(runID, err.Error())
		return
	}

	logger.Info("run starting", "run_id", runID, "scenario", scenario.Name, "experiments", len(experiments))

	runner := &experiment.Runner{}
	results, err := runner.Run(ctx, experiments)
	if err != nil {
		if ctx.Err() != nil {
			// Stop already set the cancelled status and archived.
			logger.Info("run interrupted", "run_id", runID)
			return
		}
		e.fail(runID, err.Error())
		return
	}

	out := make([]models.ExperimentResult, 0, len(results))
	for _, res := range results {
		out = append(out, res.Model())
	}
	if err := e.store.SetResults(runID, out); err != nil {
		logger.Error("failed to set results", "run_id", runID, "error", err)
	}

	// Mark as completed only if Stop didn't settle the run first.
	rec, ok = e.store.Get(runID)
	if ok && rec.Run.Status == models.RunStatusRunning {
		if _, err := e.store.SetStatus(runID, models.RunStatusCompleted, ""); err != nil {
			logger.Error("failed to set completed status", "run_id", runID, "error", err)
		} else {
			logger.Info("run completed", "run_id", runID, "experiments", len(out))
		}
	}
	e.archiveRun(runID)
}

func (e *RunExecutor) fail(runID, msg string) {
	logger.Error("run failed", "run_id", runID, "error", msg)
	if _, err := e.store.SetStatus(runID, models.RunStatusFailed, msg); err != nil {
		logger.Error("failed to set failed status", "run_id", runID, "error", err)
	}
	e.archiveRun(runID)
}

// archiveRun copies a settled run into the archive store.
func (e *RunExecutor) archiveRun(runID string) {
	if e.archive == nil {
		return
	}
	rec, ok := e.store.Get(runID)
	if !ok || !rec.Run.Status.Terminal() {
		return
	}

	stored := models.StoredRun{
		ID:              rec.Run.ID,
		Name:            rec.Run.Name,
		Status:          rec.Run.Status,
		Error:           rec.Run.Error,
		CreatedAtUnixMs: rec.Run.CreatedAtUnixMs,
		EndedAtUnixMs:   rec.Run.EndedAtUnixMs,
		Results:         rec.Results,
	}
	if rec.Input != nil {
		stored.ScenarioYAML = rec.Input.ScenarioYAML
	}
	if err := e.archive.SaveRun(context.Background(), stored); err != nil {
		logger.Error("failed to archive run", "run_id", runID, "error", err)
	}
}
