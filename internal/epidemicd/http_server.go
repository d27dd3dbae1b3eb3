package epidemicd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/outbreaklab/epidemic-core/internal/render"
	"github.com/outbreaklab/epidemic-core/internal/storage"
	"github.com/outbreaklab/epidemic-core/pkg/logger"
	"github.com/outbreaklab/epidemic-core/pkg/models"
)

type HTTPServer struct {
	mux      *http.ServeMux
	store    *RunStore
	Executor *RunExecutor
	archive  storage.Store
}

// NewHTTPServer wires the REST surface over the registry, the executor
// and the optional archive store.
func NewHTTPServer(store *RunStore, executor *RunExecutor, archive storage.Store) *HTTPServer {
	s := &HTTPServer{
		mux:      http.NewServeMux(),
		store:    store,
		Executor: executor,
		archive:  archive,
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/v1/runs", s.handleRuns)
	s.mux.HandleFunc("/v1/runs/", s.handleRunByID)

	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.mux
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// handleRuns handles /v1/runs
func (s *HTTPServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateRun(w, r)
	case http.MethodGet:
		s.handleListRuns(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleRunByID handles /v1/runs/{id} and its sub-resources.
func (s *HTTPServer) handleRunByID(w http.ResponseWriter, r *http.Request) {
	// Parse path: /v1/runs/{id}, /v1/runs/{id}:stop, /v1/runs/{id}/results,
	// /v1/runs/{id}/export or /v1/runs/{id}/chart
	path := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
	if path == "" {
		s.writeError(w, http.StatusBadRequest, "run ID is required")
		return
	}

	if strings.HasSuffix(path, ":stop") {
		runID := strings.TrimSuffix(path, ":stop")
		if r.Method == http.MethodPost {
			s.handleStopRun(w, r, runID)
		} else {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if strings.HasSuffix(path, "/results") {
		runID := strings.TrimSuffix(path, "/results")
		if r.Method == http.MethodGet {
			s.handleGetResults(w, r, runID)
		} else {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if strings.HasSuffix(path, "/export") {
		runID := strings.TrimSuffix(path, "/export")
		if r.Method == http.MethodGet {
			s.handleExportRun(w, r, runID)
		} else {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if strings.HasSuffix(path, "/chart") {
		runID := strings.TrimSuffix(path, "/chart")
		if r.Method == http.MethodGet {
			s.handleChart(w, r, runID)
		} else {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if r.Method == http.MethodGet {
		s.handleGetRun(w, r, path)
	} else {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleCreateRun handles POST /v1/runs. Accepted runs start executing
// immediately.
func (s *HTTPServer) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RunID string           `json:"run_id,omitempty"`
		Input *models.RunInput `json:"input"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.Input == nil {
		s.writeError(w, http.StatusBadRequest, "input is required")
		return
	}
	if req.Input.ScenarioYAML == "" {
		s.writeError(w, http.StatusBadRequest, "scenario_yaml is required")
		return
	}

	rec, err := s.store.Create(req.RunID, req.Input)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			s.writeError(w, http.StatusConflict, err.Error())
		} else {
			s.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	started, err := s.Executor.Start(rec.Run.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("run created", "run_id", started.Run.ID)
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"run": started.Run,
	})
}

// handleListRuns handles GET /v1/runs
func (s *HTTPServer) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
			if limit > 1000 {
				limit = 1000
			}
		}
	}

	recs := s.store.List(limit)
	runs := make([]*models.Run, 0, len(recs))
	for _, rec := range recs {
		runs = append(runs, rec.Run)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"runs": runs,
		"pagination": map[string]any{
			"limit": limit,
			"count": len(runs),
		},
	})
}

// handleGetRun handles GET /v1/runs/{id}
func (s *HTTPServer) handleGetRun(w http.ResponseWriter, r *http.Request, runID string) {
	run, _, _, found, err := s.lookup(r.Context(), runID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"run": run,
	})
}

// handleStopRun handles POST /v1/runs/{id}:stop
func (s *HTTPServer) handleStopRun(w http.ResponseWriter, _ *http.Request, runID string) {
	updated, err := s.Executor.Stop(runID)
	if err != nil {
		switch {
		case errors.Is(err, ErrRunNotFound):
			s.writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrRunIDMissing):
			s.writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"run": updated.Run,
	})
}

// handleGetResults handles GET /v1/runs/{id}/results
func (s *HTTPServer) handleGetResults(w http.ResponseWriter, r *http.Request, runID string) {
	_, _, results, found, err := s.lookup(r.Context(), runID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if len(results) == 0 {
		s.writeError(w, http.StatusPreconditionFailed, "results not available")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"run_id":  runID,
		"results": results,
	})
}

// handleExportRun handles GET /v1/runs/{id}/export
func (s *HTTPServer) handleExportRun(w http.ResponseWriter, r *http.Request, runID string) {
	run, scenarioYAML, results, found, err := s.lookup(r.Context(), runID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", "json":
		export := map[string]any{
			"run": run,
			"input": map[string]any{
				"scenario_yaml": scenarioYAML,
			},
		}
		if len(results) > 0 {
			export["results"] = results
		}
		s.writeJSON(w, http.StatusOK, export)

	case "csv":
		if len(results) == 0 {
			s.writeError(w, http.StatusPreconditionFailed, "results not available")
			return
		}
		res, ok := pickExperiment(results, r.URL.Query().Get("experiment"))
		if !ok {
			s.writeError(w, http.StatusBadRequest, "experiment parameter does not match a result")
			return
		}

		var buf bytes.Buffer
		if err := render.WriteSeriesCSV(&buf, res.Mean); err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", runID+"-"+res.Name+".csv"))
		if _, err := w.Write(buf.Bytes()); err != nil {
			logger.Error("failed to write csv export", "run_id", runID, "error", err)
		}

	default:
		s.writeError(w, http.StatusBadRequest, "unsupported export format: "+format)
	}
}

// handleChart handles GET /v1/runs/{id}/chart. With an experiment
// parameter it renders that experiment's mean trajectories; without
// one it renders the infected comparison across experiments.
func (s *HTTPServer) handleChart(w http.ResponseWriter, r *http.Request, runID string) {
	_, _, results, found, err := s.lookup(r.Context(), runID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if len(results) == 0 {
		s.writeError(w, http.StatusPreconditionFailed, "results not available")
		return
	}

	var buf bytes.Buffer
	name := r.URL.Query().Get("experiment")
	if name == "" && len(results) > 1 {
		err = render.ComparisonPNG(&buf, "infected comparison", results)
	} else {
		res, ok := pickExperiment(results, name)
		if !ok {
			s.writeError(w, http.StatusBadRequest, "experiment parameter does not match a result")
			return
		}
		err = render.CurvePNG(&buf, res.Name, res.Mean)
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Error("failed to write chart", "run_id", runID, "error", err)
	}
}

// lookup resolves a run from the live registry, falling back to the
// archive store for runs that predate the daemon process.
func (s *HTTPServer) lookup(ctx context.Context, runID string) (*models.Run, string, []models.ExperimentResult, bool, error) {
	if rec, ok := s.store.Get(runID); ok {
		scenarioYAML := ""
		if rec.Input != nil {
			scenarioYAML = rec.Input.ScenarioYAML
		}
		return rec.Run, scenarioYAML, rec.Results, true, nil
	}

	if s.archive == nil {
		return nil, "", nil, false, nil
	}
	stored, err := s.archive.GetRun(ctx, runID)
	if err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			return nil, "", nil, false, nil
		}
		return nil, "", nil, false, err
	}

	run := &models.Run{
		ID:              stored.ID,
		Name:            stored.Name,
		Status:          stored.Status,
		CreatedAtUnixMs: stored.CreatedAtUnixMs,
		EndedAtUnixMs:   stored.EndedAtUnixMs,
		Error:           stored.Error,
	}
	return run, stored.ScenarioYAML, stored.Results, true, nil
}

// pickExperiment selects a result by name. An empty name selects the
// result only when there is exactly one.
func pickExperiment(results []models.ExperimentResult, name string) (models.ExperimentResult, bool) {
	if name == "" {
		if len(results) == 1 {
			return results[0], true
		}
		return models.ExperimentResult{}, false
	}
	for _, res := range results {
		if res.Name == name {
			return res, true
		}
	}
	return models.ExperimentResult{}, false
}

// Helper functions

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error": message,
	})
}
