package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/outbreaklab/epidemic-core/internal/epidemic"
	"github.com/outbreaklab/epidemic-core/internal/experiment"
	"github.com/outbreaklab/epidemic-core/internal/render"
	"github.com/outbreaklab/epidemic-core/internal/storage"
	"github.com/outbreaklab/epidemic-core/pkg/config"
	"github.com/outbreaklab/epidemic-core/pkg/logger"
	"github.com/outbreaklab/epidemic-core/pkg/models"
	"github.com/outbreaklab/epidemic-core/pkg/utils"
)

func main() {
	os.Exit(run())
}

func run() int {
	var scenarioPath string
	var outDir string
	var logLevel string
	var archiveDB string

	flag.StringVar(&scenarioPath, "scenario", "", "path to the scenario YAML (required)")
	flag.StringVar(&outDir, "out", "out", "directory for charts, CSVs and animations")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.StringVar(&archiveDB, "archive-db", "", "sqlite database to archive the run into (requires a -tags sqlite build)")
	flag.Parse()

	logger.SetDefault(logger.NewText(logLevel, os.Stdout))

	if scenarioPath == "" {
		logger.Error("-scenario is required")
		flag.Usage()
		return 2
	}

	scenario, err := config.LoadScenario(scenarioPath)
	if err != nil {
		logger.Error("failed to load scenario", "path", scenarioPath, "error", err)
		return 2
	}

	experiments, err := experiment.FromScenario(scenario)
	if err != nil {
		logger.Error("invalid scenario", "error", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		logger.Error("failed to create output directory", "dir", outDir, "error", err)
		return 1
	}

	start := time.Now()
	runner := &experiment.Runner{}
	results, err := runner.Run(ctx, experiments)
	if err != nil {
		var violation *epidemic.InvariantViolation
		if errors.As(err, &violation) {
			logger.Error("population conservation violated", "error", err)
			return 1
		}
		if ctx.Err() != nil {
			logger.Error("run interrupted", "error", err)
			return 1
		}
		logger.Error("run failed", "error", err)
		return 1
	}

	if err := writeArtifacts(scenario, experiments, results, outDir); err != nil {
		logger.Error("failed to write artifacts", "error", err)
		return 1
	}

	if archiveDB != "" {
		if err := archiveRun(ctx, scenario, scenarioPath, results, archiveDB, start); err != nil {
			logger.Error("failed to archive run", "db", archiveDB, "error", err)
			return 1
		}
	}

	logger.Info("scenario completed", "scenario", scenario.Name,
		"experiments", len(results), "elapsed", time.Since(start), "out_dir", outDir)
	return 0
}

// writeFile creates path and hands the open file to fn, closing it
// afterwards and reporting whichever error came first.
func writeFile(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeArtifacts renders the artifacts the scenario's output block asks
// for: per-experiment curve charts and CSVs, the cross-experiment
// infected comparison, and the lattice spread animation.
func writeArtifacts(s *config.Scenario, experiments []experiment.Experiment, results []experiment.Result, outDir string) error {
	resultModels := make([]models.ExperimentResult, 0, len(results))
	for _, res := range results {
		resultModels = append(resultModels, res.Model())
	}

	for _, res := range results {
		if s.Output.Charts {
			path := filepath.Join(outDir, res.Name+".png")
			if err := writeFile(path, func(w io.Writer) error {
				return render.CurvePNG(w, res.Name, res.Mean)
			}); err != nil {
				return err
			}
			if len(res.Mean.Partitions) > 0 {
				villagePath := filepath.Join(outDir, res.Name+"-villages.png")
				if err := writeFile(villagePath, func(w io.Writer) error {
					return render.VillagePNG(w, res.Name+" villages", res.Mean)
				}); err != nil {
					return err
				}
			}
		}
		if s.Output.CSV {
			path := filepath.Join(outDir, res.Name+".csv")
			if err := writeFile(path, func(w io.Writer) error {
				return render.WriteSeriesCSV(w, res.Mean)
			}); err != nil {
				return err
			}
		}
	}

	if s.Output.Comparison && len(resultModels) > 1 {
		path := filepath.Join(outDir, "comparison.png")
		if err := writeFile(path, func(w io.Writer) error {
			return render.ComparisonPNG(w, s.Name, resultModels)
		}); err != nil {
			return err
		}
	}

	if s.Output.Animation != nil {
		if err := writeAnimation(experiments, s.Output.Animation, outDir); err != nil {
			return err
		}
	}
	return nil
}

// writeAnimation replays one trial of the named lattice experiment with
// a frame recorder attached and encodes the spread video.
func writeAnimation(experiments []experiment.Experiment, spec *config.Animation, outDir string) error {
	var target *experiment.Experiment
	for i := range experiments {
		if experiments[i].Name == spec.Experiment {
			target = &experiments[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("animation experiment %s not found", spec.Experiment)
	}
	if target.Params.Topology.Kind != epidemic.TopologyLattice {
		return fmt.Errorf("animation requires a lattice experiment, %s uses topology %s",
			target.Name, target.Params.Topology.Kind)
	}

	seed := target.BaseSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	trial, err := epidemic.NewTrial(target.Params, seed)
	if err != nil {
		return err
	}

	anim := render.NewLatticeAnimation(spec.CellPixels, spec.FPS)
	trial.OnStep = anim.ObserveStep
	if _, err := trial.Run(); err != nil {
		return err
	}

	path := filepath.Join(outDir, target.Name+"-spread.avi")
	if err := anim.WriteAVI(path); err != nil {
		return err
	}
	logger.Info("animation written", "path", path, "frames", anim.Frames())
	return nil
}

// archiveRun stores the finished batch in the same archive format the
// daemon uses, so episim runs show up in a daemon pointed at the same
// database.
func archiveRun(ctx context.Context, s *config.Scenario, scenarioPath string, results []experiment.Result, dbPath string, start time.Time) error {
	raw, err := os.ReadFile(scenarioPath)
	if err != nil {
		return fmt.Errorf("failed to read scenario file %s: %w", scenarioPath, err)
	}

	archive, err := storage.NewStore("sqlite", dbPath)
	if err != nil {
		return err
	}
	if err := archive.Init(ctx); err != nil {
		return err
	}
	defer func() {
		if err := storage.CloseIfSupported(archive); err != nil {
			logger.Error("archive close error", "error", err)
		}
	}()

	resultModels := make([]models.ExperimentResult, 0, len(results))
	for _, res := range results {
		resultModels = append(resultModels, res.Model())
	}

	stored := models.StoredRun{
		ID:              utils.GenerateRunID(),
		Name:            s.Name,
		Status:          models.RunStatusCompleted,
		ScenarioYAML:    string(raw),
		CreatedAtUnixMs: start.UTC().UnixMilli(),
		EndedAtUnixMs:   time.Now().UTC().UnixMilli(),
		Results:         resultModels,
	}
	if err := archive.SaveRun(ctx, stored); err != nil {
		return err
	}
	logger.Info("run archived", "run_id", stored.ID, "db", dbPath)
	return nil
}
