package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/outbreaklab/epidemic-core/internal/epidemic"
	"github.com/outbreaklab/epidemic-core/internal/metrics"
	"github.com/outbreaklab/epidemic-core/pkg/config"
	"github.com/outbreaklab/epidemic-core/pkg/logger"
	"github.com/outbreaklab/epidemic-core/pkg/models"
)

// Result captures one experiment's ensemble outcome.
type Result struct {
	Name    string
	Params  epidemic.Params
	Mean    *models.MeanTimeSeries
	Summary models.MeanSummary
	Elapsed time.Duration
}

// Model converts the result to its wire/storage form.
func (r Result) Model() models.ExperimentResult {
	return models.ExperimentResult{
		Name:    r.Name,
		Mean:    r.Mean,
		Summary: r.Summary,
	}
}

// Runner executes experiments in scenario order. Trials inside each
// ensemble run in parallel; the experiments themselves run sequentially
// so logs and results keep a stable order.
type Runner struct {
	// OnResult, when set, observes each result as its experiment
	// completes, before the next one starts.
	OnResult func(Result)
}

// Run executes every experiment and returns their results. The first
// failure aborts the remaining experiments.
func (r *Runner) Run(ctx context.Context, experiments []Experiment) ([]Result, error) {
	results := make([]Result, 0, len(experiments))
	for _, exp := range experiments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger.Info("experiment starting",
			"experiment", exp.Name,
			"topology", string(exp.Params.Topology.Kind),
			"agents", exp.Params.PopulationSize(),
			"trials", exp.Trials,
			"steps", exp.Params.Steps)

		start := time.Now()
		ensemble := &epidemic.Ensemble{
			Params:   exp.Params,
			Trials:   exp.Trials,
			Workers:  exp.Workers,
			BaseSeed: exp.BaseSeed,
		}
		mean, err := ensemble.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("experiment %s: %w", exp.Name, err)
		}

		result := Result{
			Name:    exp.Name,
			Params:  exp.Params,
			Mean:    mean,
			Summary: metrics.SummarizeMean(mean),
			Elapsed: time.Since(start),
		}
		logger.Info("experiment completed",
			"experiment", exp.Name,
			"elapsed", result.Elapsed.String(),
			"peak_infected", result.Summary.PeakInfected,
			"attack_rate", result.Summary.AttackRate)

		if r.OnResult != nil {
			r.OnResult(result)
		}
		results = append(results, result)
	}
	return results, nil
}

// RunScenario builds and runs every experiment of a parsed scenario.
func RunScenario(ctx context.Context, s *config.Scenario) ([]Result, error) {
	experiments, err := FromScenario(s)
	if err != nil {
		return nil, err
	}
	runner := &Runner{}
	return runner.Run(ctx, experiments)
}
