package epidemic

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/outbreaklab/epidemic-core/pkg/models"
)

// Ensemble runs many independent trials of the same parameters and
// reduces them to the elementwise mean trajectory. Trials are
// embarrassingly parallel: each owns its population and random source,
// and results are reduced in trial order after all workers finish, so
// the worker count never changes the output.
type Ensemble struct {
	Params Params
	Trials int
	// Workers bounds trial parallelism; values below 1 mean GOMAXPROCS.
	Workers int
	// BaseSeed derives trial seeds as BaseSeed+i. Zero picks a
	// time-based seed once, keeping the derived seeds independent of
	// each other rather than collapsing to 1, 2, 3, ...
	BaseSeed int64
}

// Run executes the ensemble. The context is only consulted between
// trials: a single trial always terminates after exactly T steps.
func (e *Ensemble) Run(ctx context.Context) (*models.MeanTimeSeries, error) {
	if err := e.Params.Validate(); err != nil {
		return nil, err
	}
	if e.Trials < 1 {
		return nil, configErrorf("trials", "must be at least 1, got %d", e.Trials)
	}

	baseSeed := e.BaseSeed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}
	workers := e.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	semaphore := make(chan struct{}, workers)
	var wg sync.WaitGroup
	results := make([]*models.TimeSeries, e.Trials)
	errs := make([]error, e.Trials)

	for i := 0; i < e.Trials; i++ {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[idx], errs[idx] = RunTrial(e.Params, baseSeed+int64(idx))
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
	}

	mean := &models.MeanTimeSeries{}
	for _, series := range results {
		if err := mean.Accumulate(series); err != nil {
			return nil, err
		}
	}
	mean.Scale(1 / float64(e.Trials))
	return mean, nil
}

// RunEnsemble runs trials independent trials with seeds derived from
// baseSeed and returns the mean trajectory.
func RunEnsemble(ctx context.Context, p Params, trials int, baseSeed int64) (*models.MeanTimeSeries, error) {
	e := &Ensemble{Params: p, Trials: trials, BaseSeed: baseSeed}
	return e.Run(ctx)
}
