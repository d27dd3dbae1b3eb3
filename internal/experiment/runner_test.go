package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/outbreaklab/epidemic-core/internal/epidemic"
)

func testExperiments() []Experiment {
	base := epidemic.Params{
		Beta: 0.5, Gamma: 0.2, Agents: 20, Steps: 30,
		Topology: epidemic.TopologySpec{Kind: epidemic.TopologyUniform},
	}
	second := base
	second.Beta = 0.1

	return []Experiment{
		{Name: "fast", Params: base, Trials: 3, BaseSeed: 11},
		{Name: "slow", Params: second, Trials: 3, BaseSeed: 11},
	}
}

func TestRunnerRunsInOrder(t *testing.T) {
	runner := &Runner{}
	results, err := runner.Run(context.Background(), testExperiments())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "fast" || results[1].Name != "slow" {
		t.Errorf("expected scenario order preserved, got %q, %q", results[0].Name, results[1].Name)
	}
	for _, res := range results {
		if res.Mean == nil || len(res.Mean.Steps) != 31 {
			t.Fatalf("%s: expected a 31-entry mean series, got %+v", res.Name, res.Mean)
		}
		if res.Summary.PeakInfected < 1 {
			t.Errorf("%s: expected a peak of at least the seeded case, got %v", res.Name, res.Summary.PeakInfected)
		}
	}
}

func TestRunnerMatchesDirectEnsemble(t *testing.T) {
	experiments := testExperiments()[:1]
	runner := &Runner{}

	results, err := runner.Run(context.Background(), experiments)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	exp := experiments[0]
	want, err := epidemic.RunEnsemble(context.Background(), exp.Params, exp.Trials, exp.BaseSeed)
	if err != nil {
		t.Fatalf("RunEnsemble failed: %v", err)
	}

	got := results[0].Mean
	for step := range want.Steps {
		if got.Steps[step] != want.Steps[step] {
			t.Fatalf("step %d: runner diverged from the ensemble: %+v vs %+v",
				step, got.Steps[step], want.Steps[step])
		}
	}
}

func TestRunnerOnResult(t *testing.T) {
	var seen []string
	runner := &Runner{OnResult: func(r Result) { seen = append(seen, r.Name) }}

	if _, err := runner.Run(context.Background(), testExperiments()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(seen) != 2 || seen[0] != "fast" || seen[1] != "slow" {
		t.Errorf("expected the callback in order, got %v", seen)
	}
}

func TestRunnerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &Runner{}
	_, err := runner.Run(ctx, testExperiments())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunScenario(t *testing.T) {
	scenario := parseScenario(t, `
name: pipeline
defaults:
  trials: 2
  steps: 20
  seed: 5
experiments:
  - name: one
    beta: 0.4
    gamma: 0.1
    agents: 15
    topology: {kind: complete}
  - name: two
    beta: 0.4
    gamma: 0.1
    topology: {kind: lattice, side: 4}
`)

	results, err := RunScenario(context.Background(), scenario)
	if err != nil {
		t.Fatalf("RunScenario failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "one" || results[1].Name != "two" {
		t.Errorf("expected results in scenario order, got %q, %q", results[0].Name, results[1].Name)
	}
	if results[1].Params.PopulationSize() != 16 {
		t.Errorf("expected a 16-cell lattice, got %d", results[1].Params.PopulationSize())
	}

	model := results[0].Model()
	if model.Name != "one" || model.Mean == nil {
		t.Errorf("expected the wire form to carry name and mean, got %+v", model)
	}
}
