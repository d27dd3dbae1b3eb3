package epidemic

import (
	"testing"

	"github.com/outbreaklab/epidemic-core/pkg/models"
)

func TestCompleteGraphSaturatesInOneStep(t *testing.T) {
	// Every infected agent contacts every susceptible agent, so certain
	// transmission saturates the population in a single step.
	p := Params{
		Beta: 1, Gamma: 0, Agents: 10, Steps: 1,
		Topology: TopologySpec{Kind: TopologyComplete},
	}

	series, err := RunTrial(p, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := models.StateCounts{Susceptible: 9, Infected: 1}
	if series.Steps[0] != want {
		t.Fatalf("expected %+v at step 0, got %+v", want, series.Steps[0])
	}
	want = models.StateCounts{Infected: 10}
	if series.Steps[1] != want {
		t.Errorf("expected %+v after one step, got %+v", want, series.Steps[1])
	}
}

func TestCompleteGraphCertainRecovery(t *testing.T) {
	p := Params{
		Beta: 0, Gamma: 1, Agents: 5, Steps: 3,
		Topology: TopologySpec{Kind: TopologyComplete},
	}

	series, err := RunTrial(p, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := models.StateCounts{Susceptible: 4, Recovered: 1}
	if series.Steps[1] != want {
		t.Fatalf("expected the seed recovered after one step, got %+v", series.Steps[1])
	}
	// Both absorbing states hold from there on.
	for step := 2; step < series.Len(); step++ {
		if series.Steps[step] != want {
			t.Errorf("step %d: expected the absorbed state to persist, got %+v", step, series.Steps[step])
		}
	}
}
