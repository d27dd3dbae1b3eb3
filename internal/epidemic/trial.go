package epidemic

import (
	"fmt"

	"github.com/outbreaklab/epidemic-core/pkg/models"
	"github.com/outbreaklab/epidemic-core/pkg/utils"
)

// TrialStatus tracks the lifecycle of a single trial.
type TrialStatus string

const (
	TrialInitialized TrialStatus = "initialized"
	TrialRunning     TrialStatus = "running"
	TrialCompleted   TrialStatus = "completed"
	TrialFailed      TrialStatus = "failed"
)

// Trial executes one full run: T sample+commit steps over a freshly
// seeded population, recording per-state counts at every step. Each
// trial exclusively owns its population and random source; nothing is
// shared between trials.
type Trial struct {
	// OnStep, when set, observes the committed population after every
	// step, including the initial state at step 0. Used by the lattice
	// animation recorder.
	OnStep func(step int, pop *Population)

	params Params
	topo   Topology
	rule   TransitionRule
	rng    *utils.RandSource
	pop    *Population
	series *models.TimeSeries
	status TrialStatus
}

// NewTrial validates the parameters and builds the t=0 population: all
// agents susceptible, one infected agent placed per the topology rules,
// then vaccination tags applied per the configured mode. The seeded
// infected agent is never tagged.
func NewTrial(p Params, seed int64) (*Trial, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	topo, err := newTopology(p.Topology)
	if err != nil {
		return nil, err
	}

	t := &Trial{
		params: p,
		topo:   topo,
		rule:   newTransitionRule(p),
		rng:    utils.NewRandSource(seed),
		pop:    newPopulation(p),
		series: &models.TimeSeries{},
		status: TrialInitialized,
	}
	t.topo.SeedInitialInfection(t.pop, t.rng)
	t.applyVaccination()
	return t, nil
}

func (t *Trial) applyVaccination() {
	v := t.params.Vaccination
	switch v.Mode {
	case VaccinationUniform:
		for i := 0; i < t.pop.Len(); i++ {
			if t.pop.State(i) != models.StateSusceptible {
				continue
			}
			if t.rng.Bernoulli(v.Probability) {
				t.pop.setVaccinated(i)
			}
		}
	case VaccinationVillage:
		start := t.pop.VillageIndex(v.Village, 0)
		for i := start; i < start+t.pop.VillageSize(); i++ {
			if t.pop.State(i) == models.StateSusceptible {
				t.pop.setVaccinated(i)
			}
		}
	}
}

// Status returns the trial's lifecycle state.
func (t *Trial) Status() TrialStatus { return t.status }

// Series returns the recorded trajectory. It is complete only once Run
// has returned successfully.
func (t *Trial) Series() *models.TimeSeries { return t.series }

// Run executes exactly T steps and returns the finished series of T+1
// entries. Population conservation is verified after every commit; a
// violation aborts the trial with an InvariantViolation carrying the
// step index and the pre/post counts. A trial runs once.
func (t *Trial) Run() (*models.TimeSeries, error) {
	if t.status != TrialInitialized {
		return nil, fmt.Errorf("trial already %s", t.status)
	}
	t.status = TrialRunning

	t.record()
	if t.OnStep != nil {
		t.OnStep(0, t.pop)
	}

	for step := 1; step <= t.params.Steps; step++ {
		// Counts after the previous commit are this step's pre-state.
		pre := t.series.Steps[len(t.series.Steps)-1]

		update := t.topo.Sample(t.pop, t.rule, t.rng)
		t.pop.Apply(update)

		post := t.pop.Counts()
		if post.Total() != t.pop.Len() {
			t.status = TrialFailed
			return nil, &InvariantViolation{Step: step, Before: pre, After: post}
		}

		t.series.Append(post, t.pop.PartitionCounts())
		if t.OnStep != nil {
			t.OnStep(step, t.pop)
		}
	}

	t.status = TrialCompleted
	return t.series, nil
}

func (t *Trial) record() {
	t.series.Append(t.pop.Counts(), t.pop.PartitionCounts())
}

// RunTrial runs one seeded trial to completion.
func RunTrial(p Params, seed int64) (*models.TimeSeries, error) {
	t, err := NewTrial(p, seed)
	if err != nil {
		return nil, err
	}
	return t.Run()
}
