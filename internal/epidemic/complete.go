package epidemic

import (
	"github.com/outbreaklab/epidemic-core/pkg/models"
	"github.com/outbreaklab/epidemic-core/pkg/utils"
)

// CompleteGraph connects every agent to every other agent. Like the
// lattice it is a full-sweep topology, so one step with beta=1 infects
// the entire susceptible population.
type CompleteGraph struct{}

// Kind identifies the topology variant.
func (t *CompleteGraph) Kind() TopologyKind { return TopologyComplete }

// SeedInitialInfection infects one agent drawn uniformly at random.
func (t *CompleteGraph) SeedInitialInfection(pop *Population, rng *utils.RandSource) {
	pop.setState(rng.Intn(pop.Len()), models.StateInfected)
}

// Sample evaluates every infected agent against the pre-step state: an
// independent infection draw for every other susceptible agent, then a
// recovery draw for the infected agent itself.
func (t *CompleteGraph) Sample(pop *Population, rule TransitionRule, rng *utils.RandSource) StepUpdate {
	var u StepUpdate
	n := pop.Len()
	for i := 0; i < n; i++ {
		if pop.State(i) != models.StateInfected {
			continue
		}
		for j := 0; j < n; j++ {
			if j == i || pop.State(j) != models.StateSusceptible {
				continue
			}
			if rng.Bernoulli(rule.InfectionProbability(pop.Agent(j))) {
				u.add(j, models.StateInfected)
			}
		}
		recoveryAttempt(&u, pop, i, rule, rng)
	}
	return u
}
