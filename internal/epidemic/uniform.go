package epidemic

import (
	"github.com/outbreaklab/epidemic-core/pkg/models"
	"github.com/outbreaklab/epidemic-core/pkg/utils"
)

// UniformMixing is the unstructured topology: any agent can contact any
// other with equal probability.
type UniformMixing struct{}

// Kind identifies the topology variant.
func (t *UniformMixing) Kind() TopologyKind { return TopologyUniform }

// SeedInitialInfection infects one agent drawn uniformly at random.
func (t *UniformMixing) SeedInitialInfection(pop *Population, rng *utils.RandSource) {
	pop.setState(rng.Intn(pop.Len()), models.StateInfected)
}

// Sample performs one contact attempt between two distinct agents drawn
// uniformly, then one independent recovery attempt on a third uniform
// draw. The draw order is fixed so equal seeds replay identically.
func (t *UniformMixing) Sample(pop *Population, rule TransitionRule, rng *utils.RandSource) StepUpdate {
	var u StepUpdate

	a, b := rng.Pair(pop.Len())
	contactInfection(&u, pop, a, b, rule, rng)

	recoveryAttempt(&u, pop, rng.Intn(pop.Len()), rule, rng)
	return u
}
