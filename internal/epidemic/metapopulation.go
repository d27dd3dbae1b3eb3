package epidemic

import (
	"github.com/outbreaklab/epidemic-core/pkg/models"
	"github.com/outbreaklab/epidemic-core/pkg/utils"
)

// crossVillageProbability is the chance that a contact reaches outside
// the first agent's village. Fixed design parameter, deliberately not
// exposed as configuration.
const crossVillageProbability = 0.1

// Metapopulation structures the population into equally sized villages
// with frequent intra-village and rare cross-village contact.
type Metapopulation struct{}

// Kind identifies the topology variant.
func (t *Metapopulation) Kind() TopologyKind { return TopologyMetapopulation }

// SeedInitialInfection infects a uniformly drawn agent of village 0.
func (t *Metapopulation) SeedInitialInfection(pop *Population, rng *utils.RandSource) {
	local := rng.Intn(pop.VillageSize())
	pop.setState(pop.VillageIndex(0, local), models.StateInfected)
}

// Sample draws a first agent uniformly over all agents, then a partner:
// cross-village with probability 0.1 (uniform over the whole population,
// so it may collide with the first agent and degenerate to no contact),
// otherwise uniform over the same village excluding the first agent (a
// one-agent village also degenerates). The usual infection rule applies,
// followed by an independent recovery attempt anywhere.
func (t *Metapopulation) Sample(pop *Population, rule TransitionRule, rng *utils.RandSource) StepUpdate {
	var u StepUpdate

	first := rng.Intn(pop.Len())
	second := first
	if rng.Float64() < crossVillageProbability {
		second = rng.Intn(pop.Len())
	} else if pop.VillageSize() > 1 {
		village := pop.VillageOf(first)
		local := rng.IntnExcept(pop.VillageSize(), first-pop.VillageIndex(village, 0))
		second = pop.VillageIndex(village, local)
	}
	if second != first {
		contactInfection(&u, pop, first, second, rule, rng)
	}

	recoveryAttempt(&u, pop, rng.Intn(pop.Len()), rule, rng)
	return u
}
