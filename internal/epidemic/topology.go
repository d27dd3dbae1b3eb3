package epidemic

import (
	"github.com/outbreaklab/epidemic-core/pkg/models"
	"github.com/outbreaklab/epidemic-core/pkg/utils"
)

// StateChange moves the agent at Index to state To.
type StateChange struct {
	Index int
	To    models.State
}

// StepUpdate is the diff of one time step: every state change the step
// produced, computed against the pre-step state and committed together.
type StepUpdate struct {
	Changes []StateChange
}

func (u *StepUpdate) add(index int, to models.State) {
	u.Changes = append(u.Changes, StateChange{Index: index, To: to})
}

// Topology defines how contacts are selected for one time step. The
// single-event variants (uniform mixing, metapopulation) make one contact
// attempt and one independent recovery attempt per step; the full-sweep
// variants (lattice, complete graph) evaluate every infected agent
// against the pre-step state. Either way Sample never mutates the
// population: committing its StepUpdate advances exactly one step.
type Topology interface {
	// Kind identifies the topology variant.
	Kind() TopologyKind

	// SeedInitialInfection infects the single initial agent, placed per
	// the variant's rules.
	SeedInitialInfection(pop *Population, rng *utils.RandSource)

	// Sample draws one step's state changes.
	Sample(pop *Population, rule TransitionRule, rng *utils.RandSource) StepUpdate
}

func newTopology(spec TopologySpec) (Topology, error) {
	switch spec.Kind {
	case TopologyUniform:
		return &UniformMixing{}, nil
	case TopologyMetapopulation:
		return &Metapopulation{}, nil
	case TopologyLattice:
		return &Lattice{}, nil
	case TopologyComplete:
		return &CompleteGraph{}, nil
	default:
		return nil, configErrorf("topology.kind", "unknown kind %q", spec.Kind)
	}
}

// contactInfection applies the shared single-event infection rule: if the
// pair is (susceptible, infected) in either order, the susceptible member
// is infected with the rule's effective probability.
func contactInfection(u *StepUpdate, pop *Population, a, b int, rule TransitionRule, rng *utils.RandSource) {
	sa, sb := pop.State(a), pop.State(b)
	var target int
	switch {
	case sa == models.StateSusceptible && sb == models.StateInfected:
		target = a
	case sa == models.StateInfected && sb == models.StateSusceptible:
		target = b
	default:
		return
	}
	if rng.Bernoulli(rule.InfectionProbability(pop.Agent(target))) {
		u.add(target, models.StateInfected)
	}
}

// recoveryAttempt applies the shared recovery rule to the agent at i.
func recoveryAttempt(u *StepUpdate, pop *Population, i int, rule TransitionRule, rng *utils.RandSource) {
	if pop.State(i) != models.StateInfected {
		return
	}
	if rng.Bernoulli(rule.RecoveryProbability(pop.Agent(i))) {
		u.add(i, models.StateRecovered)
	}
}
