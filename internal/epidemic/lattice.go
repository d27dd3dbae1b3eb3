package epidemic

import (
	"github.com/outbreaklab/epidemic-core/pkg/models"
	"github.com/outbreaklab/epidemic-core/pkg/utils"
)

// latticeNeighbors are the orthogonal neighbor offsets, in scan order.
// No diagonals, no wraparound: edge and corner cells simply have fewer
// neighbors.
var latticeNeighbors = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Lattice arranges agents on a side-by-side grid where infection spreads
// only between orthogonal neighbors. It is a full-sweep topology: every
// infected cell is evaluated once per step against the pre-step state.
type Lattice struct{}

// Kind identifies the topology variant.
func (t *Lattice) Kind() TopologyKind { return TopologyLattice }

// SeedInitialInfection infects one uniformly drawn cell.
func (t *Lattice) SeedInitialInfection(pop *Population, rng *utils.RandSource) {
	row, col := rng.Intn(pop.Side()), rng.Intn(pop.Side())
	pop.setState(pop.CellIndex(row, col), models.StateInfected)
}

// Sample sweeps the grid in row-major order. Each infected cell attempts
// to infect each of its susceptible orthogonal neighbors with an
// independent draw, then attempts its own recovery. Every read sees the
// pre-step state, so infections produced this step cannot cascade within
// the step; a susceptible cell adjacent to several infected cells may be
// queued more than once, which commits to the same state.
func (t *Lattice) Sample(pop *Population, rule TransitionRule, rng *utils.RandSource) StepUpdate {
	var u StepUpdate
	side := pop.Side()
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			i := pop.CellIndex(row, col)
			if pop.State(i) != models.StateInfected {
				continue
			}
			for _, d := range latticeNeighbors {
				nr, nc := row+d[0], col+d[1]
				if nr < 0 || nr >= side || nc < 0 || nc >= side {
					continue
				}
				j := pop.CellIndex(nr, nc)
				if pop.State(j) != models.StateSusceptible {
					continue
				}
				if rng.Bernoulli(rule.InfectionProbability(pop.Agent(j))) {
					u.add(j, models.StateInfected)
				}
			}
			recoveryAttempt(&u, pop, i, rule, rng)
		}
	}
	return u
}
