package epidemic

import "github.com/outbreaklab/epidemic-core/pkg/models"

// Agent is one member of the population. Vaccinated is a persistent tag:
// it survives the susceptible-to-infected transition so the transition
// rule can keep discriminating vaccinated agents, and it never moves an
// agent out of the susceptible bucket in reported counts.
type Agent struct {
	State      models.State
	Vaccinated bool
}

// Population owns the agent states of one trial. The same backing slice
// serves all three layouts; villages and side describe how indices map to
// partitions or grid cells. A Population is exclusively owned by its
// Trial and never shared.
type Population struct {
	agents      []Agent
	villages    int // number of villages, 0 unless metapopulation
	villageSize int
	side        int // grid side length, 0 unless lattice
}

func newPopulation(p Params) *Population {
	n := p.PopulationSize()
	pop := &Population{agents: make([]Agent, n)}
	switch p.Topology.Kind {
	case TopologyMetapopulation:
		pop.villages = p.Topology.Villages
		pop.villageSize = n / p.Topology.Villages
	case TopologyLattice:
		pop.side = p.Topology.Side
	}
	return pop
}

// Len returns the number of agents.
func (p *Population) Len() int { return len(p.agents) }

// Agent returns the agent at index i.
func (p *Population) Agent(i int) Agent { return p.agents[i] }

// State returns the state of the agent at index i.
func (p *Population) State(i int) models.State { return p.agents[i].State }

func (p *Population) setState(i int, s models.State) { p.agents[i].State = s }

func (p *Population) setVaccinated(i int) { p.agents[i].Vaccinated = true }

// Counts returns per-state totals. Vaccinated susceptible agents are
// counted as susceptible.
func (p *Population) Counts() models.StateCounts {
	var c models.StateCounts
	for i := range p.agents {
		switch p.agents[i].State {
		case models.StateSusceptible:
			c.Susceptible++
		case models.StateInfected:
			c.Infected++
		case models.StateRecovered:
			c.Recovered++
		}
	}
	return c
}

// PartitionCounts returns per-village totals, or nil for unpartitioned
// layouts.
func (p *Population) PartitionCounts() []models.StateCounts {
	if p.villages == 0 {
		return nil
	}
	counts := make([]models.StateCounts, p.villages)
	for i := range p.agents {
		v := i / p.villageSize
		switch p.agents[i].State {
		case models.StateSusceptible:
			counts[v].Susceptible++
		case models.StateInfected:
			counts[v].Infected++
		case models.StateRecovered:
			counts[v].Recovered++
		}
	}
	return counts
}

// VillageCount returns the number of villages (0 for other layouts).
func (p *Population) VillageCount() int { return p.villages }

// VillageSize returns the number of agents per village.
func (p *Population) VillageSize() int { return p.villageSize }

// VillageIndex maps (village, local) identity to a flat agent index.
func (p *Population) VillageIndex(village, local int) int {
	return village*p.villageSize + local
}

// VillageOf returns the village holding agent i.
func (p *Population) VillageOf(i int) int { return i / p.villageSize }

// Side returns the grid side length (0 for non-grid layouts).
func (p *Population) Side() int { return p.side }

// CellIndex maps (row, col) identity to a flat agent index.
func (p *Population) CellIndex(row, col int) int {
	return row*p.side + col
}

// Grid returns the population as rows of cells for rendering, or nil for
// non-grid layouts. The returned cells are copies.
func (p *Population) Grid() [][]models.Cell {
	if p.side == 0 {
		return nil
	}
	grid := make([][]models.Cell, p.side)
	for r := 0; r < p.side; r++ {
		row := make([]models.Cell, p.side)
		for c := 0; c < p.side; c++ {
			a := p.agents[p.CellIndex(r, c)]
			row[c] = models.Cell{State: a.State, Vaccinated: a.Vaccinated}
		}
		grid[r] = row
	}
	return grid
}

// Snapshot returns a read-only copy of all agent states.
func (p *Population) Snapshot() []models.State {
	states := make([]models.State, len(p.agents))
	for i := range p.agents {
		states[i] = p.agents[i].State
	}
	return states
}

// Apply commits a step update. All decisions behind the update were made
// against the pre-commit state, so applying the whole diff at once gives
// the synchronous-update semantics the full-sweep topologies require.
// Duplicate changes to the same index are idempotent (a susceptible cell
// reachable from two infected neighbors is infected once).
func (p *Population) Apply(u StepUpdate) {
	for _, ch := range u.Changes {
		p.setState(ch.Index, ch.To)
	}
}
