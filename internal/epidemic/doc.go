// Package epidemic implements the stochastic agent-based SIR engine.
//
// A population of agents, each Susceptible, Infected, or Recovered
// (optionally tagged as vaccinated), evolves in discrete time steps.
// Contact structure is pluggable: uniform mixing, a village
// metapopulation, a 2-D 4-neighbor lattice, or a complete graph. The
// first two advance by a single randomized contact and recovery attempt
// per step; the latter two sweep every infected agent against the
// pre-step state and commit all transitions atomically at the step
// boundary.
//
// Main Types:
//   - Params: immutable per-trial configuration (rates, sizes, topology, vaccination)
//   - Population: agent states plus layout (flat, villages, grid)
//   - Topology: per-step contact sampling (StepUpdate diff lists)
//   - TransitionRule: effective infection/recovery probabilities
//   - Trial: one seeded run producing a TimeSeries
//   - Ensemble: many trials reduced to a mean trajectory
//
// Usage:
//
//	params := epidemic.Params{
//	    Beta:     0.3,
//	    Gamma:    0.05,
//	    Agents:   300,
//	    Steps:    10000,
//	    Topology: epidemic.TopologySpec{Kind: epidemic.TopologyUniform},
//	}
//	series, err := epidemic.RunTrial(params, 42)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	mean, err := epidemic.RunEnsemble(ctx, params, 100, 42)
package epidemic
