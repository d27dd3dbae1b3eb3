package epidemic

// TopologyKind selects the contact structure of a population.
type TopologyKind string

const (
	TopologyUniform        TopologyKind = "uniform"
	TopologyMetapopulation TopologyKind = "metapopulation"
	TopologyLattice        TopologyKind = "lattice"
	TopologyComplete       TopologyKind = "complete"
)

// TopologySpec carries the topology-specific size parameters.
type TopologySpec struct {
	Kind     TopologyKind
	Villages int // metapopulation: number of villages, must divide Agents evenly
	Side     int // lattice: grid side length, population is Side*Side
}

// VaccinationMode selects how vaccinated agents are seeded at t=0:
// uniform tags each susceptible agent independently with probability
// Probability, village tags every agent of village Village.
type VaccinationMode string

const (
	VaccinationNone    VaccinationMode = "none"
	VaccinationUniform VaccinationMode = "uniform"
	VaccinationVillage VaccinationMode = "village"
)

// VaccinationSpec configures the vaccination variant of a scenario.
// InfectionFactor multiplies beta for transmission into a vaccinated
// susceptible; RecoveryFactor multiplies gamma for a vaccinated infected.
// The observed scenarios use infection factors of one half and one third
// and a recovery factor of two in exactly one variant; both stay explicit
// per-scenario knobs and are never unified. The factors are taken
// literally: an InfectionFactor of 0 means vaccination blocks all
// transmission, a RecoveryFactor of 0 means vaccinated agents never
// recover.
type VaccinationSpec struct {
	Mode            VaccinationMode
	Probability     float64
	Village         int
	InfectionFactor float64
	RecoveryFactor  float64
}

func (v VaccinationSpec) enabled() bool {
	return v.Mode != "" && v.Mode != VaccinationNone
}

// Params is the immutable configuration of one trial.
//
// Beta and Gamma accept the full closed interval [0,1]: zero-probability
// runs are legitimate degenerate scenarios (no transmission, or no
// recovery), not configuration mistakes.
type Params struct {
	Beta        float64 // per-contact transmission probability
	Gamma       float64 // per-attempt recovery probability
	Agents      int     // population size; ignored for lattice when zero (then Side*Side)
	Steps       int     // number of time steps T; the series has T+1 entries
	Topology    TopologySpec
	Vaccination VaccinationSpec
}

// PopulationSize returns the total agent count implied by the parameters.
func (p Params) PopulationSize() int {
	if p.Topology.Kind == TopologyLattice {
		return p.Topology.Side * p.Topology.Side
	}
	return p.Agents
}

// Validate checks the parameter set and returns a ConfigurationError
// describing the first problem found.
func (p Params) Validate() error {
	if p.Beta < 0 || p.Beta > 1 {
		return configErrorf("beta", "must be in [0, 1], got %g", p.Beta)
	}
	if p.Gamma < 0 || p.Gamma > 1 {
		return configErrorf("gamma", "must be in [0, 1], got %g", p.Gamma)
	}
	if p.Steps < 0 {
		return configErrorf("steps", "must be non-negative, got %d", p.Steps)
	}

	switch p.Topology.Kind {
	case TopologyUniform, TopologyComplete:
		if p.Agents < 2 {
			return configErrorf("agents", "must be at least 2, got %d", p.Agents)
		}
	case TopologyMetapopulation:
		if p.Agents < 2 {
			return configErrorf("agents", "must be at least 2, got %d", p.Agents)
		}
		if p.Topology.Villages < 1 {
			return configErrorf("topology.villages", "must be at least 1, got %d", p.Topology.Villages)
		}
		if p.Agents%p.Topology.Villages != 0 {
			return configErrorf("topology.villages", "%d does not divide population %d evenly", p.Topology.Villages, p.Agents)
		}
	case TopologyLattice:
		if p.Topology.Side < 2 {
			return configErrorf("topology.side", "must be at least 2, got %d", p.Topology.Side)
		}
		if p.Agents != 0 && p.Agents != p.Topology.Side*p.Topology.Side {
			return configErrorf("agents", "%d conflicts with %dx%d grid", p.Agents, p.Topology.Side, p.Topology.Side)
		}
	default:
		return configErrorf("topology.kind", "unknown kind %q", p.Topology.Kind)
	}

	return p.validateVaccination()
}

func (p Params) validateVaccination() error {
	v := p.Vaccination
	switch v.Mode {
	case "", VaccinationNone:
		return nil
	case VaccinationUniform:
		if v.Probability < 0 || v.Probability > 1 {
			return configErrorf("vaccination.probability", "must be in [0, 1], got %g", v.Probability)
		}
	case VaccinationVillage:
		if p.Topology.Kind != TopologyMetapopulation {
			return configErrorf("vaccination.mode", "village vaccination requires the metapopulation topology, got %q", p.Topology.Kind)
		}
		if v.Village < 0 || v.Village >= p.Topology.Villages {
			return configErrorf("vaccination.village", "index %d out of range [0, %d)", v.Village, p.Topology.Villages)
		}
	default:
		return configErrorf("vaccination.mode", "unknown mode %q", v.Mode)
	}

	if v.InfectionFactor < 0 || v.InfectionFactor > 1 {
		return configErrorf("vaccination.infection_factor", "must be in [0, 1], got %g", v.InfectionFactor)
	}
	if v.RecoveryFactor < 0 {
		return configErrorf("vaccination.recovery_factor", "must be non-negative, got %g", v.RecoveryFactor)
	}
	return nil
}
