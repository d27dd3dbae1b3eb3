// Package experiment turns scenario configuration into engine runs: it
// builds parameters for every named experiment and executes their
// ensembles in scenario order.
package experiment

import (
	"fmt"

	"github.com/outbreaklab/epidemic-core/internal/epidemic"
	"github.com/outbreaklab/epidemic-core/pkg/config"
)

// Experiment is one named, fully validated parameter set ready to run.
type Experiment struct {
	Name     string
	Params   epidemic.Params
	Trials   int
	Workers  int
	BaseSeed int64
}

// FromScenario builds engine parameters for every experiment in the
// scenario. Value ranges are owned by the engine, so invalid parameters
// are rejected here, before any simulation work begins. Experiments share
// the scenario's base seed; per-trial seeds are derived inside the
// ensemble.
func FromScenario(s *config.Scenario) ([]Experiment, error) {
	experiments := make([]Experiment, 0, len(s.Experiments))
	for _, spec := range s.Experiments {
		params, err := buildParams(spec)
		if err != nil {
			return nil, err
		}
		if err := params.Validate(); err != nil {
			return nil, fmt.Errorf("experiment %s: %w", spec.Name, err)
		}
		experiments = append(experiments, Experiment{
			Name:     spec.Name,
			Params:   params,
			Trials:   spec.Trials,
			Workers:  s.Defaults.Workers,
			BaseSeed: s.Defaults.Seed,
		})
	}
	return experiments, nil
}

func buildParams(spec config.Experiment) (epidemic.Params, error) {
	if spec.Beta == nil || spec.Gamma == nil {
		return epidemic.Params{}, fmt.Errorf("experiment %s: beta and gamma are required", spec.Name)
	}

	p := epidemic.Params{
		Beta:   *spec.Beta,
		Gamma:  *spec.Gamma,
		Agents: spec.Agents,
		Steps:  spec.Steps,
		Topology: epidemic.TopologySpec{
			Kind:     epidemic.TopologyKind(spec.Topology.Kind),
			Villages: spec.Topology.Villages,
			Side:     spec.Topology.Side,
		},
	}

	if v := spec.Vaccination; v != nil && v.Mode != "" && v.Mode != "none" {
		if v.InfectionFactor == nil {
			return epidemic.Params{}, fmt.Errorf("experiment %s: vaccination infection_factor must be set explicitly", spec.Name)
		}
		recoveryFactor := 1.0
		if v.RecoveryFactor != nil {
			recoveryFactor = *v.RecoveryFactor
		}
		p.Vaccination = epidemic.VaccinationSpec{
			Mode:            epidemic.VaccinationMode(v.Mode),
			Probability:     v.Probability,
			Village:         v.Village,
			InfectionFactor: *v.InfectionFactor,
			RecoveryFactor:  recoveryFactor,
		}
	}

	return p, nil
}
