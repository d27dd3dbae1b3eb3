package config

import (
	"fmt"
	"os"
)

// LoadScenario loads and parses a scenario file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}
	scenario, err := ParseScenarioYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scenario file %s: %w", path, err)
	}
	return scenario, nil
}

// applyDefaults fills scenario-wide defaults into experiments that do not
// override them, so later layers only ever read experiment fields.
func applyDefaults(s *Scenario) {
	if s.Defaults.Trials == 0 {
		s.Defaults.Trials = 1
	}

	for i := range s.Experiments {
		exp := &s.Experiments[i]
		if exp.Trials == 0 {
			exp.Trials = s.Defaults.Trials
		}
		if exp.Steps == 0 {
			exp.Steps = s.Defaults.Steps
		}
		if exp.Vaccination != nil && exp.Vaccination.RecoveryFactor == nil {
			one := 1.0
			exp.Vaccination.RecoveryFactor = &one
		}
	}

	if a := s.Output.Animation; a != nil {
		if a.CellPixels == 0 {
			a.CellPixels = 8
		}
		if a.FPS == 0 {
			a.FPS = 10
		}
	}
}

// validateScenario performs structural validation on the scenario. Value
// ranges (probabilities, population sizes) are owned by the engine and
// checked when experiment parameters are built.
func validateScenario(s *Scenario) error {
	if len(s.Experiments) == 0 {
		return fmt.Errorf("at least one experiment must be defined")
	}

	names := make(map[string]bool)
	for _, exp := range s.Experiments {
		if exp.Name == "" {
			return fmt.Errorf("experiment name cannot be empty")
		}
		if names[exp.Name] {
			return fmt.Errorf("duplicate experiment name: %s", exp.Name)
		}
		names[exp.Name] = true

		if exp.Beta == nil {
			return fmt.Errorf("experiment %s: beta is required", exp.Name)
		}
		if exp.Gamma == nil {
			return fmt.Errorf("experiment %s: gamma is required", exp.Name)
		}
		if exp.Topology.Kind == "" {
			return fmt.Errorf("experiment %s: topology kind cannot be empty", exp.Name)
		}
		if exp.Trials < 1 {
			return fmt.Errorf("experiment %s: trials must be positive, got %d", exp.Name, exp.Trials)
		}
		if exp.Steps < 0 {
			return fmt.Errorf("experiment %s: steps cannot be negative, got %d", exp.Name, exp.Steps)
		}

		if v := exp.Vaccination; v != nil && v.Mode != "" && v.Mode != "none" {
			if v.InfectionFactor == nil {
				return fmt.Errorf("experiment %s: vaccination infection_factor must be set explicitly", exp.Name)
			}
		}
	}

	if s.Defaults.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", s.Defaults.Workers)
	}

	if a := s.Output.Animation; a != nil {
		if a.Experiment == "" {
			return fmt.Errorf("animation experiment cannot be empty")
		}
		if !names[a.Experiment] {
			return fmt.Errorf("animation references unknown experiment: %s", a.Experiment)
		}
		if a.CellPixels < 1 {
			return fmt.Errorf("animation cell_pixels must be positive, got %d", a.CellPixels)
		}
		if a.FPS < 1 {
			return fmt.Errorf("animation fps must be positive, got %d", a.FPS)
		}
	}

	return nil
}
