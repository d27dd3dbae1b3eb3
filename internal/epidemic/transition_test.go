package epidemic

import (
	"math"
	"testing"

	"github.com/outbreaklab/epidemic-core/pkg/models"
)

func TestTransitionRuleWithoutVaccination(t *testing.T) {
	rule := newTransitionRule(validUniformParams())

	plain := Agent{State: models.StateSusceptible}
	tagged := Agent{State: models.StateSusceptible, Vaccinated: true}

	if rule.InfectionProbability(plain) != 0.3 {
		t.Errorf("expected beta for a plain agent, got %v", rule.InfectionProbability(plain))
	}
	// Without a vaccination policy the tag must not matter.
	if rule.InfectionProbability(tagged) != 0.3 {
		t.Errorf("expected beta for a tagged agent, got %v", rule.InfectionProbability(tagged))
	}
	if rule.RecoveryProbability(tagged) != 0.1 {
		t.Errorf("expected gamma for a tagged agent, got %v", rule.RecoveryProbability(tagged))
	}
}

func TestTransitionRuleAppliesFactors(t *testing.T) {
	p := validUniformParams()
	p.Vaccination = VaccinationSpec{
		Mode:            VaccinationUniform,
		Probability:     0.4,
		InfectionFactor: 1.0 / 3.0,
		RecoveryFactor:  2,
	}
	rule := newTransitionRule(p)

	plain := Agent{State: models.StateSusceptible}
	tagged := Agent{State: models.StateSusceptible, Vaccinated: true}

	if rule.InfectionProbability(plain) != 0.3 {
		t.Errorf("expected beta for an unvaccinated agent, got %v", rule.InfectionProbability(plain))
	}
	got := rule.InfectionProbability(tagged)
	if math.Abs(got-0.1) > 1e-12 {
		t.Errorf("expected beta/3 for a vaccinated agent, got %v", got)
	}
	if rule.RecoveryProbability(plain) != 0.1 {
		t.Errorf("expected gamma for an unvaccinated agent, got %v", rule.RecoveryProbability(plain))
	}
	if rule.RecoveryProbability(tagged) != 0.2 {
		t.Errorf("expected doubled gamma for a vaccinated agent, got %v", rule.RecoveryProbability(tagged))
	}
}

func TestTransitionRuleHalvedInfection(t *testing.T) {
	p := Params{
		Beta: 0.3, Gamma: 0.1, Agents: 100, Steps: 10,
		Topology:    TopologySpec{Kind: TopologyMetapopulation, Villages: 4},
		Vaccination: VaccinationSpec{Mode: VaccinationVillage, Village: 1, InfectionFactor: 0.5, RecoveryFactor: 1},
	}
	rule := newTransitionRule(p)

	tagged := Agent{State: models.StateSusceptible, Vaccinated: true}
	if got := rule.InfectionProbability(tagged); got != 0.15 {
		t.Errorf("expected half of beta for a vaccinated village, got %v", got)
	}
	if got := rule.RecoveryProbability(Agent{State: models.StateInfected, Vaccinated: true}); got != 0.1 {
		t.Errorf("expected unchanged gamma at factor 1, got %v", got)
	}
}

func TestRecoveryProbabilityMayExceedOne(t *testing.T) {
	p := validUniformParams()
	p.Gamma = 0.8
	p.Vaccination = VaccinationSpec{
		Mode:            VaccinationUniform,
		Probability:     0.4,
		InfectionFactor: 0.5,
		RecoveryFactor:  2,
	}
	rule := newTransitionRule(p)

	got := rule.RecoveryProbability(Agent{State: models.StateInfected, Vaccinated: true})
	if got != 1.6 {
		t.Fatalf("expected 1.6, got %v", got)
	}
	// A probability above one means certain recovery once sampled.
	rng := newTestRand(1)
	if !rng.Bernoulli(got) {
		t.Errorf("expected a probability above one to always fire")
	}
}
