package epidemic

// TransitionRule computes the effective transition probabilities for
// contact and recovery attempts. It is a pure value: no state, no
// randomness, only (agent, parameters) -> probability.
type TransitionRule struct {
	Beta                       float64
	Gamma                      float64
	VaccinationInfectionFactor float64
	VaccinationRecoveryFactor  float64
}

func newTransitionRule(p Params) TransitionRule {
	r := TransitionRule{
		Beta:                       p.Beta,
		Gamma:                      p.Gamma,
		VaccinationInfectionFactor: 1,
		VaccinationRecoveryFactor:  1,
	}
	if p.Vaccination.enabled() {
		r.VaccinationInfectionFactor = p.Vaccination.InfectionFactor
		r.VaccinationRecoveryFactor = p.Vaccination.RecoveryFactor
	}
	return r
}

// InfectionProbability returns the probability that an established
// contact between an infected agent and the susceptible target transmits.
func (r TransitionRule) InfectionProbability(target Agent) float64 {
	if target.Vaccinated {
		return r.Beta * r.VaccinationInfectionFactor
	}
	return r.Beta
}

// RecoveryProbability returns the probability that the infected agent
// recovers on this attempt. The product may exceed 1 for large recovery
// factors; the Bernoulli draw treats that as certainty.
func (r TransitionRule) RecoveryProbability(a Agent) float64 {
	if a.Vaccinated {
		return r.Gamma * r.VaccinationRecoveryFactor
	}
	return r.Gamma
}
