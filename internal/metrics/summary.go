// Package metrics reduces recorded trajectories to outbreak summary
// statistics. All functions are pure: they never mutate their input and
// need no synchronization.
package metrics

import (
	"github.com/outbreaklab/epidemic-core/pkg/models"
)

// Summarize calculates the outbreak summary of a single-trial trajectory.
// A nil or empty series yields the zero Summary.
func Summarize(series *models.TimeSeries) models.Summary {
	var s models.Summary
	if series == nil || series.Len() == 0 {
		return s
	}

	s.PeakStep = 0
	s.PeakInfected = series.Steps[0].Infected
	s.ExtinctionStep = -1

	for step, c := range series.Steps {
		if c.Infected > s.PeakInfected {
			s.PeakInfected = c.Infected
			s.PeakStep = step
		}
		if s.ExtinctionStep == -1 && c.Infected == 0 {
			s.ExtinctionStep = step
		}
	}

	final := series.Steps[series.Len()-1]
	s.FinalSusceptible = final.Susceptible
	s.FinalInfected = final.Infected
	s.FinalRecovered = final.Recovered
	s.AttackRate = attackRate(float64(final.Susceptible), float64(final.Total()))
	return s
}

// SummarizeMean calculates the outbreak summary of a mean trajectory. The
// extinction step is the first step whose mean infected count is zero,
// which requires every accumulated trial to be extinct there.
func SummarizeMean(mean *models.MeanTimeSeries) models.MeanSummary {
	var s models.MeanSummary
	if mean == nil || len(mean.Steps) == 0 {
		return s
	}

	s.PeakStep = 0
	s.PeakInfected = mean.Steps[0].Infected
	s.ExtinctionStep = -1

	for step, c := range mean.Steps {
		if c.Infected > s.PeakInfected {
			s.PeakInfected = c.Infected
			s.PeakStep = step
		}
		if s.ExtinctionStep == -1 && c.Infected == 0 {
			s.ExtinctionStep = step
		}
	}

	final := mean.Steps[len(mean.Steps)-1]
	s.FinalSusceptible = final.Susceptible
	s.FinalInfected = final.Infected
	s.FinalRecovered = final.Recovered
	s.AttackRate = attackRate(final.Susceptible, final.Susceptible+final.Infected+final.Recovered)
	return s
}

// attackRate is the fraction of the population infected at any point
// during the run: (N - S_final) / N.
func attackRate(finalSusceptible, population float64) float64 {
	if population == 0 {
		return 0
	}
	return (population - finalSusceptible) / population
}
