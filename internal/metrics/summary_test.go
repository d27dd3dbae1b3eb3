package metrics

import (
	"math"
	"testing"

	"github.com/outbreaklab/epidemic-core/pkg/models"
)

func seriesFromCounts(counts []models.StateCounts) *models.TimeSeries {
	series := &models.TimeSeries{}
	for _, c := range counts {
		series.Append(c, nil)
	}
	return series
}

func TestSummarize(t *testing.T) {
	series := seriesFromCounts([]models.StateCounts{
		{Susceptible: 49, Infected: 1, Recovered: 0},
		{Susceptible: 45, Infected: 5, Recovered: 0},
		{Susceptible: 38, Infected: 10, Recovered: 2},
		{Susceptible: 35, Infected: 8, Recovered: 7},
		{Susceptible: 35, Infected: 0, Recovered: 15},
		{Susceptible: 35, Infected: 0, Recovered: 15},
	})

	s := Summarize(series)
	if s.PeakInfected != 10 || s.PeakStep != 2 {
		t.Errorf("expected peak 10 at step 2, got %d at %d", s.PeakInfected, s.PeakStep)
	}
	if s.FinalSusceptible != 35 || s.FinalInfected != 0 || s.FinalRecovered != 15 {
		t.Errorf("expected final 35/0/15, got %d/%d/%d", s.FinalSusceptible, s.FinalInfected, s.FinalRecovered)
	}
	if s.ExtinctionStep != 4 {
		t.Errorf("expected extinction at step 4, got %d", s.ExtinctionStep)
	}
	if want := 15.0 / 50.0; math.Abs(s.AttackRate-want) > 1e-12 {
		t.Errorf("expected attack rate %v, got %v", want, s.AttackRate)
	}
}

func TestSummarizeNoExtinction(t *testing.T) {
	series := seriesFromCounts([]models.StateCounts{
		{Susceptible: 9, Infected: 1},
		{Susceptible: 5, Infected: 5},
		{Susceptible: 0, Infected: 10},
	})

	s := Summarize(series)
	if s.ExtinctionStep != -1 {
		t.Errorf("expected no extinction, got step %d", s.ExtinctionStep)
	}
	if s.AttackRate != 1 {
		t.Errorf("expected attack rate 1, got %v", s.AttackRate)
	}
}

func TestSummarizePeakTies(t *testing.T) {
	// The first step attaining the peak wins.
	series := seriesFromCounts([]models.StateCounts{
		{Susceptible: 9, Infected: 1},
		{Susceptible: 7, Infected: 3},
		{Susceptible: 7, Infected: 2, Recovered: 1},
		{Susceptible: 6, Infected: 3, Recovered: 1},
	})

	s := Summarize(series)
	if s.PeakInfected != 3 || s.PeakStep != 1 {
		t.Errorf("expected peak 3 at step 1, got %d at %d", s.PeakInfected, s.PeakStep)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := Summarize(nil); s != (models.Summary{}) {
		t.Errorf("expected zero summary for nil series, got %+v", s)
	}
	if s := Summarize(&models.TimeSeries{}); s != (models.Summary{}) {
		t.Errorf("expected zero summary for empty series, got %+v", s)
	}
}

func TestSummarizeMean(t *testing.T) {
	mean := &models.MeanTimeSeries{
		Steps: []models.MeanCounts{
			{Susceptible: 49, Infected: 1, Recovered: 0},
			{Susceptible: 46.5, Infected: 3, Recovered: 0.5},
			{Susceptible: 44, Infected: 4.5, Recovered: 1.5},
			{Susceptible: 43, Infected: 0, Recovered: 7},
		},
		Trials: 2,
	}

	s := SummarizeMean(mean)
	if s.PeakInfected != 4.5 || s.PeakStep != 2 {
		t.Errorf("expected peak 4.5 at step 2, got %v at %d", s.PeakInfected, s.PeakStep)
	}
	if s.FinalSusceptible != 43 || s.FinalRecovered != 7 {
		t.Errorf("expected final 43/0/7, got %v/%v/%v", s.FinalSusceptible, s.FinalInfected, s.FinalRecovered)
	}
	if s.ExtinctionStep != 3 {
		t.Errorf("expected extinction at step 3, got %d", s.ExtinctionStep)
	}
	if want := 7.0 / 50.0; math.Abs(s.AttackRate-want) > 1e-12 {
		t.Errorf("expected attack rate %v, got %v", want, s.AttackRate)
	}
}

func TestSummarizeMeanEmpty(t *testing.T) {
	if s := SummarizeMean(nil); s != (models.MeanSummary{}) {
		t.Errorf("expected zero summary for nil mean, got %+v", s)
	}
}
