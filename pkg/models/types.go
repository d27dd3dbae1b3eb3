package models

import "fmt"

// State is the epidemiological state of a single agent.
type State uint8

const (
	StateSusceptible State = iota
	StateInfected
	StateRecovered
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateSusceptible:
		return "susceptible"
	case StateInfected:
		return "infected"
	case StateRecovered:
		return "recovered"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Cell is one agent as seen by observers (grid rendering, animation).
// Vaccinated is a tag on top of the state, not a fourth state: vaccinated
// agents are counted as susceptible in every aggregate.
type Cell struct {
	State      State `json:"state"`
	Vaccinated bool  `json:"vaccinated,omitempty"`
}

// StateCounts holds per-state agent counts for one time step.
// Vaccinated susceptible agents are included in Susceptible.
type StateCounts struct {
	Susceptible int `json:"susceptible"`
	Infected    int `json:"infected"`
	Recovered   int `json:"recovered"`
}

// Total returns the number of agents covered by the counts.
func (c StateCounts) Total() int {
	return c.Susceptible + c.Infected + c.Recovered
}

// Add returns the elementwise sum of two counts.
func (c StateCounts) Add(o StateCounts) StateCounts {
	return StateCounts{
		Susceptible: c.Susceptible + o.Susceptible,
		Infected:    c.Infected + o.Infected,
		Recovered:   c.Recovered + o.Recovered,
	}
}

// MeanCounts holds per-state means over an ensemble of trials.
type MeanCounts struct {
	Susceptible float64 `json:"susceptible"`
	Infected    float64 `json:"infected"`
	Recovered   float64 `json:"recovered"`
}

func (m MeanCounts) add(c StateCounts) MeanCounts {
	return MeanCounts{
		Susceptible: m.Susceptible + float64(c.Susceptible),
		Infected:    m.Infected + float64(c.Infected),
		Recovered:   m.Recovered + float64(c.Recovered),
	}
}

func (m MeanCounts) scale(f float64) MeanCounts {
	return MeanCounts{
		Susceptible: m.Susceptible * f,
		Infected:    m.Infected * f,
		Recovered:   m.Recovered * f,
	}
}

// TimeSeries is the recorded trajectory of one trial: one entry per time
// step, including t=0, so a trial of T steps yields T+1 entries.
// Partitions carries per-village counts for partitioned layouts and is nil
// otherwise; Partitions[t][v] is village v at step t.
type TimeSeries struct {
	Steps      []StateCounts   `json:"steps"`
	Partitions [][]StateCounts `json:"partitions,omitempty"`
}

// Len returns the number of recorded entries.
func (ts *TimeSeries) Len() int { return len(ts.Steps) }

// Append records one step. parts may be nil for unpartitioned layouts.
func (ts *TimeSeries) Append(total StateCounts, parts []StateCounts) {
	ts.Steps = append(ts.Steps, total)
	if parts != nil {
		ts.Partitions = append(ts.Partitions, parts)
	}
}

// MeanTimeSeries is the elementwise mean trajectory over an ensemble.
type MeanTimeSeries struct {
	Steps      []MeanCounts   `json:"steps"`
	Partitions [][]MeanCounts `json:"partitions,omitempty"`
	Trials     int            `json:"trials"`
}

// Len returns the number of entries.
func (m *MeanTimeSeries) Len() int { return len(m.Steps) }

// Accumulate adds one trial's series into the running sums. The first call
// fixes the expected shape; later calls with a different shape fail.
func (m *MeanTimeSeries) Accumulate(ts *TimeSeries) error {
	if m.Steps == nil {
		m.Steps = make([]MeanCounts, len(ts.Steps))
		if ts.Partitions != nil {
			m.Partitions = make([][]MeanCounts, len(ts.Partitions))
			for t := range ts.Partitions {
				m.Partitions[t] = make([]MeanCounts, len(ts.Partitions[t]))
			}
		}
	}
	if len(ts.Steps) != len(m.Steps) {
		return fmt.Errorf("series length mismatch: have %d entries, expected %d", len(ts.Steps), len(m.Steps))
	}
	for t, c := range ts.Steps {
		m.Steps[t] = m.Steps[t].add(c)
	}
	for t := range ts.Partitions {
		if len(ts.Partitions[t]) != len(m.Partitions[t]) {
			return fmt.Errorf("partition count mismatch at step %d: have %d, expected %d",
				t, len(ts.Partitions[t]), len(m.Partitions[t]))
		}
		for v, c := range ts.Partitions[t] {
			m.Partitions[t][v] = m.Partitions[t][v].add(c)
		}
	}
	m.Trials++
	return nil
}

// Scale multiplies every entry by f. Called once with 1/M after
// accumulating M trials.
func (m *MeanTimeSeries) Scale(f float64) {
	for t := range m.Steps {
		m.Steps[t] = m.Steps[t].scale(f)
	}
	for t := range m.Partitions {
		for v := range m.Partitions[t] {
			m.Partitions[t][v] = m.Partitions[t][v].scale(f)
		}
	}
}

// Summary aggregates one trial's trajectory into outbreak statistics.
type Summary struct {
	PeakInfected     int     `json:"peak_infected"`
	PeakStep         int     `json:"peak_step"`
	FinalSusceptible int     `json:"final_susceptible"`
	FinalInfected    int     `json:"final_infected"`
	FinalRecovered   int     `json:"final_recovered"`
	AttackRate       float64 `json:"attack_rate"`
	ExtinctionStep   int     `json:"extinction_step"`
}

// MeanSummary aggregates a mean trajectory. ExtinctionStep is the first
// step at which the mean infected count reaches zero (every trial extinct),
// or -1 if that never happens.
type MeanSummary struct {
	PeakInfected     float64 `json:"peak_infected"`
	PeakStep         int     `json:"peak_step"`
	FinalSusceptible float64 `json:"final_susceptible"`
	FinalInfected    float64 `json:"final_infected"`
	FinalRecovered   float64 `json:"final_recovered"`
	AttackRate       float64 `json:"attack_rate"`
	ExtinctionStep   int     `json:"extinction_step"`
}

// RunStatus represents the status of a scenario run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Terminal reports whether the status is final.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled:
		return true
	default:
		return false
	}
}

// Run represents one scenario run managed by the daemon.
type Run struct {
	ID              string    `json:"id"`
	Name            string    `json:"name,omitempty"`
	Status          RunStatus `json:"status"`
	CreatedAtUnixMs int64     `json:"created_at_unix_ms"`
	StartedAtUnixMs int64     `json:"started_at_unix_ms,omitempty"`
	EndedAtUnixMs   int64     `json:"ended_at_unix_ms,omitempty"`
	Error           string    `json:"error,omitempty"`
}

// RunInput is the submitted payload for a run.
type RunInput struct {
	ScenarioYAML string `json:"scenario_yaml"`
}

// ExperimentResult is one experiment's ensemble output.
type ExperimentResult struct {
	Name    string          `json:"name"`
	Mean    *MeanTimeSeries `json:"mean"`
	Summary MeanSummary     `json:"summary"`
}

// StoredRun is the archived form of a finished run.
type StoredRun struct {
	ID              string             `json:"id"`
	Name            string             `json:"name,omitempty"`
	Status          RunStatus          `json:"status"`
	ScenarioYAML    string             `json:"scenario_yaml"`
	Error           string             `json:"error,omitempty"`
	CreatedAtUnixMs int64              `json:"created_at_unix_ms"`
	EndedAtUnixMs   int64              `json:"ended_at_unix_ms"`
	Results         []ExperimentResult `json:"results,omitempty"`
}
