package config

// Scenario represents one batch of named experiments sharing defaults
type Scenario struct {
	Name        string       `yaml:"name,omitempty"`
	Defaults    Defaults     `yaml:"defaults,omitempty"`
	Experiments []Experiment `yaml:"experiments"`
	Output      Output       `yaml:"output,omitempty"`
}

// Defaults represents scenario-wide execution settings. Trials and steps
// are copied into every experiment that does not override them.
type Defaults struct {
	Trials  int   `yaml:"trials,omitempty"`  // ensemble size per experiment (defaults to 1)
	Steps   int   `yaml:"steps,omitempty"`   // time steps per trial
	Seed    int64 `yaml:"seed,omitempty"`    // base seed; 0 picks a time-based seed per run
	Workers int   `yaml:"workers,omitempty"` // trial parallelism; 0 means one worker per CPU
}

// Experiment represents one named parameter set within a scenario
type Experiment struct {
	Name        string       `yaml:"name"`
	Beta        *float64     `yaml:"beta"`  // per-contact transmission probability, required
	Gamma       *float64     `yaml:"gamma"` // per-attempt recovery probability, required
	Agents      int          `yaml:"agents,omitempty"`
	Steps       int          `yaml:"steps,omitempty"`  // overrides defaults.steps when positive
	Trials      int          `yaml:"trials,omitempty"` // overrides defaults.trials when positive
	Topology    Topology     `yaml:"topology"`
	Vaccination *Vaccination `yaml:"vaccination,omitempty"`
}

// Topology selects the contact structure for an experiment
type Topology struct {
	Kind     string `yaml:"kind"`               // uniform, metapopulation, lattice, complete
	Villages int    `yaml:"villages,omitempty"` // metapopulation only
	Side     int    `yaml:"side,omitempty"`     // lattice only
}

// Vaccination configures the immunization campaign for an experiment.
// The infection factor must be stated explicitly: campaigns differ in
// strength and no default would be safe to assume.
type Vaccination struct {
	Mode            string   `yaml:"mode"` // uniform or village
	Probability     float64  `yaml:"probability,omitempty"`
	Village         int      `yaml:"village,omitempty"`
	InfectionFactor *float64 `yaml:"infection_factor"`
	RecoveryFactor  *float64 `yaml:"recovery_factor,omitempty"` // defaults to 1
}

// Output selects the artifacts a batch run writes
type Output struct {
	Charts     bool       `yaml:"charts,omitempty"`     // per-experiment S/I/R curve PNGs
	CSV        bool       `yaml:"csv,omitempty"`        // per-experiment series CSVs
	Comparison bool       `yaml:"comparison,omitempty"` // one infected-curve comparison PNG
	Animation  *Animation `yaml:"animation,omitempty"`
}

// Animation configures the lattice spread video for one experiment
type Animation struct {
	Experiment string `yaml:"experiment"`            // name of a lattice experiment in the scenario
	CellPixels int    `yaml:"cell_pixels,omitempty"` // defaults to 8
	FPS        int    `yaml:"fps,omitempty"`         // defaults to 10
}
