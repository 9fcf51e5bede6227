// Package config defines RunConfig, the external configuration surface
// consumed (not defined) by the simulation core in sim/. Loading is
// layered: built-in defaults, overlaid by an optional config file, overlaid
// by a named preset from that file — a grouped-config-struct with
// gopkg.in/yaml.v3 tagged-field decoding.
package config

// RunConfig is the full, unmerged configuration document: base fields plus
// a set of named preset overlays.
type RunConfig struct {
	Seed      string                  `yaml:"seed"`
	OutputDir string                  `yaml:"output_dir"`
	Incoming  []IncomingSpecConfig    `yaml:"incoming"`
	Scheduler SchedulerConfig         `yaml:"scheduler"`
	Workers   []WorkerConfig          `yaml:"workers"`
	Until     UntilConfig             `yaml:"until"`
	Trace     TraceConfig             `yaml:"trace"`
	Presets   map[string]PresetConfig `yaml:"presets,omitempty"`
}

// TraceConfig selects which EventSink(s) a run writes to. Formats lists one
// or more of "csv", "chrome"; more than one fans out through
// trace.MultiSink so a run can emit both at once.
type TraceConfig struct {
	Formats []string `yaml:"formats,omitempty"`
}

// IncomingSpecConfig is one generator spec. Kind selects which fields are
// meaningful: "one_batch" reads Delay/NJobs; "rate" reads Unit/Per/Bursty
// and optionally Stop.
type IncomingSpecConfig struct {
	Kind   string       `yaml:"kind"`
	Delay  float64      `yaml:"delay,omitempty"`
	NJobs  int          `yaml:"n_jobs,omitempty"`
	Unit   int          `yaml:"unit,omitempty"`
	Per    float64      `yaml:"per,omitempty"`
	Bursty bool         `yaml:"bursty,omitempty"`
	Stop   float64      `yaml:"stop,omitempty"`
	Length LengthConfig `yaml:"length"`
	Budget float64      `yaml:"budget"`
}

// LengthConfig selects a LengthSpec variant by Kind: "exp" reads
// Lambda/Offset/Factor, "normal" reads Mean/StdDev, "lognormal" reads
// Mu/Sigma, "constant" reads Value.
type LengthConfig struct {
	Kind   string  `yaml:"kind"`
	Lambda float64 `yaml:"lambda,omitempty"`
	Offset float64 `yaml:"offset,omitempty"`
	Factor float64 `yaml:"factor,omitempty"`
	Mean   float64 `yaml:"mean,omitempty"`
	StdDev float64 `yaml:"stddev,omitempty"`
	Mu     float64 `yaml:"mu,omitempty"`
	Sigma  float64 `yaml:"sigma,omitempty"`
	Value  float64 `yaml:"value,omitempty"`
}

// SchedulerConfig selects a Scheduler variant by Kind: "fifo", "random", or
// "my" (which additionally reads Percentile/Step/MaxPushIterations).
type SchedulerConfig struct {
	Kind              string  `yaml:"kind"`
	Percentile        float64 `yaml:"percentile,omitempty"`
	Step              float64 `yaml:"step,omitempty"`
	MaxPushIterations int     `yaml:"max_push_iterations,omitempty"`
}

// WorkerConfig describes one worker in the fleet.
type WorkerConfig struct {
	BatchSize int `yaml:"batch_size"`
}

// UntilConfig selects the termination predicate by Kind: "time" (reads
// Max as a time bound), "count" (reads Max as an event count), or
// "no_events" (ignores Max).
type UntilConfig struct {
	Kind string  `yaml:"kind"`
	Max  float64 `yaml:"max,omitempty"`
}

// PresetConfig is a named overlay: every field is optional, and a non-nil
// pointer (or non-nil slice) field replaces the corresponding RunConfig
// field wholesale rather than merging element-by-element.
type PresetConfig struct {
	Seed      *string              `yaml:"seed,omitempty"`
	OutputDir *string              `yaml:"output_dir,omitempty"`
	Incoming  []IncomingSpecConfig `yaml:"incoming,omitempty"`
	Scheduler *SchedulerConfig     `yaml:"scheduler,omitempty"`
	Workers   []WorkerConfig       `yaml:"workers,omitempty"`
	Until     *UntilConfig         `yaml:"until,omitempty"`
	Trace     *TraceConfig         `yaml:"trace,omitempty"`
}
