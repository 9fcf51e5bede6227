package config

// Default returns the built-in base configuration every load starts from.
// It is deliberately minimal: a single FIFO worker, no incoming traffic,
// and a NoEvents termination — a config file or preset is expected to
// supply the actual workload.
func Default() RunConfig {
	return RunConfig{
		Seed:      "stripy zebra",
		OutputDir: "./out/{preset}",
		Incoming:  nil,
		Scheduler: SchedulerConfig{Kind: "fifo"},
		Workers:   []WorkerConfig{{BatchSize: 1}},
		Until:     UntilConfig{Kind: "no_events"},
		Trace:     TraceConfig{Formats: []string{"csv"}},
		Presets:   map[string]PresetConfig{},
	}
}
