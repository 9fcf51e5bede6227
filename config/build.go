package config

import (
	"os"
	"path/filepath"

	"github.com/infersim/infersim/sim"
	"github.com/infersim/infersim/sim/trace"
)

// BuildLength converts a LengthConfig into the sim.LengthSpec it names.
// Callers must have already validated Kind via RunConfig.Validate.
func BuildLength(c LengthConfig) sim.LengthSpec {
	switch c.Kind {
	case "exp":
		return sim.ExpLength{Lambda: c.Lambda, Offset: c.Offset, Factor: c.Factor}
	case "normal":
		return sim.NormalLength{Mean: c.Mean, StdDev: c.StdDev}
	case "lognormal":
		return sim.LognormalLength{Mu: c.Mu, Sigma: c.Sigma}
	case "constant":
		return sim.ConstantLength{Value: c.Value}
	default:
		sim.Fatalf("BuildLength: unknown length kind %q", c.Kind)
		return nil
	}
}

// BuildGenerators converts every IncomingSpecConfig into its sim.Generator.
func BuildGenerators(specs []IncomingSpecConfig) []sim.Generator {
	gens := make([]sim.Generator, 0, len(specs))
	for _, s := range specs {
		spec := sim.IncomingSpec{Length: BuildLength(s.Length), Budget: s.Budget}
		switch s.Kind {
		case "one_batch":
			gens = append(gens, &sim.OneBatchGenerator{Delay: s.Delay, NJobs: s.NJobs, Spec: spec})
		case "rate":
			gens = append(gens, &sim.RateGenerator{Unit: s.Unit, Per: s.Per, Bursty: s.Bursty, Spec: spec, Stop: s.Stop})
		default:
			sim.Fatalf("BuildGenerators: unknown incoming kind %q", s.Kind)
		}
	}
	return gens
}

// BuildWorkers converts every WorkerConfig into a sim.Worker, assigning IDs
// by position so Worker.ID always equals its index in the returned slice —
// an invariant Engine's BatchDoneEvent dispatch relies on.
func BuildWorkers(specs []WorkerConfig) []*sim.Worker {
	workers := make([]*sim.Worker, len(specs))
	for i, w := range specs {
		workers[i] = sim.NewWorker(i, w.BatchSize)
	}
	return workers
}

// BuildScheduler converts a SchedulerConfig into its sim.Scheduler.
func BuildScheduler(c SchedulerConfig) sim.Scheduler {
	return sim.NewScheduler(c.Kind, sim.SchedulerOptions{
		Percentile:        c.Percentile,
		Step:              c.Step,
		MaxPushIterations: c.MaxPushIterations,
	})
}

// BuildUntil converts an UntilConfig into its sim.UntilConfig.
func BuildUntil(c UntilConfig) sim.UntilConfig {
	switch c.Kind {
	case "time":
		return sim.UntilConfig{Kind: sim.UntilTime, Max: c.Max}
	case "count":
		return sim.UntilConfig{Kind: sim.UntilCount, Max: c.Max}
	case "no_events":
		return sim.UntilConfig{Kind: sim.UntilNoEvents}
	default:
		sim.Fatalf("BuildUntil: unknown until kind %q", c.Kind)
		return sim.UntilConfig{}
	}
}

// BuildEngine assembles a fully wired sim.Engine from an effective
// RunConfig and a sink, ready to Run.
func BuildEngine(eff *RunConfig, sink trace.EventSink) *sim.Engine {
	workers := BuildWorkers(eff.Workers)
	scheduler := BuildScheduler(eff.Scheduler)
	rng := sim.NewRNGTree(eff.Seed)
	generators := BuildGenerators(eff.Incoming)
	return sim.NewEngine(workers, scheduler, rng, sink, generators)
}

// BuildSink constructs the EventSink(s) named by formats, rooted at
// outputDir. "csv" and "chrome" are interchangeable single sinks; listing
// both fans records out to each via trace.MultiSink, per the "both must be
// interchangeable" / "fans one engine's records out to several sinks at
// once" contract. Validation of the format names themselves happens in
// RunConfig.Validate; an unrecognized name reaching here is a logic error.
func BuildSink(outputDir string, formats []string) (trace.EventSink, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, sim.NewConfigError("creating output dir: %v", err)
	}
	sinks := make([]trace.EventSink, 0, len(formats))
	for _, f := range formats {
		switch f {
		case "csv":
			s, err := trace.NewCSVSink(outputDir)
			if err != nil {
				return nil, sim.NewConfigError("building csv sink: %v", err)
			}
			sinks = append(sinks, s)
		case "chrome":
			sinks = append(sinks, trace.NewChromeTraceSink(filepath.Join(outputDir, "trace.json")))
		default:
			sim.Fatalf("BuildSink: unknown trace format %q", f)
		}
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return trace.NewMultiSink(sinks...), nil
}
