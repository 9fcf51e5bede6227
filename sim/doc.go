// Package sim provides the core discrete-event simulation engine for
// InferSim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - clock.go: EventQueue, the deterministic (timestamp, seq) min-heap
//   - rng.go, length.go: the seeded RNG tree and service-time distributions
//   - job.go, event.go: the data model and the tagged Event variants
//   - generator.go: OneBatch/Rate arrival streams
//   - worker.go: the fixed-batch-size executor
//   - scheduler.go, scheduler_my.go: the pluggable dispatch policies
//   - engine.go: the event loop that ties everything together
//
// # Extension points
//
// A new scheduling policy implements Scheduler (OnArrival/OnWorkerIdle/
// OnTimer). A new service-time distribution implements LengthSpec
// (Sample/P99). A new trace backend implements trace.EventSink. All three
// are closed sets selected by name (NewScheduler, config.BuildLength,
// config.BuildSink), not open-ended plugin loading.
package sim
