package sim

import "github.com/infersim/infersim/sim/trace"

// newTestEngine wires an Engine with a MemorySink so tests can assert
// directly on the emitted record stream without touching disk.
func newTestEngine(workers []*Worker, sched Scheduler, seed string, gens []Generator) (*Engine, *trace.MemorySink) {
	sink := trace.NewMemorySink()
	eng := NewEngine(workers, sched, NewRNGTree(seed), sink, gens)
	return eng, sink
}
