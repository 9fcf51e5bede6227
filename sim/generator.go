// Defines the incoming generator model (C3): declarative specs that produce
// Arrival events into the event queue. A run carries a list of generators;
// their streams are merged purely by virtue of all being pushed through the
// same EventQueue.
package sim

import "github.com/sirupsen/logrus"

// Generator produces a (possibly unbounded) stream of arrivals by scheduling
// its own next arrival event each time one fires: a self-rescheduling
// generation loop, one instance per configured incoming stream.
type Generator interface {
	// Start pushes this generator's first event, if any.
	Start(eng *Engine)
}

// OneBatchGenerator emits n_jobs arrivals, all stamped at t0+delay, in a
// single burst. A zero-job burst is a no-op: it never pushes an Arrival.
type OneBatchGenerator struct {
	Delay  float64
	NJobs  int
	Spec   IncomingSpec
	Label  string // RNG child label; defaults to RNGIncoming if empty
	rngKey string
}

func (g *OneBatchGenerator) Start(eng *Engine) {
	if g.NJobs == 0 {
		return
	}
	eng.Queue.Push(&oneBatchFireEvent{ts: eng.Queue.Now() + g.Delay, gen: g}, eng.Queue.Now()+g.Delay)
}

func (g *OneBatchGenerator) label() string {
	if g.Label != "" {
		return g.Label
	}
	return RNGIncoming
}

// oneBatchFireEvent is the internal event a OneBatchGenerator schedules for
// itself; it is not part of the public Event taxonomy in event.go because it
// carries no information a scheduler or trace consumer needs, only the
// mechanics of materializing the burst.
type oneBatchFireEvent struct {
	ts  float64
	gen *OneBatchGenerator
}

func (e *oneBatchFireEvent) Timestamp() float64 { return e.ts }

func (e *oneBatchFireEvent) Execute(eng *Engine) {
	rng := eng.RNG.Child(e.gen.label())
	logrus.Debugf(">> burst of %d jobs at t=%.4f", e.gen.NJobs, e.ts)
	for i := 0; i < e.gen.NJobs; i++ {
		job := eng.jobs.newJob(e.ts, e.gen.Spec, rng)
		eng.Queue.Push(&ArrivalEvent{ts: e.ts, Job: job}, e.ts)
	}
}

// RateGenerator emits arrivals at rate unit/per jobs per sim-time unit,
// either as bursts of `unit` jobs at every multiple of `per` (Bursty=true),
// or spaced uniformly by per/unit (Bursty=false). It reschedules itself after
// every fire until Stop is reached (or forever, if Stop is 0 — the Until
// predicate is then solely responsible for ending the run).
type RateGenerator struct {
	Unit   int
	Per    float64
	Bursty bool
	Spec   IncomingSpec
	Label  string
	// Stop is the last simulated time at which this generator may fire; 0
	// means unbounded (rely on the run's Until predicate to terminate).
	Stop float64
}

func (g *RateGenerator) Start(eng *Engine) {
	g.scheduleNext(eng, eng.Queue.Now())
}

func (g *RateGenerator) label() string {
	if g.Label != "" {
		return g.Label
	}
	return RNGIncoming
}

func (g *RateGenerator) scheduleNext(eng *Engine, at float64) {
	if g.Stop > 0 && at > g.Stop {
		return
	}
	eng.Queue.Push(&rateFireEvent{ts: at, gen: g}, at)
}

type rateFireEvent struct {
	ts  float64
	gen *RateGenerator
}

func (e *rateFireEvent) Timestamp() float64 { return e.ts }

func (e *rateFireEvent) Execute(eng *Engine) {
	rng := eng.RNG.Child(e.gen.label())
	n := 1
	if e.gen.Bursty {
		n = e.gen.Unit
	}
	logrus.Debugf(">> rate fire: %d job(s) at t=%.4f", n, e.ts)
	for i := 0; i < n; i++ {
		job := eng.jobs.newJob(e.ts, e.gen.Spec, rng)
		eng.Queue.Push(&ArrivalEvent{ts: e.ts, Job: job}, e.ts)
	}

	var next float64
	if e.gen.Bursty {
		next = e.ts + e.gen.Per
	} else {
		next = e.ts + e.gen.Per/float64(e.gen.Unit)
	}
	e.gen.scheduleNext(eng, next)
}
