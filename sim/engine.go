// Defines Engine, the orchestrator that owns the event queue, the worker
// registry, the scheduler, the RNG tree, and the trace sink, and runs the
// single-threaded cooperative event loop described in the design notes: pop
// the earliest event, advance now, dispatch it, repeat until Until trips or
// the queue drains.
package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/infersim/infersim/sim/trace"
)

// UntilKind selects which termination predicate an Engine run obeys.
type UntilKind int

const (
	UntilNoEvents UntilKind = iota
	UntilTime
	UntilCount
)

// UntilConfig is the tagged Until predicate from the configuration surface.
type UntilConfig struct {
	Kind UntilKind
	Max  float64 // interpreted as a time bound for UntilTime, a count for UntilCount
}

// Engine ties together the event queue, worker fleet, scheduler, RNG tree,
// and trace sink for one simulation run. Its exported fields are the
// borrowed handles the design notes call for: handlers reach the queue,
// worker registry, and RNG through the Engine passed to them, never through
// global state.
type Engine struct {
	Queue      *EventQueue
	Workers    []*Worker
	Scheduler  Scheduler
	RNG        *RNGTree
	Sink       trace.EventSink
	Generators []Generator

	jobs jobFactory

	admitted map[uint64]*Job
	metrics  Metrics
	// TraceIncomplete is set once any Emit call to Sink has failed. The run
	// continues regardless, per the SinkError design: a sink failure is a
	// warning, not fatal.
	TraceIncomplete bool
	dispatchedN     int
}

// NewEngine wires the given workers, scheduler, RNG tree, sink, and
// generators into a fresh Engine at t=0.
func NewEngine(workers []*Worker, scheduler Scheduler, rng *RNGTree, sink trace.EventSink, generators []Generator) *Engine {
	return &Engine{
		Queue:      NewEventQueue(),
		Workers:    workers,
		Scheduler:  scheduler,
		RNG:        rng,
		Sink:       sink,
		Generators: generators,
		admitted:   make(map[uint64]*Job),
	}
}

// IdleWorker returns the first idle worker in registration order, or nil if
// none is idle. Worker-ID order is the tie-break for which worker gets the
// next batch when several are idle simultaneously.
func (e *Engine) IdleWorker() *Worker {
	for _, w := range e.Workers {
		if w.IsIdle() {
			return w
		}
	}
	return nil
}

// SmallestBatchSize returns the smallest batch_size among configured
// workers, or 0 if there are none. The My scheduler's push algorithm plans
// batch boundaries against this size so every planned batch is dispatchable
// by at least one worker; see the heterogeneous-fleet design decision.
func (e *Engine) SmallestBatchSize() int {
	smallest := 0
	for _, w := range e.Workers {
		if smallest == 0 || w.BatchSize < smallest {
			smallest = w.BatchSize
		}
	}
	return smallest
}

// emit forwards a trace record to the sink and tallies it into the running
// Metrics. A SinkError does not abort the run: it is logged and the run's
// trace is marked incomplete, per the error-handling design (SinkError is a
// warning, not fatal). Metrics are tallied here, independent of sink
// success, so `infersim run`'s end-of-run summary is correct even when the
// trace itself is incomplete.
func (e *Engine) emit(record trace.Record) {
	switch rec := record.(type) {
	case trace.JobAdmitted:
		e.metrics.Admitted++
	case trace.JobFinished:
		e.metrics.Finished++
		if rec.Late {
			e.metrics.Late++
		}
	case trace.JobDropped:
		e.metrics.Dropped++
	}
	if err := e.Sink.Emit(record); err != nil {
		e.TraceIncomplete = true
		logrus.Warnf("sink error, trace incomplete: %v", &SinkError{Op: "emit", Err: err})
	}
}

// Metrics returns the admitted/finished/late/dropped tally accumulated over
// the run so far.
func (e *Engine) Metrics() Metrics {
	return e.metrics
}

// recordAdmitted is called once per job on arrival: it enters the admitted
// set (for job-conservation bookkeeping) and emits a JobAdmitted trace.
func (e *Engine) recordAdmitted(job *Job) {
	e.admitted[job.ID] = job
	e.emit(trace.JobAdmitted{
		ID:           job.ID,
		AdmittedAt:   job.AdmittedAt,
		Deadline:     job.Deadline,
		LengthSample: job.LengthSample,
		P99:          job.P99,
	})
}

// recordFinished removes a job from the admitted set once it has finished;
// JobFinished itself is emitted by Worker.completeBatch, since that is
// where started_at/finished_at are authoritative.
func (e *Engine) recordFinished(job *Job) {
	delete(e.admitted, job.ID)
}

// recordDropped removes a job from the admitted set and emits a JobDropped
// trace with the policy-supplied reason. Called by a scheduler policy that
// decides to drop a pending job; the worker never drops jobs itself.
func (e *Engine) recordDropped(job *Job, now float64, reason string) {
	delete(e.admitted, job.ID)
	job.State = JobDropped
	e.emit(trace.JobDropped{ID: job.ID, At: now, Reason: reason})
}

// PendingAdmitted returns the number of admitted jobs that have neither
// finished nor been dropped yet. Exposed for tests asserting job
// conservation and for S6-style starvation scenarios.
func (e *Engine) PendingAdmitted() int {
	return len(e.admitted)
}

// Run starts every generator, then drives the event loop until the Until
// predicate trips or the queue is exhausted. Time and Count predicates are
// checked by peeking at the next event before popping it, so an event whose
// timestamp/index would violate the cap never executes; see the Until{Time}
// design decision.
func (e *Engine) Run(until UntilConfig) {
	for _, g := range e.Generators {
		g.Start(e)
	}

	for {
		if until.Kind == UntilNoEvents && e.Queue.Empty() {
			break
		}
		if until.Kind == UntilTime {
			ts, ok := e.Queue.PeekTimestamp()
			if !ok || ts >= until.Max {
				break
			}
		}
		if until.Kind == UntilCount && e.dispatchedN >= int(until.Max) {
			break
		}

		ev, ok := e.Queue.Pop()
		if !ok {
			break
		}
		e.dispatchedN++
		ev.Execute(e)
	}

	logrus.Debugf("run ended at t=%.4f after %d events, %d jobs still pending", e.Queue.Now(), e.dispatchedN, e.PendingAdmitted())
}
