// Defines the Scheduler contract (C5) and its two simplest reference
// policies, FIFO and Random. Both hold the pending set as an ordered slice
// and dispatch eagerly on every stimulus; the more involved deadline-aware
// policy lives in scheduler_my.go.
package sim

import "fmt"

// Scheduler is the pluggable dispatch policy. Implementations own the
// pending set and any per-policy state (timer handles, RNG). The set of
// implementations is closed at build time: FIFO, Random, My.
type Scheduler interface {
	// OnArrival is called once per admitted job.
	OnArrival(eng *Engine, job *Job)
	// OnWorkerIdle is called whenever a worker transitions to idle,
	// including spurious calls with an empty pending set; implementations
	// must be idempotent against those and do nothing.
	OnWorkerIdle(eng *Engine, workerID int)
	// OnTimer delivers a wakeup the policy itself armed via Engine.Queue.
	OnTimer(eng *Engine, token string)
}

// NewScheduler constructs a Scheduler by name. Valid names: "fifo",
// "random", "my". Panics on unrecognized names, since the scheduler kind is
// a config-validation concern the caller must resolve before construction.
func NewScheduler(name string, opts SchedulerOptions) Scheduler {
	if !IsValidScheduler(name) {
		panic(fmt.Sprintf("unknown scheduler %q", name))
	}
	switch name {
	case "fifo":
		return &FIFOScheduler{}
	case "random":
		return &RandomScheduler{}
	case "my":
		return NewMyScheduler(opts.Percentile, opts.Step, opts.MaxPushIterations)
	default:
		panic(fmt.Sprintf("unhandled scheduler %q", name))
	}
}

// SchedulerOptions carries the union of every policy's construction
// parameters; only the fields relevant to the chosen policy are read.
type SchedulerOptions struct {
	Percentile        float64
	Step              float64
	MaxPushIterations int
}

// IsValidScheduler reports whether name is a recognized scheduler kind.
func IsValidScheduler(name string) bool {
	switch name {
	case "fifo", "random", "my":
		return true
	default:
		return false
	}
}

// FIFOScheduler dispatches the earliest-admitted pending jobs first, ties
// broken by id. On any stimulus, while an idle worker and a non-empty
// pending set both exist, it dispatches min(batch_size, |pending|) jobs.
type FIFOScheduler struct {
	pending []*Job
}

func (s *FIFOScheduler) OnArrival(eng *Engine, job *Job) {
	s.pending = append(s.pending, job)
	s.drain(eng)
}

func (s *FIFOScheduler) OnWorkerIdle(eng *Engine, _ int) {
	s.drain(eng)
}

func (s *FIFOScheduler) OnTimer(_ *Engine, _ string) {
	// FIFO arms no timers.
}

func (s *FIFOScheduler) drain(eng *Engine) {
	for len(s.pending) > 0 {
		w := eng.IdleWorker()
		if w == nil {
			return
		}
		n := min(w.BatchSize, len(s.pending))
		batch := s.pending[:n]
		s.pending = s.pending[n:]
		w.Dispatch(eng, eng.Queue.Now(), batch)
	}
}

// RandomScheduler is FIFO's structural twin, except each dispatch draws a
// uniform random subset of the pending set without replacement, using the
// scheduler's seeded RNG child so repeated runs of the same seed reproduce
// the same draws.
type RandomScheduler struct {
	pending []*Job
}

func (s *RandomScheduler) OnArrival(eng *Engine, job *Job) {
	s.pending = append(s.pending, job)
	s.drain(eng)
}

func (s *RandomScheduler) OnWorkerIdle(eng *Engine, _ int) {
	s.drain(eng)
}

func (s *RandomScheduler) OnTimer(_ *Engine, _ string) {
	// Random arms no timers.
}

func (s *RandomScheduler) drain(eng *Engine) {
	rng := eng.RNG.Child(RNGScheduler)
	for len(s.pending) > 0 {
		w := eng.IdleWorker()
		if w == nil {
			return
		}
		n := min(w.BatchSize, len(s.pending))
		// Fisher-Yates partial shuffle: shuffle the first n slots into a
		// uniform random subset, then dispatch it and compact the rest.
		for i := 0; i < n; i++ {
			j := i + rng.Intn(len(s.pending)-i)
			s.pending[i], s.pending[j] = s.pending[j], s.pending[i]
		}
		batch := append([]*Job(nil), s.pending[:n]...)
		s.pending = s.pending[n:]
		w.Dispatch(eng, eng.Queue.Now(), batch)
	}
}
