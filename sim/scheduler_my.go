// Implements the "My" deadline-aware push policy (Design B, "spring push"
// from the algorithm note): each pending job is pushed as late as its
// feasible interval allows without violating any later job's deadline. See
// the state machine described in the package's design notes: Idle ->
// Planning -> Armed(timer) -> Planning -> ...
package sim

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// MyScheduler is the deadline-aware push policy. Percentile is stored but
// not read by the planner: the analytic feasibility check always uses each
// job's own P99, the fixed 0.99 quantile of its LengthSpec.
type MyScheduler struct {
	Percentile        float64
	Step              float64
	MaxPushIterations int

	pending []*Job
	armed   *Handle
	armedAt float64
}

// NewMyScheduler constructs a MyScheduler. step<=0 defaults to 0.1;
// maxIterations<=0 defaults to 10000, per the open tunables recorded in the
// design notes.
func NewMyScheduler(percentile, step float64, maxIterations int) *MyScheduler {
	if step <= 0 {
		step = 0.1
	}
	if maxIterations <= 0 {
		maxIterations = 10000
	}
	return &MyScheduler{Percentile: percentile, Step: step, MaxPushIterations: maxIterations}
}

func (s *MyScheduler) OnArrival(eng *Engine, job *Job) {
	s.pending = append(s.pending, job)
	s.replan(eng)
}

func (s *MyScheduler) OnWorkerIdle(eng *Engine, _ int) {
	s.replan(eng)
}

func (s *MyScheduler) OnTimer(eng *Engine, token string) {
	if token != s.timerToken() {
		return // stale timer, superseded by a later replan
	}
	s.armed = nil
	s.replan(eng)
}

func (s *MyScheduler) timerToken() string {
	return fmt.Sprintf("my-replan-%.6f", s.armedAt)
}

// replan cancels any armed timer and re-enters Planning: it is pure (reads
// pending + worker state, decides what to dispatch now and when to wake up
// next) until the final emit step, per the state machine contract.
func (s *MyScheduler) replan(eng *Engine) {
	if s.armed != nil {
		s.armed.Cancel()
		s.armed = nil
	}
	if len(s.pending) == 0 {
		return
	}

	batchSize := eng.SmallestBatchSize()
	if batchSize <= 0 {
		return // no workers configured at all; S6 starvation case
	}

	now := eng.Queue.Now()
	ordered := s.sortedByFeasibleEnd()

	tau := s.searchPushPoint(ordered, batchSize, now)

	dispatchable, nextBatchStart, nextBatch := s.partitionAtTau(ordered, batchSize, tau, now)

	for len(dispatchable) > 0 {
		w := eng.IdleWorker()
		if w == nil {
			break
		}
		n := len(dispatchable)
		if n > w.BatchSize {
			n = w.BatchSize
		}
		batch := dispatchable[:n]
		dispatchable = dispatchable[n:]
		s.removeDispatched(batch)
		w.Dispatch(eng, now, batch)
	}

	if len(nextBatch) > 0 && nextBatchStart > now {
		s.armedAt = nextBatchStart
		s.armed = eng.Queue.Push(&TimerEvent{ts: nextBatchStart, Token: s.timerToken()}, nextBatchStart)
	}
}

// sortedByFeasibleEnd returns a fresh copy of pending sorted by
// deadline-p99 ascending, ties broken by admitted_at then id (step 1 of the
// algorithm).
func (s *MyScheduler) sortedByFeasibleEnd() []*Job {
	ordered := append([]*Job(nil), s.pending...)
	sort.SliceStable(ordered, func(i, j int) bool {
		fi, fj := ordered[i].FeasibleEnd(), ordered[j].FeasibleEnd()
		if fi != fj {
			return fi < fj
		}
		if ordered[i].AdmittedAt != ordered[j].AdmittedAt {
			return ordered[i].AdmittedAt < ordered[j].AdmittedAt
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

// tentativeStarts assigns each job in ordered a tentative start under
// push-point tau: s_i = max(tau, s_{i-1}+delta_i, now), where delta_i is 0
// within a batch and the straggler length of the previous batch when a
// batch boundary (every batchSize jobs) is crossed. Since exec time is not
// known until a batch's straggler is realized, and length_sample is already
// sampled at admission (deterministic), the straggler is computable ahead
// of dispatch by taking max(length_sample) over each candidate batch.
func tentativeStarts(ordered []*Job, batchSize int, tau, now float64) []float64 {
	starts := make([]float64, len(ordered))
	prevBatchEnd := 0.0
	havePrevBatch := false
	for i := 0; i < len(ordered); i += batchSize {
		end := i + batchSize
		if end > len(ordered) {
			end = len(ordered)
		}
		batchStart := tau
		if batchStart < now {
			batchStart = now
		}
		if havePrevBatch && prevBatchEnd > batchStart {
			batchStart = prevBatchEnd
		}
		straggler := 0.0
		for k := i; k < end; k++ {
			starts[k] = batchStart
			if ordered[k].LengthSample > straggler {
				straggler = ordered[k].LengthSample
			}
		}
		prevBatchEnd = batchStart + straggler
		havePrevBatch = true
	}
	return starts
}

// searchPushPoint implements steps 2-4: walk tau upward from now, checking
// feasibility at each step, until either a push fails (roll back to the
// last feasible tau) or the iteration bound is hit.
func (s *MyScheduler) searchPushPoint(ordered []*Job, batchSize int, now float64) float64 {
	best := now
	if !hasFeasibleAtAdmission(ordered) {
		// Nothing constrains how late we could push, so pushing at all
		// would only delay already-hopeless jobs further; dispatch at now.
		return best
	}
	tau := now
	for iter := 0; iter < s.MaxPushIterations; iter++ {
		starts := tentativeStarts(ordered, batchSize, tau, now)
		if !feasible(ordered, starts, now) {
			break
		}
		best = tau
		tau += s.Step
	}
	return best
}

// hasFeasibleAtAdmission reports whether at least one job in ordered was
// still feasible when admitted (deadline-p99 >= admitted_at).
func hasFeasibleAtAdmission(ordered []*Job) bool {
	for _, j := range ordered {
		if j.FeasibleEnd() >= j.AdmittedAt {
			return true
		}
	}
	return false
}

// feasible reports whether every job already-feasible at admission time
// still meets s_i <= deadline_i - p99_i under starts. Jobs whose feasible
// interval was already violated at admission (deadline-p99 < admitted_at)
// are exempt from this check: per the design notes they are dispatched in
// the next available batch regardless, not treated as a push-search
// constraint.
func feasible(ordered []*Job, starts []float64, now float64) bool {
	for i, j := range ordered {
		if j.FeasibleEnd() < j.AdmittedAt {
			continue // already infeasible at admission; not a search constraint
		}
		if starts[i] > j.FeasibleEnd()+1e-9 {
			return false
		}
	}
	return true
}

// partitionAtTau realizes step 5: the leading prefix of ordered that forms
// consecutive full batches whose tentative start is <= now is returned as
// dispatchable; the next not-yet-dispatched batch (if any) is returned
// separately along with its planned start, so replan can arm a timer for
// it.
func (s *MyScheduler) partitionAtTau(ordered []*Job, batchSize int, tau, now float64) (dispatchable []*Job, nextStart float64, nextBatch []*Job) {
	starts := tentativeStarts(ordered, batchSize, tau, now)
	i := 0
	for i < len(ordered) {
		end := i + batchSize
		full := end <= len(ordered)
		if !full {
			break
		}
		if starts[i] > now+1e-9 {
			break
		}
		dispatchable = append(dispatchable, ordered[i:end]...)
		i = end
	}
	if i < len(ordered) {
		end := i + batchSize
		if end > len(ordered) {
			end = len(ordered)
		}
		nextBatch = ordered[i:end]
		nextStart = starts[i]
		for _, j := range nextBatch {
			if j.FeasibleEnd() < j.AdmittedAt {
				logrus.Warnf("job %d already infeasible at admission (deadline-p99=%.4f < admitted_at=%.4f); will dispatch late", j.ID, j.FeasibleEnd(), j.AdmittedAt)
			}
		}
	}
	return dispatchable, nextStart, nextBatch
}

func (s *MyScheduler) removeDispatched(batch []*Job) {
	dispatched := make(map[uint64]bool, len(batch))
	for _, j := range batch {
		dispatched[j.ID] = true
	}
	kept := s.pending[:0]
	for _, j := range s.pending {
		if !dispatched[j.ID] {
			kept = append(kept, j)
		}
	}
	s.pending = kept
}
