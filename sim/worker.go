// Defines Worker, a fixed-batch-size inference unit that consumes a batch
// and runs for the straggler length of the batch, modeling pad-to-longest
// GPU batching.
package sim

import "github.com/infersim/infersim/sim/trace"

type workerState int

const (
	workerIdle workerState = iota
	workerBusy
)

// Worker owns exactly the batch it is currently executing; it owns nothing
// while idle.
type Worker struct {
	ID        int
	BatchSize int

	state workerState
	until float64
	batch []*Job
}

// NewWorker returns an idle worker with the given fixed batch size.
func NewWorker(id, batchSize int) *Worker {
	return &Worker{ID: id, BatchSize: batchSize, state: workerIdle}
}

// IsIdle reports whether the worker can accept a new batch.
func (w *Worker) IsIdle() bool { return w.state == workerIdle }

// Until returns the simulated time this worker becomes idle again. Only
// meaningful while busy.
func (w *Worker) Until() float64 { return w.until }

// Dispatch hands batch to the worker. Precondition: IsIdle() and
// 1 <= len(batch) <= BatchSize; violating either is a logic error, since a
// scheduler is never allowed to overfill a worker or dispatch to a busy one.
func (w *Worker) Dispatch(eng *Engine, now float64, batch []*Job) {
	if !w.IsIdle() {
		Fatalf("worker %d: dispatch while busy", w.ID)
	}
	if len(batch) == 0 || len(batch) > w.BatchSize {
		Fatalf("worker %d: dispatch with invalid batch size %d (max %d)", w.ID, len(batch), w.BatchSize)
	}

	execTime := straggler(batch)
	w.state = workerBusy
	w.until = now + execTime
	w.batch = batch

	ids := make([]uint64, len(batch))
	for i, j := range batch {
		j.State = JobRunning
		j.StartedAt = now
		ids[i] = j.ID
	}

	eng.emit(trace.BatchStart{
		WorkerID:     w.ID,
		JobIDs:       ids,
		StartAt:      now,
		PredictedEnd: now + execTime,
	})
	eng.Queue.Push(&BatchDoneEvent{ts: now + execTime, WorkerID: w.ID}, now+execTime)
}

// completeBatch is invoked by BatchDoneEvent.Execute: it finalizes every job
// in the current batch, emits a JobFinished trace per job, and returns the
// worker to idle.
func (w *Worker) completeBatch(eng *Engine, now float64) {
	batch := w.batch
	w.batch = nil
	w.state = workerIdle
	w.until = now

	for _, j := range batch {
		j.FinishedAt = now
		j.State = JobDone
		late := now > j.Deadline
		eng.emit(trace.JobFinished{
			ID:         j.ID,
			StartedAt:  j.StartedAt,
			FinishedAt: now,
			Late:       late,
		})
		eng.recordFinished(j)
	}
}

// straggler is the batch's execution time under pad-to-longest batching: the
// maximum realized length_sample among its jobs.
func straggler(batch []*Job) float64 {
	if len(batch) == 0 {
		Fatalf("straggler: empty batch")
	}
	max := batch[0].LengthSample
	for _, j := range batch[1:] {
		if j.LengthSample > max {
			max = j.LengthSample
		}
	}
	return max
}
