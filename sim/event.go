// Defines Event, the tagged variant stored in the event queue, and its four
// concrete variants: Arrival, BatchStart, BatchDone, Timer. Each carries its
// own Timestamp and knows how to Execute itself against the running Engine.
// A scheduler's own future re-evaluation wakeup (arm-a-timer-for-myself) is
// a Timer like any other, identified by a policy-chosen token — there is no
// separate event kind for it.
package sim

import "github.com/sirupsen/logrus"

// Event is anything the queue can hold: a timestamp and a handler.
type Event interface {
	Timestamp() float64
	Execute(eng *Engine)
}

// ArrivalEvent delivers a freshly materialized Job to the scheduler.
type ArrivalEvent struct {
	ts  float64
	Job *Job
}

func (e *ArrivalEvent) Timestamp() float64 { return e.ts }

func (e *ArrivalEvent) Execute(eng *Engine) {
	logrus.Debugf("<< arrival: job %d at t=%.4f", e.Job.ID, e.ts)
	eng.recordAdmitted(e.Job)
	eng.Scheduler.OnArrival(eng, e.Job)
}

// BatchStartEvent records that a worker began executing a batch. It is
// realized synchronously inside Worker.Dispatch as a trace record rather
// than pushed through the queue, since it carries no future work of its own;
// it remains a distinct Event variant for uniformity with the data model.
type BatchStartEvent struct {
	ts       float64
	WorkerID int
	Batch    []*Job
}

func (e *BatchStartEvent) Timestamp() float64 { return e.ts }

func (e *BatchStartEvent) Execute(_ *Engine) {
	// No-op: BatchStart never gets scheduled on the queue in this
	// implementation, see the type doc comment.
}

// BatchDoneEvent fires when a worker's batch finishes executing.
type BatchDoneEvent struct {
	ts       float64
	WorkerID int
}

func (e *BatchDoneEvent) Timestamp() float64 { return e.ts }

func (e *BatchDoneEvent) Execute(eng *Engine) {
	w := eng.Workers[e.WorkerID]
	logrus.Debugf("<< batch done: worker %d at t=%.4f", e.WorkerID, e.ts)
	w.completeBatch(eng, e.ts)
	eng.Scheduler.OnWorkerIdle(eng, e.WorkerID)
}

// TimerEvent is a policy-armed wakeup, identified by an opaque token so a
// scheduler can recognize (and ignore) a timer that fired after it was
// logically superseded.
type TimerEvent struct {
	ts    float64
	Token string
}

func (e *TimerEvent) Timestamp() float64 { return e.ts }

func (e *TimerEvent) Execute(eng *Engine) {
	eng.Scheduler.OnTimer(eng, e.Token)
}
