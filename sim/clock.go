package sim

import "container/heap"

// EventQueue is a single-threaded min-heap of timestamped events, ordered by
// (timestamp, seq): equal timestamps fire in insertion order. This is the
// system's sole ordering guarantee; nothing else may be relied upon.
type EventQueue struct {
	items eventItems
	now   float64
	seq   uint64
}

// NewEventQueue returns an empty queue with the clock at t=0.
func NewEventQueue() *EventQueue {
	q := &EventQueue{}
	heap.Init(&q.items)
	return q
}

// Now returns the current simulated time. Monotonic: never decreases.
func (q *EventQueue) Now() float64 { return q.now }

// Len reports how many live (non-cancelled) events remain queued. Cancelled
// events are still physically present until popped, so this walks the heap;
// callers on the hot path should prefer checking Empty.
func (q *EventQueue) Len() int {
	n := 0
	for _, it := range q.items {
		if !it.dead {
			n++
		}
	}
	return n
}

// Empty reports whether the queue has no live events left.
func (q *EventQueue) Empty() bool {
	for _, it := range q.items {
		if !it.dead {
			return false
		}
	}
	return true
}

// Handle cancels a previously pushed event.
type Handle struct {
	item *queuedEvent
}

// Cancel marks the event dead. Pop skips dead events without advancing time
// for them. Cancelling an already-fired or already-cancelled handle is a
// no-op.
func (h *Handle) Cancel() {
	if h != nil && h.item != nil {
		h.item.dead = true
	}
}

// Push schedules event at timestamp ts, assigning it a fresh seq. ts must be
// >= Now(); violating this is a logic error; the caller has miscomputed a
// timestamp.
func (q *EventQueue) Push(event Event, ts float64) *Handle {
	if ts < q.now {
		Fatalf("EventQueue.Push: timestamp %g is before now %g", ts, q.now)
	}
	item := &queuedEvent{event: event, ts: ts, seq: q.seq}
	q.seq++
	heap.Push(&q.items, item)
	return &Handle{item: item}
}

// Pop removes and returns the event with the smallest (timestamp, seq),
// advancing now to its timestamp. Dead events are skipped without advancing
// the clock. Returns false once no live events remain.
func (q *EventQueue) Pop() (Event, bool) {
	for q.items.Len() > 0 {
		item := heap.Pop(&q.items).(*queuedEvent)
		if item.dead {
			continue
		}
		q.now = item.ts
		return item.event, true
	}
	return nil, false
}

// PeekTimestamp returns the timestamp of the next live event without
// removing it, and whether one exists. Used by the Until{Time} predicate,
// which must decide whether to fire an event *before* advancing the clock to
// its timestamp.
func (q *EventQueue) PeekTimestamp() (float64, bool) {
	for q.items.Len() > 0 {
		item := q.items[0]
		if !item.dead {
			return item.ts, true
		}
		heap.Pop(&q.items)
	}
	return 0, false
}

type queuedEvent struct {
	event Event
	ts    float64
	seq   uint64
	dead  bool
}

// eventItems implements container/heap.Interface, ordered by (ts, seq).
type eventItems []*queuedEvent

func (h eventItems) Len() int { return len(h) }

func (h eventItems) Less(i, j int) bool {
	if h[i].ts != h[j].ts {
		return h[i].ts < h[j].ts
	}
	return h[i].seq < h[j].seq
}

func (h eventItems) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventItems) Push(x interface{}) {
	*h = append(*h, x.(*queuedEvent))
}

func (h *eventItems) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
