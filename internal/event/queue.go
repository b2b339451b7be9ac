package event

import "container/heap"

// Queue is the time-ordered event timeline (spec.md §4.3). It is
// implemented as a binary heap keyed by Timer, with NONE-typed events
// acting as tombstones that are skipped on pop — the implementation
// freedom spec.md explicitly allows in place of literal index-based
// "local re-sort", while preserving identical observable ordering
// (timer ascending, ties broken by insertion order).
type Queue struct {
	h    queueHeap
	next int64 // monotonically increasing insertion sequence
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Schedule inserts ev into the timeline, assigning it the next insertion
// sequence for deterministic tie-breaking. Used both for first insertion
// and for re-insertion after a state transition advances ev.Timer — in
// both cases the event is moving to a new position in the timeline, so a
// fresh sequence number (placing it after everything currently resident)
// is the correct FIFO tie-break for its new Timer.
func (q *Queue) Schedule(ev *Event) {
	ev.sequence = q.next
	q.next++
	heap.Push(&q.h, ev)
}

// NextLive pops and returns the next live (Type != NONE) event, or nil
// if the queue is exhausted (spec.md §4.3 nextLiveIndex/"done").
// Advancing is monotonic: popped NONE tombstones are discarded and never
// revisited.
func (q *Queue) NextLive() *Event {
	for q.h.Len() > 0 {
		ev := heap.Pop(&q.h).(*Event)
		if ev.Live() {
			return ev
		}
	}
	return nil
}

// Len reports the number of events still resident in the queue
// (including tombstones not yet popped).
func (q *Queue) Len() int {
	return q.h.Len()
}

type queueHeap []*Event

func (h queueHeap) Len() int { return len(h) }

func (h queueHeap) Less(i, j int) bool {
	if h[i].Timer != h[j].Timer {
		return h[i].Timer < h[j].Timer
	}
	return h[i].sequence < h[j].sequence
}

func (h queueHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *queueHeap) Push(x any) {
	*h = append(*h, x.(*Event))
}

func (h *queueHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
