package scheduler

import (
	"container/heap"
	"time"
)

type entryKind int

const (
	kindReminder entryKind = iota
	kindSnoozed
)

// entry is one pending delivery in the due queue.
type entry struct {
	due  time.Time
	kind entryKind
	id   int64
	seq  int // insertion order, ties broken oldest-first
}

// dueQueue is a min-heap keyed by absolute due time. Dispatching everything
// with due <= now means a delayed tick (host asleep, previous tick overran)
// delivers late instead of skipping the minute entirely.
type dueQueue []*entry

func (q dueQueue) Len() int { return len(q) }

func (q dueQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q dueQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *dueQueue) Push(x any) { *q = append(*q, x.(*entry)) }

func (q *dueQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

func (q *dueQueue) push(e *entry) {
	e.seq = q.Len()
	heap.Push(q, e)
}

// popDue removes and returns the earliest entry if its due time is at or
// before now.
func (q *dueQueue) popDue(now time.Time) (*entry, bool) {
	if q.Len() == 0 || (*q)[0].due.After(now) {
		return nil, false
	}
	return heap.Pop(q).(*entry), true
}
