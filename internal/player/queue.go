package player

import (
	"container/heap"
	"time"

	"github.com/leandrodaf/chordtap/sdk/contracts"
)

type planned struct {
	at  time.Time
	seq uint64
	msg contracts.Message
}

// plannedHeap orders messages by due time, then by insertion so notes
// struck together leave in the order they were planned.
type plannedHeap []planned

func (h plannedHeap) Len() int { return len(h) }
func (h plannedHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}
func (h plannedHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *plannedHeap) Push(x interface{}) { *h = append(*h, x.(planned)) }
func (h *plannedHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Queue holds messages planned for a later time.
type Queue struct {
	items plannedHeap
	seq   uint64
}

// Push plans msg for delivery at at.
func (q *Queue) Push(at time.Time, msg contracts.Message) {
	q.seq++
	heap.Push(&q.items, planned{at: at, seq: q.seq, msg: msg})
}

// Due pops every message planned at or before now, earliest first.
func (q *Queue) Due(now time.Time) []contracts.Message {
	var due []contracts.Message
	for q.items.Len() > 0 && !q.items[0].at.After(now) {
		due = append(due, heap.Pop(&q.items).(planned).msg)
	}
	return due
}

// Next returns the due time of the earliest planned message.
func (q *Queue) Next() (time.Time, bool) {
	if q.items.Len() == 0 {
		return time.Time{}, false
	}
	return q.items[0].at, true
}

// Drop removes every planned message for which match returns true.
func (q *Queue) Drop(match func(contracts.Message) bool) {
	kept := q.items[:0]
	for _, p := range q.items {
		if !match(p.msg) {
			kept = append(kept, p)
		}
	}
	q.items = kept
	heap.Init(&q.items)
}

// Len returns the number of planned messages.
func (q *Queue) Len() int {
	return q.items.Len()
}

// Clear forgets every planned message.
func (q *Queue) Clear() {
	q.items = nil
}
