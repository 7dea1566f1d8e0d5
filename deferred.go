package main

import "container/heap"

// deferredItem fires at tick due. seq keeps same-tick items in scheduling order.
type deferredItem struct {
	due  uint64
	seq  uint64
	fire func()
}

type deferredHeap []deferredItem

func (h deferredHeap) Len() int { return len(h) }
func (h deferredHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}
func (h deferredHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *deferredHeap) Push(x any)   { *h = append(*h, x.(deferredItem)) }
func (h *deferredHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// DeferredQueue runs callbacks at a future tick boundary instead of on a wall-clock timer,
// so delayed effects stay deterministic and testable.
type DeferredQueue struct {
	items deferredHeap
	seq   uint64
}

// Schedule queues fn to run when Advance reaches tick due.
func (q *DeferredQueue) Schedule(due uint64, fn func()) {
	q.seq++
	heap.Push(&q.items, deferredItem{due: due, seq: q.seq, fire: fn})
}

// Advance fires every item due at or before now and returns how many fired.
func (q *DeferredQueue) Advance(now uint64) int {
	fired := 0
	for len(q.items) > 0 && q.items[0].due <= now {
		it := heap.Pop(&q.items).(deferredItem)
		it.fire()
		fired++
	}
	return fired
}

// Len returns the number of pending items.
func (q *DeferredQueue) Len() int {
	return len(q.items)
}
