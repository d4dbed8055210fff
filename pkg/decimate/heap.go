package decimate

import "container/heap"

// costHeap is a binary min-heap of candidate edges keyed by collapse cost,
// with an edge-id→slot index enabling O(log n) update and removal. Every
// collapse reprioritizes its whole 1-ring, so decrease/increase-key is as
// hot as extract-min. Ties break on edge id to keep extraction order
// deterministic.
type costHeap struct {
	items []heapEntry
	slot  []int // edge id → items index, -1 when absent
}

type heapEntry struct {
	edge int
	cost float64
}

func newCostHeap(numEdges int) *costHeap {
	h := &costHeap{slot: make([]int, numEdges)}
	for i := range h.slot {
		h.slot[i] = -1
	}
	return h
}

func (h *costHeap) Len() int { return len(h.items) }

func (h *costHeap) Less(i, j int) bool {
	if h.items[i].cost != h.items[j].cost {
		return h.items[i].cost < h.items[j].cost
	}
	return h.items[i].edge < h.items[j].edge
}

func (h *costHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.slot[h.items[i].edge] = i
	h.slot[h.items[j].edge] = j
}

func (h *costHeap) Push(x any) {
	e := x.(heapEntry)
	h.slot[e.edge] = len(h.items)
	h.items = append(h.items, e)
}

func (h *costHeap) Pop() any {
	old := h.items
	n := len(old)
	e := old[n-1]
	h.items = old[:n-1]
	h.slot[e.edge] = -1
	return e
}

// Contains reports whether edge id is queued.
func (h *costHeap) Contains(edge int) bool { return h.slot[edge] >= 0 }

// Insert queues an edge. The edge must not already be queued.
func (h *costHeap) Insert(edge int, cost float64) {
	heap.Push(h, heapEntry{edge: edge, cost: cost})
}

// Update changes an edge's cost in place, inserting it if absent.
func (h *costHeap) Update(edge int, cost float64) {
	i := h.slot[edge]
	if i < 0 {
		h.Insert(edge, cost)
		return
	}
	h.items[i].cost = cost
	heap.Fix(h, i)
}

// Remove deletes an edge from the queue if present.
func (h *costHeap) Remove(edge int) {
	i := h.slot[edge]
	if i < 0 {
		return
	}
	heap.Remove(h, i)
}

// PeekMin returns the minimum-cost entry without extracting it.
func (h *costHeap) PeekMin() (edge int, cost float64, ok bool) {
	if len(h.items) == 0 {
		return 0, 0, false
	}
	return h.items[0].edge, h.items[0].cost, true
}

// PopMin extracts the minimum-cost entry.
func (h *costHeap) PopMin() (edge int, cost float64, ok bool) {
	if len(h.items) == 0 {
		return 0, 0, false
	}
	e := heap.Pop(h).(heapEntry)
	return e.edge, e.cost, true
}

// InitFrom bulk-loads one entry per edge from a cost array indexed by edge
// id, replacing any existing entries. Loading in id order followed by a
// single heapify keeps construction deterministic.
func (h *costHeap) InitFrom(costs []float64) {
	h.items = h.items[:0]
	for id, c := range costs {
		h.slot[id] = len(h.items)
		h.items = append(h.items, heapEntry{edge: id, cost: c})
	}
	heap.Init(h)
}
