package kdtree

import "math"

type heapItem[V any] struct {
	value    V
	distance float64
}

// boundedHeap is a max-heap by distance holding at most capacity items. It
// keeps the k best candidates seen so far; the root is the worst of them.
// Items are stored by value and sifted by hand rather than through
// container/heap to avoid interface boxing on every offer.
type boundedHeap[V any] struct {
	items    []heapItem[V]
	capacity int
}

func newBoundedHeap[V any](capacity int) *boundedHeap[V] {
	return &boundedHeap[V]{
		items:    make([]heapItem[V], 0, capacity),
		capacity: capacity,
	}
}

func (h *boundedHeap[V]) Len() int { return len(h.items) }

// offer inserts unconditionally while the heap has room. Once full, the
// candidate replaces the current maximum only if it is strictly closer.
func (h *boundedHeap[V]) offer(distance float64, value V) {
	if len(h.items) < h.capacity {
		h.items = append(h.items, heapItem[V]{value: value, distance: distance})
		h.siftUp(len(h.items) - 1)
		return
	}
	if distance < h.items[0].distance {
		h.items[0] = heapItem[V]{value: value, distance: distance}
		h.siftDown(0)
	}
}

// threshold is the pruning radius: the worst kept distance once the heap is
// full, +Inf before that.
func (h *boundedHeap[V]) threshold() float64 {
	if len(h.items) < h.capacity {
		return math.Inf(1)
	}
	return h.items[0].distance
}

// remove pops the current maximum and hands it to fn.
func (h *boundedHeap[V]) remove(fn ResultFunc[V]) bool {
	n := len(h.items)
	if n == 0 {
		return false
	}
	top := h.items[0]
	h.items[0] = h.items[n-1]
	var zero heapItem[V]
	h.items[n-1] = zero
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	fn(top.value, top.distance)
	return true
}

// each visits the items in heap order, which is not sorted.
func (h *boundedHeap[V]) each(fn ResultFunc[V]) {
	for _, it := range h.items {
		fn(it.value, it.distance)
	}
}

func (h *boundedHeap[V]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].distance <= h.items[parent].distance {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *boundedHeap[V]) siftDown(i int) {
	n := len(h.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		child := left
		if right := left + 1; right < n && h.items[right].distance > h.items[left].distance {
			child = right
		}
		if h.items[child].distance <= h.items[i].distance {
			break
		}
		h.items[i], h.items[child] = h.items[child], h.items[i]
		i = child
	}
}
