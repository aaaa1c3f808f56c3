// Package queue provides bounded priority queues for top-k selection.
package queue

// Item represents a scored row in the queue.
// Value-based (no pointers) for cache locality and zero allocations.
type Item struct {
	Index    uint32  // Index is the dataset row the score belongs to.
	Distance float32 // Distance is the priority of the item in the queue.
}

// TopK keeps the k items with the smallest Distance seen so far.
// Ties on Distance are broken towards the smaller Index, so the kept set and
// the drained order are fully deterministic for a given input sequence.
//
// Internally it is a bounded max-heap: the root is the current worst kept
// item, which makes the keep-or-reject decision O(1).
type TopK struct {
	k     int
	items []Item
}

// NewTopK creates a collector that retains the k best (smallest) items.
func NewTopK(k int) *TopK {
	return &TopK{
		k:     k,
		items: make([]Item, 0, k),
	}
}

// Len returns the number of items currently held.
func (q *TopK) Len() int { return len(q.items) }

// Worst returns the current worst kept item.
// The boolean is false when the queue is empty.
func (q *TopK) Worst() (Item, bool) {
	if len(q.items) == 0 {
		return Item{}, false
	}
	return q.items[0], true
}

// Push offers an item to the collector. When the collector is full, the item
// replaces the current worst entry only if it ranks strictly better under
// (Distance, Index) ordering.
func (q *TopK) Push(it Item) {
	if q.k <= 0 {
		return
	}
	if len(q.items) < q.k {
		q.items = append(q.items, it)
		q.siftUp(len(q.items) - 1)
		return
	}
	if !rankBefore(it, q.items[0]) {
		return
	}
	q.items[0] = it
	q.siftDown(0)
}

// Drain empties the collector and returns the kept items sorted ascending by
// (Distance, Index).
func (q *TopK) Drain() []Item {
	out := make([]Item, len(q.items))
	for i := len(q.items) - 1; i >= 0; i-- {
		out[i] = q.pop()
	}
	return out
}

// rankBefore reports whether a ranks strictly better than b.
func rankBefore(a, b Item) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Index < b.Index
}

// worse is the heap ordering: the root holds the worst kept item.
func (q *TopK) worse(i, j int) bool {
	return rankBefore(q.items[j], q.items[i])
}

func (q *TopK) pop() Item {
	n := len(q.items)
	root := q.items[0]
	last := q.items[n-1]
	q.items = q.items[:n-1]
	if n-1 > 0 {
		q.items[0] = last
		q.siftDown(0)
	}
	return root
}

func (q *TopK) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !q.worse(i, p) {
			return
		}
		q.items[i], q.items[p] = q.items[p], q.items[i]
		i = p
	}
}

func (q *TopK) siftDown(i int) {
	n := len(q.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		worst := l
		if r := l + 1; r < n && q.worse(r, l) {
			worst = r
		}
		if !q.worse(worst, i) {
			return
		}
		q.items[i], q.items[worst] = q.items[worst], q.items[i]
		i = worst
	}
}
