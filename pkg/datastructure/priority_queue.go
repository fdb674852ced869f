package datastructure

import "errors"

var (
	ErrPriorityQueueEmpty = errors.New("priority queue is empty")
	ErrItemNotFound       = errors.New("item not in the priority queue")
)

type PriorityQueueNode[T comparable] struct {
	Rank float64
	Item T
}

func NewPriorityQueueNode[T comparable](rank float64, item T) PriorityQueueNode[T] {
	return PriorityQueueNode[T]{Rank: rank, Item: item}
}

// MinHeap is an array backed binary min heap with a position map so
// DecreaseKey runs in O(log n). Items must be unique.
type MinHeap[T comparable] struct {
	heap []PriorityQueueNode[T]
	pos  map[T]int
}

func NewMinHeap[T comparable]() *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]PriorityQueueNode[T], 0),
		pos:  make(map[T]int),
	}
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

func (h *MinHeap[T]) GetMin() (PriorityQueueNode[T], error) {
	if len(h.heap) == 0 {
		return PriorityQueueNode[T]{}, ErrPriorityQueueEmpty
	}
	return h.heap[0], nil
}

func (h *MinHeap[T]) Insert(node PriorityQueueNode[T]) {
	h.heap = append(h.heap, node)
	h.pos[node.Item] = len(h.heap) - 1
	h.up(len(h.heap) - 1)
}

func (h *MinHeap[T]) ExtractMin() (PriorityQueueNode[T], error) {
	if len(h.heap) == 0 {
		return PriorityQueueNode[T]{}, ErrPriorityQueueEmpty
	}
	min := h.heap[0]
	last := len(h.heap) - 1
	h.swap(0, last)
	h.heap = h.heap[:last]
	delete(h.pos, min.Item)
	if last > 0 {
		h.down(0)
	}
	return min, nil
}

func (h *MinHeap[T]) DecreaseKey(node PriorityQueueNode[T]) error {
	idx, ok := h.pos[node.Item]
	if !ok {
		return ErrItemNotFound
	}
	if node.Rank > h.heap[idx].Rank {
		return errors.New("new rank is bigger than the current rank")
	}
	h.heap[idx].Rank = node.Rank
	h.up(idx)
	return nil
}

func (h *MinHeap[T]) up(idx int) {
	for idx > 0 {
		parent := (idx - 1) / 2
		if h.heap[parent].Rank <= h.heap[idx].Rank {
			break
		}
		h.swap(parent, idx)
		idx = parent
	}
}

func (h *MinHeap[T]) down(idx int) {
	n := len(h.heap)
	for {
		smallest := idx
		left := 2*idx + 1
		right := 2*idx + 2
		if left < n && h.heap[left].Rank < h.heap[smallest].Rank {
			smallest = left
		}
		if right < n && h.heap[right].Rank < h.heap[smallest].Rank {
			smallest = right
		}
		if smallest == idx {
			break
		}
		h.swap(idx, smallest)
		idx = smallest
	}
}

func (h *MinHeap[T]) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.pos[h.heap[i].Item] = i
	h.pos[h.heap[j].Item] = j
}
