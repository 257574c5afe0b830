package event

import "sync"

// Queue is a double-buffered queue. Producers Push into the pending side at
// any time; a dispatch pass moves pending elements into the inflight side with
// Snapshot, consumes them, and finally calls Apply or Discard so that inflight
// is empty again.
//
// Queue methods hold the internal lock only for the duration of the call, so
// they may be used from within code that consumes the inflight elements.
// Only one pass may work on the inflight side at a time.
type Queue[T any] struct {
	mu       sync.Mutex
	pending  []T
	inflight []T
}

// Push appends values to the pending side.
func (q *Queue[T]) Push(values ...T) {
	q.mu.Lock()
	q.pending = append(q.pending, values...)
	q.mu.Unlock()
}

// Snapshot moves all pending elements to the inflight side, after any
// elements already inflight. It returns the number of inflight elements.
func (q *Queue[T]) Snapshot() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.inflight = append(q.inflight, q.pending...)
	clear(q.pending)
	q.pending = q.pending[:0]
	return len(q.inflight)
}

// SnapshotFunc moves the pending elements for which match returns true to the
// inflight side. Non-matching elements stay pending in their original order.
// It returns the number of inflight elements.
func (q *Queue[T]) SnapshotFunc(match func(T) bool) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	keep := q.pending[:0]
	for _, v := range q.pending {
		if match(v) {
			q.inflight = append(q.inflight, v)
		} else {
			keep = append(keep, v)
		}
	}
	clear(q.pending[len(keep):])
	q.pending = keep
	return len(q.inflight)
}

// Inflight returns a copy of the inflight elements in insertion order.
func (q *Queue[T]) Inflight() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	s := make([]T, len(q.inflight))
	copy(s, q.inflight)
	return s
}

// Pop removes and returns the most recently snapshotted inflight element.
func (q *Queue[T]) Pop() (v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.inflight)
	if n == 0 {
		return v, false
	}
	v = q.inflight[n-1]
	var zero T
	q.inflight[n-1] = zero
	q.inflight = q.inflight[:n-1]
	return v, true
}

// Apply merges the inflight elements back into the pending side. They are
// placed before any element pushed since the snapshot, preserving insertion
// order overall.
func (q *Queue[T]) Apply() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.inflight) == 0 {
		return
	}
	merged := make([]T, 0, len(q.inflight)+len(q.pending))
	merged = append(merged, q.inflight...)
	merged = append(merged, q.pending...)
	q.pending = merged
	clear(q.inflight)
	q.inflight = q.inflight[:0]
}

// Discard drops all inflight elements.
func (q *Queue[T]) Discard() {
	q.mu.Lock()
	clear(q.inflight)
	q.inflight = q.inflight[:0]
	q.mu.Unlock()
}

// Len returns the number of pending and inflight elements.
func (q *Queue[T]) Len() (pending, inflight int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending), len(q.inflight)
}
