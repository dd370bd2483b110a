package warps

import (
	"sync/atomic"
	"time"
)

// timer is one entry of the timer registry.
type timer struct {
	key TimerKey

	// deadline is the time the action should run
	deadline time.Time

	// action runs once the deadline passes
	action Action

	// abort is set when the action implements Abortable
	abort Abortable

	// nextPoll is the time abort is polled next
	nextPoll time.Time

	// cancelled is set once the entry left the registry
	cancelled atomic.Bool

	// index is the heap index for efficient removal
	index int
}

// timerQueue is a priority queue ordered by deadline.
// It uses a binary heap for O(log n) insertion and removal.
// The caller must hold the registry lock for every method.
type timerQueue struct {
	heap []*timer
}

func newTimerQueue() *timerQueue {
	return &timerQueue{
		heap: make([]*timer, 0, 64),
	}
}

// push adds an entry.
func (q *timerQueue) push(t *timer) {
	t.index = len(q.heap)
	q.heap = append(q.heap, t)
	q.up(t.index)
}

// popDue removes and returns all entries with deadline <= now, earliest first.
func (q *timerQueue) popDue(now time.Time) []*timer {
	var due []*timer
	for len(q.heap) > 0 && !q.heap[0].deadline.After(now) {
		due = append(due, q.pop())
	}
	return due
}

// remove takes an entry out of the heap immediately.
func (q *timerQueue) remove(t *timer) {
	i := t.index
	if i < 0 || i >= len(q.heap) || q.heap[i] != t {
		return
	}
	n := len(q.heap) - 1
	if i != n {
		q.swap(i, n)
	}
	q.heap[n] = nil
	q.heap = q.heap[:n]
	t.index = -1
	if i < n {
		q.down(i, n)
		q.up(i)
	}
}

func (q *timerQueue) len() int {
	return len(q.heap)
}

// pop removes and returns the entry with the earliest deadline.
func (q *timerQueue) pop() *timer {
	n := len(q.heap) - 1
	q.swap(0, n)
	q.down(0, n)
	t := q.heap[n]
	q.heap[n] = nil
	q.heap = q.heap[:n]
	t.index = -1
	return t
}

func (q *timerQueue) up(i int) {
	for {
		parent := (i - 1) / 2
		if parent == i || !q.heap[i].deadline.Before(q.heap[parent].deadline) {
			break
		}
		q.swap(i, parent)
		i = parent
	}
}

func (q *timerQueue) down(i, n int) {
	for {
		left := 2*i + 1
		if left >= n || left < 0 {
			break
		}
		j := left
		if right := left + 1; right < n && q.heap[right].deadline.Before(q.heap[left].deadline) {
			j = right
		}
		if !q.heap[j].deadline.Before(q.heap[i].deadline) {
			break
		}
		q.swap(i, j)
		i = j
	}
}

func (q *timerQueue) swap(i, j int) {
	q.heap[i], q.heap[j] = q.heap[j], q.heap[i]
	q.heap[i].index = i
	q.heap[j].index = j
}
