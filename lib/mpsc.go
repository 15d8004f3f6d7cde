// Lock-free implementation of MPSC queue (Multiple Producers Single Consumer)

package lib

import (
	"sync/atomic"
)

// QueueMPSC is an unbounded queue. Push can be called from any goroutine,
// Pop and Item must be called by a single consumer.
type QueueMPSC[T any] struct {
	head   atomic.Pointer[itemMPSC[T]]
	tail   atomic.Pointer[itemMPSC[T]]
	length atomic.Int64
	lock   atomic.Uint32
}

type itemMPSC[T any] struct {
	value T
	next  atomic.Pointer[itemMPSC[T]]
}

func NewQueueMPSC[T any]() *QueueMPSC[T] {
	q := &QueueMPSC[T]{}
	empty := &itemMPSC[T]{}
	q.head.Store(empty)
	q.tail.Store(empty)
	return q
}

// Push appends value to the queue
func (q *QueueMPSC[T]) Push(value T) {
	i := &itemMPSC[T]{value: value}
	q.length.Add(1)
	old := q.head.Swap(i)
	old.next.Store(i)
}

// Pop takes the value from the tail of the queue
func (q *QueueMPSC[T]) Pop() (T, bool) {
	var empty T
	tail := q.tail.Load()
	next := tail.next.Load()
	if next == nil {
		return empty, false
	}

	value := next.value
	next.value = empty // let the GC free the value

	q.tail.Store(next)
	q.length.Add(-1)
	return value, true
}

// Len returns the number of items in the queue
func (q *QueueMPSC[T]) Len() int64 {
	return q.length.Load()
}

// Lock is used by the consumer side to make sure only one goroutine drains the queue.
// Returns false if it is already locked.
func (q *QueueMPSC[T]) Lock() bool {
	return q.lock.Swap(1) == 0
}

// Unlock releases the lock taken by Lock. Returns false if it wasn't locked
func (q *QueueMPSC[T]) Unlock() bool {
	return q.lock.Swap(0) == 1
}
