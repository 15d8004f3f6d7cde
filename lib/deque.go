package lib

import (
	"sync"
)

const dequeMinCapacity = 16

// Deque is a double-ended queue used as a worker run queue. The owner pushes
// to the back and pops from the front, thieves take from the back.
type Deque[T any] struct {
	sync.Mutex
	buf   []T
	head  int
	count int
}

func NewDeque[T any]() *Deque[T] {
	return &Deque[T]{
		buf: make([]T, dequeMinCapacity),
	}
}

// PushBack
func (d *Deque[T]) PushBack(v T) {
	d.Lock()
	if d.count == len(d.buf) {
		d.grow()
	}
	d.buf[(d.head+d.count)%len(d.buf)] = v
	d.count++
	d.Unlock()
}

// PopFront
func (d *Deque[T]) PopFront() (T, bool) {
	var empty T
	d.Lock()
	defer d.Unlock()
	if d.count == 0 {
		return empty, false
	}
	v := d.buf[d.head]
	d.buf[d.head] = empty
	d.head = (d.head + 1) % len(d.buf)
	d.count--
	return v, true
}

// PopBack
func (d *Deque[T]) PopBack() (T, bool) {
	var empty T
	d.Lock()
	defer d.Unlock()
	if d.count == 0 {
		return empty, false
	}
	i := (d.head + d.count - 1) % len(d.buf)
	v := d.buf[i]
	d.buf[i] = empty
	d.count--
	return v, true
}

// Len
func (d *Deque[T]) Len() int {
	d.Lock()
	defer d.Unlock()
	return d.count
}

func (d *Deque[T]) grow() {
	buf := make([]T, len(d.buf)*2)
	for i := 0; i < d.count; i++ {
		buf[i] = d.buf[(d.head+i)%len(d.buf)]
	}
	d.buf = buf
	d.head = 0
}
