package lib

import (
	"sync"
	"time"
)

var (
	timers = &sync.Pool{
		New: func() any {
			t := time.NewTimer(time.Hour)
			t.Stop()
			return t
		},
	}
)

// TakeTimer returns a stopped timer from the pool. Reset it before use.
func TakeTimer() *time.Timer {
	return timers.Get().(*time.Timer)
}

// ReleaseTimer stops the timer, drains its channel and puts it back to the pool
func ReleaseTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	timers.Put(t)
}

// WaitTimeout waits for the channel to be closed (or to receive a value).
// Returns false if the timeout has elapsed first.
func WaitTimeout(ch <-chan struct{}, timeout time.Duration) bool {
	if timeout <= 0 {
		<-ch
		return true
	}
	t := TakeTimer()
	defer ReleaseTimer(t)
	t.Reset(timeout)
	select {
	case <-ch:
		return true
	case <-t.C:
		return false
	}
}
