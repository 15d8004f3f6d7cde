package lib

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitTimeout(t *testing.T) {
	ch := make(chan struct{})
	assert.False(t, WaitTimeout(ch, 10*time.Millisecond))

	go func() {
		time.Sleep(10 * time.Millisecond)
		close(ch)
	}()
	assert.True(t, WaitTimeout(ch, time.Second))
	// closed channel with no timeout
	assert.True(t, WaitTimeout(ch, 0))
}

func TestTimerPool(t *testing.T) {
	tm := TakeTimer()
	tm.Reset(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	// fired but not drained
	ReleaseTimer(tm)

	tm = TakeTimer()
	tm.Reset(time.Hour)
	select {
	case <-tm.C:
		t.Fatal("stale tick from the pooled timer")
	default:
	}
	ReleaseTimer(tm)
}
