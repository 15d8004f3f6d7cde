package lib

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMPSCsequential(t *testing.T) {
	queue := NewQueueMPSC[int]()

	_, ok := queue.Pop()
	assert.False(t, ok)

	for i := 0; i < 10; i++ {
		queue.Push(i + 100)
	}
	assert.Equal(t, int64(10), queue.Len())

	for i := 0; i < 10; i++ {
		v, ok := queue.Pop()
		require.True(t, ok)
		assert.Equal(t, i+100, v)
	}
	assert.Equal(t, int64(0), queue.Len())

	_, ok = queue.Pop()
	assert.False(t, ok)
}

func TestMPSCparallel(t *testing.T) {
	const producers = 8
	const n = 1000

	queue := NewQueueMPSC[[2]int]()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < n; i++ {
				queue.Push([2]int{p, i})
			}
		}(p)
	}
	wg.Wait()

	require.Equal(t, int64(producers*n), queue.Len())

	// every producer's items come out in its push order
	last := make([]int, producers)
	for i := range last {
		last[i] = -1
	}
	for {
		v, ok := queue.Pop()
		if ok == false {
			break
		}
		require.Equal(t, last[v[0]]+1, v[1])
		last[v[0]] = v[1]
	}
	for _, l := range last {
		assert.Equal(t, n-1, l)
	}
}

func TestMPSCLock(t *testing.T) {
	queue := NewQueueMPSC[int]()

	assert.True(t, queue.Lock())
	assert.False(t, queue.Lock())
	assert.True(t, queue.Unlock())
	assert.False(t, queue.Unlock())
	assert.True(t, queue.Lock())
}
