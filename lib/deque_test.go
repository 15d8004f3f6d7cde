package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeque(t *testing.T) {
	d := NewDeque[int]()

	_, ok := d.PopFront()
	assert.False(t, ok)
	_, ok = d.PopBack()
	assert.False(t, ok)

	// more than the initial capacity to make it grow with a wrapped head
	for i := 0; i < 10; i++ {
		d.PushBack(i)
	}
	for i := 0; i < 5; i++ {
		v, _ := d.PopFront()
		assert.Equal(t, i, v)
	}
	for i := 10; i < 40; i++ {
		d.PushBack(i)
	}
	assert.Equal(t, 35, d.Len())

	v, ok := d.PopBack()
	assert.True(t, ok)
	assert.Equal(t, 39, v)

	v, ok = d.PopFront()
	assert.True(t, ok)
	assert.Equal(t, 5, v)

	var out []int
	for {
		v, ok := d.PopFront()
		if ok == false {
			break
		}
		out = append(out, v)
	}
	assert.Len(t, out, 33)
	assert.Equal(t, 6, out[0])
	assert.Equal(t, 38, out[len(out)-1])
	assert.Equal(t, 0, d.Len())
}
