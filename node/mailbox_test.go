package node

import (
	"testing"

	"github.com/snowdamiz/meshrt/gen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailbox() *mailbox {
	var mb mailbox
	mb.init()
	return &mb
}

func pushValues(mb *mailbox, values ...any) {
	for _, v := range values {
		mb.push(&gen.MailboxMessage{Message: v})
	}
}

func TestMailboxSaveQueueOrder(t *testing.T) {
	mb := newTestMailbox()
	pushValues(mb, "a", 1, "b", 2)
	assert.Equal(t, 4, mb.len())

	assert.False(t, mb.collect(0))
	m, n, found := mb.match(0, []gen.Pattern{gen.MatchType[int]()})
	require.True(t, found)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, m.Message)
	assert.Equal(t, 3, mb.len())

	// the skipped ones keep their arrival order
	pushValues(mb, "c")
	mb.collect(0)
	var out []any
	for {
		m, _, found := mb.match(0, nil)
		if found == false {
			break
		}
		out = append(out, m.Message)
	}
	assert.Equal(t, []any{"a", "b", 2, "c"}, out)
	assert.Equal(t, 0, mb.len())
}

func TestMailboxMatchFrom(t *testing.T) {
	mb := newTestMailbox()
	pushValues(mb, 1, 2, 3)
	mb.collect(0)

	_, _, found := mb.match(3, nil)
	assert.False(t, found)

	m, _, found := mb.match(1, nil)
	require.True(t, found)
	assert.Equal(t, 2, m.Message)
}

func TestMailboxExpiredWait(t *testing.T) {
	mb := newTestMailbox()

	wait := mb.startWait()
	assert.False(t, mb.pending(wait))

	pushValues(mb, "before")
	assert.True(t, mb.pending(wait))
	assert.True(t, mb.expire(wait))
	pushValues(mb, "after")

	// only the messages arrived before the deadline are taken
	assert.True(t, mb.collect(wait))
	assert.Len(t, mb.save, 1)
	assert.Equal(t, "before", mb.save[0].message.Message)

	mb.finishWait(wait)
	assert.False(t, mb.expire(wait))

	// the next receive sees the rest
	next := mb.startWait()
	assert.NotEqual(t, wait, next)
	assert.False(t, mb.collect(next))
	assert.Len(t, mb.save, 2)
}

func TestMailboxStaleTimer(t *testing.T) {
	mb := newTestMailbox()

	wait := mb.startWait()
	mb.finishWait(wait)
	// timer of the finished receive fires late
	assert.False(t, mb.expire(wait))
	assert.False(t, mb.pending(mb.startWait()))
}

func TestMailboxRelease(t *testing.T) {
	mb := newTestMailbox()
	pushValues(mb, 1, 2)
	mb.collect(0)
	pushValues(mb, 3)

	assert.Equal(t, 3, mb.release())
	assert.Equal(t, 0, mb.len())
}
