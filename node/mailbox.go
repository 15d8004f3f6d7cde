package node

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
	"github.com/snowdamiz/meshrt/gen"
)

// mailbox keeps messages of the process in two sequences. The inbox takes new
// arrivals from any goroutine (under the lock). The save-queue keeps messages
// that have been moved out of the inbox by the owner and haven't been matched
// yet. save followed by inbox is always the list of undelivered messages in
// the order of arrival.
type mailbox struct {
	sync.Mutex
	inbox *queue.Queue // of envelope
	seq   uint64

	// timed wait bookkeeping. wait is the generation of the current timed
	// receive, expired is the generation of the receive whose deadline has
	// elapsed. expiredSeq is the arrival counter at that moment.
	wait       uint64
	expired    uint64
	expiredSeq uint64

	// owned by the process goroutine only
	save  []envelope
	saved atomic.Int64
}

type envelope struct {
	seq     uint64
	message *gen.MailboxMessage
}

func (mb *mailbox) init() {
	mb.inbox = queue.New()
}

func (mb *mailbox) push(m *gen.MailboxMessage) {
	mb.Lock()
	mb.seq++
	mb.inbox.Add(envelope{seq: mb.seq, message: m})
	mb.Unlock()
}

// collect moves arrivals into the save-queue. If the deadline of the given wait
// has elapsed, only messages that arrived before it are moved and true is returned.
func (mb *mailbox) collect(wait uint64) bool {
	mb.Lock()
	defer mb.Unlock()

	expired := wait > 0 && mb.expired == wait
	for mb.inbox.Length() > 0 {
		e := mb.inbox.Peek().(envelope)
		if expired && e.seq > mb.expiredSeq {
			break
		}
		mb.inbox.Remove()
		mb.save = append(mb.save, e)
		mb.saved.Add(1)
	}
	return expired
}

// match scans the save-queue starting from the given position. On a match the
// message is removed keeping the order of the rest.
func (mb *mailbox) match(from int, patterns []gen.Pattern) (*gen.MailboxMessage, int, bool) {
	for i := from; i < len(mb.save); i++ {
		m := mb.save[i].message
		n := gen.MatchPatterns(m, patterns)
		if n < 0 {
			continue
		}
		copy(mb.save[i:], mb.save[i+1:])
		mb.save[len(mb.save)-1] = envelope{}
		mb.save = mb.save[:len(mb.save)-1]
		mb.saved.Add(-1)
		return m, n, true
	}
	return nil, -1, false
}

// pending returns true if there is something the waiting owner has to look at
func (mb *mailbox) pending(wait uint64) bool {
	mb.Lock()
	defer mb.Unlock()
	if wait > 0 && mb.expired == wait {
		return true
	}
	return mb.inbox.Length() > 0
}

func (mb *mailbox) startWait() uint64 {
	mb.Lock()
	mb.wait++
	w := mb.wait
	mb.Unlock()
	return w
}

// finishWait makes the timer callback of the given wait a no-op
func (mb *mailbox) finishWait(wait uint64) {
	mb.Lock()
	if mb.wait == wait {
		mb.wait++
	}
	mb.Unlock()
}

// expire is called by the timer of the timed receive. Returns false if the
// receive has already finished.
func (mb *mailbox) expire(wait uint64) bool {
	mb.Lock()
	defer mb.Unlock()
	if mb.wait != wait {
		return false
	}
	mb.expired = wait
	mb.expiredSeq = mb.seq
	return true
}

func (mb *mailbox) len() int {
	mb.Lock()
	defer mb.Unlock()
	return int(mb.saved.Load()) + mb.inbox.Length()
}

// release drops all queued messages. Must be called by the owner. Returns
// the number of dropped ones.
func (mb *mailbox) release() int {
	mb.Lock()
	defer mb.Unlock()
	n := len(mb.save) + mb.inbox.Length()
	mb.save = nil
	mb.saved.Store(0)
	mb.inbox = queue.New()
	return n
}
