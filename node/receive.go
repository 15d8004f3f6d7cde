package node

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/snowdamiz/meshrt/gen"
)

// main is the body of the process goroutine. It starts parked until the first
// resume from a worker.
func (p *process) main() {
	defer p.exit()

	p.resumed(<-p.resume)
	p.checkExit()

	if err := p.behavior.ProcessInit(p, p.args...); err != nil {
		p.result = err
		p.returned = true
		return
	}
	p.args = nil

	p.result = p.behavior.ProcessRun()
	p.returned = true
}

func (p *process) exit() {
	reason := p.exitReason

	if r := recover(); r != nil {
		pc, fn, line, _ := runtime.Caller(2)
		p.log.Panic("process terminated - %#v at %s[%s:%d]",
			r, runtime.FuncForPC(pc).Name(), fn, line)
		reason = fmt.Errorf("%w: %v", gen.TerminateReasonPanic, r)
	} else if reason == nil {
		if p.returned {
			reason = p.result
		}
		if reason == nil {
			reason = gen.TerminateReasonNormal
		}
	}

	p.mu.Lock()
	if p.pendingExit == gen.TerminateReasonKill {
		reason = gen.TerminateReasonKill
	}
	p.mu.Unlock()

	p.node.terminate(p, reason)
	p.yield <- yieldExited
}

func (p *process) resumed(w *worker) {
	p.worker = w
	p.reductions = p.node.reductions
	atomic.StoreInt32(&p.state, int32(gen.ProcessStateRunning))
}

// switchOut gives the worker back and blocks until the next resume
func (p *process) switchOut(reason yieldReason) {
	p.yield <- reason
	p.resumed(<-p.resume)
}

// suspend parks the process in the Waiting state unless "ready" reports there
// is something to handle already. Senders check the Waiting state after they
// have queued a message, so the state must be stored before "ready" is checked.
func (p *process) suspend(ready func() bool) {
	atomic.StoreInt32(&p.state, int32(gen.ProcessStateWaiting))
	if ready() || p.signaled.Load() {
		if atomic.CompareAndSwapInt32(&p.state, int32(gen.ProcessStateWaiting), int32(gen.ProcessStateRunning)) {
			return
		}
		// has been made runnable by someone else. wait for the resume
	}
	p.switchOut(yieldWaiting)
}

// checkExit terminates the process if an exit signal has arrived
func (p *process) checkExit() {
	if p.signaled.Load() == false || p.unwinding {
		return
	}
	if p.State() == gen.ProcessStateTerminated {
		return
	}
	p.mu.Lock()
	reason := p.pendingExit
	p.mu.Unlock()
	if reason == nil {
		return
	}
	p.exitReason = reason
	p.unwind()
}

// terminating reports whether the deferred calls of the unwinding process
// have got one more exit signal. Waiting is not allowed then.
func (p *process) terminating() bool {
	return p.unwinding && p.signaled.Load()
}

// unwind exits the process goroutine running all the deferred calls
func (p *process) unwind() {
	p.unwinding = true
	runtime.Goexit()
}

func (p *process) Receive(patterns ...gen.Pattern) (gen.Received, error) {
	return p.receive(-1, patterns)
}

func (p *process) ReceiveTimeout(timeout time.Duration, patterns ...gen.Pattern) (gen.Received, error) {
	if timeout < 0 {
		timeout = 0
	}
	return p.receive(timeout, patterns)
}

// receive with a negative timeout waits forever
func (p *process) receive(timeout time.Duration, patterns []gen.Pattern) (gen.Received, error) {
	if p.State() == gen.ProcessStateTerminated {
		return gen.Received{}, gen.ErrNotAllowed
	}
	p.Reduce(1)

	var wait uint64
	if timeout > 0 {
		wait = p.mailbox.startWait()
		timer := time.AfterFunc(timeout, func() {
			if p.mailbox.expire(wait) {
				p.wake(nil)
			}
		})
		defer func() {
			timer.Stop()
			p.mailbox.finishWait(wait)
		}()
	}

	ready := func() bool {
		return p.mailbox.pending(wait)
	}

	// messages before "scanned" have been tried against these patterns already
	scanned := 0
	for {
		expired := p.mailbox.collect(wait)
		m, n, found := p.mailbox.match(scanned, patterns)
		if found {
			return gen.Received{MailboxMessage: *m, Pattern: n}, nil
		}
		if expired || timeout == 0 {
			return gen.Received{}, gen.ErrTimeout
		}
		scanned = len(p.mailbox.save)

		if p.terminating() {
			return gen.Received{}, gen.ErrProcessTerminated
		}
		p.suspend(ready)
		p.checkExit()
	}
}

func (p *process) Yield() {
	if p.State() == gen.ProcessStateTerminated {
		return
	}
	p.checkExit()
	atomic.StoreInt32(&p.state, int32(gen.ProcessStateRunnable))
	p.switchOut(yieldRunnable)
	p.checkExit()
}

func (p *process) Reduce(n int) {
	if p.State() == gen.ProcessStateTerminated {
		return
	}
	p.checkExit()
	p.reductions -= n
	if p.reductions > 0 {
		return
	}
	atomic.StoreInt32(&p.state, int32(gen.ProcessStateRunnable))
	p.switchOut(yieldPreempted)
	p.checkExit()
}

func (p *process) Sleep(d time.Duration) {
	if p.State() == gen.ProcessStateTerminated {
		return
	}
	if d <= 0 {
		p.Yield()
		return
	}
	p.checkExit()

	var fired atomic.Bool
	timer := time.AfterFunc(d, func() {
		fired.Store(true)
		p.wake(nil)
	})
	defer timer.Stop()

	for fired.Load() == false {
		if p.terminating() {
			return
		}
		p.suspend(fired.Load)
		p.checkExit()
	}
}
