package node

import (
	"math/rand"

	"github.com/snowdamiz/meshrt/lib"
	"go.uber.org/atomic"
)

type worker struct {
	id    int
	sched *scheduler
	local *lib.Deque[*process]
	tick  uint64
	runs  atomic.Uint64
}

func (w *worker) run() error {
	for {
		p := w.next()
		if p == nil {
			if w.sched.park() == false {
				return nil
			}
			continue
		}
		w.execute(p)
	}
}

// next picks the process to run: high priority queue, local run queue, global
// queue and then the local queues of the other workers.
func (w *worker) next() *process {
	s := w.sched

	w.tick++
	if w.tick%globalCheckInterval == 0 {
		if p := s.popGlobal(); p != nil {
			return p
		}
	}

	if p := s.popHigh(); p != nil {
		return p
	}

	if p, ok := w.local.PopFront(); ok {
		s.runnable.Dec()
		return p
	}

	if p := s.popGlobal(); p != nil {
		return p
	}

	return w.steal()
}

func (w *worker) steal() *process {
	s := w.sched
	n := len(s.workers)
	if n < 2 {
		return nil
	}
	start := rand.Intn(n)
	for i := 0; i < n; i++ {
		victim := s.workers[(start+i)%n]
		if victim == w {
			continue
		}
		if p, ok := victim.local.PopBack(); ok {
			s.runnable.Dec()
			s.steals.Inc()
			return p
		}
	}
	return nil
}

// execute resumes the process and waits until it gives the worker back
func (w *worker) execute(p *process) {
	s := w.sched
	w.runs.Inc()
	s.resumes.Inc()

	p.resume <- w
	switch <-p.yield {
	case yieldPreempted:
		s.preempted.Inc()
		s.enqueue(p, nil)
	case yieldRunnable:
		s.enqueue(p, nil)
	case yieldWaiting, yieldExited:
		// made runnable again by a sender (or the timer) if needed
	}
}
