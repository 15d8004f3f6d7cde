package node

import (
	"context"
	"sync"

	"github.com/eapache/queue"
	"github.com/snowdamiz/meshrt/gen"
	"github.com/snowdamiz/meshrt/lib"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// every globalCheckInterval picks the worker takes the global queue first, so
// the processes there aren't starved by the busy local run queues
const globalCheckInterval = 61

type scheduler struct {
	workers []*worker

	// global and high priority run queues
	mu     sync.Mutex
	cond   *sync.Cond
	global *queue.Queue
	high   *queue.Queue
	parked int
	stop   bool

	runnable  atomic.Int64
	resumes   atomic.Uint64
	steals    atomic.Uint64
	preempted atomic.Uint64

	group errgroup.Group
	log   gen.Log
}

func createScheduler(workers int, log gen.Log) *scheduler {
	s := &scheduler{
		global: queue.New(),
		high:   queue.New(),
		log:    log,
	}
	s.cond = sync.NewCond(&s.mu)

	for i := 0; i < workers; i++ {
		w := &worker{
			id:    i,
			sched: s,
			local: lib.NewDeque[*process](),
		}
		s.workers = append(s.workers, w)
	}
	return s
}

func (s *scheduler) start() {
	for _, w := range s.workers {
		s.group.Go(w.run)
	}
	s.log.Debug("scheduler started with %d workers", len(s.workers))
}

// enqueue puts runnable process into the run queue according to its priority.
// "from" is the worker of the process that made it runnable (nil if unknown).
func (s *scheduler) enqueue(p *process, from *worker) {
	switch {
	case p.options.Priority == gen.ProcessPriorityHigh:
		s.mu.Lock()
		s.high.Add(p)
		s.mu.Unlock()
	case p.options.Priority == gen.ProcessPriorityNormal && from != nil:
		from.local.PushBack(p)
	default:
		s.mu.Lock()
		s.global.Add(p)
		s.mu.Unlock()
	}
	s.runnable.Inc()
	s.notify()
}

func (s *scheduler) notify() {
	s.mu.Lock()
	if s.parked > 0 {
		s.cond.Signal()
	}
	s.mu.Unlock()
}

func (s *scheduler) popGlobal() *process {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.global.Length() == 0 {
		return nil
	}
	s.runnable.Dec()
	return s.global.Remove().(*process)
}

func (s *scheduler) popHigh() *process {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.high.Length() == 0 {
		return nil
	}
	s.runnable.Dec()
	return s.high.Remove().(*process)
}

// park blocks the worker until there is a runnable process. Returns false
// if the scheduler is stopping and nothing left to run.
func (s *scheduler) park() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.runnable.Load() <= 0 {
		if s.stop {
			return false
		}
		s.parked++
		s.cond.Wait()
		s.parked--
	}
	return true
}

// shutdown stops the workers once the run queues are drained. Returns
// gen.ErrTimeout if the workers haven't finished before the context is done.
func (s *scheduler) shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.stop = true
	s.cond.Broadcast()
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- s.group.Wait()
	}()

	select {
	case err := <-done:
		s.log.Debug("scheduler stopped")
		return err
	case <-ctx.Done():
		s.log.Warning("scheduler hasn't stopped in time. some of the processes are still running")
		return gen.ErrTimeout
	}
}

func (s *scheduler) stats() gen.SchedulerStats {
	stats := gen.SchedulerStats{
		Workers:   len(s.workers),
		Runnable:  s.runnable.Load(),
		Resumes:   s.resumes.Load(),
		Steals:    s.steals.Load(),
		Preempted: s.preempted.Load(),
	}
	s.mu.Lock()
	stats.Parked = s.parked
	s.mu.Unlock()
	for _, w := range s.workers {
		stats.WorkerRuns = append(stats.WorkerRuns, w.runs.Load())
	}
	return stats
}
