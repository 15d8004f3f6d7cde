package node

import (
	"sync"

	"github.com/snowdamiz/meshrt/gen"
)

// registry keeps the processes of the node and the names bound to them
type registry struct {
	mu        sync.RWMutex
	processes map[gen.PID]*process
	names     map[gen.Atom]gen.PID
	empty     chan struct{}
}

func (r *registry) init() {
	r.processes = make(map[gen.PID]*process)
	r.names = make(map[gen.Atom]gen.PID)
}

func (r *registry) add(p *process) {
	r.mu.Lock()
	r.processes[p.pid] = p
	r.mu.Unlock()
}

func (r *registry) remove(pid gen.PID) {
	r.mu.Lock()
	delete(r.processes, pid)
	if len(r.processes) == 0 && r.empty != nil {
		close(r.empty)
		r.empty = nil
	}
	r.mu.Unlock()
}

func (r *registry) process(pid gen.PID) *process {
	r.mu.RLock()
	p := r.processes[pid]
	r.mu.RUnlock()
	return p
}

func (r *registry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.processes)
}

func (r *registry) list() []gen.PID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pids := make([]gen.PID, 0, len(r.processes))
	for pid := range r.processes {
		pids = append(pids, pid)
	}
	return pids
}

// waitEmpty returns a channel that is closed once there are no processes left
func (r *registry) waitEmpty() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.processes) == 0 {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	if r.empty == nil {
		r.empty = make(chan struct{})
	}
	return r.empty
}

func (r *registry) registerName(name gen.Atom, pid gen.PID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exist := r.names[name]; exist {
		return gen.ErrTaken
	}
	p, exist := r.processes[pid]
	if exist == false || p.isAlive() == false {
		return gen.ErrProcessUnknown
	}
	if p.Name() != "" {
		// only one name per process
		return gen.ErrTaken
	}
	r.names[name] = pid
	p.name.Store(name)
	return nil
}

func (r *registry) unregisterName(name gen.Atom) (gen.PID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pid, exist := r.names[name]
	if exist == false {
		return pid, gen.ErrNameUnknown
	}
	delete(r.names, name)
	if p, exist := r.processes[pid]; exist {
		p.name.Store(gen.Atom(""))
	}
	return pid, nil
}

func (r *registry) whereis(name gen.Atom) (gen.PID, bool) {
	r.mu.RLock()
	pid, exist := r.names[name]
	r.mu.RUnlock()
	return pid, exist
}

func (r *registry) countNames() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}
