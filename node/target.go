package node

import (
	"github.com/snowdamiz/meshrt/gen"
)

// lockPair locks both processes in the order of their PIDs
func lockPair(a, b *process) func() {
	if b.pid.ID < a.pid.ID {
		a, b = b, a
	}
	a.mu.Lock()
	b.mu.Lock()
	return func() {
		b.mu.Unlock()
		a.mu.Unlock()
	}
}

//
// links
//

func (n *node) link(p *process, target gen.PID) error {
	if target == p.pid {
		return nil
	}
	t := n.registry.process(target)
	if t == nil {
		return gen.ErrProcessUnknown
	}

	unlock := lockPair(p, t)
	defer unlock()

	if p.exiting {
		return gen.ErrNotAllowed
	}
	if t.exiting {
		return gen.ErrProcessTerminated
	}
	p.links.Add(t.pid)
	t.links.Add(p.pid)
	p.log.Trace("linked with %s", t.pid)
	return nil
}

func (n *node) unlink(p *process, target gen.PID) error {
	if target == p.pid {
		return nil
	}
	t := n.registry.process(target)
	if t == nil {
		p.mu.Lock()
		p.links.Remove(target)
		p.mu.Unlock()
		return nil
	}

	unlock := lockPair(p, t)
	p.links.Remove(t.pid)
	t.links.Remove(p.pid)
	unlock()
	return nil
}

//
// monitors
//

func (n *node) monitor(p *process, target any) (gen.Ref, error) {
	pid, err := n.resolve(target)
	if err != nil {
		return gen.Ref{}, err
	}
	if pid == p.pid {
		return gen.Ref{}, gen.ErrNotAllowed
	}

	ref := n.MakeRef()
	t := n.registry.process(pid)
	if t != nil {
		unlock := lockPair(p, t)
		if t.exiting == false {
			t.monitoredBy[ref] = p.pid
			p.monitors[ref] = pid
			unlock()
			p.log.Trace("monitor %s created on %s", ref, pid)
			return ref, nil
		}
		unlock()
	}

	// target doesn't exist. the notification is delivered right away
	down := gen.MessageDownPID{
		Ref:    ref,
		PID:    pid,
		Reason: gen.TerminateReasonNoProc,
	}
	n.deliver(pid, nil, p, p.pid, gen.MailboxMessageTypeRegular, gen.Ref{}, down)
	return ref, nil
}

func (n *node) demonitor(p *process, ref gen.Ref) bool {
	p.mu.Lock()
	pid, exist := p.monitors[ref]
	delete(p.monitors, ref)
	p.mu.Unlock()

	if exist == false {
		return false
	}

	if t := n.registry.process(pid); t != nil {
		t.mu.Lock()
		delete(t.monitoredBy, ref)
		t.mu.Unlock()
	}
	return true
}

//
// exit signals
//

func (n *node) sendExit(from gen.PID, target gen.PID, reason error, force bool) error {
	t := n.registry.process(target)
	if t == nil {
		return gen.ErrProcessUnknown
	}

	t.mu.Lock()
	wake, err := t.signalLocked(from, reason, force)
	t.mu.Unlock()

	if wake {
		t.wake(nil)
	}
	return err
}

// signalLocked handles the exit signal. Must be called with p.mu held.
// Returns true if the process must be woken up.
func (p *process) signalLocked(from gen.PID, reason error, force bool) (bool, error) {
	if p.exiting {
		return false, gen.ErrProcessTerminated
	}

	if force {
		p.pendingExit = reason
		p.signaled.Store(true)
		return true, nil
	}

	if p.trap.Load() {
		message := &gen.MailboxMessage{
			From:   from,
			Type:   gen.MailboxMessageTypeRegular,
			Target: p.pid,
			Message: gen.MessageExitPID{
				PID:    from,
				Reason: reason,
			},
		}
		p.mailbox.push(message)
		p.node.messages.Inc()
		return true, nil
	}

	if gen.IsNormalExit(reason) {
		return false, nil
	}

	if p.pendingExit == nil {
		p.pendingExit = reason
	}
	p.signaled.Store(true)
	return true, nil
}

//
// termination
//

// terminate is called by the exiting process in its own goroutine
func (n *node) terminate(p *process, reason error) {
	p.mu.Lock()
	p.storeState(gen.ProcessStateTerminated)
	p.exiting = true
	links := p.links.ToSlice()
	p.links.Clear()
	monitors := p.monitors
	p.monitors = make(map[gen.Ref]gen.PID)
	monitoredBy := p.monitoredBy
	p.monitoredBy = make(map[gen.Ref]gen.PID)
	p.mu.Unlock()

	func() {
		defer func() {
			if r := recover(); r != nil {
				p.log.Panic("ProcessTerminate panicked - %#v", r)
			}
		}()
		p.behavior.ProcessTerminate(reason)
	}()

	if p.options.OnTerminate != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					p.log.Panic("OnTerminate panicked - %#v", r)
				}
			}()
			p.options.OnTerminate(p.pid, reason)
		}()
	}

	// the name is released before the signals, so the restarted
	// process can take it over
	if name := p.Name(); name != "" {
		n.registry.unregisterName(name)
	}

	// exit signals to the linked processes
	for _, pid := range links {
		t := n.registry.process(pid)
		if t == nil {
			continue
		}
		wake := false
		t.mu.Lock()
		if t.links.Contains(p.pid) {
			t.links.Remove(p.pid)
			wake, _ = t.signalLocked(p.pid, reason, false)
		}
		t.mu.Unlock()
		if wake {
			t.wake(p.worker)
		}
	}

	// down notifications
	for ref, pid := range monitoredBy {
		t := n.registry.process(pid)
		if t == nil {
			continue
		}
		t.mu.Lock()
		_, exist := t.monitors[ref]
		delete(t.monitors, ref)
		t.mu.Unlock()
		if exist == false {
			// has been demonitored
			continue
		}
		down := gen.MessageDownPID{
			Ref:    ref,
			PID:    p.pid,
			Reason: reason,
		}
		n.deliver(p.pid, p.worker, t, t.pid, gen.MailboxMessageTypeRegular, gen.Ref{}, down)
	}

	// monitors created by this process
	for ref, pid := range monitors {
		if t := n.registry.process(pid); t != nil {
			t.mu.Lock()
			delete(t.monitoredBy, ref)
			t.mu.Unlock()
		}
	}

	dropped := p.mailbox.release()
	n.dropped.Add(uint64(dropped))

	n.terminated.Inc()
	n.processes.Dec()
	if gen.IsShutdownExit(reason) == false {
		n.crashed.Inc()
		p.log.Trace("terminated abnormally: %s", reason)
	} else {
		p.log.Trace("terminated: %s", reason)
	}

	n.registry.remove(p.pid)
}
