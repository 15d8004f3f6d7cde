package node

import (
	"context"
	"strings"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/snowdamiz/meshrt/gen"
	"github.com/snowdamiz/meshrt/lib"
	"github.com/snowdamiz/meshrt/lib/osdep"
	"go.uber.org/atomic"
)

const (
	startPID   uint64 = 1000
	corePID    uint64 = 1
	stopRecall        = 100 * time.Millisecond
)

type node struct {
	name     gen.Atom
	id       string
	creation int64
	corePID  gen.PID

	options    gen.NodeOptions
	reductions int

	registry registry
	sched    *scheduler

	uniqID atomic.Uint64
	refID  atomic.Uint64

	env sync.Map

	log      *log
	loggers  sync.Map // name => *logger
	logQueue *lib.QueueMPSC[logRecord]

	running atomic.Bool
	stopped chan struct{}

	processes  atomic.Int64
	spawned    atomic.Uint64
	terminated atomic.Uint64
	crashed    atomic.Uint64
	messages   atomic.Uint64
	dropped    atomic.Uint64
}

type logRecord struct {
	message gen.MessageLog
	logger  string
}

type logger struct {
	behavior gen.LoggerBehavior
	filter   mapset.Set[gen.LogLevel]
}

// Start starts a new node with the given name
func Start(name gen.Atom, options gen.NodeOptions) (gen.Node, error) {
	if name == "" {
		return nil, gen.ErrIncorrect
	}
	if options.Scheduler.Workers < 1 {
		options.Scheduler.Workers = osdep.AvailableCPU()
	}
	if options.Scheduler.Reductions < 1 {
		options.Scheduler.Reductions = gen.DefaultReductions
	}
	if options.ShutdownTimeout <= 0 {
		options.ShutdownTimeout = gen.DefaultShutdownTimeout
	}
	if options.Log.Level == gen.LogLevelDefault {
		options.Log.Level = gen.LogLevelInfo
	}

	creation := time.Now().Unix()
	n := &node{
		name:       name,
		id:         uuid.New().String(),
		creation:   creation,
		options:    options,
		reductions: options.Scheduler.Reductions,
		logQueue:   lib.NewQueueMPSC[logRecord](),
		stopped:    make(chan struct{}),
	}
	n.corePID = gen.PID{Node: name, ID: corePID, Creation: creation}
	n.uniqID.Store(startPID)
	n.registry.init()

	n.log = newNodeLog(gen.MessageLogNode{Node: name, Creation: creation}, options.Log.Level, n.dolog)

	if options.Log.DefaultLogger.Disable == false {
		filter := options.Log.DefaultLogger.Filter
		if len(filter) == 0 {
			filter = gen.DefaultLogFilter
		}
		dl := gen.CreateDefaultLogger(options.Log.DefaultLogger)
		if err := n.LoggerAdd("default", dl, filter...); err != nil {
			return nil, err
		}
	}
	for _, l := range options.Log.Loggers {
		if err := n.LoggerAdd(l.Name, l.Logger, l.Filter...); err != nil {
			return nil, err
		}
	}

	for k, v := range options.Env {
		n.SetEnv(k, v)
	}

	n.sched = createScheduler(options.Scheduler.Workers, n.log)
	n.running.Store(true)
	n.sched.start()

	n.log.Info("node %s started (id %s)", name, n.id)
	return n, nil
}

// gen.Node implementation

func (n *node) Name() gen.Atom {
	return n.name
}

func (n *node) ID() string {
	return n.id
}

func (n *node) Creation() int64 {
	return n.creation
}

func (n *node) PID() gen.PID {
	return n.corePID
}

func (n *node) IsAlive() bool {
	return n.running.Load()
}

func (n *node) Uptime() int64 {
	return time.Now().Unix() - n.creation
}

func (n *node) Spawn(factory gen.ProcessFactory, options gen.ProcessOptions, args ...any) (gen.PID, error) {
	return n.spawn(nil, factory, options, "", false, args)
}

func (n *node) SpawnFunc(fn gen.ProcessFunc, options gen.ProcessOptions, args ...any) (gen.PID, error) {
	return n.spawn(nil, funcFactory(fn), options, "", false, args)
}

func (n *node) SpawnRegister(name gen.Atom, factory gen.ProcessFactory, options gen.ProcessOptions, args ...any) (gen.PID, error) {
	if name == "" {
		return gen.PID{}, gen.ErrIncorrect
	}
	return n.spawn(nil, factory, options, name, false, args)
}

func (n *node) Send(to any, message any) error {
	return n.route(nil, to, gen.MailboxMessageTypeRegular, gen.Ref{}, message)
}

func (n *node) Exit(target gen.PID, reason error) error {
	if reason == nil {
		reason = gen.TerminateReasonNormal
	}
	// TerminateReasonKill can not be trapped
	return n.sendExit(n.corePID, target, reason, reason == gen.TerminateReasonKill)
}

func (n *node) Kill(target gen.PID) error {
	return n.sendExit(n.corePID, target, gen.TerminateReasonKill, true)
}

func (n *node) RegisterName(name gen.Atom, pid gen.PID) error {
	if name == "" {
		return gen.ErrIncorrect
	}
	if err := n.registry.registerName(name, pid); err != nil {
		return err
	}
	n.log.Trace("registered name %s for %s", name, pid)
	return nil
}

func (n *node) UnregisterName(name gen.Atom) (gen.PID, error) {
	return n.registry.unregisterName(name)
}

func (n *node) Whereis(name gen.Atom) (gen.PID, error) {
	pid, found := n.registry.whereis(name)
	if found == false {
		return pid, gen.ErrNameUnknown
	}
	return pid, nil
}

func (n *node) ProcessState(pid gen.PID) (gen.ProcessState, error) {
	p := n.registry.process(pid)
	if p == nil {
		return 0, gen.ErrProcessUnknown
	}
	return p.State(), nil
}

func (n *node) ProcessInfo(pid gen.PID) (gen.ProcessInfo, error) {
	p := n.registry.process(pid)
	if p == nil {
		return gen.ProcessInfo{}, gen.ErrProcessUnknown
	}
	return p.info(), nil
}

func (n *node) ProcessList() []gen.PID {
	return n.registry.list()
}

func (n *node) IsProcessAlive(pid gen.PID) bool {
	p := n.registry.process(pid)
	if p == nil {
		return false
	}
	return p.isAlive()
}

func (n *node) MakeRef() gen.Ref {
	return gen.Ref{
		Node:     n.name,
		Creation: n.creation,
		ID:       n.refID.Inc(),
	}
}

func (n *node) Env(name gen.Env) (any, bool) {
	return n.env.Load(strings.ToUpper(string(name)))
}

func (n *node) SetEnv(name gen.Env, value any) {
	key := strings.ToUpper(string(name))
	if value == nil {
		n.env.Delete(key)
		return
	}
	n.env.Store(key, value)
}

func (n *node) Log() gen.Log {
	return n.log
}

func (n *node) Stats() gen.NodeStats {
	utime, stime := osdep.ResourceUsage()
	return gen.NodeStats{
		UserTime:   utime,
		SystemTime: stime,
		Name:       n.name,
		ID:         n.id,
		Uptime:     n.Uptime(),
		Processes:  n.processes.Load(),
		Spawned:    n.spawned.Load(),
		Terminated: n.terminated.Load(),
		Crashed:    n.crashed.Load(),
		Messages:   n.messages.Load(),
		Dropped:    n.dropped.Load(),
		Names:      n.registry.countNames(),
		Scheduler:  n.sched.stats(),
	}
}

func (n *node) Wait() {
	<-n.stopped
}

func (n *node) WaitWithTimeout(timeout time.Duration) error {
	if lib.WaitTimeout(n.stopped, timeout) == false {
		return gen.ErrTimeout
	}
	return nil
}

func (n *node) Stop() error {
	return n.StopWithTimeout(n.options.ShutdownTimeout)
}

// StopWithTimeout sends the shutdown exit signal to every process and waits
// for them to terminate. Then it stops the scheduler. A process that never
// reaches a suspension point can not be stopped, ErrTimeout is returned then.
func (n *node) StopWithTimeout(timeout time.Duration) error {
	if n.running.CompareAndSwap(true, false) == false {
		return gen.ErrNodeTerminated
	}
	if timeout <= 0 {
		timeout = n.options.ShutdownTimeout
	}
	n.log.Info("node %s is stopping", n.name)

	deadline := time.Now().Add(timeout)
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()

	var err error
	for {
		for _, pid := range n.registry.list() {
			n.sendExit(n.corePID, pid, gen.TerminateReasonShutdown, true)
		}
		left := time.Until(deadline)
		if left <= 0 {
			err = gen.ErrTimeout
			n.log.Warning("%d processes are still running", n.registry.count())
			break
		}
		if lib.WaitTimeout(n.registry.waitEmpty(), min(left, stopRecall)) {
			break
		}
	}

	if serr := n.sched.shutdown(ctx); err == nil {
		err = serr
	}

	n.log.Info("node %s stopped", n.name)
	n.stopLoggers()
	close(n.stopped)
	return err
}

//
// internals
//

func (n *node) spawn(parent *process, factory gen.ProcessFactory, options gen.ProcessOptions, name gen.Atom, link bool, args []any) (gen.PID, error) {
	if n.running.Load() == false {
		return gen.PID{}, gen.ErrNodeTerminated
	}
	if factory == nil {
		return gen.PID{}, gen.ErrIncorrect
	}
	behavior := factory()
	if behavior == nil {
		return gen.PID{}, gen.ErrIncorrect
	}

	p := &process{
		node:        n,
		pid:         gen.PID{Node: n.name, ID: n.uniqID.Inc(), Creation: n.creation},
		parent:      n.corePID,
		creation:    time.Now().Unix(),
		behavior:    behavior,
		sbehavior:   behaviorName(behavior),
		args:        args,
		options:     options,
		state:       int32(gen.ProcessStateInit),
		links:       mapset.NewThreadUnsafeSet[gen.PID](),
		monitors:    make(map[gen.Ref]gen.PID),
		monitoredBy: make(map[gen.Ref]gen.PID),
		resume:      make(chan *worker),
		yield:       make(chan yieldReason),
	}
	p.mailbox.init()
	p.trap.Store(options.TrapExit)
	if parent != nil {
		p.parent = parent.pid
	}

	level := options.LogLevel
	if level == gen.LogLevelDefault {
		level = n.log.Level()
	}
	p.log = newProcessLog(gen.MessageLogProcess{
		Node:     n.name,
		PID:      p.pid,
		Name:     name,
		Behavior: p.sbehavior,
	}, level, n.dolog)

	n.registry.add(p)
	if name != "" {
		if err := n.registry.registerName(name, p.pid); err != nil {
			n.registry.remove(p.pid)
			return gen.PID{}, err
		}
	}

	if (link || options.LinkParent) && parent != nil {
		if err := n.link(parent, p.pid); err != nil {
			if name != "" {
				n.registry.unregisterName(name)
			}
			n.registry.remove(p.pid)
			return gen.PID{}, err
		}
	}

	n.spawned.Inc()
	n.processes.Inc()

	go p.main()

	var w *worker
	if parent != nil {
		w = parent.worker
	}
	n.sched.enqueue(p, w)

	p.log.Trace("spawned by %s", p.parent)
	return p.pid, nil
}

// resolve returns PID of the given target (gen.PID or gen.Atom)
func (n *node) resolve(to any) (gen.PID, error) {
	switch t := to.(type) {
	case gen.PID:
		if t.Node != n.name {
			return t, gen.ErrUnsupported
		}
		return t, nil
	case gen.Atom:
		pid, found := n.registry.whereis(t)
		if found == false {
			return pid, gen.ErrNameUnknown
		}
		return pid, nil
	case string:
		return n.resolve(gen.Atom(t))
	}
	return gen.PID{}, gen.ErrIncorrect
}

// route delivers the message on behalf of the process (or the node core if
// the sender is nil)
func (n *node) route(from *process, to any, mtype gen.MailboxMessageType, ref gen.Ref, message any) error {
	if from == nil {
		return n.routeFrom(n.corePID, nil, to, mtype, ref, message)
	}
	return n.routeFrom(from.pid, from.worker, to, mtype, ref, message)
}

func (n *node) routeFrom(from gen.PID, w *worker, to any, mtype gen.MailboxMessageType, ref gen.Ref, message any) error {
	pid, err := n.resolve(to)
	if err != nil {
		return err
	}
	t := n.registry.process(pid)
	if t == nil {
		// dead PID
		n.dropped.Inc()
		return nil
	}
	if name, ok := to.(string); ok {
		to = gen.Atom(name)
	}
	n.deliver(from, w, t, to, mtype, ref, message)
	return nil
}

// deliver pushes the message to the mailbox. target is the value the sender
// used to address the process (PID or Atom)
func (n *node) deliver(from gen.PID, w *worker, to *process, target any, mtype gen.MailboxMessageType, ref gen.Ref, message any) {
	if to.isAlive() == false {
		n.dropped.Inc()
		return
	}
	to.mailbox.push(&gen.MailboxMessage{
		From:    from,
		Ref:     ref,
		Type:    mtype,
		Target:  target,
		Message: message,
	})
	n.messages.Inc()
	to.wake(w)
}
