package node

import (
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/snowdamiz/meshrt/gen"
)

type process struct {
	node *node
	pid  gen.PID

	name   atomic.Value // gen.Atom
	parent gen.PID

	// used for the process Uptime only. PID value uses node creation value.
	creation int64

	behavior  gen.ProcessBehavior
	sbehavior string
	args      []any
	options   gen.ProcessOptions

	state   int32
	trap    atomic.Bool
	mailbox mailbox

	// worker that has resumed this process. Accessed by the process goroutine only
	worker     *worker
	reductions int

	// handoff with the worker
	resume chan *worker
	yield  chan yieldReason

	// links, monitors and exit signals
	mu          sync.Mutex
	links       mapset.Set[gen.PID]
	monitors    map[gen.Ref]gen.PID // monitors created by this process
	monitoredBy map[gen.Ref]gen.PID // monitors created on this process
	exiting     bool
	pendingExit error
	signaled    atomic.Bool

	// process goroutine only
	exitReason error
	result     error
	returned   bool
	unwinding  bool

	// gen.Log interface
	log *log
}

type yieldReason int

const (
	yieldRunnable  yieldReason = 1
	yieldPreempted yieldReason = 2
	yieldWaiting   yieldReason = 3
	yieldExited    yieldReason = 4
)

func (p *process) storeState(state gen.ProcessState) {
	atomic.StoreInt32(&p.state, int32(state))
}

func (p *process) isAlive() bool {
	return atomic.LoadInt32(&p.state) != int32(gen.ProcessStateTerminated)
}

// gen.Process implementation

func (p *process) Node() gen.Node {
	return p.node
}

func (p *process) PID() gen.PID {
	return p.pid
}

func (p *process) Parent() gen.PID {
	return p.parent
}

func (p *process) Name() gen.Atom {
	name, _ := p.name.Load().(gen.Atom)
	return name
}

func (p *process) Register(name gen.Atom) error {
	if p.isAlive() == false {
		return gen.ErrNotAllowed
	}
	return p.node.RegisterName(name, p.pid)
}

func (p *process) Unregister() error {
	name := p.Name()
	if name == "" {
		return gen.ErrNameUnknown
	}
	_, err := p.node.UnregisterName(name)
	return err
}

func (p *process) State() gen.ProcessState {
	return gen.ProcessState(atomic.LoadInt32(&p.state))
}

func (p *process) Behavior() gen.ProcessBehavior {
	return p.behavior
}

func (p *process) Log() gen.Log {
	return p.log
}

func (p *process) Spawn(factory gen.ProcessFactory, options gen.ProcessOptions, args ...any) (gen.PID, error) {
	return p.spawn(factory, options, "", false, args)
}

func (p *process) SpawnFunc(fn gen.ProcessFunc, options gen.ProcessOptions, args ...any) (gen.PID, error) {
	return p.spawn(funcFactory(fn), options, "", false, args)
}

func (p *process) SpawnLink(factory gen.ProcessFactory, options gen.ProcessOptions, args ...any) (gen.PID, error) {
	return p.spawn(factory, options, "", true, args)
}

func (p *process) SpawnFuncLink(fn gen.ProcessFunc, options gen.ProcessOptions, args ...any) (gen.PID, error) {
	return p.spawn(funcFactory(fn), options, "", true, args)
}

func (p *process) SpawnRegister(name gen.Atom, factory gen.ProcessFactory, options gen.ProcessOptions, args ...any) (gen.PID, error) {
	if name == "" {
		return gen.PID{}, gen.ErrIncorrect
	}
	return p.spawn(factory, options, name, false, args)
}

func (p *process) spawn(factory gen.ProcessFactory, options gen.ProcessOptions, name gen.Atom, link bool, args []any) (gen.PID, error) {
	if p.isAlive() == false {
		return gen.PID{}, gen.ErrNotAllowed
	}
	p.Reduce(1)
	return p.node.spawn(p, factory, options, name, link, args)
}

func (p *process) Send(to any, message any) error {
	if err := p.node.route(p, to, gen.MailboxMessageTypeRegular, gen.Ref{}, message); err != nil {
		return err
	}
	if p.isAlive() {
		p.Reduce(1)
	}
	return nil
}

func (p *process) SendAfter(to any, message any, after time.Duration) (gen.CancelFunc, error) {
	if _, err := p.node.resolve(to); err != nil {
		return nil, err
	}
	from := p.pid
	t := time.AfterFunc(after, func() {
		if err := p.node.routeFrom(from, nil, to, gen.MailboxMessageTypeRegular, gen.Ref{}, message); err != nil {
			p.log.Trace("SendAfter to %v failed: %s", to, err)
		}
	})
	return t.Stop, nil
}

func (p *process) MailboxLen() int {
	return p.mailbox.len()
}

func (p *process) Link(target gen.PID) error {
	if p.isAlive() == false {
		return gen.ErrNotAllowed
	}
	p.Reduce(1)
	return p.node.link(p, target)
}

func (p *process) Unlink(target gen.PID) error {
	return p.node.unlink(p, target)
}

func (p *process) Monitor(target any) (gen.Ref, error) {
	if p.isAlive() == false {
		return gen.Ref{}, gen.ErrNotAllowed
	}
	p.Reduce(1)
	return p.node.monitor(p, target)
}

func (p *process) Demonitor(ref gen.Ref) bool {
	return p.node.demonitor(p, ref)
}

func (p *process) SetTrapExit(trap bool) {
	p.trap.Store(trap)
}

func (p *process) TrapExit() bool {
	return p.trap.Load()
}

func (p *process) Exit(target gen.PID, reason error) error {
	if reason == nil {
		reason = gen.TerminateReasonNormal
	}
	if target == p.pid {
		// exit signal to itself works as an exit even with the trap enabled
		if p.isAlive() == false {
			return gen.ErrNotAllowed
		}
		p.exitReason = reason
		p.unwind()
	}
	return p.node.sendExit(p.pid, target, reason, reason == gen.TerminateReasonKill)
}

func (p *process) Kill(target gen.PID) error {
	if target == p.pid {
		if p.isAlive() == false {
			return gen.ErrNotAllowed
		}
		p.exitReason = gen.TerminateReasonKill
		p.unwind()
	}
	return p.node.sendExit(p.pid, target, gen.TerminateReasonKill, true)
}

func (p *process) Call(to any, request any) (any, error) {
	return p.CallWithTimeout(to, request, gen.DefaultRequestTimeout)
}

func (p *process) CallWithTimeout(to any, request any, timeout time.Duration) (any, error) {
	if p.isAlive() == false {
		return nil, gen.ErrNotAllowed
	}

	pid, err := p.node.resolve(to)
	if err != nil {
		return nil, err
	}
	if pid == p.pid {
		// would never get a response
		return nil, gen.ErrNotAllowed
	}

	mref, err := p.Monitor(pid)
	if err != nil {
		return nil, err
	}
	defer func() {
		p.Demonitor(mref)
		// flush the down notification if it has already arrived
		p.ReceiveTimeout(0, gen.MatchDown(mref))
	}()

	ref := p.node.MakeRef()
	if err := p.node.route(p, pid, gen.MailboxMessageTypeRequest, ref, request); err != nil {
		return nil, err
	}

	p.log.Trace("Call %s with ref %s", pid, ref)

	patterns := append(gen.MatchResponse(ref), gen.MatchDown(mref))
	m, err := p.ReceiveTimeout(timeout, patterns...)
	if err != nil {
		return nil, err
	}

	switch m.Type {
	case gen.MailboxMessageTypeResponse:
		return m.Message, nil
	case gen.MailboxMessageTypeResponseError:
		rerr, _ := m.Message.(error)
		return nil, rerr
	}

	// down notification
	down := m.Message.(gen.MessageDownPID)
	if down.Reason == gen.TerminateReasonNoProc {
		return nil, gen.ErrProcessUnknown
	}
	return nil, gen.ErrProcessTerminated
}

func (p *process) Cast(to any, message any) error {
	if err := p.node.route(p, to, gen.MailboxMessageTypeCast, gen.Ref{}, message); err != nil {
		return err
	}
	if p.isAlive() {
		p.Reduce(1)
	}
	return nil
}

func (p *process) SendResponse(to gen.PID, ref gen.Ref, response any) error {
	return p.node.route(p, to, gen.MailboxMessageTypeResponse, ref, response)
}

func (p *process) SendResponseError(to gen.PID, ref gen.Ref, err error) error {
	return p.node.route(p, to, gen.MailboxMessageTypeResponseError, ref, err)
}

// internals

func (p *process) info() gen.ProcessInfo {
	info := gen.ProcessInfo{
		PID:        p.pid,
		Name:       p.Name(),
		Parent:     p.parent,
		Behavior:   p.sbehavior,
		State:      p.State(),
		Priority:   p.options.Priority,
		TrapExit:   p.trap.Load(),
		MailboxLen: p.mailbox.len(),
		Uptime:     time.Now().Unix() - p.creation,
	}

	p.mu.Lock()
	if p.links != nil {
		info.Links = p.links.ToSlice()
	}
	for _, pid := range p.monitors {
		info.Monitors = append(info.Monitors, pid)
	}
	for _, pid := range p.monitoredBy {
		info.MonitoredBy = append(info.MonitoredBy, pid)
	}
	p.mu.Unlock()

	return info
}

// wake makes the waiting process runnable. "from" is the worker of the
// sender (nil if it is sent from outside the scheduler)
func (p *process) wake(from *worker) {
	if atomic.CompareAndSwapInt32(&p.state, int32(gen.ProcessStateWaiting), int32(gen.ProcessStateRunnable)) {
		p.node.sched.enqueue(p, from)
	}
}

func behaviorName(b gen.ProcessBehavior) string {
	if f, ok := b.(*funcBehavior); ok {
		return f.name
	}
	return strings.TrimPrefix(reflect.TypeOf(b).String(), "*")
}
