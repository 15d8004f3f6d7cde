package act

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/snowdamiz/meshrt/gen"
)

const (
	defaultRestartIntensity uint16 = 5
	defaultRestartPeriod    uint16 = 5
)

type SupervisorBehavior interface {
	gen.ProcessBehavior

	// Init invoked on a spawn Supervisor process. This is a mandatory callback for the implementation
	Init(args ...any) (SupervisorSpec, error)

	// HandleChildStart invoked on a successful child process starting if option EnableHandleChild
	// was enabled in act.SupervisorSpec
	HandleChildStart(name gen.Atom, pid gen.PID) error

	// HandleChildTerminate invoked on a child process termination if option EnableHandleChild
	// was enabled in act.SupervisorSpec
	HandleChildTerminate(name gen.Atom, pid gen.PID, reason error) error

	// HandleMessage invoked if Supervisor received a message sent with gen.Process.Send(...).
	// Non-nil value of the returning error will cause termination of this process
	// (the children are terminated first).
	HandleMessage(from gen.PID, message any) error

	// HandleCall invoked if Supervisor got a synchronous request made with gen.Process.Call(...)
	// that is not one of the supervisor management requests.
	// Return nil as a result to handle this request asynchronously and
	// to provide the result later using the gen.Process.SendResponse(...) method.
	HandleCall(from gen.PID, ref gen.Ref, request any) (any, error)

	// Terminate invoked on a termination supervisor process
	Terminate(reason error)
}

// Supervisor is a process that starts, monitors and restarts its children
// according to the restart strategy. Embed it into your struct and implement
// the Init callback.
type Supervisor struct {
	gen.Process

	behavior SupervisorBehavior
	sup      supBehavior

	spec        SupervisorSpec
	specs       []SupervisorChildSpec
	handleChild bool

	// arena of the children. the position in the slice is the start order
	children []*supChild
	restarts []time.Time
}

// SupervisorType
type SupervisorType int

func (s SupervisorType) String() string {
	switch s {
	case SupervisorTypeOneForOne:
		return "One For One"
	case SupervisorTypeAllForOne:
		return "All For One"
	case SupervisorTypeRestForOne:
		return "Rest For One"
	case SupervisorTypeSimpleOneForOne:
		return "Simple One For One"
	}
	return "Bug: unknown supervisor type"
}

const (

	// SupervisorTypeOneForOne If one child process terminates and is to be restarted, only
	// that child process is affected. This is the default restart strategy.
	SupervisorTypeOneForOne SupervisorType = 0

	// SupervisorTypeAllForOne If one child process terminates and is to be restarted, all other
	// child processes are terminated and then all child processes are restarted.
	SupervisorTypeAllForOne SupervisorType = 1

	// SupervisorTypeRestForOne If one child process terminates and is to be restarted,
	// the 'rest' of the child processes (that is, the child
	// processes after the terminated child process in the start order)
	// are terminated. Then the terminated child process and all
	// child processes after it are restarted
	SupervisorTypeRestForOne SupervisorType = 2

	// SupervisorTypeSimpleOneForOne A simplified one_for_one supervisor, where all
	// child processes are dynamically added instances
	// of the same process type, that is, running the same code.
	SupervisorTypeSimpleOneForOne SupervisorType = 3
)

// SupervisorStrategy defines restart strategy for the child process
type SupervisorStrategy int

func (s SupervisorStrategy) String() string {
	switch s {
	case SupervisorStrategyTransient:
		return "Transient"
	case SupervisorStrategyTemporary:
		return "Temporary"
	case SupervisorStrategyPermanent:
		return "Permanent"
	}
	return "Bug: unknown supervisor strategy type"
}

const (
	// SupervisorStrategyTransient child process is restarted only if
	// it terminates abnormally, that is, with an exit reason other
	// than TerminateReasonNormal, TerminateReasonShutdown.
	// This is default strategy.
	SupervisorStrategyTransient SupervisorStrategy = 0

	// SupervisorStrategyTemporary child process is never restarted
	// (not even when the supervisor restart strategy is rest_for_one
	// or one_for_all and a sibling death causes the temporary process
	// to be terminated)
	SupervisorStrategyTemporary SupervisorStrategy = 1

	// SupervisorStrategyPermanent child process is always restarted
	SupervisorStrategyPermanent SupervisorStrategy = 2
)

// SupervisorChildType
type SupervisorChildType int

const (
	SupervisorChildTypeWorker     SupervisorChildType = 0
	SupervisorChildTypeSupervisor SupervisorChildType = 1
)

func (t SupervisorChildType) String() string {
	if t == SupervisorChildTypeSupervisor {
		return "supervisor"
	}
	return "worker"
}

// SupervisorChildState
type SupervisorChildState int

const (
	SupervisorChildStateStopped    SupervisorChildState = 0
	SupervisorChildStateStarting   SupervisorChildState = 1
	SupervisorChildStateRunning    SupervisorChildState = 2
	SupervisorChildStateRestarting SupervisorChildState = 3
	SupervisorChildStateFailed     SupervisorChildState = 4
)

func (s SupervisorChildState) String() string {
	switch s {
	case SupervisorChildStateStopped:
		return "stopped"
	case SupervisorChildStateStarting:
		return "starting"
	case SupervisorChildStateRunning:
		return "running"
	case SupervisorChildStateRestarting:
		return "restarting"
	case SupervisorChildStateFailed:
		return "failed"
	}
	return "unknown"
}

// SupervisorSpec
type SupervisorSpec struct {
	Children []SupervisorChildSpec
	Type     SupervisorType
	Restart  SupervisorRestart

	// EnableHandleChild enables HandleChildStart/HandleChildTerminate callback
	// invoking on starting/stopping child processes.
	EnableHandleChild bool
}

// SupervisorRestart defines the restart intensity: the supervisor gives up
// if there were more than Intensity restarts within the last Period seconds.
// Zero value means 5 restarts in 5 seconds. Zero Period alone means 5 seconds,
// so {Intensity: 0, Period: N} gives up on the first restart.
type SupervisorRestart struct {
	Intensity uint16
	Period    uint16
}

// SupervisorShutdown defines how the child is terminated. Brutal kills the
// child right away. Otherwise the child gets TerminateReasonShutdown and is
// killed if it hasn't terminated within Timeout. Zero Timeout means
// gen.DefaultSupervisorShutdown for the workers and infinity for the supervisors.
type SupervisorShutdown struct {
	Brutal  bool
	Timeout time.Duration
}

// SupervisorChildSpec
type SupervisorChildSpec struct {
	Name     gen.Atom
	Factory  gen.ProcessFactory
	Options  gen.ProcessOptions
	Args     []any
	Restart  SupervisorStrategy
	Shutdown SupervisorShutdown
	Type     SupervisorChildType
}

// SupervisorChild
type SupervisorChild struct {
	Spec  gen.Atom
	PID   gen.PID
	State SupervisorChildState
	Type  SupervisorChildType
}

//
// management API. Can be used by the supervisor itself (in the callbacks)
//

// Children returns a list of supervisor children processes
func (s *Supervisor) Children() []SupervisorChild {
	return listSupChild(s.children)
}

// StartChild starts the child process defined in the supervisor spec. For the
// simple_one_for_one supervisor it starts a new instance of the child spec
// with the given args; for the others it starts the stopped child.
func (s *Supervisor) StartChild(name gen.Atom, args ...any) (gen.PID, error) {
	if s.State() != gen.ProcessStateRunning {
		return gen.PID{}, gen.ErrNotAllowed
	}

	i, err := s.sup.childStart(s, name, args)
	if err != nil {
		return gen.PID{}, err
	}
	c := s.children[i]
	if err := s.startChild(c); err != nil {
		if s.spec.Type == SupervisorTypeSimpleOneForOne {
			s.removeChild(i)
		}
		return gen.PID{}, err
	}
	return c.pid, nil
}

// AddChild adds a new child spec to the supervisor and starts it. For the
// simple_one_for_one supervisor it only adds the spec.
func (s *Supervisor) AddChild(child SupervisorChildSpec) error {
	if s.State() != gen.ProcessStateRunning {
		return gen.ErrNotAllowed
	}
	if err := validateChildSpec(child); err != nil {
		return err
	}
	for _, spec := range s.specs {
		if spec.Name == child.Name {
			return ErrSupervisorChildDuplicate
		}
	}
	s.specs = append(s.specs, child)
	if s.spec.Type == SupervisorTypeSimpleOneForOne {
		return nil
	}

	c := &supChild{spec: child, i: len(s.children), args: child.Args}
	s.children = append(s.children, c)
	return s.startChild(c)
}

// TerminateChild terminates the child process (all the instances of the spec
// for the simple_one_for_one supervisor) with TerminateReasonShutdown. The child
// is not restarted and stays in the stopped state until RestartChild.
func (s *Supervisor) TerminateChild(name gen.Atom) error {
	if s.State() != gen.ProcessStateRunning {
		return gen.ErrNotAllowed
	}

	found := false
	for i := len(s.children) - 1; i >= 0; i-- {
		c := s.children[i]
		if c.spec.Name != name {
			continue
		}
		found = true
		s.terminateChild(c, SupervisorChildStateStopped)
		if s.spec.Type == SupervisorTypeSimpleOneForOne {
			s.removeChild(i)
		}
	}
	if found == false {
		if s.specExist(name) {
			return nil
		}
		return ErrSupervisorChildUnknown
	}
	return nil
}

// RestartChild starts the stopped child process
func (s *Supervisor) RestartChild(name gen.Atom) (gen.PID, error) {
	if s.State() != gen.ProcessStateRunning {
		return gen.PID{}, gen.ErrNotAllowed
	}
	if s.spec.Type == SupervisorTypeSimpleOneForOne {
		return gen.PID{}, gen.ErrUnsupported
	}
	for _, c := range s.children {
		if c.spec.Name != name {
			continue
		}
		if c.state == SupervisorChildStateRunning {
			return c.pid, ErrSupervisorChildRunning
		}
		if err := s.startChild(c); err != nil {
			return gen.PID{}, err
		}
		return c.pid, nil
	}
	return gen.PID{}, ErrSupervisorChildUnknown
}

//
// ProcessBehavior implementation
//

// ProcessInit
func (s *Supervisor) ProcessInit(process gen.Process, args ...any) error {
	var ok bool

	if s.behavior, ok = process.Behavior().(SupervisorBehavior); ok == false {
		unknown := strings.TrimPrefix(reflect.TypeOf(process.Behavior()).String(), "*")
		return fmt.Errorf("ProcessInit: not a SupervisorBehavior %s", unknown)
	}

	s.Process = process
	// exit signals of the children come as messages
	s.SetTrapExit(true)

	spec, err := s.behavior.Init(args...)
	if err != nil {
		return err
	}

	// validate restart options. Intensity 0 is a valid limit if the Period is set
	if spec.Restart == (SupervisorRestart{}) {
		spec.Restart.Intensity = defaultRestartIntensity
	}
	if spec.Restart.Period == 0 {
		spec.Restart.Period = defaultRestartPeriod
	}

	// validate child spec list
	if len(spec.Children) == 0 {
		return fmt.Errorf("children list can not be empty")
	}

	duplicate := mapset.NewThreadUnsafeSet[gen.Atom]()
	for _, c := range spec.Children {
		if err := validateChildSpec(c); err != nil {
			return err
		}
		if duplicate.Add(c.Name) == false {
			return ErrSupervisorChildDuplicate
		}
	}

	switch spec.Type {
	case SupervisorTypeOneForOne:
		s.sup = createSupOneForOne()
	case SupervisorTypeAllForOne:
		s.sup = createSupAllRestForOne(false)
	case SupervisorTypeRestForOne:
		s.sup = createSupAllRestForOne(true)
	case SupervisorTypeSimpleOneForOne:
		s.sup = createSupSimpleOneForOne()
	default:
		return fmt.Errorf("unknown supervisor type")
	}

	s.spec = spec
	s.specs = append([]SupervisorChildSpec{}, spec.Children...)
	s.handleChild = spec.EnableHandleChild
	s.children = s.sup.init(s.specs)

	for _, c := range s.children {
		if err := s.startChild(c); err != nil {
			s.Log().Error("unable to start child %s: %s", c.spec.Name, err)
			s.shutdown()
			return err
		}
	}

	s.Log().Debug("supervisor (%s) started with %d children", spec.Type, len(s.children))
	return nil
}

func (s *Supervisor) ProcessRun() error {
	for {
		message, err := s.Receive()
		if err != nil {
			return err
		}

		switch message.Type {
		case gen.MailboxMessageTypeRegular:
			if exit, ok := message.Message.(gen.MessageExitPID); ok {
				if reason := s.handleExit(exit); reason != nil {
					return reason
				}
				continue
			}
			if reason := s.behavior.HandleMessage(message.From, message.Message); reason != nil {
				s.shutdown()
				return reason
			}

		case gen.MailboxMessageTypeCast:
			if reason := s.behavior.HandleMessage(message.From, message.Message); reason != nil {
				s.shutdown()
				return reason
			}

		case gen.MailboxMessageTypeRequest:
			if s.handleRequest(message.MailboxMessage) {
				continue
			}
			result, reason := s.behavior.HandleCall(message.From, message.Ref, message.Message)
			if result != nil {
				s.SendResponse(message.From, message.Ref, result)
			}
			if reason != nil {
				s.shutdown()
				return reason
			}

		default:
			// late responses
			s.Log().Trace("dropped %s from %s", message.Type, message.From)
		}
	}
}

func (s *Supervisor) ProcessTerminate(reason error) {
	if s.behavior == nil {
		// ProcessInit has failed
		return
	}
	s.behavior.Terminate(reason)
}

//
// SupervisorBehavior default callbacks
//

func (s *Supervisor) HandleChildStart(name gen.Atom, pid gen.PID) error {
	s.Log().Warning("Supervisor.HandleChildStart: unhandled message")
	return nil
}

func (s *Supervisor) HandleChildTerminate(name gen.Atom, pid gen.PID, reason error) error {
	s.Log().Warning("Supervisor.HandleChildTerminate: unhandled message")
	return nil
}

func (s *Supervisor) HandleMessage(from gen.PID, message any) error {
	s.Log().Warning("Supervisor.HandleMessage: unhandled message from %s", from)
	return nil
}

func (s *Supervisor) HandleCall(from gen.PID, ref gen.Ref, request any) (any, error) {
	s.Log().Warning("Supervisor.HandleCall: unhandled request from %s", from)
	return nil, nil
}

func (s *Supervisor) Terminate(reason error) {}

//
// internals
//

// handleExit handles the exit signal. Returns non nil reason if the supervisor
// must terminate.
func (s *Supervisor) handleExit(exit gen.MessageExitPID) error {
	i := s.childIndex(exit.PID)
	if i < 0 {
		if exit.PID == s.Parent() {
			s.Log().Debug("got exit signal from the parent: %s", exit.Reason)
			s.shutdown()
			return exit.Reason
		}
		s.Log().Trace("ignored exit signal from %s: %s", exit.PID, exit.Reason)
		return nil
	}

	c := s.children[i]
	c.pid = gen.PID{}
	c.state = SupervisorChildStateStopped

	if gen.IsShutdownExit(exit.Reason) {
		s.Log().Debug("child %s %s terminated: %s", c.spec.Name, exit.PID, exit.Reason)
	} else {
		s.Log().Warning("child %s %s terminated: %s", c.spec.Name, exit.PID, exit.Reason)
	}

	if s.handleChild {
		if reason := s.behavior.HandleChildTerminate(c.spec.Name, exit.PID, exit.Reason); reason != nil {
			s.shutdown()
			return reason
		}
	}

	action := s.sup.childTerminated(s.children, i, exit.Reason)
	if len(action.start) == 0 {
		if action.remove {
			s.removeChild(i)
		}
		return nil
	}

	if s.restartExceeded(time.Now()) {
		s.Log().Error("restart intensity is exceeded (%d restarts in %d seconds)",
			s.spec.Restart.Intensity, s.spec.Restart.Period)
		c.state = SupervisorChildStateFailed
		s.shutdown()
		return ErrSupervisorRestartsExceeded
	}

	restart := mapset.NewThreadUnsafeSet(action.start...)
	for _, j := range action.terminate {
		state := SupervisorChildStateStopped
		if restart.Contains(j) {
			state = SupervisorChildStateRestarting
		}
		s.terminateChild(s.children[j], state)
	}
	c.state = SupervisorChildStateRestarting

	for _, j := range action.start {
		child := s.children[j]
		if err := s.startChild(child); err != nil {
			s.Log().Error("unable to restart child %s: %s", child.spec.Name, err)
			s.shutdown()
			return err
		}
	}
	return nil
}

func (s *Supervisor) startChild(c *supChild) error {
	c.state = SupervisorChildStateStarting

	options := c.spec.Options
	options.LinkParent = true

	var pid gen.PID
	var err error
	if s.sup.register() {
		pid, err = s.SpawnRegister(c.spec.Name, c.spec.Factory, options, c.args...)
	} else {
		pid, err = s.Spawn(c.spec.Factory, options, c.args...)
	}
	if err != nil {
		c.state = SupervisorChildStateFailed
		return err
	}

	c.pid = pid
	c.state = SupervisorChildStateRunning
	s.Log().Debug("started child %s %s", c.spec.Name, pid)

	if s.handleChild {
		return s.behavior.HandleChildStart(c.spec.Name, pid)
	}
	return nil
}

// terminateChild stops the running child and waits for its exit signal
func (s *Supervisor) terminateChild(c *supChild, state SupervisorChildState) {
	if c.state != SupervisorChildStateRunning {
		return
	}
	pid := c.pid
	c.pid = gen.PID{}
	c.state = state

	if c.spec.Shutdown.Brutal {
		if err := s.Kill(pid); err == gen.ErrProcessUnknown {
			s.ReceiveTimeout(0, gen.MatchExit(pid))
			return
		}
		s.Receive(gen.MatchExit(pid))
		return
	}

	if err := s.Exit(pid, gen.TerminateReasonShutdown); err == gen.ErrProcessUnknown {
		// has gone already. its exit signal is in the mailbox
		s.ReceiveTimeout(0, gen.MatchExit(pid))
		return
	}

	timeout := c.spec.Shutdown.Timeout
	if timeout == 0 {
		if c.spec.Type == SupervisorChildTypeSupervisor {
			s.Receive(gen.MatchExit(pid))
			return
		}
		timeout = gen.DefaultSupervisorShutdown
	}

	if _, err := s.ReceiveTimeout(timeout, gen.MatchExit(pid)); err == nil {
		return
	}
	s.Log().Warning("child %s %s hasn't terminated in %s. killing it", c.spec.Name, pid, timeout)
	if err := s.Kill(pid); err == gen.ErrProcessUnknown {
		return
	}
	s.Receive(gen.MatchExit(pid))
}

// shutdown terminates all children in reverse start order
func (s *Supervisor) shutdown() {
	for i := len(s.children) - 1; i >= 0; i-- {
		s.terminateChild(s.children[i], SupervisorChildStateStopped)
	}
}

// restartExceeded registers the restart and returns true if there were more
// than Intensity restarts within the Period
func (s *Supervisor) restartExceeded(now time.Time) bool {
	var exceeded bool
	s.restarts, exceeded = supCheckRestartIntensity(s.restarts, now,
		time.Duration(s.spec.Restart.Period)*time.Second, int(s.spec.Restart.Intensity))
	return exceeded
}

func (s *Supervisor) childIndex(pid gen.PID) int {
	for i, c := range s.children {
		if c.pid == pid {
			return i
		}
	}
	return -1
}

func (s *Supervisor) removeChild(i int) {
	s.children = append(s.children[:i], s.children[i+1:]...)
	for j := i; j < len(s.children); j++ {
		s.children[j].i = j
	}
}

func (s *Supervisor) specExist(name gen.Atom) bool {
	for _, spec := range s.specs {
		if spec.Name == name {
			return true
		}
	}
	return false
}

type supBehavior interface {
	// init creates the arena slots to be started in the given order
	init(specs []SupervisorChildSpec) []*supChild
	// childStart returns the slot to start for the StartChild request
	childStart(s *Supervisor, name gen.Atom, args []any) (int, error)
	// childTerminated decides what to do once the child in the slot i has terminated
	childTerminated(children []*supChild, i int, reason error) supAction
	// register returns true if the children are registered with the spec name
	register() bool
}

type supAction struct {
	// slots to terminate (in this order)
	terminate []int
	// slots to start (in this order)
	start []int
	// remove the slot of the terminated child
	remove bool
}

type supChild struct {
	spec  SupervisorChildSpec
	args  []any
	i     int
	pid   gen.PID
	state SupervisorChildState
}

// supShouldRestart applies the child restart strategy to the exit reason
func supShouldRestart(strategy SupervisorStrategy, reason error) bool {
	switch strategy {
	case SupervisorStrategyPermanent:
		return true
	case SupervisorStrategyTemporary:
		return false
	}
	return gen.IsShutdownExit(reason) == false
}

// supCheckRestartIntensity registers the restart made at "now" and returns true
// if the number of restarts within the period has exceeded the intensity
func supCheckRestartIntensity(restarts []time.Time, now time.Time, period time.Duration, intensity int) ([]time.Time, bool) {
	restarts = append(restarts, now)

	// drop the restarts that are out of the window
	start := 0
	for start < len(restarts) && now.Sub(restarts[start]) > period {
		start++
	}
	restarts = restarts[start:]

	return restarts, len(restarts) > intensity
}

func validateChildSpec(s SupervisorChildSpec) error {
	if s.Name == "" {
		return fmt.Errorf("invalid child spec Name")
	}

	if s.Factory == nil {
		return fmt.Errorf("child spec Factory is nil")
	}

	switch s.Restart {
	case SupervisorStrategyTransient, SupervisorStrategyTemporary,
		SupervisorStrategyPermanent:
	default:
		return fmt.Errorf("unknown restart strategy of the child spec %s", s.Name)
	}

	if s.Shutdown.Timeout < 0 {
		return fmt.Errorf("incorrect shutdown timeout of the child spec %s", s.Name)
	}

	return nil
}

func listSupChild(c []*supChild) []SupervisorChild {
	var children []SupervisorChild

	for _, v := range c {
		child := SupervisorChild{
			Spec:  v.spec.Name,
			PID:   v.pid,
			State: v.state,
			Type:  v.spec.Type,
		}
		children = append(children, child)
	}
	return children
}

//
// management requests
//

type supRequestStartChild struct {
	name gen.Atom
	args []any
}

type supRequestAddChild struct {
	spec SupervisorChildSpec
}

type supRequestTerminateChild struct {
	name gen.Atom
}

type supRequestRestartChild struct {
	name gen.Atom
}

type supRequestChildren struct{}

// handleRequest returns false if the request is not a management one
func (s *Supervisor) handleRequest(m gen.MailboxMessage) bool {
	var result any
	var err error

	switch r := m.Message.(type) {
	case supRequestStartChild:
		result, err = s.StartChild(r.name, r.args...)
	case supRequestAddChild:
		err = s.AddChild(r.spec)
		result = true
	case supRequestTerminateChild:
		err = s.TerminateChild(r.name)
		result = true
	case supRequestRestartChild:
		result, err = s.RestartChild(r.name)
	case supRequestChildren:
		result = s.Children()
	default:
		return false
	}

	if err != nil {
		s.SendResponseError(m.From, m.Ref, err)
		return true
	}
	s.SendResponse(m.From, m.Ref, result)
	return true
}

// SupervisorStartChild makes the supervisor start the child. See Supervisor.StartChild
func SupervisorStartChild(process gen.Process, supervisor any, name gen.Atom, args ...any) (gen.PID, error) {
	result, err := process.Call(supervisor, supRequestStartChild{name: name, args: args})
	if err != nil {
		return gen.PID{}, err
	}
	return result.(gen.PID), nil
}

// SupervisorAddChild makes the supervisor add the child spec. See Supervisor.AddChild
func SupervisorAddChild(process gen.Process, supervisor any, spec SupervisorChildSpec) error {
	_, err := process.Call(supervisor, supRequestAddChild{spec: spec})
	return err
}

// SupervisorTerminateChild makes the supervisor terminate the child. See Supervisor.TerminateChild
func SupervisorTerminateChild(process gen.Process, supervisor any, name gen.Atom) error {
	_, err := process.Call(supervisor, supRequestTerminateChild{name: name})
	return err
}

// SupervisorRestartChild makes the supervisor start the stopped child. See Supervisor.RestartChild
func SupervisorRestartChild(process gen.Process, supervisor any, name gen.Atom) (gen.PID, error) {
	result, err := process.Call(supervisor, supRequestRestartChild{name: name})
	if err != nil {
		return gen.PID{}, err
	}
	return result.(gen.PID), nil
}

// SupervisorChildren returns the list of the supervisor children
func SupervisorChildren(process gen.Process, supervisor any) ([]SupervisorChild, error) {
	result, err := process.Call(supervisor, supRequestChildren{})
	if err != nil {
		return nil, err
	}
	children, _ := result.([]SupervisorChild)
	return children, nil
}
