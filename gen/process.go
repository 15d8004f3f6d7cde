package gen

import (
	"errors"
	"fmt"
	"time"
)

// ProcessBehavior interface defines the lifecycle callbacks of the process.
//
// Every process runs on its own stack. A scheduler worker resumes it, the process
// runs until it reaches a suspension point (Receive without a matching message,
// Yield, Sleep, exhausted reductions) and then gives the worker back.
//
// Lifecycle:
// 1. ProcessInit() - called once, right after the first resume (Init state)
// 2. ProcessRun() - called once, runs the whole life of the process (Running state)
// 3. ProcessTerminate() - called once before exit signals are delivered (Terminated state)
type ProcessBehavior interface {
	// ProcessInit initializes the process.
	// Called in the context of the new process, so blocking operations
	// (Receive, Call) are allowed here.
	// Returning error terminates the process with that error as a reason.
	ProcessInit(process Process, args ...any) error

	// ProcessRun is the body of the process.
	// Returning nil or TerminateReasonNormal terminates the process normally.
	// Any other error terminates it abnormally (crash).
	ProcessRun() error

	// ProcessTerminate is called during process termination before the exit signals
	// are delivered to the linked processes and the down notifications to the monitors.
	// Process is in Terminated state - only Send is available.
	ProcessTerminate(reason error)
}

// ProcessFactory is a function that creates a new ProcessBehavior instance.
// Must return a new instance on each call (behaviors are not reusable).
type ProcessFactory func() ProcessBehavior

// ProcessFunc is a plain function used as a process body.
type ProcessFunc func(process Process, args ...any) error

// ProcessState represents the current state of a process in its lifecycle.
type ProcessState int32

func (p ProcessState) String() string {
	switch p {
	case ProcessStateInit:
		return "init"
	case ProcessStateRunnable:
		return "runnable"
	case ProcessStateRunning:
		return "running"
	case ProcessStateWaiting:
		return "waiting"
	case ProcessStateTerminated:
		return "terminated"
	}
	return fmt.Sprintf("state#%d", int32(p))
}

const (
	// ProcessStateInit indicates process has been spawned but hasn't been
	// resumed by the scheduler yet.
	ProcessStateInit ProcessState = 1

	// ProcessStateRunnable indicates process is in a run queue.
	ProcessStateRunnable ProcessState = 2

	// ProcessStateRunning indicates process is being executed by a worker.
	ProcessStateRunning ProcessState = 4

	// ProcessStateWaiting indicates process is suspended in Receive (or Sleep)
	// waiting for a message or a timeout.
	ProcessStateWaiting ProcessState = 8

	// ProcessStateTerminated indicates process is terminating or terminated.
	ProcessStateTerminated ProcessState = 16
)

var (
	// TerminateReasonNormal indicates normal process termination.
	// Exit signal with this reason is ignored by the linked processes
	// unless they trap exits.
	TerminateReasonNormal = errors.New("normal")

	// TerminateReasonKill indicates the process was killed. Exit signal sent
	// with Kill can not be trapped.
	TerminateReasonKill = errors.New("kill")

	// TerminateReasonPanic indicates the process body panicked. The reason is
	// wrapped with the panic value.
	TerminateReasonPanic = errors.New("panic")

	// TerminateReasonShutdown is used by supervisors and by the node to stop
	// processes gracefully. Transient children are not restarted on it.
	TerminateReasonShutdown = errors.New("shutdown")

	// TerminateReasonNoProc is a reason of the down notification for a monitor
	// created on a process that doesn't exist.
	TerminateReasonNoProc = errors.New("noproc")
)

// IsNormalExit returns true for nil and TerminateReasonNormal
func IsNormalExit(reason error) bool {
	if reason == nil {
		return true
	}
	return errors.Is(reason, TerminateReasonNormal)
}

// IsShutdownExit returns true for the normal exit and TerminateReasonShutdown
func IsShutdownExit(reason error) bool {
	if IsNormalExit(reason) {
		return true
	}
	return errors.Is(reason, TerminateReasonShutdown)
}

// ProcessPriority defines the run queue a runnable process goes to.
type ProcessPriority int

const (
	ProcessPriorityNormal ProcessPriority = 0
	ProcessPriorityHigh   ProcessPriority = 1
	ProcessPriorityLow    ProcessPriority = 2
)

func (p ProcessPriority) String() string {
	switch p {
	case ProcessPriorityNormal:
		return "normal"
	case ProcessPriorityHigh:
		return "high"
	case ProcessPriorityLow:
		return "low"
	}
	return fmt.Sprintf("priority#%d", int(p))
}

// ProcessOptions
type ProcessOptions struct {
	// Priority of the process in the scheduler
	Priority ProcessPriority
	// TrapExit makes the process receive exit signals as MessageExitPID messages
	// instead of terminating.
	TrapExit bool
	// LinkParent links the spawned process with its parent. Works the same
	// way as SpawnLink
	LinkParent bool
	// LogLevel of the process. LogLevelDefault inherits the level of the node
	LogLevel LogLevel
	// OnTerminate is invoked on the process termination (after ProcessTerminate)
	// and before exit signals are delivered
	OnTerminate func(pid PID, reason error)
}

// Process is the interface of the running process. Methods that may suspend
// the process (Receive, Call, Sleep, Yield) must be called only by the process
// itself.
type Process interface {
	// Node returns Node interface
	Node() Node
	// PID returns identifier of the process
	PID() PID
	// Parent returns PID of the process that spawned this one. For the processes
	// spawned by the node it returns the node core PID
	Parent() PID
	// Name returns registered name of the process
	Name() Atom
	// Register registers name for this process
	Register(name Atom) error
	// Unregister unregisters the name of this process
	Unregister() error
	// State returns current state of the process
	State() ProcessState
	// Behavior returns the behavior object of this process
	Behavior() ProcessBehavior
	// Log returns gen.Log interface
	Log() Log

	// Spawn creates a new process. The new process is pushed onto the run queue
	// of the worker executing this process.
	Spawn(factory ProcessFactory, options ProcessOptions, args ...any) (PID, error)
	// SpawnFunc creates a new process running the given function
	SpawnFunc(fn ProcessFunc, options ProcessOptions, args ...any) (PID, error)
	// SpawnLink creates a new process and links it to this process atomically
	SpawnLink(factory ProcessFactory, options ProcessOptions, args ...any) (PID, error)
	// SpawnFuncLink creates a new process running the given function linked to this process
	SpawnFuncLink(fn ProcessFunc, options ProcessOptions, args ...any) (PID, error)
	// SpawnRegister creates a new process with the registered name
	SpawnRegister(name Atom, factory ProcessFactory, options ProcessOptions, args ...any) (PID, error)

	// Send sends a message to the process. "to" can be PID or Atom (registered name).
	// Messages sent to a dead PID are silently dropped.
	Send(to any, message any) error
	// SendAfter sends a message after the given duration. Returned function cancels it.
	SendAfter(to any, message any, after time.Duration) (CancelFunc, error)

	// Receive blocks until a message matching one of the patterns arrives.
	// With no patterns any message matches.
	Receive(patterns ...Pattern) (Received, error)
	// ReceiveTimeout works as Receive but gives up after the timeout returning ErrTimeout.
	// Zero timeout checks the mailbox once and doesn't suspend.
	ReceiveTimeout(timeout time.Duration, patterns ...Pattern) (Received, error)
	// MailboxLen returns the number of queued messages
	MailboxLen() int

	// Yield gives the worker to other processes. The process stays runnable.
	Yield()
	// Reduce consumes the given number of reductions. Once the budget is
	// exhausted the process yields.
	Reduce(n int)
	// Sleep suspends the process for the given duration. Messages stay queued.
	Sleep(d time.Duration)

	// Link creates a bidirectional link with the process
	Link(target PID) error
	// Unlink removes the link
	Unlink(target PID) error
	// Monitor creates a monitor on the process. If the process doesn't exist
	// the down notification with TerminateReasonNoProc is delivered immediately.
	Monitor(target any) (Ref, error)
	// Demonitor removes the monitor. Returns false if the monitor is unknown
	// (or the notification has been delivered already)
	Demonitor(ref Ref) bool
	// SetTrapExit enables/disables trapping exit signals
	SetTrapExit(trap bool)
	// TrapExit returns whether the process traps exit signals
	TrapExit() bool
	// Exit sends the exit signal to the process. TerminateReasonKill works as Kill
	Exit(target PID, reason error) error
	// Kill terminates the process with TerminateReasonKill. Can not be trapped
	Kill(target PID) error

	// Call makes a synchronous request with DefaultRequestTimeout
	Call(to any, request any) (any, error)
	// CallWithTimeout makes a synchronous request with the given timeout
	CallWithTimeout(to any, request any, timeout time.Duration) (any, error)
	// Cast sends an asynchronous request
	Cast(to any, message any) error
	// SendResponse sends the response to the request made with Call
	SendResponse(to PID, ref Ref, response any) error
	// SendResponseError sends the error as a response to the request made with Call
	SendResponseError(to PID, ref Ref, err error) error
}

// ProcessInfo
type ProcessInfo struct {
	PID         PID
	Name        Atom
	Parent      PID
	Behavior    string
	State       ProcessState
	Priority    ProcessPriority
	TrapExit    bool
	MailboxLen  int
	Links       []PID
	Monitors    []PID
	MonitoredBy []PID
	Uptime      int64
}
