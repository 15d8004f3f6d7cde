package gen

import (
	"time"
)

type Node interface {
	// Name returns node name
	Name() Atom
	// ID returns unique identifier of this node instance
	ID() string
	// Creation returns the start time of the node (unix seconds). It is a part of every PID
	Creation() int64
	// PID returns the node core PID. It is used as a sender of the messages
	// sent by the node itself.
	PID() PID
	// IsAlive returns false if the node has been stopped
	IsAlive() bool
	// Uptime returns uptime in seconds
	Uptime() int64

	// Spawn creates a new process. The process is pushed onto the global run queue.
	Spawn(factory ProcessFactory, options ProcessOptions, args ...any) (PID, error)
	// SpawnFunc creates a new process running the given function
	SpawnFunc(fn ProcessFunc, options ProcessOptions, args ...any) (PID, error)
	// SpawnRegister creates a new process with the registered name
	SpawnRegister(name Atom, factory ProcessFactory, options ProcessOptions, args ...any) (PID, error)

	// Send sends a message on behalf of the node core PID
	Send(to any, message any) error
	// Exit sends the exit signal to the process on behalf of the node core PID.
	// TerminateReasonKill works as Kill
	Exit(target PID, reason error) error
	// Kill terminates the process with TerminateReasonKill
	Kill(target PID) error

	// RegisterName binds the name with the process
	RegisterName(name Atom, pid PID) error
	// UnregisterName removes the binding
	UnregisterName(name Atom) (PID, error)
	// Whereis returns PID of the process registered with the given name
	Whereis(name Atom) (PID, error)

	// ProcessState returns the state of the process
	ProcessState(pid PID) (ProcessState, error)
	// ProcessInfo returns information about the process
	ProcessInfo(pid PID) (ProcessInfo, error)
	// ProcessList returns the list of running processes
	ProcessList() []PID
	// IsProcessAlive returns true if the process exists and hasn't terminated
	IsProcessAlive(pid PID) bool

	// MakeRef creates a unique reference
	MakeRef() Ref

	// Env returns the value of the node environment variable
	Env(name Env) (any, bool)
	// SetEnv sets the node environment variable. Nil value removes it
	SetEnv(name Env, value any)

	// Log returns gen.Log interface
	Log() Log
	// LoggerAdd adds a logger to the node
	LoggerAdd(name string, logger LoggerBehavior, filter ...LogLevel) error
	// LoggerDelete removes the logger
	LoggerDelete(name string)

	// Stats returns node statistics
	Stats() NodeStats

	// Wait waits for the node termination
	Wait()
	// WaitWithTimeout waits for the node termination with the given timeout
	WaitWithTimeout(timeout time.Duration) error
	// Stop terminates all processes with TerminateReasonShutdown and stops the scheduler.
	// Uses NodeOptions.ShutdownTimeout as a deadline.
	Stop() error
	// StopWithTimeout does the same as Stop with the given deadline
	StopWithTimeout(timeout time.Duration) error
}

// NodeOptions
type NodeOptions struct {
	// Env node environment
	Env map[Env]any
	// Log options for the node and its processes
	Log LogOptions
	// Scheduler options
	Scheduler SchedulerOptions
	// ShutdownTimeout is a deadline for the Stop. Default is DefaultShutdownTimeout
	ShutdownTimeout time.Duration
}

// SchedulerOptions
type SchedulerOptions struct {
	// Workers number of the scheduler workers. Zero means the number of available CPUs
	Workers int
	// Reductions budget of the process per scheduling quantum. Default is DefaultReductions
	Reductions int
}

// SchedulerStats
type SchedulerStats struct {
	Workers    int
	Runnable   int64
	Resumes    uint64
	Steals     uint64
	Preempted  uint64
	Parked     int
	WorkerRuns []uint64
}

// NodeStats
type NodeStats struct {
	Name       Atom
	ID         string
	Uptime     int64
	Processes  int64
	Spawned    uint64
	Terminated uint64
	Crashed    uint64
	Messages   uint64
	Dropped    uint64
	Names      int
	Scheduler  SchedulerStats
	// UserTime and SystemTime is the CPU time (nanoseconds) consumed by the node
	UserTime   int64
	SystemTime int64
}
