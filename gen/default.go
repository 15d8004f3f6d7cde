package gen

import (
	"time"
)

var (
	// DefaultRequestTimeout used by Process.Call
	DefaultRequestTimeout = 5 * time.Second

	// DefaultReductions is the budget of a process per scheduling quantum
	DefaultReductions = 4000

	// DefaultShutdownTimeout is a deadline for the node stopping
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultSupervisorShutdown is a time given to the child process to terminate
	// on the TerminateReasonShutdown exit signal before it gets killed
	DefaultSupervisorShutdown = 5 * time.Second

	DefaultLogFilter = []LogLevel{
		LogLevelTrace,
		LogLevelDebug,
		LogLevelInfo,
		LogLevelWarning,
		LogLevelError,
		LogLevelPanic,
	}
)
