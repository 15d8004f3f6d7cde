package gen

import "time"

// MessageDownPID
type MessageDownPID struct {
	Ref    Ref
	PID    PID
	Reason error
}

// MessageExitPID
type MessageExitPID struct {
	PID    PID
	Reason error
}

// MessageLog
type MessageLog struct {
	Time       time.Time
	Level      LogLevel
	Source     any // MessageLogProcess, MessageLogNode
	Format     string
	Args       []any
	Fields     []LogField
	StackTrace []string
}

// MessageLogProcess
type MessageLogProcess struct {
	Node     Atom
	PID      PID
	Name     Atom
	Behavior string
}

// MessageLogNode
type MessageLogNode struct {
	Node     Atom
	Creation int64
}
