package act

import (
	"errors"
)

var (
	ErrSupervisorChildUnknown     = errors.New("unknown child")
	ErrSupervisorChildRunning     = errors.New("child process is already running")
	ErrSupervisorRestartsExceeded = errors.New("restart intensity is exceeded")
	ErrSupervisorChildDuplicate   = errors.New("duplicate child spec Name")
)
