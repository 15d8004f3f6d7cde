package gen

import (
	"errors"
)

var (
	ErrNameUnknown    = errors.New("unknown name")
	ErrNodeTerminated = errors.New("node terminated")

	ErrProcessUnknown    = errors.New("unknown process")
	ErrProcessTerminated = errors.New("process terminated")

	ErrTaken = errors.New("resource is taken")

	ErrTimeout     = errors.New("timed out")
	ErrUnsupported = errors.New("not supported")
	ErrNotAllowed  = errors.New("not allowed")

	ErrIncorrect = errors.New("incorrect value or argument")
)
