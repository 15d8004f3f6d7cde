package node

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/snowdamiz/meshrt/gen"
)

// funcBehavior runs gen.ProcessFunc as a process body
type funcBehavior struct {
	fn      gen.ProcessFunc
	name    string
	process gen.Process
	args    []any
}

func funcFactory(fn gen.ProcessFunc) gen.ProcessFactory {
	if fn == nil {
		return nil
	}
	name := "func"
	if f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()); f != nil {
		name = f.Name()
		if i := strings.LastIndex(name, "/"); i > -1 {
			name = name[i+1:]
		}
	}
	return func() gen.ProcessBehavior {
		return &funcBehavior{fn: fn, name: name}
	}
}

func (f *funcBehavior) ProcessInit(process gen.Process, args ...any) error {
	f.process = process
	f.args = args
	return nil
}

func (f *funcBehavior) ProcessRun() error {
	return f.fn(f.process, f.args...)
}

func (f *funcBehavior) ProcessTerminate(reason error) {}
