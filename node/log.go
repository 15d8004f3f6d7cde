package node

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/snowdamiz/meshrt/gen"
	"go.uber.org/atomic"
)

const defaultStackTraceDepth = 10

// logOutput passes the message to the node loggers. Empty logger name means
// all of them.
type logOutput func(message gen.MessageLog, logger string)

// log implements gen.Log for the node and for every process. The source is
// fixed at creation and tells the loggers who wrote the message.
type log struct {
	level  atomic.Int32
	source any
	out    logOutput

	sync.RWMutex
	logger string
	fields []gen.LogField
	trace  *logTrace
}

type logTrace struct {
	depth  int
	levels map[gen.LogLevel]bool
}

func newNodeLog(source gen.MessageLogNode, level gen.LogLevel, out logOutput) *log {
	return newLog(source, level, out)
}

func newProcessLog(source gen.MessageLogProcess, level gen.LogLevel, out logOutput) *log {
	return newLog(source, level, out)
}

func newLog(source any, level gen.LogLevel, out logOutput) *log {
	l := &log{
		source: source,
		out:    out,
	}
	l.level.Store(int32(level))
	return l
}

func (l *log) Level() gen.LogLevel {
	return gen.LogLevel(l.level.Load())
}

func (l *log) SetLevel(level gen.LogLevel) error {
	if level < gen.LogLevelTrace || level > gen.LogLevelDisabled {
		return gen.ErrIncorrect
	}
	l.level.Store(int32(level))
	return nil
}

func (l *log) Logger() string {
	l.RLock()
	defer l.RUnlock()
	return l.logger
}

func (l *log) SetLogger(name string) {
	l.Lock()
	l.logger = name
	l.Unlock()
}

func (l *log) EnableStackTrace(depth int, levels ...gen.LogLevel) {
	if depth < 1 {
		depth = defaultStackTraceDepth
	}
	if len(levels) == 0 {
		levels = []gen.LogLevel{gen.LogLevelPanic}
	}
	trace := &logTrace{
		depth:  depth,
		levels: make(map[gen.LogLevel]bool, len(levels)),
	}
	for _, level := range levels {
		trace.levels[level] = true
	}

	l.Lock()
	l.trace = trace
	l.Unlock()
}

func (l *log) DisableStackTrace() {
	l.Lock()
	l.trace = nil
	l.Unlock()
}

func (l *log) Fields() []gen.LogField {
	l.RLock()
	defer l.RUnlock()
	return append([]gen.LogField(nil), l.fields...)
}

func (l *log) AddFields(fields ...gen.LogField) {
	l.Lock()
	// the queued messages keep referring to the previous slice
	l.fields = append(l.fields[:len(l.fields):len(l.fields)], fields...)
	l.Unlock()
}

func (l *log) Trace(format string, args ...any) {
	l.emit(gen.LogLevelTrace, format, args)
}

func (l *log) Debug(format string, args ...any) {
	l.emit(gen.LogLevelDebug, format, args)
}

func (l *log) Info(format string, args ...any) {
	l.emit(gen.LogLevelInfo, format, args)
}

func (l *log) Warning(format string, args ...any) {
	l.emit(gen.LogLevelWarning, format, args)
}

func (l *log) Error(format string, args ...any) {
	l.emit(gen.LogLevelError, format, args)
}

func (l *log) Panic(format string, args ...any) {
	l.emit(gen.LogLevelPanic, format, args)
}

func (l *log) emit(level gen.LogLevel, format string, args []any) {
	if level < l.Level() {
		return
	}

	l.RLock()
	logger, fields, trace := l.logger, l.fields, l.trace
	l.RUnlock()

	m := gen.MessageLog{
		Time:   time.Now(),
		Level:  level,
		Source: l.source,
		Format: format,
		Args:   args,
		Fields: fields,
	}
	if trace != nil && trace.levels[level] {
		// skip runtime.Callers, emit and the level method
		m.StackTrace = stackTrace(3, trace.depth)
	}
	l.out(m, logger)
}

func stackTrace(skip int, depth int) []string {
	pc := make([]uintptr, depth)
	n := runtime.Callers(skip, pc)
	if n == 0 {
		return nil
	}

	lines := make([]string, 0, n)
	frames := runtime.CallersFrames(pc[:n])
	for {
		frame, more := frames.Next()
		lines = append(lines, fmt.Sprintf("%s %s:%d", frame.Function, frame.File, frame.Line))
		if more == false {
			return lines
		}
	}
}
