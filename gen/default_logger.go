package gen

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-colorable"
)

// DefaultLoggerOptions
type DefaultLoggerOptions struct {
	// Disable makes node to disable default logger
	Disable bool
	// TimeFormat enables output time in the defined format. See https://pkg.go.dev/time#pkg-constants
	// Not defined format makes output time as a timestamp in nanoseconds.
	TimeFormat string
	// IncludeBehavior includes process behavior to the log message
	IncludeBehavior bool
	// IncludeName includes registered process name to the log message
	IncludeName bool
	// IncludeFields includes log fields to the log message
	IncludeFields bool
	// Color enables ANSI colors for the log level
	Color bool
	// Filter enables filtering log messages.
	Filter []LogLevel
	// Output defines output for the log messages. By default it uses colorable stdout
	Output io.Writer
}

//
// default logger. It uses stdout as an output by default, but can be used
// any io.Writer.
//

func CreateDefaultLogger(options DefaultLoggerOptions) LoggerBehavior {
	var l defaultLogger

	l.out = options.Output
	if l.out == nil {
		l.out = colorable.NewColorableStdout()
	}

	l.format = options.TimeFormat
	l.includeBehavior = options.IncludeBehavior
	l.includeName = options.IncludeName
	l.includeFields = options.IncludeFields
	l.color = options.Color

	return &l
}

type defaultLogger struct {
	out             io.Writer
	format          string
	includeBehavior bool
	includeName     bool
	includeFields   bool
	color           bool
}

var levelColor = map[LogLevel]string{
	LogLevelTrace:   "\x1b[90m",
	LogLevelDebug:   "\x1b[35m",
	LogLevelInfo:    "\x1b[32m",
	LogLevelWarning: "\x1b[33m",
	LogLevelError:   "\x1b[31m",
	LogLevelPanic:   "\x1b[1;31m",
}

func (l *defaultLogger) Log(m MessageLog) {
	var t string
	var source string
	var behavior string
	var name string
	var fields string

	if l.format == "" {
		t = fmt.Sprintf("%d", m.Time.UnixNano())
	} else {
		t = m.Time.Format(l.format)
	}

	switch src := m.Source.(type) {
	case MessageLogNode:
		source = src.Node.CRC32()
	case MessageLogProcess:
		if l.includeBehavior && src.Behavior != "" {
			behavior = " " + src.Behavior
		}
		if l.includeName && src.Name != "" {
			name = " " + src.Name.String()
		}
		source = src.PID.String()
	default:
		panic(fmt.Sprintf("unknown log source type: %#v", m.Source))
	}

	if l.includeFields && len(m.Fields) > 0 {
		f := make([]string, 0, len(m.Fields))
		for _, field := range m.Fields {
			f = append(f, fmt.Sprintf("%s=%v", field.Name, field.Value))
		}
		fields = " {" + strings.Join(f, " ") + "}"
	}

	level := m.Level.String()
	if l.color {
		if c, ok := levelColor[m.Level]; ok {
			level = c + level + "\x1b[0m"
		}
	}

	message := fmt.Sprintf(m.Format, m.Args...)
	_, err := fmt.Fprintf(l.out, "%s [%s] %s%s%s: %s%s\n",
		t, level, source, name, behavior, message, fields)
	if err != nil {
		fmt.Printf("(fallback) %s [%s] %s%s%s: %s%s\n",
			t, level, source, name, behavior, message, fields)
	}
	for _, line := range m.StackTrace {
		fmt.Fprintf(l.out, "\t%s\n", line)
	}
}

func (l *defaultLogger) Terminate() {}
