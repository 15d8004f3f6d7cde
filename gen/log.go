package gen

type LogLevel int

const (
	LogLevelTrace    LogLevel = -2
	LogLevelDebug    LogLevel = -1
	LogLevelDefault  LogLevel = 0 // inherits the level of the node
	LogLevelInfo     LogLevel = 1
	LogLevelWarning  LogLevel = 2
	LogLevelError    LogLevel = 3
	LogLevelPanic    LogLevel = 4
	LogLevelDisabled LogLevel = 5
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelTrace:
		return "trace"
	case LogLevelDebug:
		return "debug"
	case LogLevelDefault:
		return "default"
	case LogLevelInfo:
		return "info"
	case LogLevelWarning:
		return "warning"
	case LogLevelError:
		return "error"
	case LogLevelPanic:
		return "panic"
	case LogLevelDisabled:
		return "disabled"
	}
	return "unknown"
}

// ParseLogLevel converts the textual form (as it is used in the config file) into LogLevel
func ParseLogLevel(s string) (LogLevel, error) {
	for l := LogLevelTrace; l <= LogLevelDisabled; l++ {
		if l.String() == s {
			return l, nil
		}
	}
	return LogLevelDefault, ErrIncorrect
}

type Log interface {
	Level() LogLevel
	SetLevel(level LogLevel) error

	Logger() string
	SetLogger(name string)

	Fields() []LogField
	AddFields(fields ...LogField)

	// EnableStackTrace adds the stack trace to the messages of the given levels
	// (LogLevelPanic if none given)
	EnableStackTrace(depth int, levels ...LogLevel)
	DisableStackTrace()

	Trace(format string, args ...any)
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)
	Panic(format string, args ...any)
}

type LogField struct {
	Name  string
	Value any
}

type LoggerBehavior interface {
	Log(message MessageLog)
	Terminate()
}

// Logger is a named logger added to the node
type Logger struct {
	Name   string
	Logger LoggerBehavior
	Filter []LogLevel
}

type LogOptions struct {
	// Level default logging level for the node and its processes
	Level LogLevel
	// DefaultLogger options
	DefaultLogger DefaultLoggerOptions
	// Loggers additional loggers
	Loggers []Logger
}
