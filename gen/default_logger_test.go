package gen

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerProcess(t *testing.T) {
	var buf bytes.Buffer

	logger := CreateDefaultLogger(DefaultLoggerOptions{
		IncludeBehavior: true,
		IncludeName:     true,
		IncludeFields:   true,
		Output:          &buf,
		TimeFormat:      "2006-01-02T15:04:05",
	})

	pid := PID{Node: "test@localhost", ID: 1001, Creation: 1700000000}
	logger.Log(MessageLog{
		Time:   time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC),
		Level:  LogLevelInfo,
		Format: "hello %s",
		Args:   []any{"world"},
		Source: MessageLogProcess{
			Node:     "test@localhost",
			PID:      pid,
			Name:     "counter",
			Behavior: "main.counter",
		},
		Fields: []LogField{
			{Name: "key1", Value: "value1"},
			{Name: "key2", Value: 42},
		},
	})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "2023-01-01T12:00:00 [info] "+pid.String()), out)
	assert.Contains(t, out, " 'counter' main.counter: hello world")
	assert.Contains(t, out, "{key1=value1 key2=42}")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestDefaultLoggerNode(t *testing.T) {
	var buf bytes.Buffer

	logger := CreateDefaultLogger(DefaultLoggerOptions{Output: &buf})

	ts := time.Unix(10, 5)
	logger.Log(MessageLog{
		Time:       ts,
		Level:      LogLevelPanic,
		Format:     "node message",
		Source:     MessageLogNode{Node: "test@localhost", Creation: 1},
		Fields:     []LogField{{Name: "skipped", Value: true}},
		StackTrace: []string{"main.go:10"},
	})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "10000000005 [panic] "+Atom("test@localhost").CRC32()), out)
	assert.NotContains(t, out, "skipped")
	assert.Contains(t, out, "\tmain.go:10\n")
}

func TestDefaultLoggerColor(t *testing.T) {
	var buf bytes.Buffer

	logger := CreateDefaultLogger(DefaultLoggerOptions{Output: &buf, Color: true})
	logger.Log(MessageLog{
		Time:   time.Now(),
		Level:  LogLevelError,
		Format: "failed",
		Source: MessageLogNode{Node: "test@localhost"},
	})
	assert.Contains(t, buf.String(), "[\x1b[31merror\x1b[0m]")
}

func TestParseLogLevel(t *testing.T) {
	for l := LogLevelTrace; l <= LogLevelDisabled; l++ {
		parsed, err := ParseLogLevel(l.String())
		assert.NoError(t, err)
		assert.Equal(t, l, parsed)
	}
	_, err := ParseLogLevel("verbose")
	assert.ErrorIs(t, err, ErrIncorrect)
}
