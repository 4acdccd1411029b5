package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Logger = NoOpLogger{}
	_ Logger = (*SlogAdapter)(nil)
	_ Logger = (*AutopsyLogger)(nil)
)

func newBufferLogger(level LogLevel) (*AutopsyLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := DefaultLoggerConfig()
	cfg.Output = &buf
	cfg.Level = level
	return NewLogger(cfg), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "INFO", LogLevelInfo.String())
	assert.Equal(t, "WARN", LogLevelWarn.String())
	assert.Equal(t, "ERROR", LogLevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestAutopsyLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LogLevelWarn)
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown", "k", "v")
	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["msg"])
	assert.Equal(t, "v", lines[0]["k"])
}

func TestAutopsyLogger_ContextIsolation(t *testing.T) {
	base, buf := newBufferLogger(LogLevelDebug)
	child := base.WithComponent("intercept").WithSession("s-1").WithContext("extra", 1)

	base.Info("base")
	child.Info("child")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.NotContains(t, lines[0], "component")
	assert.NotContains(t, lines[0], "extra")
	assert.Equal(t, "intercept", lines[1]["component"])
	assert.Equal(t, "s-1", lines[1]["session_id"])
	assert.EqualValues(t, 1, lines[1]["extra"])
}

func TestAutopsyLogger_DomainHelpers(t *testing.T) {
	l, buf := newBufferLogger(LogLevelDebug)
	l.LogInvocation("double", time.Millisecond, 0, nil)
	l.LogInvocation("double", time.Millisecond, 0, errors.New("boom"))
	l.LogMisfire("double", 5)
	l.LogReport("/tmp/autopsy.txt", 0, time.Millisecond, nil)
	l.LogReport("/tmp/autopsy.txt", 1, time.Millisecond, errors.New("disk full"))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 5)
	assert.Equal(t, "intercept.call.complete", lines[0]["msg"])
	assert.Equal(t, "intercept.call.failed", lines[1]["msg"])
	assert.Equal(t, "boom", lines[1]["error"])
	assert.Equal(t, "intercept.misfire", lines[2]["msg"])
	assert.Equal(t, "session.report.complete", lines[3]["msg"])
	assert.Equal(t, "session.report.failed", lines[4]["msg"])
	assert.Equal(t, "ERROR", lines[4]["level"])
}

func TestAutopsyLogger_ErrorWithStack(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	l.ErrorWithStack(errors.New("fatal"), "session.fatal", "code", 1)
	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "fatal", lines[0]["error"])
	assert.Contains(t, lines[0]["stack_trace"], "goroutine")
	assert.EqualValues(t, 1, lines[0]["code"])
}

func TestNewSlogLogger_TextFormat(t *testing.T) {
	l := NewSlogLogger(LogLevelInfo, "text", false)
	var buf bytes.Buffer
	l.logger = NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "text", Output: &buf}).logger
	l.Info("hello", "a", 1)
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "a=1")
}
