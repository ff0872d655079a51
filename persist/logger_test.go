package persist

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"gitlab.com/scpcorp/gatewayd/settings"
)

// newTestLogger returns a logger writing to a buffer. The buffer may only be
// read after the logger is closed or synced.
func newTestLogger(t *testing.T, level settings.LogLevel, timestamp bool) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	log, err := NewWriterLogger(&buf, settings.LogSettings{
		Method:    settings.LogMethodStdio,
		Level:     level,
		Timestamp: timestamp,
	})
	require.NoError(t, err)
	return log, &buf
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func TestLoggerWithoutTimestamp(t *testing.T) {
	log, buf := newTestLogger(t, settings.LogLevelDebug, false)
	log.Println("starting", 3)
	log.Printf("port %d", 7)
	log.Debugln("dropping packet from", "127.0.0.1:1700", "short packet")
	log.Errorf("boom %v", "now")
	require.NoError(t, log.Close())

	assert.Equal(t, []string{
		"INFO starting 3",
		"INFO port 7",
		"DEBUG dropping packet from 127.0.0.1:1700 short packet",
		"ERROR boom now",
	}, lines(buf))
}

func TestLoggerWithTimestamp(t *testing.T) {
	log, buf := newTestLogger(t, settings.LogLevelInfo, true)
	log.Println("one")
	log.Println("two")
	require.NoError(t, log.Close())

	stamped := regexp.MustCompile(`^[A-Z][a-z]{2} \d{2} \d{2}:\d{2}:\d{2}\.\d{3} INFO `)
	out := lines(buf)
	require.Len(t, out, 2)
	for _, line := range out {
		assert.Regexp(t, stamped, line)
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	log, buf := newTestLogger(t, settings.LogLevelWarn, false)
	log.Debugln("hidden")
	log.Println("hidden too")
	log.Warn("shown")
	log.Errorln("also", "shown")
	require.NoError(t, log.Close())

	assert.Equal(t, []string{"WARN shown", "ERROR also shown"}, lines(buf))
}

func TestLoggerPreservesOrder(t *testing.T) {
	log, buf := newTestLogger(t, settings.LogLevelTrace, false)
	for i := 0; i < 500; i++ {
		log.Debugf("record %d", i)
	}
	require.NoError(t, log.Close())

	out := lines(buf)
	require.Len(t, out, 500)
	for i, line := range out {
		assert.Equal(t, fmt.Sprintf("DEBUG record %d", i), line)
	}
}

func TestLoggerWithFields(t *testing.T) {
	log, buf := newTestLogger(t, settings.LogLevelInfo, false)
	child := log.With("module", "gateway")
	child.Infow("uplink", "size", 12)
	require.NoError(t, log.Close())

	out := lines(buf)
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0], "INFO uplink "))
	assert.Contains(t, out[0], `"module": "gateway"`)
	assert.Contains(t, out[0], `"size": 12`)
}

func TestLoggerSyncIsBarrier(t *testing.T) {
	log, buf := newTestLogger(t, settings.LogLevelInfo, false)
	defer log.Close()
	log.Println("before sync")
	require.NoError(t, log.Sync())
	assert.Equal(t, "INFO before sync\n", buf.String())
}

func TestLoggerAfterClose(t *testing.T) {
	log, buf := newTestLogger(t, settings.LogLevelInfo, false)
	log.Println("kept")
	require.NoError(t, log.Close())
	log.Println("dropped")
	require.NoError(t, log.Close())
	assert.Equal(t, "INFO kept\n", buf.String())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in  settings.LogLevel
		out zapcore.Level
	}{
		{settings.LogLevelTrace, zapcore.DebugLevel},
		{settings.LogLevelDebug, zapcore.DebugLevel},
		{settings.LogLevelInfo, zapcore.InfoLevel},
		{settings.LogLevelWarn, zapcore.WarnLevel},
		{settings.LogLevelWarning, zapcore.WarnLevel},
		{settings.LogLevelError, zapcore.ErrorLevel},
		{settings.LogLevelCritical, zapcore.DPanicLevel},
		{"ERROR", zapcore.ErrorLevel},
	}
	for _, test := range tests {
		lvl, err := ParseLevel(test.in)
		assert.NoError(t, err, test.in)
		assert.Equal(t, test.out, lvl, test.in)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNewLoggerUnknownMethod(t *testing.T) {
	_, err := NewLogger(settings.LogSettings{Method: "file", Level: settings.LogLevelInfo})
	assert.Error(t, err)
}
