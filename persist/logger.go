// Package persist builds the process logger. A Logger is created once from
// the settings and handed to every component that logs; there is no global
// logger.
package persist

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gitlab.com/NebulousLabs/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gitlab.com/scpcorp/gatewayd/build"
	"gitlab.com/scpcorp/gatewayd/settings"
)

// timestampLayout is the local time layout of the stdio transport.
const timestampLayout = "Jan 02 15:04:05.000"

// errUnknownMethod is returned for a log method with no transport.
var errUnknownMethod = errors.New("unknown log method")

// Logger is a leveled logger with an asynchronous transport. It is safe for
// concurrent use. Close flushes the transport; it must be called on the
// Logger returned by NewLogger once nothing logs anymore.
type Logger struct {
	*zap.SugaredLogger
	q *asyncQueue
}

// NewLogger builds the logger described by ls. Only the syslog transport can
// fail to build.
func NewLogger(ls settings.LogSettings) (*Logger, error) {
	lvl, err := ParseLevel(ls.Level)
	if err != nil {
		return nil, err
	}
	switch ls.Method {
	case settings.LogMethodSyslog:
		core, err := newSyslogCore(build.BinaryName, lvl)
		if err != nil {
			return nil, err
		}
		return newLogger(core), nil
	case settings.LogMethodStdio:
		return newLogger(newTerminalCore(zapcore.Lock(os.Stdout), lvl, ls.Timestamp)), nil
	default:
		return nil, errors.AddContext(errUnknownMethod, string(ls.Method))
	}
}

// NewWriterLogger builds a logger that writes stdio-formatted lines to w,
// whatever method ls names.
func NewWriterLogger(w io.Writer, ls settings.LogSettings) (*Logger, error) {
	lvl, err := ParseLevel(ls.Level)
	if err != nil {
		return nil, err
	}
	return newLogger(newTerminalCore(zapcore.AddSync(w), lvl, ls.Timestamp)), nil
}

// newLogger wraps core in the async stage.
func newLogger(core zapcore.Core) *Logger {
	ac := newAsyncCore(core)
	return &Logger{
		SugaredLogger: zap.New(ac).Sugar(),
		q:             ac.q,
	}
}

// newTerminalCore returns a core writing one line per record to ws.
func newTerminalCore(ws zapcore.WriteSyncer, lvl zapcore.LevelEnabler, timestamp bool) zapcore.Core {
	return zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig(timestamp)), ws, lvl)
}

// encoderConfig returns the line format shared by the transports. Without a
// timestamp the time key is left empty, so no time field is written at all.
func encoderConfig(timestamp bool) zapcore.EncoderConfig {
	cfg := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		NameKey:          "logger",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       localTimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}
	if timestamp {
		cfg.TimeKey = "ts"
	}
	return cfg
}

func localTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Local().Format(timestampLayout))
}

// ParseLevel maps a settings level to the zap level records are filtered at.
func ParseLevel(l settings.LogLevel) (zapcore.Level, error) {
	switch settings.LogLevel(strings.ToLower(string(l))) {
	case settings.LogLevelTrace, settings.LogLevelDebug:
		return zapcore.DebugLevel, nil
	case settings.LogLevelInfo:
		return zapcore.InfoLevel, nil
	case settings.LogLevelWarn, settings.LogLevelWarning:
		return zapcore.WarnLevel, nil
	case settings.LogLevelError:
		return zapcore.ErrorLevel, nil
	case settings.LogLevelCritical:
		return zapcore.DPanicLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", l)
}

// With returns a child logger that adds the given key-value pairs to every
// record. It shares the parent's transport.
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...), q: l.q}
}

// Println logs at info level, formatting like fmt.Println.
func (l *Logger) Println(v ...interface{}) {
	l.Info(sprintln(v...))
}

// Printf logs at info level.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.Infof(format, v...)
}

// Debugln logs at debug level, formatting like fmt.Println.
func (l *Logger) Debugln(v ...interface{}) {
	l.Debug(sprintln(v...))
}

// Errorln logs at error level, formatting like fmt.Println.
func (l *Logger) Errorln(v ...interface{}) {
	l.Error(sprintln(v...))
}

// Close writes every queued record and stops the transport. Records logged
// after Close are dropped.
func (l *Logger) Close() error {
	l.q.close()
	return nil
}

func sprintln(v ...interface{}) string {
	return strings.TrimSuffix(fmt.Sprintln(v...), "\n")
}
