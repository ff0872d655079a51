//go:build !windows && !plan9

package persist

import (
	"log/syslog"
	"strings"

	"gitlab.com/NebulousLabs/errors"
	"go.uber.org/zap/zapcore"
)

// syslogCore writes records to the local syslog daemon, mapping each zap
// level to a syslog priority. The message carries no timestamp or level,
// syslog records both itself.
type syslogCore struct {
	zapcore.LevelEnabler
	enc zapcore.Encoder
	w   *syslog.Writer
}

// newSyslogCore connects to the local syslog daemon under the user facility.
func newSyslogCore(tag string, enab zapcore.LevelEnabler) (zapcore.Core, error) {
	w, err := syslog.New(syslog.LOG_USER|syslog.LOG_INFO, tag)
	if err != nil {
		return nil, errors.AddContext(err, "unable to connect to syslog")
	}
	cfg := encoderConfig(false)
	cfg.LevelKey = ""
	return &syslogCore{
		LevelEnabler: enab,
		enc:          zapcore.NewConsoleEncoder(cfg),
		w:            w,
	}, nil
}

// With implements zapcore.Core.
func (c *syslogCore) With(fields []zapcore.Field) zapcore.Core {
	enc := c.enc.Clone()
	for i := range fields {
		fields[i].AddTo(enc)
	}
	return &syslogCore{LevelEnabler: c.LevelEnabler, enc: enc, w: c.w}
}

// Check implements zapcore.Core.
func (c *syslogCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write implements zapcore.Core.
func (c *syslogCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	msg := strings.TrimSuffix(buf.String(), "\n")
	buf.Free()

	switch ent.Level {
	case zapcore.DebugLevel:
		return c.w.Debug(msg)
	case zapcore.InfoLevel:
		return c.w.Info(msg)
	case zapcore.WarnLevel:
		return c.w.Warning(msg)
	case zapcore.ErrorLevel:
		return c.w.Err(msg)
	case zapcore.DPanicLevel, zapcore.PanicLevel:
		return c.w.Crit(msg)
	default:
		return c.w.Emerg(msg)
	}
}

// Sync implements zapcore.Core. Syslog writes are unbuffered.
func (c *syslogCore) Sync() error {
	return nil
}
