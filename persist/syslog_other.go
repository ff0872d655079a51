//go:build windows || plan9

package persist

import (
	"gitlab.com/NebulousLabs/errors"
	"go.uber.org/zap/zapcore"
)

// errNoSyslog is returned when the syslog transport is requested on a
// platform without syslog.
var errNoSyslog = errors.New("syslog is not available on this platform")

func newSyslogCore(string, zapcore.LevelEnabler) (zapcore.Core, error) {
	return nil, errNoSyslog
}
