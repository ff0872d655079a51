package build

// BinaryName is the name the daemon registers under with syslog and the name
// its PID file is derived from.
var BinaryName = "gatewayd"

// Version is the current version of gatewayd.
const Version = "1.0.0"

// GitRevision and BuildTime are set at link time by the makefile.
var (
	GitRevision string
	BuildTime   string
)

// VersionString returns the version with the git revision appended, if the
// binary was built with one.
func VersionString() string {
	if GitRevision == "" {
		return Version
	}
	return Version + "-" + GitRevision
}
