package build

import (
	"os"
	"path/filepath"
)

const (
	// DefaultSettingsFile is the settings file used when neither the -c flag
	// nor EnvvarSettingsFile is given.
	DefaultSettingsFile = "/etc/gatewayd/settings.toml"

	// DefaultKeypairFile is where the gateway keypair lives unless the
	// settings file says otherwise.
	DefaultKeypairFile = "/etc/gatewayd/gateway_key.bin"

	// pidDir is the directory the PID file is written to when daemonizing.
	pidDir = "/var/run"
)

// SettingsFile returns the settings file path from the environment, falling
// back to DefaultSettingsFile.
func SettingsFile() string {
	if path := os.Getenv(EnvvarSettingsFile); path != "" {
		return path
	}
	return DefaultSettingsFile
}

// PIDFile returns the path of the PID file written when the daemon detaches:
// /var/run/<BinaryName>.pid
func PIDFile() string {
	return filepath.Join(pidDir, BinaryName+".pid")
}
