package build

import (
	"os"
	"testing"
)

// TestSettingsFile tests getting and overriding the settings file path.
func TestSettingsFile(t *testing.T) {
	// Unset any defaults, this only affects in memory state. Any Env Vars will
	// remain intact on disk
	err := os.Unsetenv(EnvvarSettingsFile)
	if err != nil {
		t.Error(err)
	}

	// Test Default SettingsFile
	if path := SettingsFile(); path != DefaultSettingsFile {
		t.Errorf("Expected settings file to be %v but was %v", DefaultSettingsFile, path)
	}

	// Test Env Variable
	t.Setenv(EnvvarSettingsFile, "foo/bar.toml")
	if path := SettingsFile(); path != "foo/bar.toml" {
		t.Errorf("Expected settings file to be %v but was %v", "foo/bar.toml", path)
	}
}

// TestPIDFile tests that the PID file is derived from the binary name.
func TestPIDFile(t *testing.T) {
	if path := PIDFile(); path != "/var/run/gatewayd.pid" {
		t.Errorf("unexpected PID file %v", path)
	}

	old := BinaryName
	BinaryName = "gw"
	defer func() { BinaryName = old }()
	if path := PIDFile(); path != "/var/run/gw.pid" {
		t.Errorf("unexpected PID file %v", path)
	}
}

// TestVersionString tests that the git revision is appended when present.
func TestVersionString(t *testing.T) {
	old := GitRevision
	defer func() { GitRevision = old }()

	GitRevision = ""
	if v := VersionString(); v != Version {
		t.Errorf("Expected %v but was %v", Version, v)
	}
	GitRevision = "abc123"
	if v := VersionString(); v != Version+"-abc123" {
		t.Errorf("Expected %v but was %v", Version+"-abc123", v)
	}
}
