package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/scpcorp/gatewayd/persist"
	"gitlab.com/scpcorp/gatewayd/settings"
)

// funcCmd is a subcommand backed by a function.
type funcCmd func(env) error

func (f funcCmd) dispatch(e env) error { return f(e) }

// freeTCPAddr returns a loopback address with a port nothing listens on.
func freeTCPAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

// freeUDPAddr returns a loopback address with a UDP port nothing is bound to.
func freeUDPAddr(t *testing.T) string {
	t.Helper()
	c, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := c.LocalAddr().String()
	require.NoError(t, c.Close())
	return addr
}

// testSettings returns settings using a key file in a temporary directory.
func testSettings(t *testing.T) settings.Settings {
	t.Helper()
	s := settings.Default()
	s.Keypair = filepath.Join(t.TempDir(), "gateway_key.bin")
	s.Listen = freeUDPAddr(t)
	s.API = freeTCPAddr(t)
	s.Log.Level = settings.LogLevelDebug
	return s
}

// writeSettings writes s to a settings file and returns its path.
func writeSettings(t *testing.T, s settings.Settings) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := fmt.Sprintf(`keypair = %q
listen = %q
api = %q
region = %q
dedup_cache = %d

[log]
method = %q
level = %q
timestamp = %v
`, s.Keypair, s.Listen, s.API, s.Region, s.DedupCache, s.Log.Method, s.Log.Level, s.Log.Timestamp)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// testLogger returns a logger discarding its output.
func testLogger(t *testing.T) *persist.Logger {
	t.Helper()
	log, err := persist.NewWriterLogger(io.Discard, settings.LogSettings{
		Method: settings.LogMethodStdio,
		Level:  settings.LogLevelDebug,
	})
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}
