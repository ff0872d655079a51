package main

import (
	"context"
	"io"
	"os"

	"gitlab.com/scpcorp/gatewayd/persist"
	"gitlab.com/scpcorp/gatewayd/settings"
	"gitlab.com/scpcorp/gatewayd/shutdown"
)

// supervise runs inv.cmd next to the shutdown watcher and returns the
// command's error. The watcher starts before the command. When the command
// returns, the watcher is cancelled; one blocked reading stdin is left
// behind.
func supervise(inv invocation, s settings.Settings, log *persist.Logger, signals <-chan os.Signal, stdin io.Reader, stdout io.Writer) error {
	trigger, listener := shutdown.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var watched io.Reader
	if inv.watchStdin {
		watched = stdin
	}
	go shutdown.Watch(ctx, trigger, signals, watched)

	log.Debugw("starting", "settings", inv.settingsPath, "stdin", inv.watchStdin)
	return inv.cmd.dispatch(env{
		settings: s,
		listener: listener,
		log:      log,
		stdout:   stdout,
	})
}
