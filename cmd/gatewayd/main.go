package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"gitlab.com/NebulousLabs/errors"

	"gitlab.com/scpcorp/gatewayd/persist"
	"gitlab.com/scpcorp/gatewayd/settings"
)

// exit codes
// inspired by sysexits.h
const (
	exitCodeSuccess = 0
	exitCodeGeneral = 1  // Not in sysexits.h, but is standard practice.
	exitCodeUsage   = 64 // EX_USAGE in sysexits.h
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// realMain runs gatewayd with args and returns the exit code. Errors before
// the logger exists go to stderr; after that they go through the logger.
func realMain(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	inv, err := parseInvocation(args, stdout, stderr)
	if errors.Contains(err, errHelp) {
		return exitCodeSuccess
	} else if err != nil {
		// cobra already printed the error and the usage.
		return exitCodeUsage
	}

	if inv.daemon {
		release, child, err := daemonize()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitCodeGeneral
		}
		if !child {
			return exitCodeSuccess
		}
		defer release()
	}

	s, err := settings.Load(inv.settingsPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitCodeGeneral
	}
	log, err := newLogger(s.Log, stdout)
	if err != nil {
		fmt.Fprintln(stderr, errors.AddContext(err, "unable to create logger"))
		return exitCodeGeneral
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	code := exitCodeSuccess
	if err := supervise(inv, s, log, sigChan, stdin, stdout); err != nil {
		log.Errorln(err)
		code = exitCodeGeneral
	}
	if err := log.Close(); err != nil {
		fmt.Fprintln(stderr, err)
	}
	return code
}

// newLogger builds the logger for ls. The stdio transport writes to stdout.
func newLogger(ls settings.LogSettings, stdout io.Writer) (*persist.Logger, error) {
	if ls.Method == settings.LogMethodStdio {
		return persist.NewWriterLogger(stdout, ls)
	}
	return persist.NewLogger(ls)
}
