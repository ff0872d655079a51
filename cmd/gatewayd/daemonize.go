package main

import (
	daemon "github.com/sevlyar/go-daemon"
	"gitlab.com/NebulousLabs/errors"

	"gitlab.com/scpcorp/gatewayd/build"
)

// daemonize re-executes the process detached from the terminal. The parent
// gets child == false and should exit. The child gets child == true and owns
// the locked PID file until it calls release.
func daemonize() (release func() error, child bool, err error) {
	ctx := &daemon.Context{
		PidFileName: build.PIDFile(),
		PidFilePerm: 0644,
		WorkDir:     "/",
		Umask:       027,
	}
	proc, err := ctx.Reborn()
	if err != nil {
		return nil, false, errors.AddContext(err, "unable to daemonize")
	}
	if proc != nil {
		return nil, false, nil
	}
	return ctx.Release, true, nil
}
