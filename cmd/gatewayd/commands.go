package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gitlab.com/scpcorp/gatewayd/persist"
	"gitlab.com/scpcorp/gatewayd/settings"
	"gitlab.com/scpcorp/gatewayd/shutdown"
)

// env is what a dispatched subcommand may use. Each variant takes only the
// parts its run needs.
type env struct {
	settings settings.Settings
	listener shutdown.Listener
	log      *persist.Logger
	stdout   io.Writer
}

// subcommand is one of keyCmd, infoCmd, serverCmd and addCmd. Errors from a
// run are returned unchanged.
type subcommand interface {
	dispatch(e env) error
}

func (c keyCmd) dispatch(e env) error    { return c.run(e.settings, e.stdout) }
func (c infoCmd) dispatch(e env) error   { return c.run(e.settings, e.stdout) }
func (c addCmd) dispatch(e env) error    { return c.run(e.settings, e.stdout) }
func (c serverCmd) dispatch(e env) error { return c.run(e.listener, e.settings, e.log) }

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
