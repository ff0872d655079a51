package main

import (
	"io"

	"gitlab.com/scpcorp/gatewayd/keypair"
	"gitlab.com/scpcorp/gatewayd/settings"
)

// keyCmd shows the gateway key, or creates it when create is set. A
// non-empty restore phrase recreates a backed up key instead of generating
// one.
type keyCmd struct {
	create   bool
	force    bool
	restore  string
	showSeed bool
}

// keyInfo is what the key subcommand prints.
type keyInfo struct {
	Address string `json:"address"`
	KeyFile string `json:"key_file"`
	Seed    string `json:"seed,omitempty"`
}

func (c keyCmd) run(s settings.Settings, stdout io.Writer) error {
	var kp *keypair.Keypair
	var err error
	switch {
	case c.create && c.restore != "":
		kp, err = keypair.Restore(s.Keypair, c.restore, c.force)
	case c.create:
		kp, err = keypair.Create(s.Keypair, c.force)
	default:
		kp, err = keypair.Load(s.Keypair)
	}
	if err != nil {
		return err
	}
	info := keyInfo{
		Address: kp.PublicKey().String(),
		KeyFile: s.Keypair,
	}
	if c.showSeed || (c.create && c.restore == "") {
		if info.Seed, err = kp.Phrase(); err != nil {
			return err
		}
	}
	return printJSON(stdout, info)
}
