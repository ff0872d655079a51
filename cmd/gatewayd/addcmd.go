package main

import (
	"io"

	"gitlab.com/NebulousLabs/errors"

	"gitlab.com/scpcorp/gatewayd/keypair"
	"gitlab.com/scpcorp/gatewayd/modules"
	"gitlab.com/scpcorp/gatewayd/node/api/client"
	"gitlab.com/scpcorp/gatewayd/settings"
)

// addCmd has the running gateway sign an add-gateway transaction.
type addCmd struct {
	owner keypair.PublicKey
	payer keypair.PublicKey
	mode  modules.GatewayMode
}

func (c addCmd) run(s settings.Settings, stdout io.Writer) error {
	agp, err := client.New(s.API).AddGatewayPost(c.owner.String(), c.payer.String(), c.mode.String())
	if err != nil {
		return errors.AddContext(err, "unable to create add gateway transaction")
	}
	return printJSON(stdout, agp)
}
