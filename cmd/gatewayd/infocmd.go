package main

import (
	"io"

	"gitlab.com/NebulousLabs/errors"

	"gitlab.com/scpcorp/gatewayd/node/api/client"
	"gitlab.com/scpcorp/gatewayd/settings"
)

// infoCmd prints fields of the running gateway's state.
type infoCmd struct {
	fields []string
}

func (c infoCmd) run(s settings.Settings, stdout io.Writer) error {
	info, err := client.New(s.API).GatewayInfoGet()
	if err != nil {
		return errors.AddContext(err, "unable to query the gateway at "+s.API)
	}
	all := map[string]interface{}{
		"key":              info.Address,
		"region":           info.Region,
		"listen":           info.Listen,
		"uplinks":          info.Uplinks,
		"duplicates":       info.Duplicates,
		"forwarders":       info.Forwarders,
		"stale_forwarders": info.StaleForwarders,
		"version":          info.Version,
	}
	selected := make(map[string]interface{}, len(c.fields))
	for _, f := range c.fields {
		selected[f] = all[f]
	}
	return printJSON(stdout, selected)
}
