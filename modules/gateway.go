package modules

import (
	"gitlab.com/scpcorp/gatewayd/keypair"
)

type (
	// The Gateway receives uplinks from local packet forwarders and signs
	// requests on behalf of the gateway key.
	Gateway interface {
		// Info returns a snapshot of the gateway's identity and counters.
		Info() GatewayInfo

		// AddGateway builds and signs a transaction that adds this gateway
		// to the network under owner, paid for by payer.
		AddGateway(owner, payer keypair.PublicKey, mode GatewayMode) (AddGatewayTxn, error)

		// Close will shut down the gateway, giving the module enough time to
		// run any required closing routines.
		Close() error
	}

	// GatewayInfo is a snapshot of the running gateway.
	GatewayInfo struct {
		Address    string `json:"key"`
		Region     string `json:"region"`
		Listen     string `json:"listen"`
		Uplinks    uint64 `json:"uplinks"`
		Duplicates uint64 `json:"duplicates"`
		Forwarders int    `json:"forwarders"`
		// StaleForwarders counts forwarders that stopped polling.
		StaleForwarders int `json:"stale_forwarders"`
	}
)
