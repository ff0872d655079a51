package main

import (
	"net"

	"gitlab.com/NebulousLabs/errors"
	"golang.org/x/net/netutil"

	"gitlab.com/scpcorp/gatewayd/build"
	"gitlab.com/scpcorp/gatewayd/keypair"
	"gitlab.com/scpcorp/gatewayd/modules/gateway"
	"gitlab.com/scpcorp/gatewayd/node/api"
	"gitlab.com/scpcorp/gatewayd/persist"
	"gitlab.com/scpcorp/gatewayd/settings"
	"gitlab.com/scpcorp/gatewayd/shutdown"
)

// maxAPIConns bounds the concurrent connections to the local API.
const maxAPIConns = 64

// serverCmd runs the gateway and its API until shutdown fires.
type serverCmd struct{}

func (serverCmd) run(l shutdown.Listener, s settings.Settings, log *persist.Logger) error {
	kp, created, err := keypair.LoadOrCreate(s.Keypair)
	if err != nil {
		return errors.AddContext(err, "unable to load gateway key")
	}
	if created {
		log.Printf("Created gateway key %v in %v", kp.PublicKey(), s.Keypair)
	}

	g, err := gateway.New(s, kp, log)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", s.API)
	if err != nil {
		return errors.Compose(errors.AddContext(err, "unable to bind api address"), g.Close())
	}
	ln = netutil.LimitListener(ln, maxAPIConns)
	srv := api.New(api.DefaultUserAgent, g)

	serveErr := make(chan error, 2)
	go func() { serveErr <- g.Serve() }()
	go func() { serveErr <- srv.Serve(ln) }()
	log.Infow("gateway started",
		"version", build.VersionString(),
		"key", kp.PublicKey().String(),
		"region", s.Region,
		"listen", s.Listen,
		"api", ln.Addr().String(),
	)

	// Serve only returns nil after Close, so anything received here is a
	// failure.
	select {
	case <-l.Done():
		log.Println("Caught stop signal, quitting...")
	case err = <-serveErr:
		err = errors.AddContext(err, "gateway stopped unexpectedly")
	}
	err = errors.Compose(err, srv.Close(), g.Close())
	log.Println("Shutdown complete.")
	return err
}
