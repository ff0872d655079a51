// Package gateway is the long-running server behind `gatewayd server`. It
// accepts uplinks from local packet forwarders over UDP, drops duplicates,
// keeps counters, and signs add-gateway transactions with the gateway key.
package gateway

import (
	"encoding/base64"
	"encoding/json"
	"net"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sasha-s/go-deadlock"
	"gitlab.com/NebulousLabs/errors"
	"gitlab.com/NebulousLabs/threadgroup"
	"golang.org/x/crypto/blake2b"

	"gitlab.com/scpcorp/gatewayd/keypair"
	"gitlab.com/scpcorp/gatewayd/modules"
	"gitlab.com/scpcorp/gatewayd/persist"
	"gitlab.com/scpcorp/gatewayd/settings"
)

// forwarderStaleAfter is how long a forwarder may go without polling before
// Info reports it as stale. Forwarders poll every few seconds.
const forwarderStaleAfter = time.Minute

var (
	errNilKeypair = errors.New("gateway cannot use a nil keypair")
	errNilLogger  = errors.New("gateway cannot use a nil logger")
	errZeroKey    = errors.New("owner and payer must be set")
)

// forwarder is a packet forwarder that polled the gateway with PULL_DATA.
type forwarder struct {
	addr     net.Addr
	lastSeen time.Time
}

// A Gateway serves local packet forwarders.
type Gateway struct {
	staticConn    net.PacketConn
	staticKeypair *keypair.Keypair
	staticRegion  settings.Region
	staticSeen    *lru.Cache

	uplinks    uint64
	duplicates uint64
	forwarders map[eui]forwarder

	log *persist.Logger
	mu  deadlock.RWMutex
	tg  threadgroup.ThreadGroup
}

// New binds the packet forwarder address from s and returns a Gateway ready
// to Serve.
func New(s settings.Settings, kp *keypair.Keypair, log *persist.Logger) (*Gateway, error) {
	conn, err := net.ListenPacket("udp", s.Listen)
	if err != nil {
		return nil, errors.AddContext(err, "unable to bind packet forwarder address")
	}
	g, err := newGateway(conn, kp, s.Region, s.DedupCache, log)
	if err != nil {
		return nil, errors.Compose(err, conn.Close())
	}
	return g, nil
}

// newGateway returns a Gateway serving conn.
func newGateway(conn net.PacketConn, kp *keypair.Keypair, region settings.Region, cacheSize int, log *persist.Logger) (*Gateway, error) {
	if kp == nil {
		return nil, errNilKeypair
	}
	if log == nil {
		return nil, errNilLogger
	}
	seen, err := lru.New(cacheSize)
	if err != nil {
		return nil, errors.AddContext(err, "unable to create uplink cache")
	}
	return &Gateway{
		staticConn:    conn,
		staticKeypair: kp,
		staticRegion:  region,
		staticSeen:    seen,
		forwarders:    make(map[eui]forwarder),
		log:           log.With("module", "gateway"),
	}, nil
}

// Serve reads packets until the gateway is closed. It returns nil after
// Close and the read error otherwise.
func (g *Gateway) Serve() error {
	g.log.Infow("packet forwarder endpoint ready", "listen", g.staticConn.LocalAddr().String())
	buf := make([]byte, maxPacketSize)
	for {
		n, addr, err := g.staticConn.ReadFrom(buf)
		if err != nil {
			select {
			case <-g.tg.StopChan():
				return nil
			default:
			}
			return errors.AddContext(err, "packet forwarder read failed")
		}
		if err := g.tg.Add(); err != nil {
			return nil
		}
		g.handlePacket(buf[:n], addr)
		g.tg.Done()
	}
}

// Close waits for the packet being handled, if any, and releases the socket.
func (g *Gateway) Close() error {
	return errors.Compose(g.tg.Stop(), g.staticConn.Close())
}

// handlePacket processes one datagram and acknowledges it.
func (g *Gateway) handlePacket(b []byte, addr net.Addr) {
	p, err := parsePacket(b)
	if err != nil {
		g.log.Debugln("dropping packet from", addr, err)
		return
	}
	switch p.ident {
	case pushData:
		g.managedPushData(p)
	case pullData:
		g.mu.Lock()
		g.forwarders[p.eui] = forwarder{addr: addr, lastSeen: time.Now()}
		g.mu.Unlock()
	case txAck:
		g.log.Debugw("tx ack", "eui", p.eui.String(), "token", p.token)
	}
	if ack := p.ack(); ack != nil {
		if _, err := g.staticConn.WriteTo(ack, addr); err != nil {
			g.log.Debugf("unable to ack %v to %v: %v", p.ident, addr, err)
		}
	}
}

// managedPushData counts the uplinks of a PUSH_DATA packet, dropping any seen
// recently.
func (g *Gateway) managedPushData(p packet) {
	if len(p.payload) == 0 {
		return
	}
	var payload pushDataPayload
	if err := json.Unmarshal(p.payload, &payload); err != nil {
		g.log.Debugf("bad PUSH_DATA from %v: %v", p.eui, err)
		return
	}
	if payload.Stat != nil {
		g.log.Debugw("forwarder status", "eui", p.eui.String(), "rxnb", payload.Stat.RXNb, "rxok", payload.Stat.RXOk)
	}
	for _, rx := range payload.RXPK {
		data, err := base64.StdEncoding.DecodeString(rx.Data)
		if err != nil {
			g.log.Debugf("bad uplink payload from %v: %v", p.eui, err)
			continue
		}
		fingerprint := blake2b.Sum256(data)
		if seen, _ := g.staticSeen.ContainsOrAdd(fingerprint, struct{}{}); seen {
			g.mu.Lock()
			g.duplicates++
			g.mu.Unlock()
			continue
		}
		g.mu.Lock()
		g.uplinks++
		g.mu.Unlock()
		g.log.Debugw("uplink", "eui", p.eui.String(), "freq", rx.Freq, "datr", rx.Datr, "rssi", rx.RSSI, "size", len(data))
	}
}

// Info implements modules.Gateway.
func (g *Gateway) Info() modules.GatewayInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var stale int
	for _, f := range g.forwarders {
		if time.Since(f.lastSeen) > forwarderStaleAfter {
			stale++
		}
	}
	return modules.GatewayInfo{
		Address:         g.staticKeypair.PublicKey().String(),
		Region:          string(g.staticRegion),
		Listen:          g.staticConn.LocalAddr().String(),
		Uplinks:         g.uplinks,
		Duplicates:      g.duplicates,
		Forwarders:      len(g.forwarders),
		StaleForwarders: stale,
	}
}

// AddGateway implements modules.Gateway.
func (g *Gateway) AddGateway(owner, payer keypair.PublicKey, mode modules.GatewayMode) (modules.AddGatewayTxn, error) {
	if err := g.tg.Add(); err != nil {
		return modules.AddGatewayTxn{}, err
	}
	defer g.tg.Done()

	if owner == (keypair.PublicKey{}) || payer == (keypair.PublicKey{}) {
		return modules.AddGatewayTxn{}, errZeroKey
	}
	txn := modules.NewAddGatewayTxn(g.staticKeypair.PublicKey(), owner, payer, mode)
	txn.Sign(g.staticKeypair)
	g.log.Infow("signed add gateway transaction", "owner", owner.String(), "payer", payer.String(), "mode", mode.String())
	return txn, nil
}
