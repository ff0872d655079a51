package gateway

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"gitlab.com/NebulousLabs/errors"
)

// Packet forwarder protocol, version 2. Every datagram starts with
//
//	version(1) | token(2) | identifier(1)
//
// and upstream packets from a forwarder carry its 8 byte EUI next.
const (
	protocolVersion = 2
	headerLen       = 4
	euiLen          = 8

	// maxPacketSize is the largest datagram the gateway reads.
	maxPacketSize = 65535
)

// packetType is the identifier byte of a packet.
type packetType byte

const (
	pushData packetType = 0x00
	pushAck  packetType = 0x01
	pullData packetType = 0x02
	pullResp packetType = 0x03
	pullAck  packetType = 0x04
	txAck    packetType = 0x05
)

var (
	errShortPacket = errors.New("packet too short")
	errBadVersion  = errors.New("unsupported protocol version")
	errBadType     = errors.New("unexpected packet type")
)

func (t packetType) String() string {
	switch t {
	case pushData:
		return "PUSH_DATA"
	case pushAck:
		return "PUSH_ACK"
	case pullData:
		return "PULL_DATA"
	case pullResp:
		return "PULL_RESP"
	case pullAck:
		return "PULL_ACK"
	case txAck:
		return "TX_ACK"
	default:
		return fmt.Sprintf("UNKNOWN(%#x)", byte(t))
	}
}

// eui is a forwarder's gateway identifier.
type eui [euiLen]byte

func (e eui) String() string {
	return hex.EncodeToString(e[:])
}

// packet is an upstream datagram from a packet forwarder.
type packet struct {
	token   uint16
	ident   packetType
	eui     eui
	payload []byte
}

type (
	// pushDataPayload is the JSON body of a PUSH_DATA packet.
	pushDataPayload struct {
		RXPK []rxpk          `json:"rxpk"`
		Stat *forwarderStats `json:"stat,omitempty"`
	}

	// rxpk is one received radio packet.
	rxpk struct {
		Tmst uint32  `json:"tmst"`
		Freq float64 `json:"freq"`
		Chan int     `json:"chan"`
		Datr string  `json:"datr"`
		Codr string  `json:"codr"`
		RSSI int     `json:"rssi"`
		LSNR float64 `json:"lsnr"`
		Size int     `json:"size"`
		Data string  `json:"data"`
	}

	// forwarderStats is the periodic status report of a forwarder.
	forwarderStats struct {
		Time string `json:"time"`
		RXNb int    `json:"rxnb"`
		RXOk int    `json:"rxok"`
		RXFw int    `json:"rxfw"`
		TXNb int    `json:"txnb"`
	}
)

// parsePacket decodes an upstream packet. Downstream packet types are
// rejected.
func parsePacket(b []byte) (p packet, err error) {
	if len(b) < headerLen {
		return p, errShortPacket
	}
	if b[0] != protocolVersion {
		return p, errors.AddContext(errBadVersion, fmt.Sprint(b[0]))
	}
	p.token = binary.BigEndian.Uint16(b[1:3])
	p.ident = packetType(b[3])
	switch p.ident {
	case pushData, pullData, txAck:
	default:
		return p, errors.AddContext(errBadType, p.ident.String())
	}
	if len(b) < headerLen+euiLen {
		return p, errShortPacket
	}
	copy(p.eui[:], b[headerLen:headerLen+euiLen])
	p.payload = b[headerLen+euiLen:]
	return p, nil
}

// ack returns the acknowledgement the forwarder expects for p, or nil.
func (p packet) ack() []byte {
	var ident packetType
	switch p.ident {
	case pushData:
		ident = pushAck
	case pullData:
		ident = pullAck
	default:
		return nil
	}
	b := make([]byte, headerLen)
	b[0] = protocolVersion
	binary.BigEndian.PutUint16(b[1:3], p.token)
	b[3] = byte(ident)
	return b
}
